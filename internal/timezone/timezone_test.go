package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OffsetQualified(t *testing.T) {
	got, err := Parse("2026-09-15T10:30:00+06:00", "DAC")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15T10:30:00+06:00", got.Format(time.RFC3339))
}

func TestParse_BareLocalTimeUsesAirportZone(t *testing.T) {
	dhaka, err := Parse("2026-09-15T10:30:00", "DAC")
	require.NoError(t, err)
	_, offset := dhaka.Zone()
	assert.Equal(t, 6*3600, offset)

	dubai, err := Parse("2026-09-15T10:30:00", "DXB")
	require.NoError(t, err)
	_, offset = dubai.Zone()
	assert.Equal(t, 4*3600, offset)

	// Same wall-clock time, two hours apart on the real timeline.
	assert.Equal(t, 2*time.Hour, dubai.Sub(dhaka))
}

func TestParse_UnknownAirportFallsBackToBST(t *testing.T) {
	got, err := Parse("2026-09-15 08:00:00", "XXX")
	require.NoError(t, err)
	_, offset := got.Zone()
	assert.Equal(t, 6*3600, offset)
}

func TestParse_Unparseable(t *testing.T) {
	_, err := Parse("soon", "DAC")
	assert.Error(t, err)
}
