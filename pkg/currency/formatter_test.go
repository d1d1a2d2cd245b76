package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{amount: 4725, code: "BDT", want: "BDT 4,725"},
		{amount: 120000.5, code: "BDT", want: "BDT 120,001"},
		{amount: 999, code: "USD", want: "USD 999"},
		{amount: 1234567, code: "BDT", want: "BDT 1,234,567"},
		{amount: -4500, code: "BDT", want: "-BDT 4,500"},
		{amount: 0, code: "BDT", want: "BDT 0"},
		{amount: 500, code: "", want: "BDT 500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.amount, tt.code))
	}
}

func TestFormatBDT(t *testing.T) {
	assert.Equal(t, "BDT 12,500", FormatBDT(12500))
}
