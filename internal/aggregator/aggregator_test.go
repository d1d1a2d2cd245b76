package aggregator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdurrazzak7395/travelapi/internal/models"
	"github.com/abdurrazzak7395/travelapi/internal/ratelimit"
	"github.com/abdurrazzak7395/travelapi/internal/supplier"
)

type fakeSupplier struct {
	name   string
	offers []models.Offer
	err    error
	delay  time.Duration
	calls  int32
}

func (f *fakeSupplier) Name() string { return f.name }

func (f *fakeSupplier) Search(ctx context.Context, req *models.SearchRequest) ([]models.Offer, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func offersWithIDs(ids ...string) []models.Offer {
	offers := make([]models.Offer, 0, len(ids))
	for _, id := range ids {
		offers = append(offers, models.Offer{ID: id})
	}
	return offers
}

func searchRequest(source string) *models.SearchRequest {
	return &models.SearchRequest{
		PointOfSale: "BD",
		Source:      source,
		Request: &models.ShoppingRequest{
			OriginDest: []models.OriginDest{{
				OriginDepRequest:   models.OriginDepRequest{IATALocationCode: "JSR", Date: "2026-09-15"},
				DestArrivalRequest: models.DestArrivalRequest{IATALocationCode: "DAC"},
			}},
			Pax: []models.Pax{{PaxID: "PAX1", PTC: "ADT"}},
		},
	}
}

func TestSearch_MergePreservesDispatchOrder(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", offers: offersWithIDs("bd-1", "bd-2", "bd-3")}
	flyhub := &fakeSupplier{name: "flyhub", offers: offersWithIDs("fh-1", "fh-2"), delay: 30 * time.Millisecond}

	// flyhub is slower than bdfare but dispatch order, not completion order,
	// decides the merge.
	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{})

	result, err := agg.Search(context.Background(), searchRequest(SourceAll))
	require.NoError(t, err)
	require.Len(t, result.Offers, 5)

	ids := make([]string, 0, len(result.Offers))
	for _, o := range result.Offers {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"bd-1", "bd-2", "bd-3", "fh-1", "fh-2"}, ids)
	assert.Empty(t, result.Failures)
}

func TestSearch_SingleSourceQueriesOnlyThatSupplier(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", offers: offersWithIDs("bd-1")}
	flyhub := &fakeSupplier{name: "flyhub", offers: offersWithIDs("fh-1")}
	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{})

	result, err := agg.Search(context.Background(), searchRequest("flyhub"))
	require.NoError(t, err)
	require.Len(t, result.Offers, 1)
	assert.Equal(t, "fh-1", result.Offers[0].ID)
	assert.EqualValues(t, 0, atomic.LoadInt32(&bdfare.calls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&flyhub.calls))
}

func TestSearch_PartialFailureIsContained(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", offers: offersWithIDs("bd-1", "bd-2")}
	flyhub := &fakeSupplier{name: "flyhub", err: &supplier.TransportError{Supplier: "flyhub", Err: errors.New("connection refused")}}
	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{})

	result, err := agg.Search(context.Background(), searchRequest(SourceAll))
	require.NoError(t, err)
	assert.Len(t, result.Offers, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "flyhub", result.Failures[0].Supplier)
}

func TestSearch_FastFailureDoesNotCancelSlowSibling(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", err: errors.New("boom")}
	flyhub := &fakeSupplier{name: "flyhub", offers: offersWithIDs("fh-1"), delay: 50 * time.Millisecond}
	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{})

	result, err := agg.Search(context.Background(), searchRequest(SourceAll))
	require.NoError(t, err)
	require.Len(t, result.Offers, 1)
	assert.Equal(t, "fh-1", result.Offers[0].ID)
}

func TestSearch_AllSuppliersFailed(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", err: &supplier.UpstreamError{Supplier: "bdfare", StatusCode: 500, Body: "oops"}}
	flyhub := &fakeSupplier{name: "flyhub", err: &supplier.AuthenticationError{Supplier: "flyhub", Err: errors.New("bad key")}}
	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{})

	result, err := agg.Search(context.Background(), searchRequest(SourceAll))
	assert.Nil(t, result)

	var allFailed *AllSuppliersFailedError
	require.ErrorAs(t, err, &allFailed)
	require.Len(t, allFailed.Failures, 2)
	assert.Equal(t, "bdfare", allFailed.Failures[0].Supplier)
	assert.Equal(t, "flyhub", allFailed.Failures[1].Supplier)
}

func TestSearch_UnknownSource(t *testing.T) {
	agg := New([]supplier.Supplier{&fakeSupplier{name: "bdfare"}}, Config{})

	_, err := agg.Search(context.Background(), searchRequest("xyz"))

	var unknown *UnknownSourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Invalid source specified: xyz", unknown.Error())
}

func TestSearch_LimiterFailureCountsAsSupplierFailure(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", offers: offersWithIDs("bd-1")}
	flyhub := &fakeSupplier{name: "flyhub", offers: offersWithIDs("fh-1")}

	limiter := ratelimit.NewSupplierLimiterWithDefaults()
	// A zero burst can never hand out a token, so the wait fails at once.
	limiter.SetSupplierLimit("bdfare", 1, 0)

	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{RateLimiter: limiter})

	result, err := agg.Search(context.Background(), searchRequest(SourceAll))
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bdfare", result.Failures[0].Supplier)
	assert.EqualValues(t, 0, atomic.LoadInt32(&bdfare.calls), "a supplier whose limiter wait fails must not be dispatched")

	require.Len(t, result.Offers, 1)
	assert.Equal(t, "fh-1", result.Offers[0].ID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&flyhub.calls))
}

func TestSearch_LimiterDeadlineRecordedAsFailure(t *testing.T) {
	bdfare := &fakeSupplier{name: "bdfare", offers: offersWithIDs("bd-1")}
	flyhub := &fakeSupplier{name: "flyhub", offers: offersWithIDs("fh-1")}

	limiter := ratelimit.NewSupplierLimiterWithDefaults()
	limiter.SetSupplierLimit("bdfare", 0.1, 1)
	require.NoError(t, limiter.Wait(context.Background(), "bdfare"), "drain the single token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	agg := New([]supplier.Supplier{bdfare, flyhub}, Config{RateLimiter: limiter})

	result, err := agg.Search(ctx, searchRequest(SourceAll))
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bdfare", result.Failures[0].Supplier)
	assert.EqualValues(t, 0, atomic.LoadInt32(&bdfare.calls))

	require.Len(t, result.Offers, 1)
	assert.Equal(t, "fh-1", result.Offers[0].ID)
}

func TestPaginate(t *testing.T) {
	merged := offersWithIDs("bd-1", "bd-2", "bd-3", "fh-1", "fh-2")

	tests := []struct {
		name      string
		page      int
		size      int
		wantIDs   []string
		wantTotal int
	}{
		{name: "first page clamps at sequence end", page: 1, size: 4, wantIDs: []string{"bd-1", "bd-2", "bd-3", "fh-1"}, wantTotal: 5},
		{name: "second page holds the remainder", page: 2, size: 4, wantIDs: []string{"fh-2"}, wantTotal: 5},
		{name: "page past the end is empty", page: 3, size: 4, wantIDs: []string{}, wantTotal: 5},
		{name: "size larger than sequence", page: 1, size: 50, wantIDs: []string{"bd-1", "bd-2", "bd-3", "fh-1", "fh-2"}, wantTotal: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Paginate(merged, tt.page, tt.size)
			assert.Equal(t, tt.page, result.Page)
			assert.Equal(t, tt.size, result.Size)
			assert.Equal(t, tt.wantTotal, result.TotalFlights)

			ids := make([]string, 0, len(result.Flights))
			for _, o := range result.Flights {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.LessOrEqual(t, len(result.Flights), tt.size)
		})
	}
}

func TestPaginate_ConsecutivePagesAreDisjointAndCover(t *testing.T) {
	ids := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		ids = append(ids, string(rune('a'+i%26))+"-"+string(rune('0'+i%10)))
	}
	merged := offersWithIDs(ids...)

	first := Paginate(merged, 1, 50)
	second := Paginate(merged, 2, 50)

	combined := append(append([]models.Offer{}, first.Flights...), second.Flights...)
	assert.Equal(t, merged[:100], combined)
	assert.Equal(t, 120, first.TotalFlights)
	assert.Equal(t, 120, second.TotalFlights)
}

func TestPaginate_ClampsInvalidPageAndSize(t *testing.T) {
	merged := offersWithIDs("bd-1", "bd-2")

	result := Paginate(merged, 0, -3)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.Size)
	assert.Equal(t, 2, result.TotalFlights)
	require.Len(t, result.Flights, 1)
	assert.Equal(t, "bd-1", result.Flights[0].ID)
}

func TestPaginate_EmptySequence(t *testing.T) {
	result := Paginate(nil, 1, 50)
	assert.Equal(t, 0, result.TotalFlights)
	assert.NotNil(t, result.Flights)
	assert.Empty(t, result.Flights)
}
