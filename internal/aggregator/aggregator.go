package aggregator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/abdurrazzak7395/travelapi/internal/models"
	"github.com/abdurrazzak7395/travelapi/internal/ratelimit"
	"github.com/abdurrazzak7395/travelapi/internal/supplier"
)

// SourceAll selects every registered supplier.
const SourceAll = "all"

type Config struct {
	RateLimiter *ratelimit.SupplierLimiter
}

// Aggregator fans one unified search out to the selected suppliers, isolates
// per-supplier failures and merges the normalized offers. Dispatch order is
// registration order, which also fixes the merge order.
type Aggregator struct {
	suppliers []supplier.Supplier
	byName    map[string]supplier.Supplier
	limiter   *ratelimit.SupplierLimiter
}

// Result is the merged outcome of one fan-out: the concatenated offer
// sequence from every supplier that succeeded, plus the recorded failures.
type Result struct {
	Offers   []models.Offer
	Failures []Failure
}

// Failure records one supplier's terminal error.
type Failure struct {
	Supplier string
	Err      error
}

// UnknownSourceError is a selector naming no registered supplier.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("Invalid source specified: %s", e.Source)
}

// AllSuppliersFailedError means every targeted supplier reached a failure
// state, so there is no merged sequence to return.
type AllSuppliersFailedError struct {
	Failures []Failure
}

func (e *AllSuppliersFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Supplier, f.Err))
	}
	return "all suppliers failed: " + strings.Join(parts, "; ")
}

func New(suppliers []supplier.Supplier, cfg Config) *Aggregator {
	byName := make(map[string]supplier.Supplier, len(suppliers))
	for _, s := range suppliers {
		byName[s.Name()] = s
	}
	return &Aggregator{
		suppliers: suppliers,
		byName:    byName,
		limiter:   cfg.RateLimiter,
	}
}

// Suppliers returns the registered suppliers in dispatch order.
func (a *Aggregator) Suppliers() []supplier.Supplier {
	return a.suppliers
}

func (a *Aggregator) resolve(source string) ([]supplier.Supplier, error) {
	if source == SourceAll {
		return a.suppliers, nil
	}
	if s, ok := a.byName[source]; ok {
		return []supplier.Supplier{s}, nil
	}
	return nil, &UnknownSourceError{Source: source}
}

// Search resolves the selector, dispatches one goroutine per target supplier
// and waits for every task to reach a terminal state. A supplier's failure
// never cancels or delays its siblings; it is recorded and contributes zero
// offers. Only when every target fails does the whole search fail.
func (a *Aggregator) Search(ctx context.Context, req *models.SearchRequest) (*Result, error) {
	targets, err := a.resolve(req.Source)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		supplier string
		offers   []models.Offer
		err      error
	}

	// One slot per target, written only by that target's goroutine. Slot
	// order is dispatch order.
	outcomes := make([]outcome, len(targets))

	var wg sync.WaitGroup
	for i, s := range targets {
		wg.Add(1)
		go func(i int, s supplier.Supplier) {
			defer wg.Done()

			if a.limiter != nil {
				if err := a.limiter.Wait(ctx, s.Name()); err != nil {
					outcomes[i] = outcome{supplier: s.Name(), err: err}
					return
				}
			}

			offers, err := s.Search(ctx, req)
			outcomes[i] = outcome{supplier: s.Name(), offers: offers, err: err}
		}(i, s)
	}
	wg.Wait()

	result := &Result{Offers: make([]models.Offer, 0)}
	for _, oc := range outcomes {
		if oc.err != nil {
			log.Printf("supplier %s failed: %v", oc.supplier, oc.err)
			result.Failures = append(result.Failures, Failure{Supplier: oc.supplier, Err: oc.err})
			continue
		}
		result.Offers = append(result.Offers, oc.offers...)
	}

	if len(targets) > 0 && len(result.Failures) == len(targets) {
		return nil, &AllSuppliersFailedError{Failures: result.Failures}
	}
	return result, nil
}

// Paginate slices one page out of the merged sequence. TotalFlights always
// counts the full sequence; a page past the end is empty, not an error.
// Page and size below 1 are treated as 1; handlers reject them before this
// point.
func Paginate(offers []models.Offer, page, size int) *models.SearchResult {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	total := len(offers)

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	flights := offers[start:end]
	if flights == nil {
		flights = []models.Offer{}
	}

	return &models.SearchResult{
		Page:         page,
		Size:         size,
		TotalFlights: total,
		Flights:      flights,
	}
}
