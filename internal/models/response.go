package models

import "encoding/json"

// SearchResult is one page of the merged offer list. TotalFlights counts the
// full merged sequence before pagination.
type SearchResult struct {
	Page         int     `json:"page"`
	Size         int     `json:"size"`
	TotalFlights int     `json:"total_flights"`
	Flights      []Offer `json:"flights"`
}

type SupplierFailure struct {
	Supplier string `json:"supplier"`
	Error    string `json:"error"`
}

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Code     int               `json:"code"`
	Failures []SupplierFailure `json:"failures,omitempty"`
}

// OfferPriceRequest re-prices offers from an earlier search. The supplier
// prefix on the offer IDs determines which supplier receives the call.
type OfferPriceRequest struct {
	TraceID  string   `json:"traceId"`
	OfferIDs []string `json:"offerIds"`
}

type OfferPriceResponse struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}

type BalanceResponse struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}
