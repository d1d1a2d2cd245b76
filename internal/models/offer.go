package models

import "time"

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

type Fare struct {
	Base      float64 `json:"base"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type Segment struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	MarketingCarrier string    `json:"marketing_carrier"`
	FlightNumber     string    `json:"flight_number"`
	CabinClass       string    `json:"cabin_class"`
}

type Baggage struct {
	CabinKg   float64 `json:"cabin_kg"`
	CheckedKg float64 `json:"checked_kg"`
}

// Offer is one priced, bookable flight option in the unified schema. ID is
// prefixed with the source supplier's name ("bdfare-...", "flyhub-...") so a
// later price or book call can be routed back to the supplier that produced
// it. TraceID carries the supplier's search session reference for the same
// purpose.
type Offer struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	TraceID        string    `json:"trace_id,omitempty"`
	Airline        Airline   `json:"airline"`
	Refundable     bool      `json:"refundable"`
	Fare           Fare      `json:"fare"`
	Segments       []Segment `json:"segments"`
	Stops          int       `json:"stops"`
	Baggage        Baggage   `json:"baggage"`
	AvailableSeats int       `json:"available_seats,omitempty"`
}
