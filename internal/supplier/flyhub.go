package supplier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/abdurrazzak7395/travelapi/internal/credential"
	"github.com/abdurrazzak7395/travelapi/internal/models"
	"github.com/abdurrazzak7395/travelapi/internal/timezone"
	"github.com/abdurrazzak7395/travelapi/pkg/currency"
)

const flyhubName = "flyhub"

// FlyHub native AirSearch shapes.
type fhAirSearchRequest struct {
	AdultQuantity  int            `json:"AdultQuantity"`
	ChildQuantity  int            `json:"ChildQuantity"`
	InfantQuantity int            `json:"InfantQuantity"`
	EndUserIP      string         `json:"EndUserIp"`
	JourneyType    string         `json:"JourneyType"`
	Segments       []fhSegmentReq `json:"Segments"`
}

type fhSegmentReq struct {
	Origin            string `json:"Origin"`
	Destination       string `json:"Destination"`
	CabinClass        string `json:"CabinClass"`
	DepartureDateTime string `json:"DepartureDateTime"`
}

type fhAuthRequest struct {
	Username string `json:"username"`
	APIKey   string `json:"apikey"`
}

type fhAuthResponse struct {
	TokenID   string `json:"TokenId"`
	ExpiresIn int    `json:"ExpiresIn"`
	Status    string `json:"Status"`
	Message   string `json:"Message"`
}

type fhAirSearchResponse struct {
	SearchID string     `json:"SearchId"`
	Results  []fhResult `json:"Results"`
}

type fhResult struct {
	ResultID          string      `json:"ResultID"`
	IsRefundable      bool        `json:"IsRefundable"`
	ValidatingCarrier string      `json:"Validatingcarrier"`
	Availabilty       int         `json:"Availabilty"` // spelling is FlyHub's
	Fares             []fhFare    `json:"Fares"`
	Segments          []fhSegment `json:"segments"`
}

type fhFare struct {
	BaseFare float64 `json:"BaseFare"`
	Tax      float64 `json:"Tax"`
	Currency string  `json:"Currency"`
	PaxType  string  `json:"PaxType"`
}

type fhSegment struct {
	Origin      fhPoint     `json:"Origin"`
	Destination fhPoint     `json:"Destination"`
	Airline     fhAirline   `json:"Airline"`
	Baggage     []fhBaggage `json:"baggageDetails"`
}

type fhPoint struct {
	Airport fhAirport `json:"Airport"`
	DepTime string    `json:"DepTime,omitempty"`
	ArrTime string    `json:"ArrTime,omitempty"`
}

type fhAirport struct {
	AirportCode string `json:"AirportCode"`
}

type fhAirline struct {
	AirlineCode  string `json:"AirlineCode"`
	AirlineName  string `json:"AirlineName"`
	FlightNumber string `json:"FlightNumber"`
	CabinClass   string `json:"CabinClass"`
}

type fhBaggage struct {
	Checkin string `json:"Checkin"`
	Cabin   string `json:"Cabin"`
	PaxType string `json:"PaxType"`
}

type FlyHubConfig struct {
	BaseURL   string
	Username  string
	APIKey    string
	EndUserIP string
	Timeout   time.Duration
}

// FlyHub talks to the FlyHub API. Search and balance calls carry a bearer
// token obtained from Authenticate and held in a per-supplier credential
// cache; an expired token is refreshed before the call.
type FlyHub struct {
	caller    httpCaller
	baseURL   string
	username  string
	apiKey    string
	endUserIP string
	tokens    *credential.Cache
}

func NewFlyHub(cfg FlyHubConfig) (*FlyHub, error) {
	if cfg.BaseURL == "" || cfg.Username == "" || cfg.APIKey == "" {
		return nil, errors.New("flyhub: base URL, username and API key are required")
	}
	if cfg.EndUserIP == "" {
		cfg.EndUserIP = "127.0.0.1"
	}
	s := &FlyHub{
		caller:    newHTTPCaller(flyhubName, cfg.Timeout),
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		username:  cfg.Username,
		apiKey:    cfg.APIKey,
		endUserIP: cfg.EndUserIP,
	}
	s.tokens = credential.NewCache(s.authenticate)
	return s, nil
}

func (s *FlyHub) Name() string {
	return flyhubName
}

func (s *FlyHub) url(path string) string {
	return s.baseURL + "/" + path
}

func (s *FlyHub) authenticate(ctx context.Context) (string, time.Duration, error) {
	payload := fhAuthRequest{Username: s.username, APIKey: s.apiKey}

	var resp fhAuthResponse
	if err := s.caller.postJSON(ctx, s.url("Authenticate"), nil, payload, &resp); err != nil {
		return "", 0, err
	}
	if resp.TokenID == "" {
		return "", 0, &DecodeError{Supplier: flyhubName, Err: errors.New("authentication response missing TokenId")}
	}
	return resp.TokenID, time.Duration(resp.ExpiresIn) * time.Second, nil
}

func (s *FlyHub) bearer(ctx context.Context) (map[string]string, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, &AuthenticationError{Supplier: flyhubName, Err: err}
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (s *FlyHub) Search(ctx context.Context, req *models.SearchRequest) ([]models.Offer, error) {
	headers, err := s.bearer(ctx)
	if err != nil {
		return nil, err
	}

	payload := buildFlyHubSearchRequest(req, s.endUserIP)

	var resp fhAirSearchResponse
	if err := s.caller.postJSON(ctx, s.url("AirSearch"), headers, payload, &resp); err != nil {
		return nil, err
	}
	return s.normalize(&resp), nil
}

// Price calls AirPrice for one result from an earlier AirSearch response.
// FlyHub prices a single result per call; offerIDs holds native result IDs.
func (s *FlyHub) Price(ctx context.Context, traceID string, offerIDs []string) (json.RawMessage, error) {
	if len(offerIDs) == 0 {
		return nil, errors.New("flyhub: at least one result id is required")
	}
	headers, err := s.bearer(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"SearchID": traceID,
		"ResultID": offerIDs[0],
	}

	var raw json.RawMessage
	if err := s.caller.postJSON(ctx, s.url("AirPrice"), headers, payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *FlyHub) Balance(ctx context.Context) (json.RawMessage, error) {
	headers, err := s.bearer(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{"UserName": s.username}

	var raw json.RawMessage
	if err := s.caller.postJSON(ctx, s.url("GetBalance"), headers, payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// buildFlyHubSearchRequest maps the unified request onto FlyHub's AirSearch
// shape: passenger-type counts, coded journey type and cabin class, one
// segment per origin-destination pair.
func buildFlyHubSearchRequest(req *models.SearchRequest, endUserIP string) fhAirSearchRequest {
	out := fhAirSearchRequest{EndUserIP: endUserIP}

	for _, pax := range req.Request.Pax {
		switch strings.ToUpper(pax.PTC) {
		case "ADT":
			out.AdultQuantity++
		case "CHD":
			out.ChildQuantity++
		case "INF":
			out.InfantQuantity++
		}
	}

	criteria := req.Request.ShoppingCriteria
	switch strings.ToLower(criteria.TripType) {
	case "oneway":
		out.JourneyType = "1"
	case "return", "roundtrip":
		out.JourneyType = "2"
	default:
		out.JourneyType = "3"
	}

	cabin := "1"
	if !strings.EqualFold(criteria.TravelPreferences.CabinCode, "economy") {
		cabin = "2"
	}

	for _, od := range req.Request.OriginDest {
		out.Segments = append(out.Segments, fhSegmentReq{
			Origin:            od.OriginDepRequest.IATALocationCode,
			Destination:       od.DestArrivalRequest.IATALocationCode,
			CabinClass:        cabin,
			DepartureDateTime: od.OriginDepRequest.Date,
		})
	}

	return out
}

func (s *FlyHub) normalize(resp *fhAirSearchResponse) []models.Offer {
	offers := make([]models.Offer, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ResultID == "" {
			continue
		}

		offer := models.Offer{
			ID:             flyhubName + "-" + r.ResultID,
			Source:         flyhubName,
			TraceID:        resp.SearchID,
			Airline:        models.Airline{Code: r.ValidatingCarrier},
			Refundable:     r.IsRefundable,
			AvailableSeats: r.Availabilty,
		}

		for _, f := range r.Fares {
			offer.Fare.Base += f.BaseFare
			offer.Fare.Tax += f.Tax
			offer.Fare.Total += f.BaseFare + f.Tax
			if offer.Fare.Currency == "" {
				offer.Fare.Currency = f.Currency
			}
		}
		offer.Fare.Formatted = currency.Format(offer.Fare.Total, offer.Fare.Currency)

		for _, seg := range r.Segments {
			dep, err := timezone.Parse(seg.Origin.DepTime, seg.Origin.Airport.AirportCode)
			if err != nil {
				continue
			}
			arr, err := timezone.Parse(seg.Destination.ArrTime, seg.Destination.Airport.AirportCode)
			if err != nil {
				continue
			}
			if offer.Airline.Name == "" {
				offer.Airline.Name = seg.Airline.AirlineName
			}
			offer.Segments = append(offer.Segments, models.Segment{
				Origin:           seg.Origin.Airport.AirportCode,
				Destination:      seg.Destination.Airport.AirportCode,
				DepartureTime:    dep,
				ArrivalTime:      arr,
				MarketingCarrier: seg.Airline.AirlineCode,
				FlightNumber:     seg.Airline.FlightNumber,
				CabinClass:       seg.Airline.CabinClass,
			})

			for _, b := range seg.Baggage {
				if b.PaxType == "" || strings.EqualFold(b.PaxType, "Adult") || b.PaxType == "ADT" {
					if kg := parseKg(b.Checkin); kg > 0 {
						offer.Baggage.CheckedKg = kg
					}
					if kg := parseKg(b.Cabin); kg > 0 {
						offer.Baggage.CabinKg = kg
					}
				}
			}
		}
		if len(offer.Segments) > 0 {
			offer.Stops = len(offer.Segments) - 1
		}

		offers = append(offers, offer)
	}
	return offers
}
