package supplier

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/abdurrazzak7395/travelapi/internal/models"
	"github.com/abdurrazzak7395/travelapi/internal/timezone"
	"github.com/abdurrazzak7395/travelapi/pkg/currency"
)

const bdfareName = "bdfare"

// BDFare native AirShopping shapes. The request side is a passthrough of the
// unified payload since the unified schema follows BDFare's.
type bdAirShoppingRequest struct {
	PointOfSale string                  `json:"pointOfSale"`
	Request     *models.ShoppingRequest `json:"request"`
}

type bdAirShoppingResponse struct {
	Message  string            `json:"message"`
	Response *bdShoppingsReply `json:"response"`
}

type bdShoppingsReply struct {
	TraceID     string         `json:"traceId"`
	OffersGroup []bdOfferGroup `json:"offersGroup"`
}

type bdOfferGroup struct {
	Offer bdOffer `json:"offer"`
}

type bdOffer struct {
	OfferID              string          `json:"offerId"`
	ValidatingCarrier    string          `json:"validatingCarrier"`
	Refundable           bool            `json:"refundable"`
	FareDetailList       []bdFareDetail  `json:"fareDetailList"`
	PaxSegmentList       []bdPaxSegment  `json:"paxSegmentList"`
	BaggageAllowanceList []bdBaggageItem `json:"baggageAllowanceList"`
	SeatsRemaining       int             `json:"seatsRemaining"`
}

type bdFareDetail struct {
	FareDetail struct {
		BaseFare float64 `json:"baseFare"`
		Tax      float64 `json:"tax"`
		SubTotal float64 `json:"subTotal"`
		Currency string  `json:"currency"`
		PaxType  string  `json:"paxType"`
	} `json:"fareDetail"`
}

type bdPaxSegment struct {
	PaxSegment struct {
		Departure            bdEndpoint `json:"departure"`
		Arrival              bdEndpoint `json:"arrival"`
		MarketingCarrierInfo bdCarrier  `json:"marketingCarrierInfo"`
		CabinType            string     `json:"cabinType"`
	} `json:"paxSegment"`
}

type bdEndpoint struct {
	IATALocationCode          string `json:"iatA_LocationCode"`
	AircraftScheduledDateTime string `json:"aircraftScheduledDateTime"`
}

type bdCarrier struct {
	CarrierDesigCode             string `json:"carrierDesigCode"`
	CarrierName                  string `json:"carrierName"`
	MarketingCarrierFlightNumber string `json:"marketingCarrierFlightNumber"`
}

type bdBaggageItem struct {
	BaggageAllowance struct {
		CheckIn []struct {
			PaxType   string `json:"paxType"`
			Allowance string `json:"allowance"`
		} `json:"checkIn"`
		Cabin []struct {
			PaxType   string `json:"paxType"`
			Allowance string `json:"allowance"`
		} `json:"cabin"`
	} `json:"baggageAllowance"`
}

type BDFareConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// BDFare talks to the BDFare NDC API. Authentication is a static API key
// header, so no credential cache is involved.
type BDFare struct {
	caller  httpCaller
	baseURL string
	apiKey  string
}

func NewBDFare(cfg BDFareConfig) (*BDFare, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("bdfare: base URL and API key are required")
	}
	return &BDFare{
		caller:  newHTTPCaller(bdfareName, cfg.Timeout),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

func (s *BDFare) Name() string {
	return bdfareName
}

func (s *BDFare) headers() map[string]string {
	return map[string]string{"X-API-KEY": s.apiKey}
}

func (s *BDFare) Search(ctx context.Context, req *models.SearchRequest) ([]models.Offer, error) {
	payload := bdAirShoppingRequest{
		PointOfSale: req.PointOfSale,
		Request:     req.Request,
	}

	var resp bdAirShoppingResponse
	if err := s.caller.postJSON(ctx, s.baseURL+"/AirShopping", s.headers(), payload, &resp); err != nil {
		return nil, err
	}
	return s.normalize(&resp), nil
}

// Price calls OfferPrice for offers from an earlier AirShopping response.
// offerIDs are native BDFare offer IDs, prefixes already stripped.
func (s *BDFare) Price(ctx context.Context, traceID string, offerIDs []string) (json.RawMessage, error) {
	payload := map[string]any{
		"traceId": traceID,
		"offerId": offerIDs,
	}

	var raw json.RawMessage
	if err := s.caller.postJSON(ctx, s.baseURL+"/OfferPrice", s.headers(), payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *BDFare) Balance(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.caller.postJSON(ctx, s.baseURL+"/GetBalance", s.headers(), struct{}{}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *BDFare) normalize(resp *bdAirShoppingResponse) []models.Offer {
	if resp.Response == nil {
		return nil
	}

	offers := make([]models.Offer, 0, len(resp.Response.OffersGroup))
	for _, group := range resp.Response.OffersGroup {
		native := group.Offer
		if native.OfferID == "" {
			continue
		}

		offer := models.Offer{
			ID:             bdfareName + "-" + native.OfferID,
			Source:         bdfareName,
			TraceID:        resp.Response.TraceID,
			Airline:        models.Airline{Code: native.ValidatingCarrier},
			Refundable:     native.Refundable,
			AvailableSeats: native.SeatsRemaining,
		}

		for _, fd := range native.FareDetailList {
			offer.Fare.Base += fd.FareDetail.BaseFare
			offer.Fare.Tax += fd.FareDetail.Tax
			offer.Fare.Total += fd.FareDetail.SubTotal
			if offer.Fare.Currency == "" {
				offer.Fare.Currency = fd.FareDetail.Currency
			}
		}
		offer.Fare.Formatted = currency.Format(offer.Fare.Total, offer.Fare.Currency)

		for _, ps := range native.PaxSegmentList {
			seg := ps.PaxSegment
			dep, err := timezone.Parse(seg.Departure.AircraftScheduledDateTime, seg.Departure.IATALocationCode)
			if err != nil {
				continue
			}
			arr, err := timezone.Parse(seg.Arrival.AircraftScheduledDateTime, seg.Arrival.IATALocationCode)
			if err != nil {
				continue
			}
			if offer.Airline.Name == "" {
				offer.Airline.Name = seg.MarketingCarrierInfo.CarrierName
			}
			offer.Segments = append(offer.Segments, models.Segment{
				Origin:           seg.Departure.IATALocationCode,
				Destination:      seg.Arrival.IATALocationCode,
				DepartureTime:    dep,
				ArrivalTime:      arr,
				MarketingCarrier: seg.MarketingCarrierInfo.CarrierDesigCode,
				FlightNumber:     seg.MarketingCarrierInfo.MarketingCarrierFlightNumber,
				CabinClass:       seg.CabinType,
			})
		}
		if len(offer.Segments) > 0 {
			offer.Stops = len(offer.Segments) - 1
		}

		for _, item := range native.BaggageAllowanceList {
			for _, b := range item.BaggageAllowance.CheckIn {
				if b.PaxType == "" || strings.EqualFold(b.PaxType, "Adult") || b.PaxType == "ADT" {
					offer.Baggage.CheckedKg = parseKg(b.Allowance)
				}
			}
			for _, b := range item.BaggageAllowance.Cabin {
				if b.PaxType == "" || strings.EqualFold(b.PaxType, "Adult") || b.PaxType == "ADT" {
					offer.Baggage.CabinKg = parseKg(b.Allowance)
				}
			}
		}

		offers = append(offers, offer)
	}
	return offers
}

// parseKg reads allowance strings like "20 Kg", "20Kg" or "2 pieces"
// (pieces yield zero, only weight allowances are normalized).
func parseKg(allowance string) float64 {
	s := strings.ToLower(strings.TrimSpace(allowance))
	if !strings.Contains(s, "kg") {
		return 0
	}
	num := strings.TrimSpace(strings.TrimSuffix(s, "kg"))
	num = strings.TrimSpace(strings.Split(num, " ")[0])
	kg, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return kg
}
