package models

// SearchRequest is the unified air-shopping payload accepted by the combined
// search endpoint. The shape follows the BDFare AirShopping request; other
// suppliers receive it through their own request adapters.
type SearchRequest struct {
	PointOfSale string           `json:"pointOfSale"`
	Source      string           `json:"source"`
	Request     *ShoppingRequest `json:"request,omitempty"`
}

type ShoppingRequest struct {
	OriginDest       []OriginDest     `json:"originDest"`
	Pax              []Pax            `json:"pax"`
	ShoppingCriteria ShoppingCriteria `json:"shoppingCriteria"`
}

type OriginDest struct {
	OriginDepRequest   OriginDepRequest   `json:"originDepRequest"`
	DestArrivalRequest DestArrivalRequest `json:"destArrivalRequest"`
}

type OriginDepRequest struct {
	IATALocationCode string `json:"iatA_LocationCode"`
	Date             string `json:"date"`
}

type DestArrivalRequest struct {
	IATALocationCode string `json:"iatA_LocationCode"`
}

// Pax identifies one traveller. PTC is the passenger-type code: ADT (adult),
// CHD (child) or INF (infant).
type Pax struct {
	PaxID string `json:"paxID"`
	PTC   string `json:"ptc"`
}

type ShoppingCriteria struct {
	TripType          string            `json:"tripType"`
	TravelPreferences TravelPreferences `json:"travelPreferences"`
	ReturnUPSellInfo  bool              `json:"returnUPSellInfo"`
}

type TravelPreferences struct {
	VendorPref []string `json:"vendorPref"`
	CabinCode  string   `json:"cabinCode"`
}

func (r *SearchRequest) Validate() error {
	if r.Source == "" {
		return ErrMissingSource
	}
	if r.PointOfSale == "" {
		return ErrMissingPointOfSale
	}
	if r.Request == nil {
		return ErrMissingRequest
	}
	if r.Request.ShoppingCriteria.TripType == "" {
		r.Request.ShoppingCriteria.TripType = "Oneway"
	}
	if r.Request.ShoppingCriteria.TravelPreferences.CabinCode == "" {
		r.Request.ShoppingCriteria.TravelPreferences.CabinCode = "Economy"
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingSource      ValidationError = "The 'source' key is missing in the payload."
	ErrMissingPointOfSale ValidationError = "The 'pointOfSale' key is missing in the payload."
	ErrMissingRequest     ValidationError = "The 'request' key is missing in the payload."
	ErrInvalidPage        ValidationError = "page must be a positive integer"
	ErrInvalidSize        ValidationError = "size must be a positive integer"
)
