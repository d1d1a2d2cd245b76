package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abdurrazzak7395/travelapi/internal/models"
)

// DefaultTimeout bounds one outbound supplier call end to end.
const DefaultTimeout = 60 * time.Second

// Supplier is one external flight-inventory backend. Search issues a single
// outbound call and returns offers already normalized to the unified schema,
// with supplier-prefixed offer IDs. Implementations never retry.
type Supplier interface {
	Name() string
	Search(ctx context.Context, req *models.SearchRequest) ([]models.Offer, error)
}

// Pricer re-prices offers selected from an earlier search on the supplier
// that produced them.
type Pricer interface {
	Price(ctx context.Context, traceID string, offerIDs []string) (json.RawMessage, error)
}

// BalanceChecker reports the agency account balance held with the supplier.
type BalanceChecker interface {
	Balance(ctx context.Context) (json.RawMessage, error)
}

// OfferSource extracts the supplier name from a unified offer ID. Offer IDs
// are "<supplier>-<native id>"; supplier names never contain a dash.
func OfferSource(offerID string) (string, bool) {
	name, _, ok := strings.Cut(offerID, "-")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// NativeOfferID strips the supplier prefix from a unified offer ID.
func NativeOfferID(offerID string) string {
	if _, rest, ok := strings.Cut(offerID, "-"); ok {
		return rest
	}
	return offerID
}

// UpstreamError is a non-2xx response from a supplier.
type UpstreamError struct {
	Supplier   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d: %s", e.Supplier, e.StatusCode, e.Body)
}

// TransportError is a failure to complete the HTTP exchange at all
// (connection refused, timeout, DNS).
type TransportError struct {
	Supplier string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Supplier, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a malformed body where JSON was expected.
type DecodeError struct {
	Supplier string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Supplier, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AuthenticationError is a failed credential refresh for a token-based
// supplier.
type AuthenticationError struct {
	Supplier string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication: %v", e.Supplier, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// httpCaller issues one JSON POST per call and maps failures onto the
// supplier error taxonomy. No retries, no fallback transport.
type httpCaller struct {
	name   string
	client *http.Client
}

func newHTTPCaller(name string, timeout time.Duration) httpCaller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpCaller{
		name:   name,
		client: &http.Client{Timeout: timeout},
	}
}

func (c httpCaller) postJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Supplier: c.name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Supplier: c.name, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Supplier: c.name, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &DecodeError{Supplier: c.name, Err: err}
		}
	}
	return nil
}
