package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/teslamate-tools/addrfix/internal/models"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's
// Nominatim reverse geocoding API. This is a free service with usage limits
// (1 request/second for fair use), so callers must pace their requests.
type NominatimProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Nominatim reverse endpoint
	log     *slog.Logger // Logger for logging operations
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse represents the JSON response from the Nominatim reverse API.
type nominatimResponse struct {
	Error       string          `json:"error"`        // Error message when the lookup failed
	DisplayName string          `json:"display_name"` // Full human-readable address
	OsmID       int64           `json:"osm_id"`       // OpenStreetMap entity identifier
	OsmType     string          `json:"osm_type"`     // node, way or relation
	Address     json.RawMessage `json:"address"`      // Structured address object, kept raw for storage
}

// nominatimAddress holds the structured fields of the address object.
type nominatimAddress struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	County        string `json:"county"`
	Postcode      string `json:"postcode"`
	State         string `json:"state"`
	StateDistrict string `json:"state_district"`
	Country       string `json:"country"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimNoResult  = errors.New("nominatim API could not resolve the coordinates")
	ErrNominatimNoOsmID   = errors.New("nominatim API returned a result without OSM identifiers")
	ErrInvalidCoordinates = errors.New("coordinates are outside the valid range")
	ErrInvalidProxy       = errors.New("invalid proxy address")
)

const defaultTimeout = 10 * time.Second

// NewNominatimProvider creates a new Nominatim reverse geocoding provider.
// An empty proxy uses a direct connection; otherwise requests are routed
// through the given HTTPS proxy (host:port or full URL). A non-positive
// timeout falls back to the default.
func NewNominatimProvider(log *slog.Logger, proxy string, timeout time.Duration) (*NominatimProvider, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport
	if proxy != "" {
		proxyURL, err := parseProxyURL(proxy)
		if err != nil {
			return nil, err
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	provider := newNominatimProviderWithClient(&http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, log)

	return provider, nil
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom
// HTTP client. Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, log *slog.Logger) *NominatimProvider {
	return newNominatimProviderWithClient(client, log)
}

func newNominatimProviderWithClient(client HTTPClient, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:  client,
		baseURL: "https://nominatim.openstreetmap.org/reverse",
		log:     log,
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "teslamate-addrfix/1.0 (https://github.com/teslamate-tools/addrfix)",
	}
}

// parseProxyURL accepts either a full proxy URL or a bare host:port pair.
func parseProxyURL(proxy string) (*url.URL, error) {
	proxyURL, err := url.Parse(proxy)
	if err != nil || proxyURL.Host == "" {
		proxyURL, err = url.Parse("http://" + proxy)
	}
	if err != nil || proxyURL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, proxy)
	}

	return proxyURL, nil
}

// ReverseGeocode resolves a coordinate pair to an address record using the
// Nominatim reverse API. The returned address keeps the query coordinates
// rather than the ones Nominatim reports, matching how TeslaMate stores them.
func (np *NominatimProvider) ReverseGeocode(
	ctx context.Context,
	coords models.Coordinates,
) (*models.Address, error) {
	if coords.Latitude < -90 || coords.Latitude > 90 ||
		coords.Longitude < -180 || coords.Longitude > 180 {
		return nil, fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, coords.Latitude, coords.Longitude)
	}

	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim",
		"lat", coords.Latitude, "lon", coords.Longitude)

	// Build request URL with query parameters
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("addressdetails", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Required header per Nominatim usage policy
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result nominatimResponse
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	// Nominatim reports unresolvable coordinates as an error payload with status 200
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNominatimNoResult, result.Error)
	}
	if result.OsmID == 0 || result.OsmType == "" {
		return nil, ErrNominatimNoOsmID
	}

	var fields nominatimAddress
	raw := "{}"
	if len(result.Address) > 0 {
		if err = json.Unmarshal(result.Address, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode nominatim address fields: %w", err)
		}
		raw = string(result.Address)
	}

	np.log.DebugContext(ctx, "Nominatim found result",
		"osm_id", result.OsmID, "osm_type", result.OsmType, "display_name", result.DisplayName)

	return &models.Address{
		Latitude:      coords.Latitude,
		Longitude:     coords.Longitude,
		DisplayName:   result.DisplayName,
		Name:          models.DeriveName(fields.Road, fields.HouseNumber),
		HouseNumber:   fields.HouseNumber,
		Road:          fields.Road,
		Neighbourhood: fields.Neighbourhood,
		City:          fields.City,
		County:        fields.County,
		Postcode:      fields.Postcode,
		State:         fields.State,
		StateDistrict: fields.StateDistrict,
		Country:       fields.Country,
		Raw:           raw,
		OsmID:         result.OsmID,
		OsmType:       result.OsmType,
	}, nil
}
