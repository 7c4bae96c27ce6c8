package geocoding_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslamate-tools/addrfix/internal/geocoding"
	"github.com/teslamate-tools/addrfix/internal/models"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 31.230416, Longitude: 121.473701}

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org/reverse")
				assert.Equal(t, "31.230416", req.URL.Query().Get("lat"))
				assert.Equal(t, "121.473701", req.URL.Query().Get("lon"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "1", req.URL.Query().Get("addressdetails"))
				assert.Contains(t, req.Header.Get("User-Agent"), "teslamate-addrfix")

				responseBody := `{
					"osm_type": "way",
					"osm_id": 97435143,
					"display_name": "100, Century Avenue, Pudong, Shanghai, 200120, China",
					"address": {
						"house_number": "100",
						"road": "Century Avenue",
						"neighbourhood": "Lujiazui",
						"city": "Shanghai",
						"postcode": "200120",
						"state": "Shanghai",
						"country": "China"
					}
				}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		require.NotNil(t, address)
		assert.Equal(t, int64(97435143), address.OsmID)
		assert.Equal(t, "way", address.OsmType)
		assert.Equal(t, "100, Century Avenue, Pudong, Shanghai, 200120, China", address.DisplayName)
		assert.Equal(t, "Century Avenue 100", address.Name)
		assert.Equal(t, "Century Avenue", address.Road)
		assert.Equal(t, "100", address.HouseNumber)
		assert.Equal(t, "Lujiazui", address.Neighbourhood)
		assert.Equal(t, "Shanghai", address.City)
		assert.Equal(t, "200120", address.Postcode)
		assert.Equal(t, "China", address.Country)
		assert.JSONEq(t, `{
			"house_number": "100",
			"road": "Century Avenue",
			"neighbourhood": "Lujiazui",
			"city": "Shanghai",
			"postcode": "200120",
			"state": "Shanghai",
			"country": "China"
		}`, address.Raw)
		// Query coordinates are kept, not the provider's
		assert.InEpsilon(t, coords.Latitude, address.Latitude, 1e-9)
		assert.InEpsilon(t, coords.Longitude, address.Longitude, 1e-9)
	})

	t.Run("unresolvable coordinates", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"error":"Unable to geocode"}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.Nil(t, address)
		assert.ErrorIs(t, err, geocoding.ErrNominatimNoResult)
	})

	t.Run("result without OSM identifiers", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"display_name":"somewhere","address":{}}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.Nil(t, address)
		assert.ErrorIs(t, err, geocoding.ErrNominatimNoOsmID)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"error":"Rate limit exceeded"}`
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.Nil(t, address)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`invalid json`)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.Nil(t, address)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("network error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.Error(t, err)
		require.Nil(t, address)
		assert.Contains(t, err.Error(), "failed to execute reverse geocoding request")
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("no request expected for invalid coordinates")
				return nil, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 91, Longitude: 0})

		require.Error(t, err)
		require.Nil(t, address)
		assert.ErrorIs(t, err, geocoding.ErrInvalidCoordinates)
	})

	t.Run("missing address object falls back to empty json", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"osm_type":"node","osm_id":42,"display_name":"middle of nowhere"}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		require.NotNil(t, address)
		assert.Equal(t, "{}", address.Raw)
		assert.Empty(t, address.Name)
	})
}

func TestNewNominatimProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("without proxy", func(t *testing.T) {
		provider, err := geocoding.NewNominatimProvider(logger, "", 5*time.Second)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("with host:port proxy", func(t *testing.T) {
		provider, err := geocoding.NewNominatimProvider(logger, "127.0.0.1:8118", 5*time.Second)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("with proxy URL", func(t *testing.T) {
		provider, err := geocoding.NewNominatimProvider(logger, "https://proxy.example.com:443", 0)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("with invalid proxy", func(t *testing.T) {
		provider, err := geocoding.NewNominatimProvider(logger, "bad proxy", 0)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.ErrorIs(t, err, geocoding.ErrInvalidProxy)
	})
}
