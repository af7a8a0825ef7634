package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nominatimClient(baseURL string) *Client {
	return &Client{provider: "nominatim", baseURL: baseURL, timeout: time.Second}
}

func TestNominatimParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "1 Market St, San Francisco", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "37.7936",
			"lon": "-122.3930",
			"display_name": "1 Market Street, San Francisco, CA, USA",
			"address": {
				"city": "San Francisco",
				"state": "California",
				"postcode": "94105",
				"country_code": "us"
			}
		}]`))
	}))
	defer srv.Close()

	res, err := nominatimClient(srv.URL).Geocode(context.Background(), "1 Market St, San Francisco")
	require.NoError(t, err)

	assert.InDelta(t, -122.3930, res.Longitude, 1e-6)
	assert.InDelta(t, 37.7936, res.Latitude, 1e-6)
	assert.Equal(t, "San Francisco", res.City)
	assert.Equal(t, "California", res.State)
	assert.Equal(t, "94105", res.Zipcode)
	assert.Equal(t, "us", res.Country)
	assert.Equal(t, "1 Market Street, San Francisco, CA, USA", res.FormattedAddress)
}

func TestNominatimCityFallsBackToTown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"lat":"50.1","lon":"8.2","address":{"town":"Eltville"}}]`))
	}))
	defer srv.Close()

	res, err := nominatimClient(srv.URL).Geocode(context.Background(), "Eltville am Rhein")
	require.NoError(t, err)
	assert.Equal(t, "Eltville", res.City)
}

func TestNominatimNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := nominatimClient(srv.URL).Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimBadLatitude(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"8.2"}]`))
	}))
	defer srv.Close()

	_, err := nominatimClient(srv.URL).Geocode(context.Background(), "somewhere")
	assert.Error(t, err)
}

func TestMapQuestParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Write([]byte(`{"results":[{"locations":[{
			"street": "1 Market St",
			"adminArea5": "San Francisco",
			"adminArea3": "CA",
			"adminArea1": "US",
			"postalCode": "94105",
			"latLng": {"lat": 37.7936, "lng": -122.3930}
		}]}]}`))
	}))
	defer srv.Close()

	c := &Client{provider: "mapquest", apiKey: "test-key", baseURL: srv.URL, timeout: time.Second}
	res, err := c.Geocode(context.Background(), "1 Market St")
	require.NoError(t, err)

	assert.InDelta(t, -122.3930, res.Longitude, 1e-6)
	assert.Equal(t, "San Francisco", res.City)
	assert.Equal(t, "CA", res.State)
	assert.Equal(t, "US", res.Country)
	assert.Equal(t, "1 Market St, San Francisco", res.FormattedAddress)
}

func TestProviderErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := nominatimClient(srv.URL).Geocode(context.Background(), "anywhere")
	assert.Error(t, err)
}
