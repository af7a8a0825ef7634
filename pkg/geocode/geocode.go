// Package geocode resolves free-text addresses to coordinates via an
// external geocoding provider.
//
// Two providers are supported, selected by GEOCODER_PROVIDER:
//
//	nominatim  — OpenStreetMap Nominatim (default; no API key required)
//	mapquest   — MapQuest Geocoding API (requires GEOCODER_API_KEY)
//
// Results are cached in Redis for a day: restaurant addresses are immutable
// in practice and provider rate limits are tight.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/forkful/forkful/config"
	"github.com/forkful/forkful/pkg/cache"
	"github.com/forkful/forkful/pkg/httpx"
	"github.com/forkful/forkful/pkg/metrics"
)

// ErrNoResult is returned when the provider finds nothing for the address.
var ErrNoResult = errors.New("geocode: no result for address")

const cacheTTL = 24 * time.Hour

// Result is a resolved address. Longitude and Latitude follow the GeoJSON
// ordering convention used by the store ([lng, lat]).
type Result struct {
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
	FormattedAddress string  `json:"formattedAddress"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

// Geocoder resolves an address to a Result.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Client is the HTTP-backed Geocoder.
type Client struct {
	provider string
	apiKey   string
	baseURL  string
	timeout  time.Duration
}

// New builds a Client from configuration.
func New() *Client {
	return &Client{
		provider: config.GeocoderProvider(),
		apiKey:   config.GeocoderAPIKey(),
		baseURL:  config.GeocoderBaseURL(),
		timeout:  5 * time.Second,
	}
}

// Geocode resolves address, consulting the cache first.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	key := "geocode:" + c.provider + ":" + address

	var cached Result
	if cache.Get(ctx, key, &cached) {
		metrics.GeocodeRequests.WithLabelValues("hit").Inc()
		return &cached, nil
	}

	var (
		res *Result
		err error
	)
	switch c.provider {
	case "mapquest":
		res, err = c.viaMapQuest(ctx, address)
	default:
		res, err = c.viaNominatim(ctx, address)
	}
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.GeocodeRequests.WithLabelValues("ok").Inc()
	_ = cache.Set(ctx, key, res, cacheTTL)
	return res, nil
}

// ── Nominatim ────────────────────────────────────────────────────────────────

type nominatimHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City        string `json:"city"`
		Town        string `json:"town"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (c *Client) viaNominatim(ctx context.Context, address string) (*Result, error) {
	base := c.baseURL
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}

	resp, err := httpx.Get(base+"/search").
		Query("q", address).
		Query("format", "json").
		Query("limit", "1").
		Query("addressdetails", "1").
		Header("User-Agent", "forkful/1.0").
		Timeout(c.timeout).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	var hits []nominatimHit
	if err := resp.JSON(&hits); err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, ErrNoResult
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: parse latitude %q: %w", hit.Lat, err)
	}
	lng, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: parse longitude %q: %w", hit.Lon, err)
	}

	city := hit.Address.City
	if city == "" {
		city = hit.Address.Town
	}

	return &Result{
		Longitude:        lng,
		Latitude:         lat,
		FormattedAddress: hit.DisplayName,
		City:             city,
		State:            hit.Address.State,
		Zipcode:          hit.Address.Postcode,
		Country:          hit.Address.CountryCode,
	}, nil
}

// ── MapQuest ─────────────────────────────────────────────────────────────────

type mapquestResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			AdminArea5 string `json:"adminArea5"` // city
			AdminArea3 string `json:"adminArea3"` // state
			AdminArea1 string `json:"adminArea1"` // country
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (c *Client) viaMapQuest(ctx context.Context, address string) (*Result, error) {
	base := c.baseURL
	if base == "" {
		base = "https://www.mapquestapi.com/geocoding/v1"
	}

	resp, err := httpx.Get(base+"/address").
		Query("key", c.apiKey).
		Query("location", address).
		Timeout(c.timeout).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	var body mapquestResponse
	if err := resp.JSON(&body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoResult
	}

	loc := body.Results[0].Locations[0]
	formatted := loc.Street
	if formatted != "" && loc.AdminArea5 != "" {
		formatted += ", " + loc.AdminArea5
	}

	return &Result{
		Longitude:        loc.LatLng.Lng,
		Latitude:         loc.LatLng.Lat,
		FormattedAddress: formatted,
		City:             loc.AdminArea5,
		State:            loc.AdminArea3,
		Zipcode:          loc.PostalCode,
		Country:          loc.AdminArea1,
	}, nil
}
