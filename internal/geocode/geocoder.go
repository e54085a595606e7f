// Package geocode resolves street addresses to coordinates through a
// Nominatim-style HTTP provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Location is one geocoding result.
type Location struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder turns an address string into a Location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// Client calls a Nominatim-compatible search endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type providerResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road        string `json:"road"`
		City        string `json:"city"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocoding provider returned status %d", resp.StatusCode)
	}

	var results []providerResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("decoding geocoding response: %w", err)
	}
	if len(results) == 0 {
		return Location{}, fmt.Errorf("no geocoding result for address %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid latitude in geocoding response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid longitude in geocoding response: %w", err)
	}

	return Location{
		Latitude:         lat,
		Longitude:        lon,
		FormattedAddress: results[0].DisplayName,
		Street:           results[0].Address.Road,
		City:             results[0].Address.City,
		State:            results[0].Address.State,
		Zipcode:          results[0].Address.Postcode,
		Country:          results[0].Address.CountryCode,
	}, nil
}
