package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeParsesProviderResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Boston MA", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "42.3554334",
			"lon": "-71.060511",
			"display_name": "Boston, Suffolk County, Massachusetts, United States",
			"address": {
				"city": "Boston",
				"state": "Massachusetts",
				"postcode": "02108",
				"country_code": "us"
			}
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	loc, err := client.Geocode(context.Background(), "Boston MA")
	require.NoError(t, err)

	assert.InDelta(t, 42.3554334, loc.Latitude, 1e-9)
	assert.InDelta(t, -71.060511, loc.Longitude, 1e-9)
	assert.Equal(t, "Boston", loc.City)
	assert.Equal(t, "us", loc.Country)
	assert.Equal(t, "02108", loc.Zipcode)
}

func TestGeocodeEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Geocode(context.Background(), "nowhere at all")
	assert.Error(t, err)
}

func TestGeocodeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Geocode(context.Background(), "Boston MA")
	assert.Error(t, err)
}
