package geocode

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, fn roundTripFunc) *Client {
	t.Helper()
	client := NewClient(config.GeocodeConfig{
		BaseURL:   "https://nominatim.example",
		UserAgent: "madarsa-backend-test",
	})
	client.httpClient = &http.Client{Transport: fn}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestReverseMapsAddressFields(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("User-Agent") != "madarsa-backend-test" {
			t.Fatalf("missing user agent header")
		}
		if !strings.Contains(req.URL.RawQuery, "lat=26.8467") {
			t.Fatalf("latitude not forwarded: %s", req.URL.RawQuery)
		}
		return jsonResponse(http.StatusOK, `{
			"address": {
				"road": "Hazratganj Road",
				"suburb": "Hazratganj",
				"city": "Lucknow",
				"state": "Uttar Pradesh",
				"postcode": "226001"
			}
		}`), nil
	})

	result, err := client.Reverse(context.Background(), 26.8467, 80.9462)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if result.Address != "Hazratganj Road, Hazratganj" {
		t.Fatalf("address mismatch: %q", result.Address)
	}
	if result.City != "Lucknow" || result.State != "Uttar Pradesh" || result.Pincode != "226001" {
		t.Fatalf("field mapping mismatch: %+v", result)
	}
}

func TestReverseFallsBackThroughCityCandidates(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"address": {
				"village": "Mubarakpur",
				"state_district": "Azamgarh",
				"state": "Uttar Pradesh"
			}
		}`), nil
	})

	result, err := client.Reverse(context.Background(), 26.09, 83.29)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if result.City != "Mubarakpur" {
		t.Fatalf("expected village fallback, got %q", result.City)
	}
}

func TestReverseUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
	})

	_, err := client.Reverse(context.Background(), 26.8467, 80.9462)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestMatchState(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Uttar Pradesh", "Uttar Pradesh"},
		{"uttar pradesh", "Uttar Pradesh"},
		{"State of Uttar Pradesh", "Uttar Pradesh"},
		{"NCT of Delhi", "Delhi"},
		{"Tamil", "Tamil Nadu"},
		{"Atlantis", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MatchState(tc.raw); got != tc.want {
			t.Fatalf("MatchState(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
