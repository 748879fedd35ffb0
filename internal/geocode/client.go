package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/madarsaconnect/madarsa-backend/internal/institutions"
	"github.com/madarsaconnect/madarsa-backend/pkg/config"
	pkgerrors "github.com/madarsaconnect/madarsa-backend/pkg/errors"
)

// ReverseResult carries wizard-fillable address fields derived from device
// coordinates. State is resolved against the wizard's enumeration; an empty
// State means no confident match and the user keeps typing.
type ReverseResult struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Client proxies the Nominatim reverse endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a reverse-geocoding client from config.
func NewClient(cfg config.GeocodeConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
	}
}

type nominatimResponse struct {
	Address struct {
		Road     string `json:"road"`
		Suburb   string `json:"suburb"`
		Village  string `json:"village"`
		City     string `json:"city"`
		Town     string `json:"town"`
		District string `json:"state_district"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Reverse maps coordinates to address fields. Upstream failures surface as
// dependency errors; the wizard treats them as non-blocking.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*ReverseResult, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	endpoint := fmt.Sprintf("%s/reverse?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build geocode request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse geocode")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("geocode upstream returned %d", resp.StatusCode))
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode geocode response")
	}

	return &ReverseResult{
		Address: joinParts(payload.Address.Road, payload.Address.Suburb, payload.Address.Village),
		City:    firstNonEmpty(payload.Address.City, payload.Address.Town, payload.Address.Village, payload.Address.District),
		State:   MatchState(payload.Address.State),
		Pincode: payload.Address.Postcode,
	}, nil
}

// MatchState resolves a free-text state name against the wizard enumeration
// by case-insensitive substring match in either direction.
func MatchState(raw string) string {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	if candidate == "" {
		return ""
	}
	for _, state := range institutions.IndianStates {
		known := strings.ToLower(state)
		if strings.Contains(candidate, known) || strings.Contains(known, candidate) {
			return state
		}
	}
	return ""
}

func joinParts(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
