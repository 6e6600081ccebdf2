package envdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Reading is a snapshot of the sensor values reported by the environmental
// data service. Fields are kept as strings because the service is loose
// about numeric types; empty string means the field was absent.
type Reading struct {
	Temperature string `json:"temperature,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	PH          string `json:"pH,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch requests the latest reading for the given coordinates. The fallback
// flag asks the service for cached regional data when live sensors are down.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64, fallback bool) (*Reading, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	if fallback {
		params.Set("fallback", "true")
	}

	reqURL := fmt.Sprintf("%s/api/environment?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch environmental data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("environmental data service returned status %d: %s", resp.StatusCode, string(body))
	}

	// The service reports numeric fields inconsistently (sometimes JSON
	// numbers, sometimes strings), so decode loosely and coerce.
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode environmental data: %w", err)
	}

	return &Reading{
		Temperature: coerceString(raw["temperature"]),
		Humidity:    coerceString(raw["humidity"]),
		Intensity:   coerceString(raw["intensity"]),
		PH:          coerceString(raw["pH"]),
	}, nil
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
