package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GrowthClient talks to the growth-prediction model server, which accepts
// a base64 image plus the cultivated mushroom type.
type GrowthClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGrowthClient(baseURL string) *GrowthClient {
	return &GrowthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type growthRequest struct {
	Image        string `json:"image"`
	MushroomType string `json:"mushroom_type"`
}

func (c *GrowthClient) Predict(ctx context.Context, imageData []byte, mushroomType string) (*GrowthResponse, error) {
	payload, err := json.Marshal(growthRequest{
		Image:        base64.StdEncoding.EncodeToString(imageData),
		MushroomType: mushroomType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("growth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("growth service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result GrowthResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode growth response: %w", err)
	}

	return &result, nil
}
