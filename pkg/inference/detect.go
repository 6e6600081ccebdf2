package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DetectClient talks to the YOLO-style detection and disease model servers,
// which accept a multipart image upload and return detections. The disease
// server additionally renders an annotated copy of the image, reachable via
// the direct_image_url field.
type DetectClient struct {
	baseURL       string
	confidence    string
	saveAnnotated bool
	httpClient    *http.Client
}

func NewDetectClient(baseURL string) *DetectClient {
	return &DetectClient{
		baseURL:    baseURL,
		confidence: "0.25",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewDiseaseClient is a DetectClient that asks the server to render an
// annotated image alongside the detections.
func NewDiseaseClient(baseURL string) *DetectClient {
	client := NewDetectClient(baseURL)
	client.saveAnnotated = true
	return client
}

func (c *DetectClient) Predict(ctx context.Context, filename string, image io.Reader) (*DetectionResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to copy image: %w", err)
	}

	writer.WriteField("conf", c.confidence)
	if c.saveAnnotated {
		writer.WriteField("save_image", "true")
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result DetectionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}

	return &result, nil
}

// FetchAnnotated downloads the annotated image rendered by the disease
// server. The path comes from DetectionResponse.DirectImageURL.
func (c *DetectClient) FetchAnnotated(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch annotated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotated image fetch returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
