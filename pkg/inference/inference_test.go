package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrowthClient_Predict(t *testing.T) {
	imageData := []byte("fake-jpeg-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, base64.StdEncoding.EncodeToString(imageData), req["image"])
		assert.Equal(t, "pink_oyster", req["mushroom_type"])

		json.NewEncoder(w).Encode(GrowthResponse{
			Predictions: []GrowthPrediction{
				{
					Class:              "pink_oyster_pinning",
					Confidence:         0.91,
					HarvestingEstimate: "3-5 days",
					BoundingBox:        BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 220, Width: 100, Height: 200},
				},
			},
			ProcessingTimeMS: 412,
			ImageDimensions:  ImageDimensions{Width: 640, Height: 480},
		})
	}))
	defer server.Close()

	client := NewGrowthClient(server.URL)
	result, err := client.Predict(context.Background(), imageData, "pink_oyster")

	assert.NoError(t, err)
	assert.Len(t, result.Predictions, 1)
	assert.Equal(t, "pink_oyster_pinning", result.Predictions[0].Class)
	assert.Equal(t, "3-5 days", result.Predictions[0].HarvestingEstimate)
	assert.Equal(t, float64(412), result.ProcessingTimeMS)
}

func TestGrowthClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGrowthClient(server.URL)
	_, err := client.Predict(context.Background(), []byte("img"), "shiitake")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestDetectClient_Predict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseMultipartForm(10 << 20)
		assert.NoError(t, err)

		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sample.jpg", header.Filename)
		assert.Equal(t, "0.25", r.FormValue("conf"))
		assert.Empty(t, r.FormValue("save_image"))

		json.NewEncoder(w).Encode(DetectionResponse{
			Detections: []Detection{
				{Class: "oyster", Confidence: 0.88, BBox: [4]float64{1, 2, 3, 4}},
			},
			Count:         1,
			InferenceTime: 0.2,
		})
	}))
	defer server.Close()

	client := NewDetectClient(server.URL)
	result, err := client.Predict(context.Background(), "sample.jpg", bytes.NewReader([]byte("img")))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "oyster", result.Detections[0].Class)
}

func TestDiseaseClient_RequestsAnnotatedImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(10 << 20)
		assert.Equal(t, "true", r.FormValue("save_image"))

		json.NewEncoder(w).Encode(DetectionResponse{
			Detections:     []Detection{{Class: "green_mold", Confidence: 0.77}},
			Count:          1,
			DirectImageURL: "/images/annotated.jpg",
		})
	}))
	defer server.Close()

	client := NewDiseaseClient(server.URL)
	result, err := client.Predict(context.Background(), "sick.jpg", bytes.NewReader([]byte("img")))

	assert.NoError(t, err)
	assert.Equal(t, "/images/annotated.jpg", result.DirectImageURL)
}

func TestDetectClient_FetchAnnotated(t *testing.T) {
	annotated := []byte("annotated-jpeg")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/annotated.jpg", r.URL.Path)
		w.Write(annotated)
	}))
	defer server.Close()

	client := NewDiseaseClient(server.URL)
	data, err := client.FetchAnnotated(context.Background(), "/images/annotated.jpg")

	assert.NoError(t, err)
	assert.Equal(t, annotated, data)
}
