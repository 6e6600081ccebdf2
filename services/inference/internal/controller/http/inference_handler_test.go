package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"mycomentor/pkg/inference"
	"mycomentor/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeInferenceUseCase struct {
	growthResponse    *inference.GrowthResponse
	detectionResponse *inference.DetectionResponse
	annotated         []byte
	err               error
}

func (f *fakeInferenceUseCase) PredictGrowth(ctx context.Context, userID string, imageData []byte, mushroomType string) (*inference.GrowthResponse, error) {
	return f.growthResponse, f.err
}

func (f *fakeInferenceUseCase) DetectMushrooms(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error) {
	return f.detectionResponse, f.err
}

func (f *fakeInferenceUseCase) DetectDisease(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error) {
	return f.detectionResponse, f.err
}

func (f *fakeInferenceUseCase) AnnotatedImage(ctx context.Context, path string) ([]byte, error) {
	return f.annotated, f.err
}

func setupInferenceTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func imageUpload(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	assert.NoError(t, err)
	part.Write([]byte("fake-image-bytes"))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestPredictGrowth_Unauthorized(t *testing.T) {
	handler := NewInferenceHandler(&fakeInferenceUseCase{}, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/growth/predict", handler.PredictGrowth)

	body, contentType := imageUpload(t, "image", "flush.jpg")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/growth/predict", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPredictGrowth_Success(t *testing.T) {
	uc := &fakeInferenceUseCase{growthResponse: &inference.GrowthResponse{
		Predictions: []inference.GrowthPrediction{
			{Class: "mature", Confidence: 0.93, HarvestingEstimate: "Ready to harvest"},
		},
	}}

	handler := NewInferenceHandler(uc, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/growth/predict", authAs("grower-1"), handler.PredictGrowth)

	body, contentType := imageUpload(t, "image", "flush.jpg")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/growth/predict", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response inference.GrowthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Predictions, 1)
	assert.Equal(t, "Ready to harvest", response.Predictions[0].HarvestingEstimate)
}

func TestPredictGrowth_MissingImage(t *testing.T) {
	handler := NewInferenceHandler(&fakeInferenceUseCase{}, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/growth/predict", authAs("grower-1"), handler.PredictGrowth)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/growth/predict", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictGrowth_UpstreamDown(t *testing.T) {
	uc := &fakeInferenceUseCase{err: errors.New("growth model unavailable")}

	handler := NewInferenceHandler(uc, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/growth/predict", authAs("grower-1"), handler.PredictGrowth)

	body, contentType := imageUpload(t, "image", "flush.jpg")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/growth/predict", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDetectMushrooms_RejectsUnknownExtension(t *testing.T) {
	handler := NewInferenceHandler(&fakeInferenceUseCase{}, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/detect", authAs("grower-1"), handler.DetectMushrooms)

	body, contentType := imageUpload(t, "file", "notes.txt")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/detect", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetectDisease_Success(t *testing.T) {
	uc := &fakeInferenceUseCase{detectionResponse: &inference.DetectionResponse{
		Detections:     []inference.Detection{{Class: "green_mold", Confidence: 0.88}},
		Count:          1,
		DirectImageURL: "/images/annotated.png",
	}}

	handler := NewInferenceHandler(uc, logger.New())
	router := setupInferenceTestRouter()
	router.POST("/disease/detect", authAs("grower-1"), handler.DetectDisease)

	body, contentType := imageUpload(t, "file", "cap.png")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/disease/detect", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response inference.DetectionResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "green_mold", response.Detections[0].Class)
}

func TestAnnotatedImage_RequiresPath(t *testing.T) {
	handler := NewInferenceHandler(&fakeInferenceUseCase{}, logger.New())
	router := setupInferenceTestRouter()
	router.GET("/disease/annotated", handler.AnnotatedImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/disease/annotated", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnotatedImage_ReturnsPNG(t *testing.T) {
	uc := &fakeInferenceUseCase{annotated: []byte("png-bytes")}

	handler := NewInferenceHandler(uc, logger.New())
	router := setupInferenceTestRouter()
	router.GET("/disease/annotated", handler.AnnotatedImage)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/disease/annotated?path=/images/annotated.png", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), w.Body.Bytes())
}
