package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"mycomentor/pkg/inference"
	"mycomentor/pkg/logger"
	"mycomentor/pkg/s3"

	"github.com/google/uuid"
)

// GrowthPredictor and Detector are the model-service client surfaces the
// usecase depends on.
type GrowthPredictor interface {
	Predict(ctx context.Context, imageData []byte, mushroomType string) (*inference.GrowthResponse, error)
}

type Detector interface {
	Predict(ctx context.Context, filename string, image io.Reader) (*inference.DetectionResponse, error)
	FetchAnnotated(ctx context.Context, path string) ([]byte, error)
}

type InferenceUseCase interface {
	PredictGrowth(ctx context.Context, userID string, imageData []byte, mushroomType string) (*inference.GrowthResponse, error)
	DetectMushrooms(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error)
	DetectDisease(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error)
	AnnotatedImage(ctx context.Context, path string) ([]byte, error)
}

type inferenceUseCase struct {
	growthClient  GrowthPredictor
	detectClient  Detector
	diseaseClient Detector
	s3Client      *s3.Client
	logger        *logger.Logger
}

func NewInferenceUseCase(
	growthClient GrowthPredictor,
	detectClient Detector,
	diseaseClient Detector,
	s3Client *s3.Client,
	logger *logger.Logger,
) InferenceUseCase {
	return &inferenceUseCase{
		growthClient:  growthClient,
		detectClient:  detectClient,
		diseaseClient: diseaseClient,
		s3Client:      s3Client,
		logger:        logger,
	}
}

func (uc *inferenceUseCase) PredictGrowth(ctx context.Context, userID string, imageData []byte, mushroomType string) (*inference.GrowthResponse, error) {
	start := time.Now()
	response, err := uc.growthClient.Predict(ctx, imageData, mushroomType)
	if err != nil {
		return nil, fmt.Errorf("growth model unavailable: %w", err)
	}

	uc.logger.Info("Growth prediction for user %s: %d predictions in %s", userID, len(response.Predictions), time.Since(start))
	return response, nil
}

func (uc *inferenceUseCase) DetectMushrooms(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error) {
	buffered, archive := uc.archiveCopy(userID, "detections", filename, image)

	response, err := uc.detectClient.Predict(ctx, filename, buffered)
	if err != nil {
		return nil, fmt.Errorf("detection model unavailable: %w", err)
	}

	archive()
	uc.logger.Info("Detection for user %s: %d mushrooms found", userID, response.Count)
	return response, nil
}

func (uc *inferenceUseCase) DetectDisease(ctx context.Context, userID, filename string, image io.Reader) (*inference.DetectionResponse, error) {
	buffered, archive := uc.archiveCopy(userID, "disease", filename, image)

	response, err := uc.diseaseClient.Predict(ctx, filename, buffered)
	if err != nil {
		return nil, fmt.Errorf("disease model unavailable: %w", err)
	}

	archive()
	uc.logger.Info("Disease scan for user %s: %d detections", userID, response.Count)
	return response, nil
}

func (uc *inferenceUseCase) AnnotatedImage(ctx context.Context, path string) ([]byte, error) {
	return uc.diseaseClient.FetchAnnotated(ctx, path)
}

// archiveCopy tees the uploaded image so the original can be stored after a
// successful prediction. Archival failures are logged only.
func (uc *inferenceUseCase) archiveCopy(userID, prefix, filename string, image io.Reader) (io.Reader, func()) {
	data, err := io.ReadAll(image)
	if err != nil {
		return bytes.NewReader(nil), func() {}
	}

	archive := func() {
		if uc.s3Client == nil {
			return
		}
		fileKey := fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.New().String(), filepath.Ext(filename))
		if _, err := uc.s3Client.UploadFile(fileKey, bytes.NewReader(data), "image/jpeg"); err != nil {
			uc.logger.Warn("Failed to archive %s image for user %s: %v", prefix, userID, err)
		}
	}

	return bytes.NewReader(data), archive
}
