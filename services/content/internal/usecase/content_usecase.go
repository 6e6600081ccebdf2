package usecase

import (
	"context"
	"encoding/json"
	"time"

	"mycomentor/pkg/logger"
	"mycomentor/pkg/models"
	"mycomentor/services/content/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// The lesson catalogue changes only on reseed, so a generous TTL is fine.
const (
	catalogueCacheKey = "lessons:catalogue"
	catalogueCacheTTL = time.Hour
)

type ContentUseCase interface {
	GetCategories(ctx context.Context) ([]*models.LessonCategory, error)
	GetCategory(ctx context.Context, id string) (*models.LessonCategory, error)
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)
}

type contentUseCase struct {
	lessonRepo  persistent.LessonRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewContentUseCase(
	lessonRepo persistent.LessonRepository,
	redisClient *redis.Client,
	logger *logger.Logger,
) ContentUseCase {
	return &contentUseCase{
		lessonRepo:  lessonRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *contentUseCase) GetCategories(ctx context.Context) ([]*models.LessonCategory, error) {
	if cached := uc.cachedCatalogue(ctx); cached != nil {
		return cached, nil
	}

	categories, err := uc.lessonRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	uc.cacheCatalogue(ctx, categories)
	return categories, nil
}

func (uc *contentUseCase) GetCategory(ctx context.Context, id string) (*models.LessonCategory, error) {
	return uc.lessonRepo.GetCategory(ctx, id)
}

func (uc *contentUseCase) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	return uc.lessonRepo.GetLesson(ctx, id)
}

func (uc *contentUseCase) cachedCatalogue(ctx context.Context) []*models.LessonCategory {
	if uc.redisClient == nil {
		return nil
	}

	raw, err := uc.redisClient.Get(ctx, catalogueCacheKey).Result()
	if err != nil {
		return nil
	}

	var categories []*models.LessonCategory
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		uc.logger.Warn("Discarding corrupt lesson catalogue cache: %v", err)
		return nil
	}
	return categories
}

func (uc *contentUseCase) cacheCatalogue(ctx context.Context, categories []*models.LessonCategory) {
	if uc.redisClient == nil {
		return
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		uc.logger.Warn("Failed to marshal lesson catalogue for cache: %v", err)
		return
	}
	uc.redisClient.Set(ctx, catalogueCacheKey, raw, catalogueCacheTTL)
}
