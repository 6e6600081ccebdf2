package persistent

import (
	"context"
	"errors"

	"mycomentor/pkg/models"

	"gorm.io/gorm"
)

var ErrLessonNotFound = errors.New("lesson not found")

type LessonRepository interface {
	ListCategories(ctx context.Context) ([]*models.LessonCategory, error)
	GetCategory(ctx context.Context, id string) (*models.LessonCategory, error)
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) ListCategories(ctx context.Context) ([]*models.LessonCategory, error) {
	var categories []*models.LessonCategory
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.\"order\" ASC")
		}).
		Order("\"order\" ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *lessonRepository) GetCategory(ctx context.Context, id string) (*models.LessonCategory, error) {
	var category models.LessonCategory
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.\"order\" ASC")
		}).
		First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *lessonRepository) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}
