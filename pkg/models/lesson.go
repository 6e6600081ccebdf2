package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonCategory struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Title       string         `gorm:"type:varchar(100);not null" json:"title"`
	Icon        string         `gorm:"type:varchar(50)" json:"icon"`
	Description string         `gorm:"type:text" json:"description"`
	Order       int            `gorm:"default:0;index" json:"order"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Lessons     []Lesson       `gorm:"foreignKey:CategoryID" json:"lessons,omitempty"`
}

func (LessonCategory) TableName() string {
	return "lesson_categories"
}

func (lc *LessonCategory) BeforeCreate(tx *gorm.DB) error {
	if lc.ID == "" {
		lc.ID = uuid.New().String()
	}
	return nil
}

type Lesson struct {
	ID         string         `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID string         `gorm:"type:uuid;not null;index" json:"category_id"`
	Title      string         `gorm:"type:varchar(255);not null" json:"title"`
	Duration   string         `gorm:"type:varchar(20)" json:"duration"`
	Content    string         `gorm:"type:text" json:"content"`
	Order      int            `gorm:"default:0;index" json:"order"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
