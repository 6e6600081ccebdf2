package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingModel struct {
	ID           string              `gorm:"type:uuid;primary_key" json:"id"`
	SellerID     string              `gorm:"type:uuid;not null;index" json:"seller_id"`
	Title        string              `gorm:"type:varchar(255);not null" json:"title"`
	Description  string              `gorm:"type:text" json:"description"`
	MushroomType string              `gorm:"type:varchar(100);index" json:"mushroom_type"`
	Price        float64             `gorm:"not null" json:"price"`
	Quantity     int                 `gorm:"default:1" json:"quantity"`
	ContactName  string              `gorm:"type:varchar(100)" json:"contact_name"`
	ContactPhone string              `gorm:"type:varchar(30)" json:"contact_phone"`
	ContactEmail string              `gorm:"type:varchar(255)" json:"contact_email"`
	Latitude     float64             `gorm:"index" json:"latitude"`
	Longitude    float64             `gorm:"index" json:"longitude"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`
	Images       []ListingImageModel `gorm:"foreignKey:ListingID" json:"images,omitempty"`
}

func (ListingModel) TableName() string {
	return "listings"
}

func (l *ListingModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

type ListingImageModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	ListingID string         `gorm:"type:uuid;not null;index" json:"listing_id"`
	ImageURL  string         `gorm:"type:varchar(500);not null" json:"image_url"`
	Order     int            `gorm:"default:0;index" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ListingImageModel) TableName() string {
	return "listing_images"
}

func (li *ListingImageModel) BeforeCreate(tx *gorm.DB) error {
	if li.ID == "" {
		li.ID = uuid.New().String()
	}
	return nil
}
