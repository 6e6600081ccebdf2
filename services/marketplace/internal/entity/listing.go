package entity

import "time"

type Listing struct {
	ID           string         `json:"id"`
	SellerID     string         `json:"seller_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	MushroomType string         `json:"mushroom_type"`
	Price        float64        `json:"price"`
	Quantity     int            `json:"quantity"`
	ContactName  string         `json:"contact_name"`
	ContactPhone string         `json:"contact_phone"`
	ContactEmail string         `json:"contact_email"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Images       []ListingImage `json:"images,omitempty"`
}

type ListingImage struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Order    int    `json:"order"`
}
