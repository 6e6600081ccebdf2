package persistent

import (
	"mycomentor/services/marketplace/internal/entity"
	"mycomentor/services/marketplace/internal/model"
)

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	images := make([]entity.ListingImage, len(m.Images))
	for i := range m.Images {
		images[i] = entity.ListingImage{
			ID:       m.Images[i].ID,
			ImageURL: m.Images[i].ImageURL,
			Order:    m.Images[i].Order,
		}
	}

	return &entity.Listing{
		ID:           m.ID,
		SellerID:     m.SellerID,
		Title:        m.Title,
		Description:  m.Description,
		MushroomType: m.MushroomType,
		Price:        m.Price,
		Quantity:     m.Quantity,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Images:       images,
	}
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	images := make([]model.ListingImageModel, len(e.Images))
	for i := range e.Images {
		images[i] = model.ListingImageModel{
			ID:        e.Images[i].ID,
			ListingID: e.ID,
			ImageURL:  e.Images[i].ImageURL,
			Order:     e.Images[i].Order,
		}
	}

	return &model.ListingModel{
		ID:           e.ID,
		SellerID:     e.SellerID,
		Title:        e.Title,
		Description:  e.Description,
		MushroomType: e.MushroomType,
		Price:        e.Price,
		Quantity:     e.Quantity,
		ContactName:  e.ContactName,
		ContactPhone: e.ContactPhone,
		ContactEmail: e.ContactEmail,
		Latitude:     e.Latitude,
		Longitude:    e.Longitude,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Images:       images,
	}
}
