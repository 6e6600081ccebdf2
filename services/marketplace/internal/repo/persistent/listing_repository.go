package persistent

import (
	"mycomentor/services/marketplace/internal/entity"
	"mycomentor/services/marketplace/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(listing *entity.Listing) error
	GetByID(id string) (*entity.Listing, error)
	GetBySellerID(sellerID string, limit, offset int) ([]*entity.Listing, error)
	List(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error)
	Nearby(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error)
	Update(listing *entity.Listing) error
	Delete(id string) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *entity.Listing) error {
	listingModel := ToListingModel(listing)
	if listingModel.ID == "" {
		listingModel.ID = uuid.New().String()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		images := listingModel.Images
		listingModel.Images = nil

		if err := tx.Create(listingModel).Error; err != nil {
			return err
		}

		for i := range images {
			images[i].ListingID = listingModel.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}

		listingModel.Images = images
		*listing = *ToListingEntity(listingModel)
		return nil
	})
}

func (r *listingRepository) GetByID(id string) (*entity.Listing, error) {
	var listingModel model.ListingModel
	if err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("listing_images.order ASC")
	}).Where("id = ?", id).First(&listingModel).Error; err != nil {
		return nil, err
	}
	return ToListingEntity(&listingModel), nil
}

func (r *listingRepository) GetBySellerID(sellerID string, limit, offset int) ([]*entity.Listing, error) {
	var listingModels []model.ListingModel
	err := r.db.Preload("Images").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listingModels).Error
	if err != nil {
		return nil, err
	}
	return toEntities(listingModels), nil
}

func (r *listingRepository) List(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error) {
	query := r.db.Model(&model.ListingModel{})
	if mushroomType != "" {
		query = query.Where("mushroom_type = ?", mushroomType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listingModels []model.ListingModel
	err := query.Preload("Images").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listingModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toEntities(listingModels), total, nil
}

// Nearby orders listings by great-circle distance from the given point.
// 6371 is the Earth radius in kilometers.
func (r *listingRepository) Nearby(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error) {
	distance := `(6371 * acos(least(1.0, cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude)))))`

	var listingModels []model.ListingModel
	err := r.db.Preload("Images").
		Select("*, "+distance+" AS distance", latitude, longitude, latitude).
		Where(distance+" <= ?", latitude, longitude, latitude, radiusKm).
		Order("distance ASC").
		Limit(limit).
		Find(&listingModels).Error
	if err != nil {
		return nil, err
	}
	return toEntities(listingModels), nil
}

func (r *listingRepository) Update(listing *entity.Listing) error {
	listingModel := ToListingModel(listing)
	listingModel.Images = nil
	return r.db.Save(listingModel).Error
}

func (r *listingRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&model.ListingImageModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.ListingModel{}).Error
	})
}

func toEntities(listingModels []model.ListingModel) []*entity.Listing {
	listings := make([]*entity.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = ToListingEntity(&listingModels[i])
	}
	return listings
}
