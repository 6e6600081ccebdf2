package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"mycomentor/pkg/logger"
	"mycomentor/pkg/queue"
	"mycomentor/pkg/s3"
	"mycomentor/services/marketplace/internal/entity"
	"mycomentor/services/marketplace/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	maxListingImages = 6
	listingCacheTTL  = 24 * time.Hour
)

type CreateListingInput struct {
	Title        string
	Description  string
	MushroomType string
	Price        float64
	Quantity     int
	ContactName  string
	ContactPhone string
	ContactEmail string
	Latitude     float64
	Longitude    float64
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Quantity    *int
}

type MarketplaceUseCase interface {
	CreateListing(sellerID string, input CreateListingInput, imageFiles []*multipart.FileHeader) (*entity.Listing, error)
	GetListing(listingID string) (*entity.Listing, error)
	ListListings(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error)
	GetSellerListings(sellerID string, limit, offset int) ([]*entity.Listing, error)
	NearbyListings(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error)
	UpdateListing(listingID, sellerID string, input UpdateListingInput) (*entity.Listing, error)
	DeleteListing(listingID, sellerID string) error
}

type marketplaceUseCase struct {
	listingRepo persistent.ListingRepository
	s3Client    *s3.Client
	redisClient *redis.Client
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewMarketplaceUseCase(
	listingRepo persistent.ListingRepository,
	s3Client *s3.Client,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) MarketplaceUseCase {
	return &marketplaceUseCase{
		listingRepo: listingRepo,
		s3Client:    s3Client,
		redisClient: redisClient,
		queueClient: queueClient,
		logger:      logger,
	}
}

func (uc *marketplaceUseCase) CreateListing(sellerID string, input CreateListingInput, imageFiles []*multipart.FileHeader) (*entity.Listing, error) {
	if len(imageFiles) > maxListingImages {
		return nil, fmt.Errorf("maximum %d images allowed per listing", maxListingImages)
	}

	var listingImages []entity.ListingImage
	for i, file := range imageFiles {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		fileKey := fmt.Sprintf("listings/%s/%s%s", sellerID, uuid.New().String(), filepath.Ext(file.Filename))
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		imageURL, err := uc.s3Client.UploadFile(fileKey, src, contentType)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}

		listingImages = append(listingImages, entity.ListingImage{
			ID:       uuid.New().String(),
			ImageURL: imageURL,
			Order:    i,
		})
	}

	listing := &entity.Listing{
		SellerID:     sellerID,
		Title:        input.Title,
		Description:  input.Description,
		MushroomType: input.MushroomType,
		Price:        input.Price,
		Quantity:     input.Quantity,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Images:       listingImages,
	}

	if err := uc.listingRepo.Create(listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	uc.cacheListing(listing)

	if uc.queueClient != nil {
		go uc.publishListingCreated(listing)
	}

	return listing, nil
}

func (uc *marketplaceUseCase) GetListing(listingID string) (*entity.Listing, error) {
	if cached := uc.cachedListing(listingID); cached != nil {
		return cached, nil
	}

	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}

	uc.cacheListing(listing)
	return listing, nil
}

func (uc *marketplaceUseCase) ListListings(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.List(limit, offset, mushroomType)
}

func (uc *marketplaceUseCase) GetSellerListings(sellerID string, limit, offset int) ([]*entity.Listing, error) {
	return uc.listingRepo.GetBySellerID(sellerID, limit, offset)
}

func (uc *marketplaceUseCase) NearbyListings(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error) {
	return uc.listingRepo.Nearby(latitude, longitude, radiusKm, limit)
}

func (uc *marketplaceUseCase) UpdateListing(listingID, sellerID string, input UpdateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, fmt.Errorf("you can only update your own listings")
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Quantity != nil {
		listing.Quantity = *input.Quantity
	}

	if err := uc.listingRepo.Update(listing); err != nil {
		return nil, err
	}

	uc.cacheListing(listing)
	return listing, nil
}

func (uc *marketplaceUseCase) DeleteListing(listingID, sellerID string) error {
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return err
	}

	if listing.SellerID != sellerID {
		return fmt.Errorf("you can only delete your own listings")
	}

	if err := uc.listingRepo.Delete(listingID); err != nil {
		return err
	}

	if uc.redisClient != nil {
		ctx := context.Background()
		uc.redisClient.Del(ctx, fmt.Sprintf("listing:%s", listingID))
	}
	return nil
}

func (uc *marketplaceUseCase) cacheListing(listing *entity.Listing) {
	if uc.redisClient == nil {
		return
	}

	raw, err := json.Marshal(listing)
	if err != nil {
		return
	}

	ctx := context.Background()
	uc.redisClient.Set(ctx, fmt.Sprintf("listing:%s", listing.ID), raw, listingCacheTTL)
}

func (uc *marketplaceUseCase) cachedListing(listingID string) *entity.Listing {
	if uc.redisClient == nil {
		return nil
	}

	ctx := context.Background()
	raw, err := uc.redisClient.Get(ctx, fmt.Sprintf("listing:%s", listingID)).Result()
	if err != nil {
		return nil
	}

	var listing entity.Listing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil
	}
	return &listing
}

func (uc *marketplaceUseCase) publishListingCreated(listing *entity.Listing) {
	task := map[string]interface{}{
		"type":          queue.TaskListingCreated,
		"user_id":       listing.SellerID,
		"listing_id":    listing.ID,
		"listing_title": listing.Title,
	}

	if err := uc.queueClient.PublishAlertTask(task); err != nil {
		uc.logger.Error("Failed to publish listing created task: %v (listing_id=%s)", err, listing.ID)
	}
}
