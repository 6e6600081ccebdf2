package usecase

import (
	"errors"
	"testing"

	"mycomentor/pkg/logger"
	"mycomentor/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) Create(listing *entity.Listing) error {
	args := m.Called(listing)
	if args.Error(0) == nil && listing.ID == "" {
		listing.ID = "listing-123"
	}
	return args.Error(0)
}

func (m *mockListingRepository) GetByID(id string) (*entity.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *mockListingRepository) GetBySellerID(sellerID string, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(sellerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *mockListingRepository) List(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error) {
	args := m.Called(limit, offset, mushroomType)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepository) Nearby(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error) {
	args := m.Called(latitude, longitude, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *mockListingRepository) Update(listing *entity.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *mockListingRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newMarketplaceUseCase(repo *mockListingRepository) MarketplaceUseCase {
	return NewMarketplaceUseCase(repo, nil, nil, nil, logger.New())
}

func TestCreateListing_Success(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newMarketplaceUseCase(repo)

	listing, err := uc.CreateListing("seller-1", CreateListingInput{
		Title:        "Fresh Oyster Mushrooms",
		MushroomType: "oyster",
		Price:        950,
		Quantity:     5,
		ContactName:  "Nimal",
		ContactPhone: "0771234567",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "listing-123", listing.ID)
	assert.Equal(t, "seller-1", listing.SellerID)
	assert.Equal(t, "oyster", listing.MushroomType)
	repo.AssertExpectations(t)
}

func TestCreateListing_RepoError(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(errors.New("db down"))

	uc := newMarketplaceUseCase(repo)

	_, err := uc.CreateListing("seller-1", CreateListingInput{Title: "t"}, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create listing")
}

func TestGetListing(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("GetByID", "listing-123").Return(&entity.Listing{ID: "listing-123", Title: "Shiitake"}, nil)

	uc := newMarketplaceUseCase(repo)

	listing, err := uc.GetListing("listing-123")

	assert.NoError(t, err)
	assert.Equal(t, "Shiitake", listing.Title)
}

func TestListListings_PassesFilter(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("List", 20, 0, "oyster").Return([]*entity.Listing{{ID: "l1"}}, int64(1), nil)

	uc := newMarketplaceUseCase(repo)

	listings, total, err := uc.ListListings(20, 0, "oyster")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, listings, 1)
	repo.AssertExpectations(t)
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("GetByID", "listing-123").Return(&entity.Listing{ID: "listing-123", SellerID: "seller-1"}, nil)

	uc := newMarketplaceUseCase(repo)

	_, err := uc.UpdateListing("listing-123", "intruder", UpdateListingInput{})

	assert.EqualError(t, err, "you can only update your own listings")
}

func TestUpdateListing_AppliesFields(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("GetByID", "listing-123").Return(&entity.Listing{
		ID:       "listing-123",
		SellerID: "seller-1",
		Title:    "Old",
		Price:    500,
	}, nil)
	repo.On("Update", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newMarketplaceUseCase(repo)

	title := "New Title"
	price := 750.0
	listing, err := uc.UpdateListing("listing-123", "seller-1", UpdateListingInput{Title: &title, Price: &price})

	assert.NoError(t, err)
	assert.Equal(t, "New Title", listing.Title)
	assert.Equal(t, 750.0, listing.Price)
}

func TestDeleteListing_OwnerOnly(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("GetByID", "listing-123").Return(&entity.Listing{ID: "listing-123", SellerID: "seller-1"}, nil)

	uc := newMarketplaceUseCase(repo)

	err := uc.DeleteListing("listing-123", "intruder")

	assert.EqualError(t, err, "you can only delete your own listings")
}

func TestDeleteListing_Success(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("GetByID", "listing-123").Return(&entity.Listing{ID: "listing-123", SellerID: "seller-1"}, nil)
	repo.On("Delete", "listing-123").Return(nil)

	uc := newMarketplaceUseCase(repo)

	assert.NoError(t, uc.DeleteListing("listing-123", "seller-1"))
	repo.AssertExpectations(t)
}

func TestNearbyListings(t *testing.T) {
	repo := new(mockListingRepository)
	repo.On("Nearby", 6.9271, 79.8612, 25.0, 20).Return([]*entity.Listing{{ID: "l1"}, {ID: "l2"}}, nil)

	uc := newMarketplaceUseCase(repo)

	listings, err := uc.NearbyListings(6.9271, 79.8612, 25.0, 20)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)
}
