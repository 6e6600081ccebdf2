package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mycomentor/pkg/logger"
	"mycomentor/services/marketplace/internal/entity"
	"mycomentor/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMarketplaceUseCase struct {
	mock.Mock
}

func (m *mockMarketplaceUseCase) CreateListing(sellerID string, input usecase.CreateListingInput, imageFiles []*multipart.FileHeader) (*entity.Listing, error) {
	args := m.Called(sellerID, input, imageFiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *mockMarketplaceUseCase) GetListing(listingID string) (*entity.Listing, error) {
	args := m.Called(listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *mockMarketplaceUseCase) ListListings(limit, offset int, mushroomType string) ([]*entity.Listing, int64, error) {
	args := m.Called(limit, offset, mushroomType)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockMarketplaceUseCase) GetSellerListings(sellerID string, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(sellerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *mockMarketplaceUseCase) NearbyListings(latitude, longitude, radiusKm float64, limit int) ([]*entity.Listing, error) {
	args := m.Called(latitude, longitude, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *mockMarketplaceUseCase) UpdateListing(listingID, sellerID string, input usecase.UpdateListingInput) (*entity.Listing, error) {
	args := m.Called(listingID, sellerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *mockMarketplaceUseCase) DeleteListing(listingID, sellerID string) error {
	args := m.Called(listingID, sellerID)
	return args.Error(0)
}

func setupListingTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func createListingForm(fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestCreateListing_Unauthorized(t *testing.T) {
	handler := NewListingHandler(new(mockMarketplaceUseCase), logger.New())
	router := setupListingTestRouter()
	router.POST("/listings", handler.CreateListing)

	body, contentType := createListingForm(map[string]string{"title": "Oyster", "price": "950"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateListing_Success(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("CreateListing", "seller-1", mock.AnythingOfType("usecase.CreateListingInput"), mock.Anything).
		Return(&entity.Listing{ID: "listing-123", Title: "Fresh Oyster Mushrooms"}, nil)

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.POST("/listings", authAs("seller-1"), handler.CreateListing)

	body, contentType := createListingForm(map[string]string{
		"title":         "Fresh Oyster Mushrooms",
		"price":         "950",
		"quantity":      "5",
		"mushroom_type": "oyster",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var listing entity.Listing
	json.Unmarshal(w.Body.Bytes(), &listing)
	assert.Equal(t, "listing-123", listing.ID)
	uc.AssertExpectations(t)
}

func TestCreateListing_MissingTitle(t *testing.T) {
	handler := NewListingHandler(new(mockMarketplaceUseCase), logger.New())
	router := setupListingTestRouter()
	router.POST("/listings", authAs("seller-1"), handler.CreateListing)

	body, contentType := createListingForm(map[string]string{"price": "950"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateListing_InvalidPrice(t *testing.T) {
	handler := NewListingHandler(new(mockMarketplaceUseCase), logger.New())
	router := setupListingTestRouter()
	router.POST("/listings", authAs("seller-1"), handler.CreateListing)

	body, contentType := createListingForm(map[string]string{"title": "Oyster", "price": "free"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/listings", body)
	req.Header.Set("Content-Type", contentType)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListing_NotFound(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("GetListing", "missing").Return(nil, errors.New("record not found"))

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.GET("/listings/:id", handler.GetListing)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/listings/missing", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListListings_FilterAndPagination(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("ListListings", 10, 20, "oyster").Return([]*entity.Listing{{ID: "l1"}}, int64(21), nil)

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.GET("/listings", handler.ListListings)

	w := httptest.NewRecorder()
	query := url.Values{"limit": {"10"}, "offset": {"20"}, "mushroom_type": {"oyster"}}
	req, _ := http.NewRequest("GET", "/listings?"+query.Encode(), nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(21), response["total"])
	assert.Equal(t, float64(1), response["count"])
	uc.AssertExpectations(t)
}

func TestNearbyListings_MissingCoordinates(t *testing.T) {
	handler := NewListingHandler(new(mockMarketplaceUseCase), logger.New())
	router := setupListingTestRouter()
	router.GET("/listings/nearby", handler.NearbyListings)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/listings/nearby", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNearbyListings_Success(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("NearbyListings", 6.9271, 79.8612, 25.0, 20).Return([]*entity.Listing{{ID: "l1"}}, nil)

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.GET("/listings/nearby", handler.NearbyListings)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/listings/nearby?latitude=6.9271&longitude=79.8612", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestUpdateListing_Forbidden(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("UpdateListing", "listing-123", "intruder", mock.Anything).
		Return(nil, errors.New("you can only update your own listings"))

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.PUT("/listings/:id", authAs("intruder"), handler.UpdateListing)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/listings/listing-123", strings.NewReader(`{"title":"Taken"}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteListing_Success(t *testing.T) {
	uc := new(mockMarketplaceUseCase)
	uc.On("DeleteListing", "listing-123", "seller-1").Return(nil)

	handler := NewListingHandler(uc, logger.New())
	router := setupListingTestRouter()
	router.DELETE("/listings/:id", authAs("seller-1"), handler.DeleteListing)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/listings/listing-123", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}
