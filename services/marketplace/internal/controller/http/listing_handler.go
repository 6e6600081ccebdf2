package http

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"mycomentor/pkg/logger"
	"mycomentor/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	marketplaceUseCase usecase.MarketplaceUseCase
	logger             *logger.Logger
}

func NewListingHandler(marketplaceUseCase usecase.MarketplaceUseCase, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		marketplaceUseCase: marketplaceUseCase,
		logger:             logger,
	}
}

type UpdateListingRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

// CreateListing godoc
// @Summary      Create a marketplace listing
// @Description  Create a listing with details and up to 6 images
// @Tags         marketplace
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Listing title"
// @Param        description formData string false "Description"
// @Param        mushroom_type formData string false "Mushroom type"
// @Param        price formData number true "Price"
// @Param        quantity formData int false "Quantity"
// @Param        images formData file false "Listing images"
// @Success      201  {object}  entity.Listing
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid price is required"})
		return
	}

	quantity := 1
	if quantityStr := c.PostForm("quantity"); quantityStr != "" {
		if parsed, err := strconv.Atoi(quantityStr); err == nil && parsed > 0 {
			quantity = parsed
		}
	}

	latitude, _ := strconv.ParseFloat(c.PostForm("latitude"), 64)
	longitude, _ := strconv.ParseFloat(c.PostForm("longitude"), 64)

	input := usecase.CreateListingInput{
		Title:        title,
		Description:  c.PostForm("description"),
		MushroomType: c.PostForm("mushroom_type"),
		Price:        price,
		Quantity:     quantity,
		ContactName:  c.PostForm("contact_name"),
		ContactPhone: c.PostForm("contact_phone"),
		ContactEmail: c.PostForm("contact_email"),
		Latitude:     latitude,
		Longitude:    longitude,
	}

	var imageFiles []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		imageFiles = form.File["images"]
	}

	listing, err := h.marketplaceUseCase.CreateListing(userID, input, imageFiles)
	if err != nil {
		h.logger.Error("Failed to create listing: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetListing godoc
// @Summary      Get a listing
// @Tags         marketplace
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.marketplaceUseCase.GetListing(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// ListListings godoc
// @Summary      List marketplace listings
// @Description  List listings, newest first, optionally filtered by mushroom type
// @Tags         marketplace
// @Produce      json
// @Param        limit query int false "Number of listings to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Param        mushroom_type query string false "Filter by mushroom type"
// @Success      200  {object}  map[string]interface{}
// @Router       /listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	listings, total, err := h.marketplaceUseCase.ListListings(limit, offset, c.Query("mushroom_type"))
	if err != nil {
		h.logger.Error("Failed to list listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
		"total":    total,
		"offset":   offset,
	})
}

// GetMyListings godoc
// @Summary      Get the current user's listings
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of listings to return"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /listings/mine [get]
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	listings, err := h.marketplaceUseCase.GetSellerListings(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get seller listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// NearbyListings godoc
// @Summary      Get listings near a location
// @Tags         marketplace
// @Produce      json
// @Param        latitude query number true "Latitude"
// @Param        longitude query number true "Longitude"
// @Param        radius query number false "Radius in kilometers (default 25)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /listings/nearby [get]
func (h *ListingHandler) NearbyListings(c *gin.Context) {
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid latitude is required"})
		return
	}

	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid longitude is required"})
		return
	}

	radius := 25.0
	if radiusStr := c.Query("radius"); radiusStr != "" {
		if parsed, err := strconv.ParseFloat(radiusStr, 64); err == nil && parsed > 0 && parsed <= 500 {
			radius = parsed
		}
	}

	listings, err := h.marketplaceUseCase.NearbyListings(latitude, longitude, radius, 20)
	if err != nil {
		h.logger.Error("Failed to get nearby listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get nearby listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// UpdateListing godoc
// @Summary      Update a listing
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body UpdateListingRequest true "Fields to update"
// @Success      200  {object}  entity.Listing
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.marketplaceUseCase.UpdateListing(c.Param("id"), userID, usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if err.Error() == "you can only update your own listings" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Tags         marketplace
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.marketplaceUseCase.DeleteListing(c.Param("id"), userID); err != nil {
		if err.Error() == "you can only delete your own listings" {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}
