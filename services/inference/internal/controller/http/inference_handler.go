package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"mycomentor/pkg/logger"
	"mycomentor/services/inference/internal/usecase"

	"github.com/gin-gonic/gin"
)

// 10 MB upload cap, same as the model services accept.
const maxImageSize = 10 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type InferenceHandler struct {
	inferenceUseCase usecase.InferenceUseCase
	logger           *logger.Logger
}

func NewInferenceHandler(inferenceUseCase usecase.InferenceUseCase, logger *logger.Logger) *InferenceHandler {
	return &InferenceHandler{
		inferenceUseCase: inferenceUseCase,
		logger:           logger,
	}
}

func (h *InferenceHandler) openValidatedImage(c *gin.Context, field string) ([]byte, string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return nil, "", false
	}

	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the 10MB limit"})
		return nil, "", false
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format. Only jpg, jpeg, png are allowed"})
		return nil, "", false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return nil, "", false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}

	return data, file.Filename, true
}

// PredictGrowth godoc
// @Summary      Predict growth stage
// @Description  Run the growth stage model on a mushroom image and estimate time to harvest
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Mushroom image"
// @Param        mushroom_type formData string false "Mushroom type (default oyster)"
// @Success      200  {object}  inference.GrowthResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /growth/predict [post]
func (h *InferenceHandler) PredictGrowth(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	data, _, ok := h.openValidatedImage(c, "image")
	if !ok {
		return
	}

	mushroomType := c.PostForm("mushroom_type")
	if mushroomType == "" {
		mushroomType = "oyster"
	}

	response, err := h.inferenceUseCase.PredictGrowth(c.Request.Context(), userID, data, mushroomType)
	if err != nil {
		h.logger.Error("Growth prediction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Growth model is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DetectMushrooms godoc
// @Summary      Detect mushrooms in an image
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image to scan"
// @Success      200  {object}  inference.DetectionResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /detect [post]
func (h *InferenceHandler) DetectMushrooms(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	data, filename, ok := h.openValidatedImage(c, "file")
	if !ok {
		return
	}

	response, err := h.inferenceUseCase.DetectMushrooms(c.Request.Context(), userID, filename, strings.NewReader(string(data)))
	if err != nil {
		h.logger.Error("Detection failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Detection model is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DetectDisease godoc
// @Summary      Scan an image for disease
// @Description  Run the disease model and return detections plus an annotated image reference
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Image to scan"
// @Success      200  {object}  inference.DetectionResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /disease/detect [post]
func (h *InferenceHandler) DetectDisease(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	data, filename, ok := h.openValidatedImage(c, "file")
	if !ok {
		return
	}

	response, err := h.inferenceUseCase.DetectDisease(c.Request.Context(), userID, filename, strings.NewReader(string(data)))
	if err != nil {
		h.logger.Error("Disease scan failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Disease model is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnnotatedImage godoc
// @Summary      Fetch an annotated result image
// @Tags         inference
// @Produce      png
// @Security     BearerAuth
// @Param        path query string true "Annotated image path returned by a disease scan"
// @Success      200  {file}    binary
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /disease/annotated [get]
func (h *InferenceHandler) AnnotatedImage(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Path is required"})
		return
	}

	data, err := h.inferenceUseCase.AnnotatedImage(c.Request.Context(), path)
	if err != nil {
		h.logger.Error("Failed to fetch annotated image: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Annotated image is currently unavailable"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
