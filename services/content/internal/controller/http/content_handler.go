package http

import (
	"errors"
	"net/http"

	"mycomentor/pkg/logger"
	"mycomentor/services/content/internal/repo/persistent"
	"mycomentor/services/content/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentUseCase usecase.ContentUseCase
	logger         *logger.Logger
}

func NewContentHandler(contentUseCase usecase.ContentUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
		logger:         logger,
	}
}

// GetCategories godoc
// @Summary      List lesson categories
// @Description  Return all lesson categories with their lessons, in display order
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /lessons [get]
func (h *ContentHandler) GetCategories(c *gin.Context) {
	categories, err := h.contentUseCase.GetCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load lesson categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lessons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory godoc
// @Summary      Get a lesson category
// @Description  Return a single category with its lessons
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      200  {object}  models.LessonCategory
// @Failure      404  {object}  map[string]string
// @Router       /lessons/categories/{id} [get]
func (h *ContentHandler) GetCategory(c *gin.Context) {
	category, err := h.contentUseCase.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, persistent.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.logger.Error("Failed to load category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// GetLesson godoc
// @Summary      Get a lesson
// @Description  Return a single lesson with its full content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lesson ID"
// @Success      200  {object}  models.Lesson
// @Failure      404  {object}  map[string]string
// @Router       /lessons/{id} [get]
func (h *ContentHandler) GetLesson(c *gin.Context) {
	lesson, err := h.contentUseCase.GetLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, persistent.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
			return
		}
		h.logger.Error("Failed to load lesson: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lesson"})
		return
	}

	c.JSON(http.StatusOK, lesson)
}
