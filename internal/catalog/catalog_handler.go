package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalogService Service
}

func NewHandler(catalogService Service) *Handler {
	return &Handler{catalogService: catalogService}
}

// GetCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200 {array} catalog.Category
// @Router       /api/categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetBlocks godoc
// @Summary      List blocks for a category
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {array} catalog.Block
// @Router       /api/categories/{id}/blocks [get]
func (h *Handler) GetBlocks(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	blocks, err := h.catalogService.GetBlocks(c.Request.Context(), uint(categoryID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch blocks"})
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// GetQuestions godoc
// @Summary      List questions for a block
// @Tags         catalog
// @Produce      json
// @Param        code path string true "Block code (e.g. 1_1)"
// @Success      200 {array} catalog.Question
// @Router       /api/blocks/{code}/questions [get]
func (h *Handler) GetQuestions(c *gin.Context) {
	questions, err := h.catalogService.GetQuestions(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ErrInvalidBlockCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetOptions godoc
// @Summary      List options for a question
// @Tags         catalog
// @Produce      json
// @Param        code path string true "Question code"
// @Success      200 {array} catalog.Option
// @Router       /api/questions/{code}/options [get]
func (h *Handler) GetOptions(c *gin.Context) {
	options, err := h.catalogService.GetOptions(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch options"})
		return
	}
	c.JSON(http.StatusOK, options)
}
