package admin

import (
	"errors"
	"net/http"

	"poll-service/internal/importer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	adminService  Service
	catalogImport *importer.Importer
}

func NewHandler(adminService Service, catalogImport *importer.Importer) *Handler {
	return &Handler{adminService: adminService, catalogImport: catalogImport}
}

type loginRequest struct {
	Key string `json:"key" binding:"required"`
}

// Login godoc
// @Summary      Exchange the admin key for a session token
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body admin.loginRequest true "Admin key"
// @Success      200 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Router       /api/admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.adminService.Login(req.Key)
	if err != nil {
		if errors.Is(err, ErrNotEnabled) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Import godoc
// @Summary      Import the catalog CSV bundle
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /api/admin/import [post]
func (h *Handler) Import(c *gin.Context) {
	if err := h.catalogImport.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catalog import completed successfully"})
}
