package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService: userService}
}

// Register godoc
// @Summary      Register a participant
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body user.CreateUserRequest true "User"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Router       /api/users [post]
func (h *Handler) Register(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidUUID) || errors.Is(err, ErrInvalidYear) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "user_uuid": u.UserUUID})
}

// List returns all participants. Admin only; mounted behind the auth
// middleware.
func (h *Handler) List(c *gin.Context) {
	users, err := h.userService.GetUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
