package soundtrack

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	soundtrackService Service
}

func NewHandler(soundtrackService Service) *Handler {
	return &Handler{soundtrackService: soundtrackService}
}

// GetSoundtracks godoc
// @Summary      List soundtracks
// @Tags         soundtracks
// @Produce      json
// @Success      200 {object} map[string][]soundtrack.Soundtrack
// @Router       /api/soundtracks [get]
func (h *Handler) GetSoundtracks(c *gin.Context) {
	soundtracks, err := h.soundtrackService.GetSoundtracks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve soundtracks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"soundtracks": soundtracks})
}

// GetPlaylists godoc
// @Summary      List distinct playlists
// @Tags         soundtracks
// @Produce      json
// @Success      200 {object} map[string][]string
// @Router       /api/soundtracks/playlists [get]
func (h *Handler) GetPlaylists(c *gin.Context) {
	playlists, err := h.soundtrackService.GetPlaylists(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve playlists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}
