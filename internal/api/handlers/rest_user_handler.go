package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// RestUserHandler handles agent listing and profile updates.
type RestUserHandler struct {
	userService  services.IUserService
	mediaService services.IMediaService
	metrics      *metrics.Metrics
	maxFileBytes int64
}

func NewRestUserHandler(userService services.IUserService, mediaService services.IMediaService, m *metrics.Metrics, maxFileBytes int64) *RestUserHandler {
	return &RestUserHandler{
		userService:  userService,
		mediaService: mediaService,
		metrics:      m,
		maxFileBytes: maxFileBytes,
	}
}

// ListAgents handles GET /api/users/agents
func (h *RestUserHandler) ListAgents(c *gin.Context) {
	agents, err := h.userService.ListAgents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, agents)
}

// UpdateProfile handles PUT /api/users/profile
func (h *RestUserHandler) UpdateProfile(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), session.UserID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// UpdateProfileImage handles PUT /api/users/profile/image (multipart field "image").
func (h *RestUserHandler) UpdateProfileImage(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	files, err := readUploads(c, "image", h.maxFileBytes, 1)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(files) != 1 {
		respondError(c, errSingleImage)
		return
	}

	urls, err := h.mediaService.UploadImages(c.Request.Context(), session.UserID, files)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ImagesUploaded.Add(float64(len(urls)))

	user, err := h.userService.SetProfileImage(c.Request.Context(), session.UserID, urls[0])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
