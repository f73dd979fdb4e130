package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// RestListingHandler handles REST requests for property listings.
type RestListingHandler struct {
	listingService services.IListingService
}

// NewRestListingHandler creates a new RestListingHandler.
func NewRestListingHandler(listingService services.IListingService) *RestListingHandler {
	return &RestListingHandler{listingService: listingService}
}

// ListListings handles GET /api/properties?agent=<id>
func (h *RestListingHandler) ListListings(c *gin.Context) {
	var filter models.ListingFilter
	if agent := c.Query("agent"); agent != "" {
		agentID, err := primitive.ObjectIDFromHex(agent)
		if err != nil {
			respondError(c, apperrors.Wrap(apperrors.ErrValidation, "Invalid agent id", err))
			return
		}
		filter.AgentID = &agentID
	}

	listings, err := h.listingService.ListListings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing handles GET /api/properties/:id
func (h *RestListingHandler) GetListing(c *gin.Context) {
	listing, err := h.listingService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// CreateListing handles POST /api/properties. Any owner sent in the body is
// ignored; ListingInput has no such field.
func (h *RestListingHandler) CreateListing(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req models.ListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), session.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateListing handles PUT /api/properties/:id
func (h *RestListingHandler) UpdateListing(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var patch models.ListingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), c.Param("id"), session.UserID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteListing handles DELETE /api/properties/:id
func (h *RestListingHandler) DeleteListing(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), c.Param("id"), session.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property removed"})
}
