package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// RestMessageHandler handles inquiries, visit requests and the contact form.
type RestMessageHandler struct {
	messageService services.IMessageService
	contactService services.IContactService
	metrics        *metrics.Metrics
}

func NewRestMessageHandler(messageService services.IMessageService, contactService services.IContactService, m *metrics.Metrics) *RestMessageHandler {
	return &RestMessageHandler{
		messageService: messageService,
		contactService: contactService,
		metrics:        m,
	}
}

// CreateMessage handles POST /api/messages
func (h *RestMessageHandler) CreateMessage(c *gin.Context) {
	var req models.MessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messageService.CreateMessage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.InquiriesTotal.WithLabelValues("message").Inc()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully",
		"data":    msg,
	})
}

// CreateVisitRequest handles POST /api/messages/visit
func (h *RestMessageHandler) CreateVisitRequest(c *gin.Context) {
	var req models.VisitRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messageService.CreateVisitRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.InquiriesTotal.WithLabelValues("visit").Inc()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Visit request sent successfully",
		"data":    msg,
	})
}

// ContactForm handles POST /api/messages/contact
func (h *RestMessageHandler) ContactForm(c *gin.Context) {
	var req models.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.contactService.SendContactForm(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	h.metrics.InquiriesTotal.WithLabelValues("contact").Inc()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully"})
}

// ListForAgent handles GET /api/messages/agent/:agentId
func (h *RestMessageHandler) ListForAgent(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	msgs, err := h.messageService.ListForAgent(c.Request.Context(), c.Param("agentId"), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": msgs})
}

// UnreadCount handles GET /api/messages/agent/:agentId/unread
func (h *RestMessageHandler) UnreadCount(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	count, err := h.messageService.UnreadCount(c.Request.Context(), c.Param("agentId"), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// MarkRead handles PUT /api/messages/:messageId/read
func (h *RestMessageHandler) MarkRead(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	msg, err := h.messageService.MarkRead(c.Request.Context(), c.Param("messageId"), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message marked as read",
		"data":    msg,
	})
}
