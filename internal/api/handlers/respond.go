package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api/middleware"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
)

var errorStatuses = []struct {
	kind     error
	status   int
	fallback string
}{
	{apperrors.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{apperrors.ErrConflict, http.StatusConflict, "Already exists"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Not authorized"},
	{apperrors.ErrForbidden, http.StatusForbidden, "Access denied"},
	{apperrors.ErrNotFound, http.StatusNotFound, "Not found"},
	{apperrors.ErrDeliveryFailed, http.StatusBadGateway, "Upstream service unavailable"},
}

// StatusFor maps an error kind to its HTTP status. Unknown errors are 500.
func StatusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.kind) {
			return e.status, e.fallback
		}
	}
	return http.StatusInternalServerError, "Server error"
}

// respondError writes the JSON error body for err. Causes of server errors
// are logged, never returned.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, fallback := StatusFor(err)

	message := fallback
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		middleware.LoggerFromContext(c).Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// badRequest reports a body that could not be decoded.
func badRequest(c *gin.Context, err error) {
	respondError(c, apperrors.Wrap(apperrors.ErrValidation, "Invalid request body", err))
}

// sessionOrAbort returns the caller's session; the route must sit behind the auth gate.
func sessionOrAbort(c *gin.Context) (*auth.Session, bool) {
	s, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.ErrUnauthorized, "No token, authorization denied"))
		return nil, false
	}
	return s, true
}
