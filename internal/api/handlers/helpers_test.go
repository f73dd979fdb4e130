package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api/middleware"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withSession stands in for the auth gate.
func withSession(s *auth.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s != nil {
			c.Set(middleware.ContextKeySession, s)
		}
		c.Next()
	}
}

func agentSession() *auth.Session {
	return &auth.Session{UserID: primitive.NewObjectID(), Role: models.RoleAgent}
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger())
	return r
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test")
}

func performJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func performRequestWithAuth(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
