package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api/handlers"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api/middleware"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/email"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/storage"
)

// Services bundles everything the HTTP handlers call.
type Services struct {
	Auth     services.IAuthService
	Users    services.IUserService
	Listings services.IListingService
	Messages services.IMessageService
	Contact  services.IContactService
	Media    services.IMediaService
}

// NewServices wires the Mongo-backed services. notifier may be nil.
func NewServices(db *mongo.Database, cfg *config.Config, sender email.Sender, store storage.IMediaStorage, notifier services.InquiryNotifier) Services {
	users := services.NewUserService(db, cfg)
	listings := services.NewListingService(db, cfg)
	return Services{
		Auth:     services.NewAuthService(cfg, users),
		Users:    users,
		Listings: listings,
		Messages: services.NewMessageService(db, cfg, listings, notifier),
		Contact:  services.NewContactService(cfg, sender),
		Media:    services.NewMediaService(cfg, store),
	}
}

// SetupRouter configures and returns the main Gin engine. ctx bounds the
// rate limiter's background cleanup.
func SetupRouter(ctx context.Context, cfg *config.Config, svc Services, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.MaxImagesPerUpload*cfg.ImageMaxSizeMB+1) << 20

	// Apply global middleware first (order matters)
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(m))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CorsAllowedOrigin))

	rateLimiter := middleware.NewRateLimiterMiddleware(ctx, cfg)
	limited := rateLimiter.Limit()
	gate := middleware.AuthMiddleware(svc.Auth)
	agentOnly := middleware.RequireRole(models.RoleAgent)
	maxFileBytes := int64(cfg.ImageMaxSizeMB) << 20

	authHandler := handlers.NewRestAuthHandler(svc.Auth, m)
	listingHandler := handlers.NewRestListingHandler(svc.Listings)
	userHandler := handlers.NewRestUserHandler(svc.Users, svc.Media, m, maxFileBytes)
	messageHandler := handlers.NewRestMessageHandler(svc.Messages, svc.Contact, m)
	uploadHandler := handlers.NewRestUploadHandler(svc.Media, m, maxFileBytes, cfg.MaxImagesPerUpload)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	v := r.Group("/api")
	{
		v.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		authGroup := v.Group("/auth")
		authGroup.POST("/register", limited, authHandler.Register)
		authGroup.POST("/login", limited, authHandler.Login)
		authGroup.GET("/me", gate, authHandler.Me)

		props := v.Group("/properties")
		props.GET("", listingHandler.ListListings)
		props.GET("/:id", listingHandler.GetListing)
		props.POST("", gate, agentOnly, listingHandler.CreateListing)
		props.PUT("/:id", gate, agentOnly, listingHandler.UpdateListing)
		props.DELETE("/:id", gate, agentOnly, listingHandler.DeleteListing)

		users := v.Group("/users")
		users.GET("/agents", userHandler.ListAgents)
		users.PUT("/profile", gate, userHandler.UpdateProfile)
		users.PUT("/profile/image", gate, userHandler.UpdateProfileImage)

		msgs := v.Group("/messages")
		msgs.POST("", limited, messageHandler.CreateMessage)
		msgs.POST("/visit", limited, messageHandler.CreateVisitRequest)
		msgs.POST("/contact", limited, messageHandler.ContactForm)
		msgs.GET("/agent/:agentId", gate, agentOnly, messageHandler.ListForAgent)
		msgs.GET("/agent/:agentId/unread", gate, agentOnly, messageHandler.UnreadCount)
		msgs.PUT("/:messageId/read", gate, agentOnly, messageHandler.MarkRead)

		v.POST("/upload/images", gate, uploadHandler.UploadImages)
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine. It is
// bound separately from the public API and used by operators and tests.
func SetupServiceRouter(cfg *config.Config, rdb redis.Cmdable, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			zap.L().Info("shutdown requested via service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				zap.L().Warn("shutdown already signalled")
			}
		case "getTestEmail":
			getTestEmail(c, rdb, req.Arguments)
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}

// getTestEmail returns (and consumes) a mail captured by email.RedisSender.
// Arguments: [kind, address].
func getTestEmail(c *gin.Context, rdb redis.Cmdable, rawArgs json.RawMessage) {
	var args []string
	if err := json.Unmarshal(rawArgs, &args); err != nil || len(args) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [kind, email]"})
		return
	}
	if rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Redis not configured"})
		return
	}
	redisKey := email.MockEmailKey(args[1], email.Kind(args[0]))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Poll briefly; the mail may still be on its way through the worker.
	var data string
	var err error
	for i := 0; i < 10; i++ {
		data, err = rdb.GetDel(ctx, redisKey).Result()
		if err == nil {
			break
		}
		if !errors.Is(err, redis.Nil) {
			zap.L().Error("service API redis error", zap.String("key", redisKey), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
			return
		}
		select {
		case <-ctx.Done():
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found for key %s", redisKey)})
			return
		case <-time.After(200 * time.Millisecond):
		}
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found for key %s", redisKey)})
		return
	}

	var emailData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &emailData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": emailData})
}
