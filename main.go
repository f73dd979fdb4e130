package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/cache"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/db"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/email"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/storage"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.AppEnv, cfg.LogLevel, "zameen-homes-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	idxCtx, idxCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := db.EnsureIndexes(idxCtx, mongoDb); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}
	idxCancel()

	redisClient, err := cache.ConnectRedis(cfg)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Error("error disconnecting from Redis", zap.Error(err))
		}
	}()

	// Email: Redis capture in mock mode, otherwise SMTP (or logging without a host),
	// optionally mirrored to a file.
	var primaryEmailSender email.Sender
	if cfg.MockServices {
		log.Info("MOCK_SERVICES enabled, capturing email in Redis")
		primaryEmailSender = email.NewRedisSender(redisClient, cfg)
	} else {
		primaryEmailSender = email.NewSMTPSender(cfg)
	}
	compositeSender := email.NewCompositeEmailSender(primaryEmailSender)
	if cfg.LogEmailsPath != "" {
		fileSender, err := email.NewFileEmailSender(cfg.LogEmailsPath)
		if err != nil {
			log.Warn("file email logger disabled", zap.String("path", cfg.LogEmailsPath), zap.Error(err))
		} else {
			compositeSender.AddSender(fileSender)
		}
	}

	var mediaStore storage.IMediaStorage
	mediaStore, err = storage.NewS3Storage(ctx, cfg)
	if err != nil {
		log.Warn("media storage not available, uploads will fail", zap.Error(err))
		mediaStore = storage.Unavailable{Reason: err}
	}

	taskClient := tasks.NewClient(cfg)
	defer taskClient.Close()

	var wg sync.WaitGroup
	shutdownChan := make(chan struct{}, 1)

	// Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, redisClient, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("service API listening", zap.String("port", cfg.ServiceApiPort))
		if err := serviceSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("service API ListenAndServe error", zap.Error(err))
		}
	}()

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server

	apiMode := func() {
		svc := api.NewServices(mongoDb, cfg, compositeSender, mediaStore, tasks.NewInquiryNotifier(taskClient))
		mainApiSrv = &http.Server{
			Addr:              ":" + cfg.ApiPort,
			Handler:           api.SetupRouter(ctx, cfg, svc, metrics.New("zameen_homes")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("main API listening", zap.String("port", cfg.ApiPort))
			if err := mainApiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("main API ListenAndServe error", zap.Error(err))
			}
		}()
	}

	bgMode := func() {
		processor := tasks.NewTaskProcessor(cfg, compositeSender, services.NewUserService(mongoDb, cfg))
		var mux *asynq.ServeMux
		backgroundTaskSrv, mux = tasks.SetupServer(cfg, processor)
		if err := backgroundTaskSrv.Start(mux); err != nil {
			log.Fatal("background task server error", zap.Error(err))
		}
		log.Info("background worker started")
	}

	log.Info("starting application", zap.String("mode", cfg.RunMode))
	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatal("invalid run mode", zap.String("mode", cfg.RunMode))
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case <-shutdownChan:
		log.Info("shutdown requested via service API")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Error("service API shutdown error", zap.Error(err))
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Error("main API shutdown error", zap.Error(err))
		}
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}
	cancel()

	wg.Wait()
	log.Info("server gracefully stopped")
}
