package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/trackdesk/api/handler"
	"github.com/fastygo/trackdesk/internal/config"
	"github.com/fastygo/trackdesk/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/trackdesk/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/trackdesk/internal/infrastructure/redis"
	"github.com/fastygo/trackdesk/internal/infrastructure/storage"
	"github.com/fastygo/trackdesk/internal/middleware"
	"github.com/fastygo/trackdesk/internal/realtime"
	"github.com/fastygo/trackdesk/internal/router"
	"github.com/fastygo/trackdesk/internal/services"
	"github.com/fastygo/trackdesk/internal/services/lifecycle"
	"github.com/fastygo/trackdesk/pkg/httpcontext"
	"github.com/fastygo/trackdesk/pkg/logger"
	"github.com/fastygo/trackdesk/repository/postgres"
	redisRepo "github.com/fastygo/trackdesk/repository/redis"
	attachmentUC "github.com/fastygo/trackdesk/usecase/attachment"
	authUC "github.com/fastygo/trackdesk/usecase/auth"
	bugUC "github.com/fastygo/trackdesk/usecase/bug"
	featureUC "github.com/fastygo/trackdesk/usecase/feature"
	mentionUC "github.com/fastygo/trackdesk/usecase/mention"
	"github.com/fastygo/trackdesk/usecase/notify"
	overviewUC "github.com/fastygo/trackdesk/usecase/overview"
	roadmapUC "github.com/fastygo/trackdesk/usecase/roadmap"
	"github.com/fastygo/trackdesk/usecase/roster"
	settingsUC "github.com/fastygo/trackdesk/usecase/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	attachmentStore, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		zapLogger.Fatal("failed to open attachment store", zap.Error(err), zap.String("path", cfg.Storage.Path))
	}
	manager.Register("attachments", func(ctx context.Context) error {
		return attachmentStore.Close()
	})

	mon := monitor.New(10*time.Second, zapLogger,
		monitor.PostgresProbe(pool),
		monitor.RedisProbe(redisClient),
		monitor.StorageProbe(attachmentStore),
	)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	bugRepo := postgres.NewBugRepository(pool)
	featureRepo := postgres.NewFeatureRepository(pool)
	roadmapRepo := postgres.NewRoadmapRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	mentionRepo := postgres.NewMentionRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	broker := realtime.NewRedisBroker(redisClient)

	if cfg.Janitor.Enabled {
		janitor, err := services.NewAttachmentJanitor(attachmentStore, bugRepo, mon, zapLogger, services.JanitorConfig{
			Schedule: cfg.Janitor.Schedule,
		})
		if err != nil {
			zapLogger.Fatal("attachment janitor misconfigured", zap.Error(err))
		}
		janitor.Start()
		manager.Register("attachment_janitor", func(ctx context.Context) error {
			janitor.Stop(ctx)
			return nil
		})
	}

	tokens := authUC.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer)
	authUseCase := authUC.New(userRepo, sessionRepo, tokens, cfg.JWT.SessionTTL, zapLogger)
	workspaces := roster.NewWorkspaces(userRepo, zapLogger)
	bugUseCase := bugUC.New(bugRepo, attachmentStore, zapLogger)
	featureUseCase := featureUC.New(featureRepo, zapLogger)
	roadmapUseCase := roadmapUC.New(roadmapRepo, featureRepo, cfg.Roadmap.QuarterCount, zapLogger)
	settingsUseCase := settingsUC.New(settingsRepo, zapLogger)
	attachmentUseCase := attachmentUC.New(bugRepo, attachmentStore, cfg.Storage.MaxAttachmentSize, zapLogger)
	mentionUseCase := mentionUC.New(mentionRepo, userRepo, broker, zapLogger)
	overviewUseCase := overviewUC.New(userRepo, bugRepo, featureRepo, roadmapRepo, zapLogger)

	newCounter := func(recipientID string) apiHandler.UnreadCounter {
		return notify.NewCounter(mentionUseCase, broker, recipientID, zapLogger)
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:          apiHandler.NewAuthHandler(authUseCase, workspaces, ctxAdapter, zapLogger),
		Users:         apiHandler.NewUserHandler(workspaces, ctxAdapter, zapLogger),
		Bugs:          apiHandler.NewBugHandler(bugUseCase, ctxAdapter, zapLogger),
		Attachments:   apiHandler.NewAttachmentHandler(attachmentUseCase, cfg.Storage.MaxAttachmentSize, ctxAdapter, zapLogger),
		Features:      apiHandler.NewFeatureHandler(featureUseCase, roadmapUseCase, ctxAdapter, zapLogger),
		Roadmap:       apiHandler.NewRoadmapHandler(roadmapUseCase, ctxAdapter, zapLogger),
		Settings:      apiHandler.NewSettingsHandler(settingsUseCase, ctxAdapter, zapLogger),
		Mentions:      apiHandler.NewMentionHandler(mentionUseCase, ctxAdapter, zapLogger),
		Notifications: apiHandler.NewNotificationHandler(mentionUseCase, newCounter, 0, ctxAdapter, zapLogger),
		Overview:      apiHandler.NewOverviewHandler(overviewUseCase, ctxAdapter, zapLogger),
		Health:        apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authUseCase, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:      cfg.HTTP.MaxConn,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("env", cfg.Environment))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
