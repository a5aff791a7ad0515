package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/api"
	"github.com/wuwenbin0122/ryoku/internal/chat"
	"github.com/wuwenbin0122/ryoku/internal/completion"
	"github.com/wuwenbin0122/ryoku/internal/store"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: failed to build: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	conversations, closeStore, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("store: failed to open", zap.Error(err))
	}
	defer closeStore()

	providers, err := completion.NewProviders(cfg.Completion, logger)
	if err != nil {
		logger.Fatal("completion: failed to configure providers", zap.Error(err))
	}

	resolver, err := completion.NewResolver(providers, cfg.Completion.DefaultProvider,
		cfg.Completion.PrimaryModel, cfg.Completion.BackupModel)
	if err != nil {
		logger.Fatal("completion: failed to resolve models", zap.Error(err))
	}

	chatService, err := chat.NewService(chat.Config{
		PrimaryModel: cfg.Completion.PrimaryModel,
		BackupModel:  cfg.Completion.BackupModel,
		Timeout:      cfg.Completion.Timeout,
		SystemPrompt: chat.DefaultSystemPrompt,
	}, conversations, resolver, logger)
	if err != nil {
		logger.Fatal("chat: failed to initialise service", zap.Error(err))
	}

	router := setupRouter(chatService, logger)

	// two completion attempts plus persistence must fit in one response
	writeTimeout := 2*cfg.Completion.Timeout + 15*time.Second

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("primary_model", cfg.Completion.PrimaryModel),
			zap.String("backup_model", cfg.Completion.BackupModel),
			zap.Bool("persistence", cfg.Database.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server crashed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}

func setupRouter(chatService *chat.Service, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(api.RequestID(), api.AccessLog(logger), gin.Recovery())

	api.NewHandler(chatService, logger).RegisterRoutes(router)

	return router
}
