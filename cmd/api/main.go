package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/leadhive/superapp/api/internal/auth"
	"github.com/leadhive/superapp/api/internal/cache"
	"github.com/leadhive/superapp/api/internal/config"
	"github.com/leadhive/superapp/api/internal/database"
	"github.com/leadhive/superapp/api/internal/handler"
	middlewarepkg "github.com/leadhive/superapp/api/internal/middleware"
	"github.com/leadhive/superapp/api/internal/provider"
	"github.com/leadhive/superapp/api/internal/repository"
	"github.com/leadhive/superapp/api/internal/router"
	"github.com/leadhive/superapp/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	cacheLog, err := cache.NewSQLiteLog(cfg.CachePath)
	if err != nil {
		logger.Fatal("failed to open cache", zap.Error(err))
	}
	defer cacheLog.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	leadsRepo := repository.NewPGXLeadsRepository(pool)
	searchesRepo := repository.NewPGXSearchesRepository(pool)

	searcher := provider.NewSerpClient(nil, cfg.SearchBaseURL, cfg.SearchToken)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	historyService := service.NewHistoryService(cacheLog)
	leadsService := service.NewLeadsService(leadsRepo, searchesRepo, searcher, historyService, logger)
	leadsService.CrossBatchDedup = cfg.CrossBatchDedup
	leadsService.Sanitizer = service.NewLeadSanitizer()
	promptService := service.NewPromptService(cfg.DefaultLocation)
	cleanupService := service.NewCleanupService(leadsRepo)
	excelService := service.NewExcelService()

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Users:   handler.NewUserAdminHandler(userService),
		Leads:   handler.NewLeadsHandler(leadsService),
		Search:  handler.NewSearchHandler(leadsService, promptService, historyService),
		Cleanup: handler.NewCleanupHandler(cleanupService),
		Excel:   handler.NewExcelHandler(excelService, leadsService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	logger.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
