package main

import (
	// standard library
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// third-party
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	// internal
	"github.com/rmitchellscott/ditherbox/internal/config"
	"github.com/rmitchellscott/ditherbox/internal/database"
	"github.com/rmitchellscott/ditherbox/internal/editor"
	"github.com/rmitchellscott/ditherbox/internal/handlers"
	"github.com/rmitchellscott/ditherbox/internal/logging"
	"github.com/rmitchellscott/ditherbox/internal/middleware"
	"github.com/rmitchellscott/ditherbox/internal/pollers"
	"github.com/rmitchellscott/ditherbox/internal/presets"
	"github.com/rmitchellscott/ditherbox/internal/storage"
	"github.com/rmitchellscott/ditherbox/internal/version"
)

const (
	sessionSweepInterval  = time.Minute
	exportCleanupInterval = time.Hour
	rateLimitBurst        = 20
)

func main() {
	_ = godotenv.Load()
	logging.Setup(logging.OptionsFromEnv())

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.String())
		os.Exit(0)
	}

	logging.InfoWithComponent(logging.ComponentStartup, "Starting Ditherbox", "version", version.String())
	settings := config.Load()

	if err := database.Initialize(); err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	builtin, err := presets.Builtin()
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to load built-in presets", "error", err)
		os.Exit(1)
	}
	logging.InfoWithComponent(logging.ComponentStartup, "Built-in presets loaded", "count", len(builtin))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := editor.NewManager(settings.SessionTTL)
	sessions.SetMaxOutputPixels(settings.MaxOutputPixels)
	exports := storage.NewExportStorage(settings.ExportDir, settings.ExportURL)
	rateLimiter := middleware.NewIPRateLimiter(settings.RatePerMinute, rateLimitBurst)

	pollerManager := pollers.NewManager()
	pollerManager.Register(pollers.NewSessionSweeper(sessions, sessionSweepInterval))
	pollerManager.Register(pollers.NewExportCleaner(exports, exportCleanupInterval, settings.ExportMaxAge))
	pollerManager.Register(pollers.NewRateLimitCleaner(rateLimiter))
	if err := pollerManager.Start(ctx); err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start pollers", "error", err)
		os.Exit(1)
	}

	if settings.GinMode != "" {
		gin.SetMode(settings.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(settings.AllowedOrigins) == 0 || (len(settings.AllowedOrigins) == 1 && settings.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = settings.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Output-Size", "X-Preview-Size"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api",
		middleware.RequestSizeLimit(settings.MaxUploadBytes),
		rateLimiter.RateLimit(),
	)
	h := handlers.New(sessions, database.NewPresetService(database.GetDB()), exports, settings)
	h.RegisterRoutes(api)

	// Stored exports are public
	if settings.ServeExports {
		router.Static(settings.ExportURL, exports.GetBasePath())
	}

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.InfoWithComponent(logging.ComponentStartup, "Listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.InfoWithComponent(logging.ComponentShutdown, "Shutting down server and pollers")
	if err := pollerManager.Stop(); err != nil {
		logging.ErrorWithComponent(logging.ComponentShutdown, "Error stopping pollers", "error", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorWithComponent(logging.ComponentShutdown, "Server forced to shutdown", "error", err)
	}
	logging.InfoWithComponent(logging.ComponentShutdown, "Server exited")
}
