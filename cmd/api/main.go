package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/snapvault/snapvault-api/internal/config"
	"github.com/snapvault/snapvault-api/internal/domain/admin"
	"github.com/snapvault/snapvault-api/internal/domain/download"
	"github.com/snapvault/snapvault-api/internal/domain/image"
	"github.com/snapvault/snapvault-api/internal/domain/nav"
	"github.com/snapvault/snapvault-api/internal/middleware"
	"github.com/snapvault/snapvault-api/internal/pkg/assethost"
	"github.com/snapvault/snapvault-api/internal/pkg/database"
	"github.com/snapvault/snapvault-api/internal/pkg/imaging"
	"github.com/snapvault/snapvault-api/internal/pkg/jwt"
	pkgresponse "github.com/snapvault/snapvault-api/internal/pkg/response"
	"github.com/snapvault/snapvault-api/internal/pkg/suggest"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SnapVault API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.AdminSessionTTL)

	host := newAssetHost(cfg)

	suggester := suggest.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SuggestTimeout)

	// ---------- Repositories ----------
	imageRepo := image.NewRepository(db)

	// ---------- Services ----------
	imageService := image.NewService(imageRepo, host)
	downloadStore := download.NewStore(redis)
	downloadService := download.NewService(downloadStore, imageRepo, cfg.DownloadWait, cfg.DownloadGateTTL)
	navResolver := nav.NewResolver(imageRepo, cfg.AdminFragment)

	// ---------- Handlers ----------
	imageHandler := image.NewHandler(imageService)
	downloadHandler := download.NewHandler(downloadService)
	navHandler := nav.NewHandler(navResolver)
	adminHandler, err := admin.NewHandler(cfg.AdminPassword, jwtService, suggester)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin handler")
	}

	adminAuth := middleware.AdminAuth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/images", imageHandler.Routes())
		r.Post("/images/{id}/download", downloadHandler.Open)
		r.Mount("/downloads", downloadHandler.Routes())
		r.Get("/navigation/resolve", navHandler.Resolve)

		r.Route("/admin", func(r chi.Router) {
			r.Mount("/", adminHandler.Routes(adminAuth))
			r.Mount("/images", imageHandler.AdminRoutes(adminAuth))
			r.With(adminAuth).Get("/stats", imageHandler.Stats)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newAssetHost picks the upload backend. imgbb mirrors the hosted-API setup;
// r2 keeps assets in our own bucket with server-side thumbnailing.
func newAssetHost(cfg *config.Config) assethost.Host {
	switch cfg.AssetHost {
	case "r2":
		host, err := assethost.NewR2Host(assethost.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, imaging.NewProcessor(imaging.DefaultConfig()))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 asset host")
		}
		return host
	default:
		return assethost.NewImgBBClient(cfg.ImgBBBaseURL, cfg.ImgBBAPIKey, 2*time.Minute)
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
