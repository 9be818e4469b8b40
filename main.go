package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"panovault/config"
	"panovault/controllers"
	"panovault/database"
	"panovault/middleware"
	"panovault/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	database.Connect(cfg.DatabasePath)
	middleware.SetJWTSecret(cfg.JWTSecret)

	var store services.ArtifactStore
	if cfg.MinioHost != "" {
		ms, err := services.NewMinioStore(cfg.MinioHost, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
		store = ms
		log.Info().Str("endpoint", cfg.MinioHost).Msg("using object storage for artifacts")
	} else {
		store = services.NewDiskStore(cfg.UploadDir)
	}
	if err := store.Prepare(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare artifact store")
	}

	suggester := services.NewOpenAISuggester(cfg.OpenAIKey, cfg.OpenAIModel)
	if suggester == nil {
		log.Info().Msg("AI metadata suggestions disabled (no API key)")
	}

	controllers.Configure(cfg, store, suggester)

	r := gin.Default()

	// Artifacts are served straight from disk; with object storage the
	// records carry presigned URLs instead.
	if cfg.MinioHost == "" {
		r.Static("/uploads/originals", filepath.Join(cfg.UploadDir, "originals"))
		r.Static("/uploads/thumbnails", filepath.Join(cfg.UploadDir, "thumbnails"))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", controllers.Signup)
	auth.POST("/login", controllers.Login)
	auth.POST("/logout", controllers.Logout)
	auth.GET("/me", middleware.RequireAuth(), controllers.Me)

	images := api.Group("/images")
	images.POST("/hash/:hash", controllers.SharedImageByHash) // public

	owned := images.Group("", middleware.RequireAuth())
	owned.GET("", controllers.ListImages)
	owned.GET("/stats", controllers.GetStats)
	owned.GET("/tags", controllers.GetTags)
	owned.POST("/upload-multiple", controllers.BatchUploadImages)
	owned.GET("/:id", controllers.GetImage)
	owned.POST("/:id/ai-metadata", controllers.SuggestMetadata)
	owned.PATCH("/:id/details", controllers.UpdateImageDetails)
	owned.PATCH("/:id/bookmark", controllers.ToggleBookmark)
	owned.DELETE("/:id", controllers.DeleteImage)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
