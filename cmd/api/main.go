package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pipequote/internal/config"
	"pipequote/internal/database"
	"pipequote/internal/middleware"
	"pipequote/internal/modules/admin"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/modules/quote"
	"pipequote/internal/modules/relay"
	"pipequote/internal/modules/servicem8"
	"pipequote/internal/modules/video"
	"pipequote/internal/modules/viewer"
	"pipequote/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	quoteRepo := repository.NewQuoteRepository(db)
	table := pricing.DefaultTable()

	quoteService := quote.NewService(quoteRepo, table, cfg.PublicBaseURL)
	quoteHandler := quote.NewHandler(quoteService)

	viewerService := viewer.NewService(quoteRepo)
	viewerHandler := viewer.NewHandler(viewerService)

	adminService := admin.NewService(quoteRepo, cfg.PublicBaseURL)
	adminHandler := admin.NewHandler(adminService)

	sm8Handler := servicem8.NewHandler(servicem8.NewClient(cfg.ServiceM8BaseURL, cfg.ServiceM8APIKey))

	videoService := video.NewService(quoteRepo, cfg.MuxBaseURL, cfg.MuxTokenID, cfg.MuxTokenSecret)
	videoHandler := video.NewHandler(videoService)

	relayService := relay.NewService(quoteRepo, table, cfg.ZapierWebhookURL)
	relayHandler := relay.NewHandler(relayService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public: the customer-facing viewer link
		viewerHandler.RegisterRoutes(v1)

		// quote intake (builder -> viewer handoff)
		intake := v1.Group("/")
		intake.Use(middleware.BearerAuth(cfg.IntakeSecret))
		{
			quoteHandler.RegisterRoutes(intake)
		}

		// operator surface
		adm := v1.Group("/admin")
		adm.Use(middleware.BearerAuth(cfg.AdminSecret))
		{
			adminHandler.RegisterRoutes(adm)
			relayHandler.RegisterRoutes(adm)
		}

		// builder helpers (CRM lookup, video intake)
		tools := v1.Group("/")
		tools.Use(middleware.BearerAuth(cfg.AdminSecret))
		{
			sm8Handler.RegisterRoutes(tools)
			videoHandler.RegisterRoutes(tools)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
