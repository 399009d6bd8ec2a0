package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"videolearn/enhancement-api/config"
	"videolearn/enhancement-api/handlers"
	"videolearn/enhancement-api/middleware"
	"videolearn/enhancement-api/store"
)

func main() {
	config.InitLogger()

	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	annotationStore := store.NewSupabaseStore(config.SupabaseClient)
	h := handlers.NewApplicationHandler(annotationStore, config.Log)

	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))
	app.Use(middleware.RequestLogger())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Enhancement API is healthy",
		})
	})

	// API v1 routes
	apiV1 := app.Group("/api/v1")

	videos := apiV1.Group("/videos/:videoId", middleware.RequireUser())
	videos.Get("/additional-text", h.ListAdditionalText)
	videos.Post("/additional-text", h.CreateAdditionalText)
	videos.Put("/additional-text/:entryId", h.UpdateAdditionalText)
	videos.Delete("/additional-text/:entryId", h.DeleteAdditionalText)
	videos.Get("/enhanced-transcript", h.GetEnhancedTranscript)
	videos.Get("/transcript-for-ai", h.GetTranscriptForAI)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	config.Log.Infof("Starting Enhancement API on port %s...", port)
	log.Fatal(app.Listen(":" + port))
}
