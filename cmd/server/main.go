package main

import (
	"log"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/neelam/internal/config"
	"github.com/example/neelam/internal/database"
	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/routes"
	"github.com/example/neelam/internal/services"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)

	app := routes.NewApp()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Session-ID",
	}))
	app.Use(middleware.Metrics())

	gateway := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	routes.Register(app, db, cfg, gateway)

	log.Printf("[Server] listening on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("[Server] stopped: %v", err)
	}
}
