package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"supplychain/config"
	"supplychain/handlers"
	"supplychain/routes"
	"supplychain/store"
)

func main() {
	cfg := config.Load()

	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Unable to open %s store: %v", cfg.StoreBackend, err)
	}
	defer st.Close()

	handlers.Init(st, cfg)

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, cfg.OutputDir)

	// Start server
	log.Fatal(app.Listen(cfg.ListenAddr))
}
