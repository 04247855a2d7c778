package routes

import (
	"github.com/gofiber/fiber/v2"

	"supplychain/handlers"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, outputDir string) {
	app.Get("/", handlers.HandleHome)

	// Rendered chart artifacts are served straight from the output directory.
	app.Static("/forecast_outputs", outputDir)

	app.Post("/upload", handlers.HandleUpload)
	app.Post("/forecast", handlers.HandleForecast)
	app.Get("/records", handlers.HandleListRecords)
	app.Get("/export/forecast/:productId", handlers.HandleExportForecastCSV)
}
