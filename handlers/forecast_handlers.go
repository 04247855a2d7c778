package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"supplychain/forecast"
	"supplychain/models"
)

// HandleForecast runs the forecast pipeline for the requested product and
// returns its accuracy metrics and chart paths.
func HandleForecast(c *fiber.Ctx) error {
	var input models.ForecastRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing 'product_id' in request"})
	}

	result, err := forecast.Run(context.Background(), Store, input.ProductID, Cfg.OutputDir)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrNoData):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, forecast.ErrInsufficientSeries), errors.Is(err, forecast.ErrDegenerateJoin):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("Error running forecast for %s: %v", input.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"metrics": result.Metrics,
		"graphs":  result.Graphs,
	})
}
