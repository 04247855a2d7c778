package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"supplychain/models"
)

// HandleExportForecastCSV streams the persisted forecast points for one
// product as a CSV download.
func HandleExportForecastCSV(c *fiber.Ctx) error {
	productID := c.Params("productId")

	points, err := Store.ForecastPoints(context.Background(), productID)
	if err != nil {
		log.Printf("Error loading forecast points for %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve forecast points"})
	}
	if len(points) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No forecast found for the given product_id"})
	}

	buffer := bytes.NewBuffer(make([]byte, 0, 64*1024))
	writer := csv.NewWriter(buffer)

	if err := writer.Write([]string{"product_id", "date", "predicted_value", "lower_bound", "upper_bound"}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build export"})
	}
	for _, p := range points {
		row := []string{
			p.ProductID,
			p.Date.Format(models.DateLayout),
			strconv.FormatFloat(p.Predicted, 'f', -1, 64),
			strconv.FormatFloat(p.Lower, 'f', -1, 64),
			strconv.FormatFloat(p.Upper, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build export"})
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build export"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s_forecast.csv`, productID))
	return c.Send(buffer.Bytes())
}
