package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"supplychain/models"
	"supplychain/utils"
)

// HandleListRecords returns a page of stored sales records.
func HandleListRecords(c *fiber.Ctx) error {
	ctx := context.Background()

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	totalItems, err := Store.CountRecords(ctx)
	if err != nil {
		log.Printf("Error counting records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count records"})
	}

	records, err := Store.ListRecords(ctx, pageSize, offset)
	if err != nil {
		log.Printf("Error listing records: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve records"})
	}
	if records == nil {
		records = []models.SalesRecord{}
	}

	return c.JSON(fiber.Map{
		"data":       records,
		"pagination": utils.CreatePagination(totalItems, page, pageSize),
	})
}
