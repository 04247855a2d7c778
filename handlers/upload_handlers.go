package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"supplychain/ingest"
)

// HandleHome returns the service banner.
func HandleHome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Supply chain forecast API"})
}

// HandleUpload receives a multipart CSV, saves it under the upload directory
// and ingests its rows into the record store.
func HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "CSV file is missing"})
	}

	if err := os.MkdirAll(Cfg.UploadDir, 0o755); err != nil {
		log.Printf("Error creating upload directory: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store uploaded file"})
	}

	dst := filepath.Join(Cfg.UploadDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, dst); err != nil {
		log.Printf("Error saving uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store uploaded file"})
	}

	n, err := ingest.File(context.Background(), Store, dst)
	if err != nil {
		log.Printf("Error ingesting %s: %v", dst, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": fmt.Sprintf("File uploaded and %d records stored successfully", n)})
}
