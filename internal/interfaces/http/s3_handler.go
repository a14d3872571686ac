package http

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	services "github.com/Maxito7/gatepass_backend/internal/service"
)

type S3Handler struct {
	service *services.S3Service
}

func NewS3Handler(service *services.S3Service) *S3Handler {
	return &S3Handler{
		service: service,
	}
}

// HandleUploadPhoto sube la foto capturada en recepción y devuelve la URL
// que se adjunta al registro
func (h *S3Handler) HandleUploadPhoto(c *fiber.Ctx) error {
	if h.service == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "el almacenamiento de fotos no está configurado",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Printf("Failed to retrieve file %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al obtener el archivo: %v", err),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Failed to open file %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al abrir el archivo: %v", err),
		})
	}
	defer file.Close()

	url, err := services.UploadVisitorPhoto(h.service, file, fileHeader)
	if err != nil {
		log.Printf("Failed to upload file %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error al subir el archivo: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"url": url,
	})
}
