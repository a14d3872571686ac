package http

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/gatepass_backend/internal/application"
	"github.com/Maxito7/gatepass_backend/internal/domain"
)

// errorStatus traduce los errores del dominio al código HTTP que espera el
// frontend: datos inválidos y conflictos de identidad son 400, los recursos
// inexistentes 404, el resto fallas de persistencia genéricas.
func errorStatus(err error) int {
	var vErr *application.ValidationError

	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrIdentityConflict):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusBadRequest
	case application.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON responde el error con su código. Los detalles de las fallas
// internas solo van al log, nunca al cliente.
func errorJSON(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	message := err.Error()

	if status == fiber.StatusInternalServerError {
		log.Printf("Error interno en %s %s: %v", c.Method(), c.Path(), err)
		message = "error interno del servidor"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
