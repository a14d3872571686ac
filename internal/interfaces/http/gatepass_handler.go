package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/gatepass_backend/internal/application"
)

type GatePassHandler struct {
	service *application.GatePassService
	limiter *application.RegistrationLimiter
}

// NewGatePassHandler crea una nueva instancia del handler de pases
func NewGatePassHandler(service *application.GatePassService, limiter *application.RegistrationLimiter) *GatePassHandler {
	return &GatePassHandler{
		service: service,
		limiter: limiter,
	}
}

// Add registra un ingreso de visitante o proveedor y emite el pase
func (h *GatePassHandler) Add(c *fiber.Ctx) error {
	if h.limiter != nil {
		if ok, err := h.limiter.Allow(c.IP()); !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	var req application.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cuerpo de la petición inválido",
		})
	}

	issued, err := h.service.IssuePass(&req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(issued)
}

// SendGatePass reenvía por email un pase ya emitido
func (h *GatePassHandler) SendGatePass(c *fiber.Ctx) error {
	var req application.SendGatePassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing gate pass details",
		})
	}

	message, err := h.service.ResendGatePass(&req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
