package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Maxito7/gatepass_backend/internal/application"
	"github.com/Maxito7/gatepass_backend/internal/domain"
)

type ReportHandler struct {
	service *application.ReportService
}

// NewReportHandler crea una nueva instancia del handler de reportes
func NewReportHandler(service *application.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// Filter devuelve los registros combinados según date o month. Sin
// parámetros devuelve todo el libro de visitas.
func (h *ReportHandler) Filter(c *fiber.Ctx) error {
	records, err := h.service.Filter(c.Query("date"), c.Query("month"))
	if err != nil {
		return errorJSON(c, err)
	}

	if records == nil {
		records = []domain.CombinedRecord{}
	}

	return c.JSON(records)
}

// History devuelve el historial completo de un visitante
func (h *ReportHandler) History(c *fiber.Ctx) error {
	return h.history(c, domain.VariantVisitor)
}

// VendorHistory devuelve el historial completo de un proveedor
func (h *ReportHandler) VendorHistory(c *fiber.Ctx) error {
	return h.history(c, domain.VariantVendor)
}

func (h *ReportHandler) history(c *fiber.Ctx, variant domain.Variant) error {
	entries, err := h.service.History(variant, c.Params("aadhar"))
	if err != nil {
		return errorJSON(c, err)
	}

	if entries == nil {
		entries = []domain.VisitEntry{}
	}

	return c.JSON(entries)
}

// Reopen devuelve la fila exacta de un pase emitido, para reimprimir o
// reenviar desde el dashboard
func (h *ReportHandler) Reopen(c *fiber.Ctx) error {
	record, err := h.service.Reopen(
		c.Params("type"),
		c.Params("aadhar"),
		c.Params("gatePassNo"),
	)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(record)
}

// GetByAadhaar busca un aadhaar registrado para autocompletar el formulario
// de recepción
func (h *ReportHandler) GetByAadhaar(c *fiber.Ctx) error {
	summary, err := h.service.GetByAadhaar(c.Params("aadhar"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(summary)
}

// DailyReport descarga el reporte del día en formato Excel
func (h *ReportHandler) DailyReport(c *fiber.Ctx) error {
	date := c.Query("date")

	data, err := h.service.DailyReportXLSX(date)
	if err != nil {
		return errorJSON(c, err)
	}

	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reporte-visitas-%s.xlsx"`, date))

	return c.Send(data)
}
