package application

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ReportService responde las consultas de solo lectura del dashboard:
// filtros por fecha o mes, historial por identidad, reapertura de pases y
// el reporte diario en Excel.
type ReportService struct {
	identityRepo domain.IdentityRepository
	visitRepo    domain.VisitRepository
	validator    Validator
}

// NewReportService crea una nueva instancia del servicio de reportes
func NewReportService(identityRepo domain.IdentityRepository, visitRepo domain.VisitRepository) *ReportService {
	return &ReportService{
		identityRepo: identityRepo,
		visitRepo:    visitRepo,
	}
}

// parseCriteria interpreta los parámetros date/month del dashboard. Sin
// parámetros se devuelve el criterio vacío (todos los registros).
func parseCriteria(dateStr, monthStr string) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria

	if dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return criteria, newValidationError("la fecha '%s' no es válida (se espera YYYY-MM-DD)", dateStr)
		}
		criteria.Date = &date
		return criteria, nil
	}

	if monthStr != "" {
		if !monthRegex.MatchString(monthStr) {
			return criteria, newValidationError("el mes '%s' no es válido (se espera YYYY-MM)", monthStr)
		}
		criteria.Month = monthStr
	}

	return criteria, nil
}

// Filter devuelve los registros combinados de ambas variantes que cumplen
// el criterio, ordenados por última visita descendente. Las identidades sin
// visitas que cumplan el filtro quedan fuera; su total de visitas histórico
// se reporta completo igualmente.
func (s *ReportService) Filter(dateStr, monthStr string) ([]domain.CombinedRecord, error) {
	criteria, err := parseCriteria(dateStr, monthStr)
	if err != nil {
		return nil, err
	}

	visitors, err := s.visitRepo.Filter(domain.VariantVisitor, criteria)
	if err != nil {
		return nil, fmt.Errorf("error al filtrar visitantes: %w", err)
	}

	vendors, err := s.visitRepo.Filter(domain.VariantVendor, criteria)
	if err != nil {
		return nil, fmt.Errorf("error al filtrar proveedores: %w", err)
	}

	records := append(visitors, vendors...)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastVisit.After(records[j].LastVisit)
	})

	return records, nil
}

// History devuelve el historial completo de una identidad, sin filtro de
// fecha, ordenado por fecha de visita descendente
func (s *ReportService) History(variant domain.Variant, aadhaar string) ([]domain.VisitEntry, error) {
	clean, err := s.validator.NormalizeAadhaar(aadhaar)
	if err != nil {
		return nil, err
	}

	entries, err := s.visitRepo.HistoryByAadhaar(variant, clean)
	if err != nil {
		return nil, fmt.Errorf("error al obtener historial: %w", err)
	}

	return entries, nil
}

// Reopen devuelve la fila exacta de un pase emitido para reimprimirlo o
// reenviarlo. Siempre se relee del store, nunca de una copia del cliente.
func (s *ReportService) Reopen(typeStr, aadhaar, gatePassNo string) (*domain.CombinedRecord, error) {
	// El dashboard manda el tipo en minúsculas; todo lo que no sea vendor
	// se trata como visitante
	variant := domain.VariantVisitor
	if strings.EqualFold(typeStr, "vendor") {
		variant = domain.VariantVendor
	}

	clean, err := s.validator.NormalizeAadhaar(aadhaar)
	if err != nil {
		return nil, err
	}

	if gatePassNo == "" {
		return nil, newValidationError("el número de pase es requerido")
	}

	return s.visitRepo.FindByGatePass(variant, clean, gatePassNo)
}

// IdentitySummary es la respuesta del autocompletado de recepción
type IdentitySummary struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Type    string  `json:"type"`
	Photo   *string `json:"photo,omitempty"`
}

// GetByAadhaar busca un aadhaar en ambas variantes para autocompletar el
// formulario de registro
func (s *ReportService) GetByAadhaar(aadhaar string) (*IdentitySummary, error) {
	clean, err := s.validator.NormalizeAadhaar(aadhaar)
	if err != nil {
		return nil, err
	}

	for _, variant := range []domain.Variant{domain.VariantVisitor, domain.VariantVendor} {
		identity, err := s.identityRepo.FindByAadhaar(variant, clean)
		if err != nil {
			return nil, fmt.Errorf("error al buscar identidad: %w", err)
		}
		if identity != nil {
			return &IdentitySummary{
				Name:    identity.Name,
				Address: identity.Address,
				Type:    variant.Label(),
				Photo:   identity.Photo,
			}, nil
		}
	}

	return nil, domain.ErrIdentityNotFound
}

// reportHeaders son las columnas del reporte diario, en el orden del
// dashboard
var reportHeaders = []string{
	"Tipo", "Aadhaar", "Nombre", "Dirección", "Visitas totales", "Fecha",
	"Hora entrada", "Hora salida", "Generado por", "Visita a", "Edificio",
	"Equipos", "Personas", "N° de pase", "Acompañantes",
}

// DailyReportXLSX arma el reporte del día en formato Excel y devuelve el
// archivo serializado
func (s *ReportService) DailyReportXLSX(dateStr string) ([]byte, error) {
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	records, err := s.Filter(dateStr, "")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reporte"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("error al crear estilo del reporte: %w", err)
	}

	for col, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, rec := range records {
		values := []interface{}{
			rec.VisitorType,
			MaskAadhaar(rec.Aadhaar),
			rec.Name,
			rec.Address,
			rec.TotalVisits,
			rec.LastVisit.Format("2006-01-02"),
			deref(rec.LastInTime),
			deref(rec.LastOutTime),
			deref(rec.GeneratedBy),
			deref(rec.MeetTo),
			deref(rec.Building),
			deref(rec.Equipment),
			rec.Persons,
			rec.GatePassNo,
			deref(rec.AccompanyingNames),
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error al generar el reporte: %w", err)
	}

	return buf.Bytes(), nil
}

// IsNotFound indica si el error corresponde a un recurso inexistente
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrGatePassNotFound) || errors.Is(err, domain.ErrIdentityNotFound)
}
