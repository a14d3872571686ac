package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Maxito7/gatepass_backend/internal/domain"
	"github.com/Maxito7/gatepass_backend/internal/email"
)

// SendGatePassRequest es el pase ya resuelto que el dashboard reenvía por
// email. Los nombres de campo son los del payload del frontend.
type SendGatePassRequest struct {
	VisitorType       string `json:"visitor_type"`
	Aadhaar           string `json:"aadhaar"` // Puede llegar enmascarado
	Name              string `json:"name"`
	Address           string `json:"address"`
	GatePassNo        string `json:"gate_pass_no"`
	VisitDate         string `json:"visit_date"`
	TimeIn            string `json:"time_in"`
	TimeOut           string `json:"time_out"`
	GeneratedBy       string `json:"generated_by"`
	MeetTo            string `json:"meet_to"`
	Building          string `json:"building"`
	Equipment         string `json:"equipment"`
	Persons           int    `json:"persons"`
	AccompanyingNames string `json:"accompanying_names"`
	Photo             string `json:"image"`
	ExtraEmail        string `json:"extraEmail"`
}

// ResendGatePass reenvía un pase ya emitido. El libro de visitas manda: si
// el pase existe en el registro, su token de entrada debe seguir vigente
// para permitir el reenvío.
func (s *GatePassService) ResendGatePass(req *SendGatePassRequest) (string, error) {
	if req.Name == "" && req.GatePassNo == "" {
		return "", newValidationError("faltan los datos del pase")
	}

	variant, err := domain.ParseVariant(strings.ToLower(req.VisitorType))
	if err != nil {
		variant = domain.VariantVisitor
	}

	if req.GatePassNo != "" && req.GatePassNo != "-" {
		entry, err := s.visitRepo.FindEntryByGatePass(variant, req.GatePassNo)
		switch {
		case err == nil:
			if entry.EntryToken == "" || entry.TokenExpiry == nil || time.Now().After(*entry.TokenExpiry) {
				return "", domain.ErrTokenExpired
			}
		case errors.Is(err, domain.ErrGatePassNotFound):
			// Pase impreso desde una copia local que no llegó al registro;
			// se reenvía tal cual, como hacía el flujo original
		default:
			return "", err
		}
	}

	// Normalizar la fecha: el dashboard puede mandar DD/MM/YYYY o ISO
	visitDate := s.dateParser.NormalizeVisitDate(req.VisitDate, time.Now())

	persons := req.Persons
	if persons <= 0 {
		persons = 1
	}

	payload := email.GatePassInfo{
		VisitorType:       variant.Label(),
		Name:              req.Name,
		Address:           orDash(req.Address),
		AadhaarMasked:     MaskAadhaar(strings.ReplaceAll(req.Aadhaar, " ", "")),
		GatePassNo:        orDash(req.GatePassNo),
		VisitDate:         visitDate,
		TimeIn:            orDash(req.TimeIn),
		TimeOut:           orDash(req.TimeOut),
		GeneratedBy:       orDash(req.GeneratedBy),
		MeetTo:            orDash(req.MeetTo),
		Building:          orDash(req.Building),
		Equipment:         orDash(req.Equipment),
		Persons:           persons,
		AccompanyingNames: orDash(req.AccompanyingNames),
		Photo:             req.Photo,
	}

	recipients := s.BuildRecipients(optional(req.Building), req.ExtraEmail)

	if s.emailClient == nil {
		return "", fmt.Errorf("el cliente de email no está configurado")
	}

	if err := s.emailClient.SendGatePass(recipients, payload); err != nil {
		return "", fmt.Errorf("error al reenviar el pase: %w", err)
	}

	return fmt.Sprintf("Gate pass sent to %s", strings.Join(recipients, ", ")), nil
}

// orDash reemplaza un valor vacío por el guion del pase impreso
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
