package application

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Maxito7/gatepass_backend/internal/domain"
	"github.com/Maxito7/gatepass_backend/internal/email"
)

// maxGatePassAttempts limita los reintentos de generación cuando el número
// de pase choca con uno existente del mismo día
const maxGatePassAttempts = 5

// tokenValidity es la ventana de validez del token de entrada
const tokenValidity = 24 * time.Hour

// RegistrationRequest es el cuerpo que envía recepción al registrar un
// ingreso. Los nombres de campo siguen el formulario del frontend.
type RegistrationRequest struct {
	VisitorType       string   `json:"visitorType"`
	Aadhaar           string   `json:"aadhar"`
	Name              string   `json:"name"`
	Address           string   `json:"address"`
	GeneratedBy       string   `json:"generatedBy"`
	MeetTo            string   `json:"meetTo"`
	Date              string   `json:"date"`
	InTime            string   `json:"inTime"`
	OutTime           string   `json:"outTime"`
	Building          string   `json:"building"`
	Equipment         string   `json:"equipment"`
	Persons           int      `json:"persons"`
	AccompanyingNames []string `json:"accompanyingNames"`
	Photo             string   `json:"photo"`
	ExtraEmail        string   `json:"extraEmail"`
}

// IssuedPass es la respuesta de un registro exitoso
type IssuedPass struct {
	Message    string `json:"message"`
	GatePassNo string `json:"gatePassNo"`
	Token      string `json:"token"`
}

// GatePassService implementa la emisión de pases de entrada: resuelve la
// identidad, genera el número de pase y el token, persiste la visita y
// despacha la notificación a seguridad.
type GatePassService struct {
	identityRepo  domain.IdentityRepository
	visitRepo     domain.VisitRepository
	emailClient   *email.Client
	validator     Validator
	dateParser    DateParser
	securityEmail string
	hseEmail      string
}

// NewGatePassService crea una nueva instancia del servicio de pases
func NewGatePassService(
	identityRepo domain.IdentityRepository,
	visitRepo domain.VisitRepository,
	emailClient *email.Client,
	securityEmail string,
	hseEmail string,
) *GatePassService {
	return &GatePassService{
		identityRepo:  identityRepo,
		visitRepo:     visitRepo,
		emailClient:   emailClient,
		securityEmail: securityEmail,
		hseEmail:      hseEmail,
	}
}

// IssuePass registra un ingreso y emite el pase de entrada
func (s *GatePassService) IssuePass(req *RegistrationRequest) (*IssuedPass, error) {
	// 1. Validar la entrada antes de tocar el store
	variant, err := domain.ParseVariant(req.VisitorType)
	if err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	aadhaar, err := s.validator.NormalizeAadhaar(req.Aadhaar)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateRequired(req.Name, "nombre"); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateRequired(req.Address, "dirección"); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateRequired(req.GeneratedBy, "generado por"); err != nil {
		return nil, err
	}

	persons := req.Persons
	if persons <= 0 {
		persons = 1
	}

	now := time.Now()
	visitDate := s.dateParser.NormalizeVisitDate(req.Date, now)

	// 2. Resolver la identidad (existente vs. nueva)
	identity, err := s.resolveIdentity(variant, aadhaar, req)
	if err != nil {
		return nil, err
	}

	// 3. Generar token de entrada y armar la visita
	entryToken, err := generateEntryToken()
	if err != nil {
		return nil, fmt.Errorf("error al generar token de entrada: %w", err)
	}
	tokenExpiry := now.Add(tokenValidity)

	visit := &domain.VisitEntry{
		IdentityID:        identity.ID,
		VisitDate:         visitDate,
		TimeIn:            optional(req.InTime),
		TimeOut:           optional(req.OutTime),
		GeneratedBy:       req.GeneratedBy,
		MeetTo:            optional(req.MeetTo),
		Building:          optional(req.Building),
		Equipment:         optional(req.Equipment),
		Persons:           persons,
		AccompanyingNames: joinAccompanying(req.AccompanyingNames),
		EntryToken:        entryToken,
		TokenExpiry:       &tokenExpiry,
	}

	// 4. Insertar la visita, regenerando el número de pase si colisiona
	if err := s.insertWithFreshGatePassNo(variant, visit, now); err != nil {
		return nil, err
	}

	// 5. Releer el registro cruzado con la identidad para la notificación
	record, err := s.visitRepo.FindByGatePass(variant, aadhaar, visit.GatePassNo)
	if err != nil {
		return nil, fmt.Errorf("error al releer el pase emitido: %w", err)
	}

	// 6. Despachar la notificación sin bloquear la respuesta. Un fallo de
	// email no revierte la emisión: solo se registra en el log.
	recipients := s.BuildRecipients(record.Building, req.ExtraEmail)
	s.dispatch(recipients, gatePassPayload(record, req.Photo))

	return &IssuedPass{
		Message:    fmt.Sprintf("%s visit recorded", variant),
		GatePassNo: visit.GatePassNo,
		Token:      entryToken,
	}, nil
}

// resolveIdentity busca la identidad por aadhaar y la crea si no existe.
// Un aadhaar existente con nombre o dirección distintos se rechaza sin
// efectos secundarios; jamás se sobreescriben los datos registrados.
func (s *GatePassService) resolveIdentity(variant domain.Variant, aadhaar string, req *RegistrationRequest) (*domain.Identity, error) {
	identity, err := s.identityRepo.FindByAadhaar(variant, aadhaar)
	if err != nil {
		return nil, fmt.Errorf("error al buscar identidad: %w", err)
	}

	if identity != nil {
		if identity.Name != req.Name || identity.Address != req.Address {
			return nil, domain.ErrIdentityConflict
		}
		return identity, nil
	}

	identity = &domain.Identity{
		Aadhaar: aadhaar,
		Name:    req.Name,
		Address: req.Address,
		Photo:   optional(req.Photo),
	}

	err = s.identityRepo.Create(variant, identity)
	if err == nil {
		return identity, nil
	}

	// Dos registros simultáneos del mismo aadhaar nuevo: el insert perdedor
	// re-consulta y continúa como "encontrado"
	if errors.Is(err, domain.ErrDuplicateKey) {
		existing, ferr := s.identityRepo.FindByAadhaar(variant, aadhaar)
		if ferr != nil {
			return nil, fmt.Errorf("error al buscar identidad: %w", ferr)
		}
		if existing == nil {
			return nil, fmt.Errorf("error al crear identidad: %w", err)
		}
		if existing.Name != req.Name || existing.Address != req.Address {
			return nil, domain.ErrIdentityConflict
		}
		return existing, nil
	}

	return nil, fmt.Errorf("error al crear identidad: %w", err)
}

// insertWithFreshGatePassNo genera el número de pase e inserta la visita,
// reintentando con un número nuevo si el store rechaza por duplicado
func (s *GatePassService) insertWithFreshGatePassNo(variant domain.Variant, visit *domain.VisitEntry, now time.Time) error {
	for attempt := 0; attempt < maxGatePassAttempts; attempt++ {
		gatePassNo, err := generateGatePassNo(now)
		if err != nil {
			return fmt.Errorf("error al generar número de pase: %w", err)
		}
		visit.GatePassNo = gatePassNo

		err = s.visitRepo.Create(variant, visit)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateKey) {
			return err
		}
	}

	return fmt.Errorf("no se pudo generar un número de pase único tras %d intentos", maxGatePassAttempts)
}

// BuildRecipients arma la lista de destinatarios de la notificación:
// seguridad siempre, HSE cuando el destino es la planta, más los emails
// extra del formulario. Sin duplicados.
func (s *GatePassService) BuildRecipients(building *string, extraEmail string) []string {
	recipients := []string{s.securityEmail}

	if building != nil && strings.EqualFold(*building, "plant") && s.hseEmail != "" {
		recipients = append(recipients, s.hseEmail)
	}

	recipients = append(recipients, s.validator.ParseExtraEmails(extraEmail)...)

	seen := make(map[string]bool)
	var unique []string
	for _, r := range recipients {
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}

	return unique
}

// dispatch envía el pase por email en segundo plano
func (s *GatePassService) dispatch(recipients []string, payload email.GatePassInfo) {
	if s.emailClient == nil {
		return
	}

	go func() {
		if err := s.emailClient.SendGatePass(recipients, payload); err != nil {
			log.Printf("Error al enviar email del pase %s: %v", payload.GatePassNo, err)
		}
	}()
}

// gatePassPayload arma el contenido del email a partir del registro cruzado.
// El aadhaar viaja enmascarado: solo los últimos 4 dígitos.
func gatePassPayload(record *domain.CombinedRecord, photo string) email.GatePassInfo {
	return email.GatePassInfo{
		VisitorType:       record.VisitorType,
		Name:              record.Name,
		Address:           record.Address,
		AadhaarMasked:     MaskAadhaar(record.Aadhaar),
		GatePassNo:        record.GatePassNo,
		VisitDate:         record.LastVisit,
		TimeIn:            deref(record.LastInTime),
		TimeOut:           deref(record.LastOutTime),
		GeneratedBy:       deref(record.GeneratedBy),
		MeetTo:            deref(record.MeetTo),
		Building:          deref(record.Building),
		Equipment:         deref(record.Equipment),
		Persons:           record.Persons,
		AccompanyingNames: deref(record.AccompanyingNames),
		Photo:             photo,
	}
}

// MaskAadhaar enmascara un aadhaar dejando visibles los últimos 4 dígitos
func MaskAadhaar(aadhaar string) string {
	if len(aadhaar) != 12 {
		return aadhaar
	}
	return "XXXXXXXX" + aadhaar[8:]
}

// generateGatePassNo genera un número de pase legible: GP-<AAMMDD>-<3
// caracteres base36 aleatorios en mayúsculas>
func generateGatePassNo(now time.Time) (string, error) {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	random := make([]byte, 3)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}

	suffix := make([]byte, 3)
	for i, b := range random {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}

	return fmt.Sprintf("GP-%s-%s", now.Format("060102"), suffix), nil
}

// generateEntryToken genera un token opaco de 128 bits
func generateEntryToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// joinAccompanying une los nombres de acompañantes en un solo texto,
// descartando entradas vacías. Lista vacía se guarda como NULL.
func joinAccompanying(names []string) *string {
	var clean []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			clean = append(clean, name)
		}
	}

	if len(clean) == 0 {
		return nil
	}

	joined := strings.Join(clean, ", ")
	return &joined
}

// optional convierte un string vacío en NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref devuelve el valor del puntero o "-" si es NULL, que es lo que el
// pase impreso muestra para los campos sin dato
func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
