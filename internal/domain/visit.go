package domain

import "time"

// VisitEntry representa un ingreso registrado en portería. Cada check-in
// crea una fila nueva, incluso para una identidad que ya visitó antes;
// las filas nunca se actualizan ni se eliminan.
type VisitEntry struct {
	ID                int        `json:"id"`
	IdentityID        int        `json:"-"`
	VisitDate         time.Time  `json:"visit_date"`
	TimeIn            *string    `json:"time_in,omitempty"`
	TimeOut           *string    `json:"time_out,omitempty"` // NULL significa "todavía en planta"
	GeneratedBy       string     `json:"generated_by"`
	MeetTo            *string    `json:"meet_to,omitempty"`
	Building          *string    `json:"building,omitempty"`
	Equipment         *string    `json:"equipment,omitempty"`
	Persons           int        `json:"persons"`
	GatePassNo        string     `json:"gate_pass_no"`
	AccompanyingNames *string    `json:"accompanying_names,omitempty"`
	EntryToken        string     `json:"-"`
	TokenExpiry       *time.Time `json:"-"`
}

// CombinedRecord es el resultado de cruzar una identidad con una de sus
// visitas. Es la fila que consume el dashboard: datos de la persona,
// total histórico de visitas y los campos de la visita seleccionada.
type CombinedRecord struct {
	VisitorType       string    `json:"visitor_type"` // "Visitor" o "Vendor"
	Aadhaar           string    `json:"aadhaar"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Photo             *string   `json:"photo,omitempty"`
	TotalVisits       int       `json:"total_visits"`
	LastVisit         time.Time `json:"last_visit"`
	LastInTime        *string   `json:"last_in_time,omitempty"`
	LastOutTime       *string   `json:"last_out_time,omitempty"`
	GeneratedBy       *string   `json:"generated_by,omitempty"`
	MeetTo            *string   `json:"meet_to,omitempty"`
	Building          *string   `json:"building,omitempty"`
	Equipment         *string   `json:"equipment,omitempty"`
	Persons           int       `json:"persons"`
	GatePassNo        string    `json:"gate_pass_no"`
	AccompanyingNames *string   `json:"accompanying_names,omitempty"`
}

// FilterCriteria define el filtro del dashboard: sin criterio (todo),
// por fecha exacta o por mes. Date y Month son excluyentes.
type FilterCriteria struct {
	Date  *time.Time // Fecha exacta (YYYY-MM-DD)
	Month string     // Mes en formato YYYY-MM, vacío si no aplica
}

// VisitRepository define las operaciones con el libro de visitas
type VisitRepository interface {
	// Create crea una nueva visita referenciando una identidad existente
	Create(variant Variant, visit *VisitEntry) error
	// Filter devuelve una fila por identidad con al menos una visita que
	// cumpla el criterio, con la tupla completa de su visita más reciente
	Filter(variant Variant, criteria FilterCriteria) ([]CombinedRecord, error)
	// HistoryByAadhaar devuelve todas las visitas de una identidad,
	// ordenadas por fecha descendente
	HistoryByAadhaar(variant Variant, aadhaar string) ([]VisitEntry, error)
	// FindByGatePass busca la fila exacta de un pase emitido
	FindByGatePass(variant Variant, aadhaar, gatePassNo string) (*CombinedRecord, error)
	// FindEntryByGatePass devuelve la visita cruda (incluye token) de un pase
	FindEntryByGatePass(variant Variant, gatePassNo string) (*VisitEntry, error)
	// ClearExpiredTokens invalida los tokens de entrada ya vencidos
	ClearExpiredTokens() (int64, error)
}
