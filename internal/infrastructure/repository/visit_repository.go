package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

type visitRepository struct {
	db *sql.DB
}

// NewVisitRepository crea una nueva instancia del repositorio de visitas
func NewVisitRepository(db *sql.DB) domain.VisitRepository {
	return &visitRepository{db: db}
}

// toNullString convierte *string a sql.NullString
func toNullString(s *string) sql.NullString {
	if s != nil {
		return sql.NullString{String: *s, Valid: true}
	}
	return sql.NullString{}
}

// fromNullString convierte sql.NullString a *string
func fromNullString(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// Create crea una nueva visita referenciando una identidad existente.
// Devuelve ErrDuplicateKey si el gate_pass_no generado ya existe, para que
// el servicio regenere el número y reintente.
func (r *visitRepository) Create(variant domain.Variant, visit *domain.VisitEntry) error {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s,
			visit_date,
			time_in,
			time_out,
			generated_by,
			meet_to,
			building,
			equipment,
			persons,
			gate_pass_no,
			accompanying_names,
			entry_token,
			token_expiry
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, t.entries, t.ref)

	var expiry sql.NullTime
	if visit.TokenExpiry != nil {
		expiry = sql.NullTime{Time: *visit.TokenExpiry, Valid: true}
	}

	err := r.db.QueryRow(
		query,
		visit.IdentityID,
		visit.VisitDate,
		toNullString(visit.TimeIn),
		toNullString(visit.TimeOut),
		visit.GeneratedBy,
		toNullString(visit.MeetTo),
		toNullString(visit.Building),
		toNullString(visit.Equipment),
		visit.Persons,
		visit.GatePassNo,
		toNullString(visit.AccompanyingNames),
		visit.EntryToken,
		expiry,
	).Scan(&visit.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("error al crear visita: %w", err)
	}

	return nil
}

// Filter devuelve una fila por identidad con al menos una visita que cumpla
// el criterio. Se selecciona la tupla completa de la visita más reciente
// (DISTINCT ON), no máximos por columna, para no mezclar campos de filas
// distintas cuando hay varias visitas el mismo día.
func (r *visitRepository) Filter(variant domain.Variant, criteria domain.FilterCriteria) ([]domain.CombinedRecord, error) {
	t := tablesFor(variant)

	condition := ""
	args := []interface{}{}

	if criteria.Date != nil {
		condition = "WHERE visit_date = $1"
		args = append(args, *criteria.Date)
	} else if criteria.Month != "" {
		condition = "WHERE to_char(visit_date, 'YYYY-MM') = $1"
		args = append(args, criteria.Month)
	}

	query := fmt.Sprintf(`
		SELECT
			i.aadhaar,
			i.name,
			i.address,
			i.photo,
			(SELECT COUNT(*) FROM %[2]s WHERE %[3]s = i.id) AS total_visits,
			e.visit_date,
			e.time_in,
			e.time_out,
			e.generated_by,
			e.meet_to,
			e.building,
			e.equipment,
			e.persons,
			e.gate_pass_no,
			e.accompanying_names
		FROM %[1]s i
		INNER JOIN (
			SELECT DISTINCT ON (%[3]s) *
			FROM %[2]s
			%[4]s
			ORDER BY %[3]s, visit_date DESC, id DESC
		) e ON e.%[3]s = i.id
	`, t.identities, t.entries, t.ref, condition)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al filtrar visitas: %w", err)
	}
	defer rows.Close()

	var records []domain.CombinedRecord
	for rows.Next() {
		var rec domain.CombinedRecord
		var photo, timeIn, timeOut, generatedBy, meetTo, building, equipment, accompanying sql.NullString

		err := rows.Scan(
			&rec.Aadhaar,
			&rec.Name,
			&rec.Address,
			&photo,
			&rec.TotalVisits,
			&rec.LastVisit,
			&timeIn,
			&timeOut,
			&generatedBy,
			&meetTo,
			&building,
			&equipment,
			&rec.Persons,
			&rec.GatePassNo,
			&accompanying,
		)
		if err != nil {
			return nil, fmt.Errorf("error al escanear visita: %w", err)
		}

		rec.VisitorType = variant.Label()
		rec.Photo = fromNullString(photo)
		rec.LastInTime = fromNullString(timeIn)
		rec.LastOutTime = fromNullString(timeOut)
		rec.GeneratedBy = fromNullString(generatedBy)
		rec.MeetTo = fromNullString(meetTo)
		rec.Building = fromNullString(building)
		rec.Equipment = fromNullString(equipment)
		rec.AccompanyingNames = fromNullString(accompanying)

		records = append(records, rec)
	}

	return records, nil
}

// HistoryByAadhaar devuelve todas las visitas de una identidad, sin filtro
// de fecha, ordenadas por fecha descendente
func (r *visitRepository) HistoryByAadhaar(variant domain.Variant, aadhaar string) ([]domain.VisitEntry, error) {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		SELECT
			e.id,
			e.%[3]s,
			e.visit_date,
			e.time_in,
			e.time_out,
			e.generated_by,
			e.meet_to,
			e.building,
			e.equipment,
			e.persons,
			e.gate_pass_no,
			e.accompanying_names
		FROM %[2]s e
		INNER JOIN %[1]s i ON i.id = e.%[3]s
		WHERE i.aadhaar = $1
		ORDER BY e.visit_date DESC, e.id DESC
	`, t.identities, t.entries, t.ref)

	rows, err := r.db.Query(query, aadhaar)
	if err != nil {
		return nil, fmt.Errorf("error al obtener historial: %w", err)
	}
	defer rows.Close()

	var entries []domain.VisitEntry
	for rows.Next() {
		var entry domain.VisitEntry
		var timeIn, timeOut, meetTo, building, equipment, accompanying sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.IdentityID,
			&entry.VisitDate,
			&timeIn,
			&timeOut,
			&entry.GeneratedBy,
			&meetTo,
			&building,
			&equipment,
			&entry.Persons,
			&entry.GatePassNo,
			&accompanying,
		)
		if err != nil {
			return nil, fmt.Errorf("error al escanear visita: %w", err)
		}

		entry.TimeIn = fromNullString(timeIn)
		entry.TimeOut = fromNullString(timeOut)
		entry.MeetTo = fromNullString(meetTo)
		entry.Building = fromNullString(building)
		entry.Equipment = fromNullString(equipment)
		entry.AccompanyingNames = fromNullString(accompanying)

		entries = append(entries, entry)
	}

	return entries, nil
}

// FindByGatePass busca la fila exacta de un pase emitido: identidad más los
// campos de esa visita puntual, no la última de la identidad
func (r *visitRepository) FindByGatePass(variant domain.Variant, aadhaar, gatePassNo string) (*domain.CombinedRecord, error) {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		SELECT
			i.aadhaar,
			i.name,
			i.address,
			i.photo,
			(SELECT COUNT(*) FROM %[2]s WHERE %[3]s = i.id) AS total_visits,
			e.visit_date,
			e.time_in,
			e.time_out,
			e.generated_by,
			e.meet_to,
			e.building,
			e.equipment,
			e.persons,
			e.gate_pass_no,
			e.accompanying_names
		FROM %[2]s e
		INNER JOIN %[1]s i ON i.id = e.%[3]s
		WHERE i.aadhaar = $1 AND e.gate_pass_no = $2
		LIMIT 1
	`, t.identities, t.entries, t.ref)

	rec := &domain.CombinedRecord{}
	var photo, timeIn, timeOut, generatedBy, meetTo, building, equipment, accompanying sql.NullString

	err := r.db.QueryRow(query, aadhaar, gatePassNo).Scan(
		&rec.Aadhaar,
		&rec.Name,
		&rec.Address,
		&photo,
		&rec.TotalVisits,
		&rec.LastVisit,
		&timeIn,
		&timeOut,
		&generatedBy,
		&meetTo,
		&building,
		&equipment,
		&rec.Persons,
		&rec.GatePassNo,
		&accompanying,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrGatePassNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("error al buscar pase: %w", err)
	}

	rec.VisitorType = variant.Label()
	rec.Photo = fromNullString(photo)
	rec.LastInTime = fromNullString(timeIn)
	rec.LastOutTime = fromNullString(timeOut)
	rec.GeneratedBy = fromNullString(generatedBy)
	rec.MeetTo = fromNullString(meetTo)
	rec.Building = fromNullString(building)
	rec.Equipment = fromNullString(equipment)
	rec.AccompanyingNames = fromNullString(accompanying)

	return rec, nil
}

// FindEntryByGatePass devuelve la visita cruda de un pase, incluido su token
// de entrada, para validar acciones posteriores (reenvío)
func (r *visitRepository) FindEntryByGatePass(variant domain.Variant, gatePassNo string) (*domain.VisitEntry, error) {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		SELECT
			id,
			%s,
			visit_date,
			time_in,
			time_out,
			generated_by,
			meet_to,
			building,
			equipment,
			persons,
			gate_pass_no,
			accompanying_names,
			entry_token,
			token_expiry
		FROM %s
		WHERE gate_pass_no = $1
		LIMIT 1
	`, t.ref, t.entries)

	entry := &domain.VisitEntry{}
	var timeIn, timeOut, meetTo, building, equipment, accompanying, token sql.NullString
	var expiry sql.NullTime

	err := r.db.QueryRow(query, gatePassNo).Scan(
		&entry.ID,
		&entry.IdentityID,
		&entry.VisitDate,
		&timeIn,
		&timeOut,
		&entry.GeneratedBy,
		&meetTo,
		&building,
		&equipment,
		&entry.Persons,
		&entry.GatePassNo,
		&accompanying,
		&token,
		&expiry,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrGatePassNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("error al buscar visita: %w", err)
	}

	entry.TimeIn = fromNullString(timeIn)
	entry.TimeOut = fromNullString(timeOut)
	entry.MeetTo = fromNullString(meetTo)
	entry.Building = fromNullString(building)
	entry.Equipment = fromNullString(equipment)
	entry.AccompanyingNames = fromNullString(accompanying)
	if token.Valid {
		entry.EntryToken = token.String
	}
	if expiry.Valid {
		t := expiry.Time
		entry.TokenExpiry = &t
	}

	return entry, nil
}

// ClearExpiredTokens invalida los tokens de entrada vencidos en ambas
// variantes. Los datos de la visita no se tocan.
func (r *visitRepository) ClearExpiredTokens() (int64, error) {
	var total int64

	for _, t := range variantTables {
		query := fmt.Sprintf(`
			UPDATE %s
			SET entry_token = NULL, token_expiry = NULL
			WHERE token_expiry < $1 AND entry_token IS NOT NULL
		`, t.entries)

		result, err := r.db.Exec(query, time.Now())
		if err != nil {
			return total, fmt.Errorf("error al limpiar tokens expirados: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("error al verificar limpieza: %w", err)
		}

		total += rowsAffected
	}

	return total, nil
}
