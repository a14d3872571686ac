package repository

import (
	"database/sql"
	"fmt"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

type identityRepository struct {
	db *sql.DB
}

// NewIdentityRepository crea una nueva instancia del repositorio de identidades
func NewIdentityRepository(db *sql.DB) domain.IdentityRepository {
	return &identityRepository{db: db}
}

// FindByAadhaar busca una identidad por su aadhaar dentro de una variante
func (r *identityRepository) FindByAadhaar(variant domain.Variant, aadhaar string) (*domain.Identity, error) {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		SELECT
			id,
			aadhaar,
			name,
			address,
			photo
		FROM %s
		WHERE aadhaar = $1
	`, t.identities)

	identity := &domain.Identity{}
	var photo sql.NullString

	err := r.db.QueryRow(query, aadhaar).Scan(
		&identity.ID,
		&identity.Aadhaar,
		&identity.Name,
		&identity.Address,
		&photo,
	)

	if err == sql.ErrNoRows {
		return nil, nil // No existe, devolver nil sin error
	}

	if err != nil {
		return nil, fmt.Errorf("error al buscar identidad: %w", err)
	}

	if photo.Valid {
		identity.Photo = &photo.String
	}

	return identity, nil
}

// Create crea una nueva identidad. Si el aadhaar ya existe (por ejemplo dos
// registros simultáneos del mismo aadhaar nuevo) devuelve ErrDuplicateKey
// para que el servicio re-consulte y continúe como "encontrado".
func (r *identityRepository) Create(variant domain.Variant, identity *domain.Identity) error {
	t := tablesFor(variant)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			aadhaar,
			name,
			address,
			photo
		) VALUES ($1, $2, $3, $4)
		RETURNING id
	`, t.identities)

	var photo sql.NullString
	if identity.Photo != nil {
		photo = sql.NullString{String: *identity.Photo, Valid: true}
	}

	err := r.db.QueryRow(
		query,
		identity.Aadhaar,
		identity.Name,
		identity.Address,
		photo,
	).Scan(&identity.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("error al crear identidad: %w", err)
	}

	return nil
}
