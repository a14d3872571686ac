package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

// tableSet agrupa los nombres de tabla y columna de referencia de una
// variante. Las consultas se arman únicamente con estos identificadores
// fijos; los datos del request siempre viajan como parámetros.
type tableSet struct {
	identities string // tabla de identidades
	entries    string // tabla de visitas
	ref        string // columna FK hacia la identidad
}

var variantTables = map[domain.Variant]tableSet{
	domain.VariantVisitor: {identities: "visitors", entries: "visits", ref: "visitor_id"},
	domain.VariantVendor:  {identities: "vendors", entries: "vendor_entries", ref: "vendor_id"},
}

// tablesFor devuelve el juego de tablas de la variante. Las variantes son
// un tipo cerrado, así que el fallback a visitante nunca debería ocurrir.
func tablesFor(variant domain.Variant) tableSet {
	if t, ok := variantTables[variant]; ok {
		return t
	}
	return variantTables[domain.VariantVisitor]
}

// isUniqueViolation detecta la violación de una restricción UNIQUE de
// Postgres (código 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
