package domain

import "fmt"

// Variant distingue las dos variantes de identidad que maneja el sistema:
// visitantes y representantes de proveedores. Ambas comparten la misma
// lógica, solo cambian las tablas donde se persisten.
type Variant string

const (
	VariantVisitor Variant = "visitor"
	VariantVendor  Variant = "vendor"
)

// ParseVariant convierte el valor recibido del frontend en una variante válida.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "visitor", "Visitor":
		return VariantVisitor, nil
	case "vendor", "Vendor":
		return VariantVendor, nil
	default:
		return "", fmt.Errorf("tipo de visitante '%s' no válido (se espera 'visitor' o 'vendor')", s)
	}
}

// Label devuelve la etiqueta que el frontend muestra para la variante
func (v Variant) Label() string {
	if v == VariantVendor {
		return "Vendor"
	}
	return "Visitor"
}

// Identity representa una persona registrada en el sistema, identificada
// de forma única por su número de aadhaar dentro de cada variante
type Identity struct {
	ID      int     `json:"id"`
	Aadhaar string  `json:"aadhaar"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Photo   *string `json:"photo,omitempty"` // Puntero para permitir NULL (base64 o URL)
}

// IdentityRepository define las operaciones con identidades
type IdentityRepository interface {
	// FindByAadhaar busca una identidad por su aadhaar dentro de una variante
	FindByAadhaar(variant Variant, aadhaar string) (*Identity, error)
	// Create crea una nueva identidad y asigna su ID
	Create(variant Variant, identity *Identity) error
}
