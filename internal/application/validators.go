package application

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError marca un error de datos de entrada. Los handlers lo
// traducen a 400 y el registro se rechaza antes de tocar el store.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Validator contiene funciones de validación de datos
type Validator struct{}

var (
	digitsRegex = regexp.MustCompile(`^\d{12}$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// NormalizeAadhaar limpia y valida un número de aadhaar. Devuelve el valor
// normalizado: exactamente 12 dígitos, sin espacios ni guiones.
func (v *Validator) NormalizeAadhaar(aadhaar string) (string, error) {
	if aadhaar == "" {
		return "", newValidationError("el número de aadhaar es requerido")
	}

	// Limpiar espacios y guiones
	clean := strings.ReplaceAll(aadhaar, " ", "")
	clean = strings.ReplaceAll(clean, "-", "")

	if !digitsRegex.MatchString(clean) {
		return "", newValidationError("el número de aadhaar debe tener exactamente 12 dígitos")
	}

	return clean, nil
}

// ValidateEmail valida el formato de un email
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return newValidationError("el email es requerido")
	}

	if !emailRegex.MatchString(email) {
		return newValidationError("el formato del email '%s' no es válido", email)
	}

	return nil
}

// ValidateRequired valida que un campo de texto no esté vacío
func (v *Validator) ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return newValidationError("el campo %s es requerido", fieldName)
	}

	return nil
}

// ParseExtraEmails separa una lista de emails extra separados por comas,
// descartando entradas vacías
func (v *Validator) ParseExtraEmails(raw string) []string {
	if raw == "" {
		return nil
	}

	var emails []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			emails = append(emails, part)
		}
	}

	return emails
}
