package domain

import "errors"

// Errores centinela que los handlers traducen a códigos HTTP. El resto de
// errores de los repositorios se tratan como fallas de persistencia (500).
var (
	// ErrIdentityConflict indica que el aadhaar ya existe con nombre o
	// dirección distintos. Nunca se sobreescribe una identidad.
	ErrIdentityConflict = errors.New("el aadhaar ya existe con datos diferentes")

	// ErrGatePassNotFound indica que no existe un pase con esa combinación
	ErrGatePassNotFound = errors.New("pase de entrada no encontrado")

	// ErrIdentityNotFound indica que el aadhaar no está registrado en
	// ninguna variante
	ErrIdentityNotFound = errors.New("identidad no encontrada")

	// ErrDuplicateKey lo devuelven los repositorios cuando el store rechaza
	// un insert por violación de unicidad
	ErrDuplicateKey = errors.New("registro duplicado")

	// ErrTokenExpired indica que el token de entrada ya venció
	ErrTokenExpired = errors.New("el token de entrada ha expirado")

	// ErrTokenInvalid indica que el token no corresponde al pase
	ErrTokenInvalid = errors.New("token de entrada inválido")
)
