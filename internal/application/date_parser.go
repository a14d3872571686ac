package application

import (
	"strings"
	"time"
)

// DateParser normaliza las fechas que llegan del frontend, que puede enviar
// ISO, DD/MM/YYYY o DD-MM-YYYY según la pantalla
type DateParser struct{}

// visitDateFormats son los formatos aceptados, en orden de preferencia
var visitDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
	"2-1-2006",
}

// NormalizeVisitDate parsea una fecha de visita. Si el valor está vacío o no
// se puede interpretar, cae a la fecha base (hoy), igual que el flujo de
// reenvío de pases.
func (dp *DateParser) NormalizeVisitDate(input string, baseDate time.Time) time.Time {
	input = strings.TrimSpace(input)
	if input == "" {
		return dateOnly(baseDate)
	}

	// Timestamps ISO completos: quedarse con la parte de fecha
	if len(input) > 10 && input[10] == 'T' {
		input = input[:10]
	}

	for _, format := range visitDateFormats {
		if t, err := time.Parse(format, input); err == nil {
			return t
		}
	}

	return dateOnly(baseDate)
}

// dateOnly descarta la componente horaria
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
