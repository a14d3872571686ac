package application

import (
	"fmt"
	"sync"
	"time"
)

// registrationWindow representa la ventana de conteo de una IP
type registrationWindow struct {
	count     int
	resetTime time.Time
}

// RegistrationLimiter limita cuántos registros puede enviar una misma IP en
// una ventana de tiempo, para frenar envíos accidentales en ráfaga desde el
// mostrador de recepción
type RegistrationLimiter struct {
	windows map[string]*registrationWindow
	mu      sync.Mutex
	window  time.Duration
	limit   int
}

// NewRegistrationLimiter crea un limitador de registros por IP.
// window: duración de la ventana (ej: 1 minuto)
// limit: registros permitidos por ventana
func NewRegistrationLimiter(window time.Duration, limit int) *RegistrationLimiter {
	rl := &RegistrationLimiter{
		windows: make(map[string]*registrationWindow),
		window:  window,
		limit:   limit,
	}

	// Iniciar limpieza periódica
	go rl.cleanupLoop()

	return rl
}

// Allow verifica si la IP puede registrar otra visita
func (rl *RegistrationLimiter) Allow(ip string) (bool, error) {
	if ip == "" {
		ip = "anonymous"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.windows[ip]

	// Ventana nueva o vencida
	if !exists || now.After(entry.resetTime) {
		rl.windows[ip] = &registrationWindow{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true, nil
	}

	if entry.count >= rl.limit {
		wait := entry.resetTime.Sub(now)
		return false, fmt.Errorf("límite de registros excedido. Intenta de nuevo en %v", wait.Round(time.Second))
	}

	entry.count++
	return true, nil
}

// cleanupLoop elimina ventanas vencidas periódicamente
func (rl *RegistrationLimiter) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, entry := range rl.windows {
			if now.After(entry.resetTime) {
				delete(rl.windows, ip)
			}
		}
		rl.mu.Unlock()
	}
}
