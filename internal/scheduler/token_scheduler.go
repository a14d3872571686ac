package scheduler

import (
	"log"
	"time"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

// TokenScheduler invalida los tokens de entrada vencidos una vez al día.
// Las visitas en sí nunca se modifican, solo se limpia el token.
type TokenScheduler struct {
	visitRepo domain.VisitRepository
	ticker    *time.Ticker
}

// NewTokenScheduler crea una nueva instancia del scheduler de tokens
func NewTokenScheduler(visitRepo domain.VisitRepository) *TokenScheduler {
	return &TokenScheduler{
		visitRepo: visitRepo,
	}
}

// Start inicia el scheduler: ejecuta una limpieza inmediata y luego una
// diaria pasada la medianoche
func (s *TokenScheduler) Start() {
	log.Println("Scheduler de tokens iniciado - Se ejecutará cada 24 horas")

	s.ClearExpiredTokens()

	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 5, 0, 0, now.Location())

	log.Printf("Próxima limpieza de tokens: %s", nextRun.Format("2006-01-02 15:04:05"))

	time.AfterFunc(time.Until(nextRun), func() {
		s.ClearExpiredTokens()

		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for range s.ticker.C {
				s.ClearExpiredTokens()
			}
		}()
	})
}

// Stop detiene el scheduler
func (s *TokenScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		log.Println("Scheduler de tokens detenido")
	}
}

// ClearExpiredTokens invalida los tokens vencidos
func (s *TokenScheduler) ClearExpiredTokens() {
	cleared, err := s.visitRepo.ClearExpiredTokens()
	if err != nil {
		log.Printf("Error limpiando tokens expirados: %v", err)
		return
	}

	if cleared > 0 {
		log.Printf("Tokens expirados invalidados: %d", cleared)
	}
}
