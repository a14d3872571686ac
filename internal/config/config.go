package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config contiene la configuración del servidor, leída del entorno
type Config struct {
	ServerPort string

	// Base de datos
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SMTP (opcional: sin credenciales el servidor arranca sin email)
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// Destinatarios fijos de las notificaciones
	SecurityEmail string
	HSEEmail      string
}

// LoadConfig carga la configuración desde el entorno. El archivo .env es
// opcional; las variables ya exportadas tienen prioridad.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("PORT", "3000"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASS"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Gate Pass"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		SecurityEmail: os.Getenv("SECURITY_EMAIL"),
		HSEEmail:      os.Getenv("HSE_EMAIL"),
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("faltan variables de base de datos (DB_HOST, DB_USER, DB_NAME)")
	}

	return cfg, nil
}

// GetDBConnString arma la cadena de conexión de Postgres
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// HasSMTP indica si hay credenciales suficientes para enviar emails
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFromEmail != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
