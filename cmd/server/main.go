package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/lib/pq"

	"github.com/Maxito7/gatepass_backend/internal/application"
	"github.com/Maxito7/gatepass_backend/internal/config"
	"github.com/Maxito7/gatepass_backend/internal/email"
	"github.com/Maxito7/gatepass_backend/internal/infrastructure/repository"
	handlers "github.com/Maxito7/gatepass_backend/internal/interfaces/http"
	"github.com/Maxito7/gatepass_backend/internal/scheduler"
	services "github.com/Maxito7/gatepass_backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Error pinging database: %v", err)
	}

	// Los formularios pueden incluir fotos en base64
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New())

	// Email Client
	var emailClient *email.Client
	if cfg.HasSMTP() {
		emailClient, err = email.NewClient(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPassword,
			cfg.SMTPFromName,
			cfg.SMTPFromEmail,
		)
		if err != nil {
			log.Printf("Warning: Email client initialization failed: %v", err)
			emailClient = nil // Continuar sin email
		}
	} else {
		log.Println("Warning: SMTP no configurado, los pases no se enviarán por email")
	}

	// Pases de entrada
	identityRepo := repository.NewIdentityRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	gatePassService := application.NewGatePassService(identityRepo, visitRepo, emailClient, cfg.SecurityEmail, cfg.HSEEmail)
	registrationLimiter := application.NewRegistrationLimiter(1*time.Minute, 30)
	gatePassHandler := handlers.NewGatePassHandler(gatePassService, registrationLimiter)

	// Reportes y dashboard
	reportService := application.NewReportService(identityRepo, visitRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	// Fotos (opcional: sin bucket el endpoint responde 503)
	s3Service, err := services.NewS3Service()
	if err != nil {
		log.Printf("Warning: S3 service initialization failed: %v", err)
		s3Service = nil
	}
	s3Handler := handlers.NewS3Handler(s3Service)

	// Limpieza diaria de tokens vencidos
	tokenScheduler := scheduler.NewTokenScheduler(visitRepo)
	tokenScheduler.Start()
	defer tokenScheduler.Stop()

	api := app.Group("/api")

	// Rutas de visitantes y proveedores
	visitors := api.Group("/visitors")
	visitors.Get("/filter", reportHandler.Filter)
	visitors.Get("/report", reportHandler.DailyReport)
	visitors.Get("/history/:aadhar", reportHandler.History)
	visitors.Get("/vendor-history/:aadhar", reportHandler.VendorHistory)
	visitors.Get("/get-by-aadhar/:aadhar", reportHandler.GetByAadhaar)
	visitors.Get("/reopen/:type/:aadhar/:gatePassNo", reportHandler.Reopen)
	visitors.Post("/add", gatePassHandler.Add)
	visitors.Post("/sendGatePass", gatePassHandler.SendGatePass)

	// Rutas de fotos
	upload := api.Group("/upload")
	upload.Post("/imagenes", s3Handler.HandleUploadPhoto)

	// Liveness
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Gate Pass Management API is running...")
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
