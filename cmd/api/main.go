package main

import (
	"log"
	"time"

	config "github.com/cdlprep/cdl-prep-backend/configs"
	"github.com/cdlprep/cdl-prep-backend/database"
	"github.com/cdlprep/cdl-prep-backend/handlers"
	"github.com/cdlprep/cdl-prep-backend/jobs"
	"github.com/cdlprep/cdl-prep-backend/notifications"
	"github.com/cdlprep/cdl-prep-backend/routes"
	"github.com/cdlprep/cdl-prep-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	db := database.ConnectDB()
	database.Migrate(db)
	database.SeedAdmin(db)
	database.SeedJurisdictions(db)
	notifications.InitEmailService()

	questionService := services.NewQuestionService(db)
	certificateService := services.NewCertificateService(db)
	sessionService := services.NewSessionService(
		db,
		questionService,
		certificateService,
		config.PassingScore(),
		config.FreeSessionLimit(),
		config.QuotaLocation(),
	)
	statsService := services.NewStatsService(db, config.PassingScore())

	authHandler := handlers.NewAuthHandler(db)
	questionHandler := handlers.NewQuestionHandler(questionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)
	profileHandler := handlers.NewProfileHandler(db, certificateService)
	jurisdictionHandler := handlers.NewJurisdictionHandler(db)

	reaper := jobs.NewSessionReaper(sessionService, config.SessionTTL())
	c := cron.New()
	c.AddFunc("*/15 * * * *", reaper.Run)
	go c.Start()
	log.Println("✅ Cron job for session reaping scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "CDL Prep",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AuthRoutes(app, authHandler)
	routes.ProfileRoutes(app, profileHandler)
	routes.ExamRoutes(app, questionHandler, sessionHandler)
	routes.DashboardRoutes(app, dashboardHandler)
	routes.PublicRoutes(app, jurisdictionHandler)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
