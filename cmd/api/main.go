package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/tutorlink/tutorlink/cache"
	config "github.com/tutorlink/tutorlink/configs"
	"github.com/tutorlink/tutorlink/database"
	"github.com/tutorlink/tutorlink/handlers"
	"github.com/tutorlink/tutorlink/jobs"
	"github.com/tutorlink/tutorlink/logger"
	"github.com/tutorlink/tutorlink/middleware"
	"github.com/tutorlink/tutorlink/monitoring"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/routes"
	"github.com/tutorlink/tutorlink/services"
	"github.com/tutorlink/tutorlink/tracing"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("./configs")
	if err != nil {
		panic(err)
	}

	logger.InitLogger(cfg.Server.Mode)
	log := logger.Log
	defer log.Sync()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	rdb, err := cache.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	directory := cache.NewTutorDirectory(rdb)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("tutorlink", cfg.Tracing.CollectorEndpoint); err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
	}
	monitoring.Init()

	users := repository.NewUserRepository(db)
	profiles := repository.NewTutorProfileRepository(db)
	sessions := repository.NewSessionRepository(db)
	reviews := repository.NewReviewRepository(db)

	sessionService := services.NewSessionService(db, users, profiles, sessions, log)
	reviewService := services.NewReviewService(db, users, sessions, reviews, directory, log)
	tutorService := services.NewTutorService(users, profiles, directory, log)

	reconcile := jobs.NewReconcileAggregatesJob(db, reviews, log)
	c := cron.New()
	c.AddFunc("0 3 * * *", reconcile.Run)
	go c.Start()
	log.Info("cron job for aggregate reconciliation scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "TutorLink",
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
			log.Error("unhandled request error",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
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
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(monitoring.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		app.Use(tracing.Middleware())
	}

	protected := middleware.Protected(cfg.JWT.Secret)

	authHandler := handlers.NewAuthHandler(db, &cfg.JWT)
	profileHandler := handlers.NewProfileHandler(users)
	tutorHandler := handlers.NewTutorHandler(tutorService, reviewService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	routes.AuthRoutes(app, authHandler)
	routes.ProfileRoutes(app, profileHandler, protected)
	routes.TutorRoutes(app, tutorHandler, protected)
	routes.SessionRoutes(app, sessionHandler, reviewHandler, protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", monitoring.PrometheusHandler())

	log.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("server failed to start", zap.Error(err))
	}
}
