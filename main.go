package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendra/config"
	"calendra/cron"
	"calendra/database"
	appointmentRepo "calendra/database/repository/appointment"
	"calendra/handlers"
	"calendra/middleware"
	"calendra/routes"
	"calendra/services/agent"
	"calendra/services/calendar"
	"calendra/services/notification"
	"calendra/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Sugar().Fatalf("main: failed to load configuration: %v", err)
	}
	utils.InitializeLogger(cfg.Env)
	logger := utils.GetLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Appointment storage: Mongo when configured, in-memory otherwise.
	var repo appointmentRepo.AppointmentRepository
	if cfg.DatabaseURL != "" {
		client, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect to mongo: %v", err)
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		repo = appointmentRepo.NewMongoAppointmentRepo(client, cfg.DatabaseName)
		logger.Sugar().Infof("main: using mongo appointment store (%s)", cfg.DatabaseName)
	} else {
		memRepo := appointmentRepo.NewMemoryAppointmentRepo()
		if cfg.SeedCalendar {
			memRepo.Seed(time.Now())
		}
		repo = memRepo
		logger.Sugar().Info("main: using in-memory appointment store")
	}

	// Conversation sessions live in Redis so they survive restarts; fall
	// back to process memory when Redis is unreachable.
	var sessions agent.SessionStore
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if redisClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB); err != nil {
		logger.Sugar().Warnf("main: redis unavailable, sessions held in memory: %v", err)
		sessions = agent.NewMemorySessionStore()
	} else {
		sessions = agent.NewRedisSessionStore(redisClient, sessionTTL)
	}

	engine := calendar.NewEngine(repo, calendar.Rules{
		StartHour:       cfg.BusinessStartHour,
		EndHour:         cfg.BusinessEndHour,
		EveningEndHour:  cfg.EveningEndHour,
		IntervalMinutes: cfg.SlotIntervalMinutes,
		MaxSlots:        cfg.MaxSuggestedSlots,
	})

	// Reminders ride on asynq; without Redis they are disabled.
	var reminders agent.ReminderScheduler
	if cfg.RedisAddr != "" {
		redisOpts := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisReminderDB,
		}
		scheduler := notification.NewAsynqReminderScheduler(redisOpts, cfg.ReminderLeadMinutes)
		defer scheduler.Close()
		reminders = scheduler
		cron.InitReminderWorker(redisOpts, notification.NewLogNotifier())
	}

	agentService := agent.NewDefaultAgentService(sessions, engine, repo, reminders, cfg.DefaultDurationMinutes)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		AgentMessageHandler: handlers.AgentMessageHandler(agentService),
		AgentResetHandler:   handlers.AgentResetHandler(agentService),

		GetSlotsHandler:        handlers.GetSlotsHandler(engine, cfg.DefaultDurationMinutes),
		GetAppointmentsHandler: handlers.GetAppointmentsHandler(repo),
		GetAnalyticsHandler:    handlers.GetAnalyticsHandler(repo),
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
