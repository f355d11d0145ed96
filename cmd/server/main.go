package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/authstate"
	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/Renan360Brasil/melody-academy-control/internal/database"
	"github.com/Renan360Brasil/melody-academy-control/internal/handler"
	"github.com/Renan360Brasil/melody-academy-control/internal/logger"
	"github.com/Renan360Brasil/melody-academy-control/internal/notify"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/Renan360Brasil/melody-academy-control/internal/router"
	"github.com/Renan360Brasil/melody-academy-control/internal/service"
	"github.com/Renan360Brasil/melody-academy-control/internal/validator"
	"github.com/Renan360Brasil/melody-academy-control/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Melody Academy Control")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	profileRepo := repository.NewProfileRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Notification Hub ──────────────────────────────────────────────
	hub := notify.NewHub(log, cfg.AllowedOrigins)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	// ─── Auth State ────────────────────────────────────────────────────
	bus := authstate.NewBus()
	resolver := authstate.NewDBResolver(profileRepo, teacherRepo, studentRepo, log)
	tracker := authstate.NewTracker(resolver, hub, log)

	sessions := service.NewSessionRegistry(rdb)

	// Sessions still registered from a previous run are replayed through
	// the tracker before it reports ready.
	warm, err := sessions.Active(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Session warm scan failed, starting cold")
	}
	tracker.Start(bus, warm)
	defer tracker.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, profileRepo, sessions, settingRepo, bus, hub, log)
	profileService := service.NewProfileService(profileRepo, authService, tracker)
	studentService := service.NewStudentService(studentRepo)
	teacherService := service.NewTeacherService(teacherRepo)
	courseService := service.NewCourseService(courseRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	paymentService := service.NewPaymentService(paymentRepo)
	classService := service.NewClassService(classRepo, courseRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)
	settingService := service.NewSettingService(settingRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, tracker),
		Student:    handler.NewStudentHandler(studentService),
		Teacher:    handler.NewTeacherHandler(teacherService),
		Course:     handler.NewCourseHandler(courseService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService, paymentService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Class:      handler.NewClassHandler(classService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Setting:    handler.NewSettingHandler(settingService),
		Profile:    handler.NewProfileHandler(profileService),
		WS:         handler.NewWSHandler(hub),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	overdueWorker := worker.NewOverdueWorker(paymentRepo, rdb, log)
	go overdueWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, sessions, tracker, hub, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and notification hub.
	workerCancel()
	hubCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
