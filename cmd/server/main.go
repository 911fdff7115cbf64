package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/audit"
	"github.com/dml-mx/facturacion-portal-go/internal/config"
	"github.com/dml-mx/facturacion-portal-go/internal/database"
	"github.com/dml-mx/facturacion-portal-go/internal/handler"
	"github.com/dml-mx/facturacion-portal-go/internal/jobs"
	"github.com/dml-mx/facturacion-portal-go/internal/middleware"
	"github.com/dml-mx/facturacion-portal-go/internal/redis"
	"github.com/dml-mx/facturacion-portal-go/internal/repository"
	"github.com/dml-mx/facturacion-portal-go/internal/service"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("ENVIRONMENT") == "production" || os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(pingCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("database ping failed")
	}
	cancel()
	log.Info().Msg("connected to database")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to prepare upload dir")
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	invoiceRepo := repository.NewInvoiceRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	accessHistoryRepo := repository.NewAccessHistoryRepository(db.DB)

	recorder := audit.NewRecorder(accessHistoryRepo)

	// Services
	orderService := service.NewOrderService(orderRepo)
	pendingStore := service.NewPendingOrderStore(redisClient, cfg.PendingTTL())
	documentValidator := service.NewDocumentValidator(store)
	gateway := service.NewWorkflowGateway(cfg.WorkflowWebhookURL, cfg.WorkflowTimeout())
	submissionService := service.NewSubmissionService(pendingStore, documentValidator, gateway, store)
	authService := service.NewAuthService(userRepo, sessionRepo, recorder, cfg.SessionSecret)
	dashboardService := service.NewDashboardService(invoiceRepo, notificationRepo)
	profileService := service.NewProfileService(userRepo, accessHistoryRepo, recorder)
	webhookService := service.NewWebhookService(invoiceRepo, notificationRepo, store)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	// Middlewares
	sessionMiddleware := middleware.NewPortalSessionMiddleware(authService)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isProduction)
	defaultBodyLimit := middleware.NewBodyLimitMiddleware(config.DefaultBodySize)
	uploadBodyLimit := middleware.NewBodyLimitMiddleware(config.MaxUploadBytes)
	loginRateLimit := middleware.NewIPRateLimitMiddleware(rateLimiter, config.LoginRateLimit, time.Minute, "login")
	webhookToken := middleware.NewWebhookTokenMiddleware(cfg.WebhookToken)

	// Handlers
	billingHandler := handler.NewBillingHandler(orderService, pendingStore, submissionService, cfg.PendingTTL(), isProduction)
	portalHandler := handler.NewPortalHandler(authService, dashboardService, profileService, isProduction)
	webhookHandler := handler.NewWebhookHandler(webhookService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public billing flow. Uploads arrive here, so the larger body
	// limit applies.
	r.Route("/api", func(r chi.Router) {
		r.Use(securityHeaders.Handler)
		r.Use(uploadBodyLimit.Handler)
		r.Use(csrfMiddleware.Handler)
		r.Mount("/", billingHandler.Routes())
	})

	// Authenticated user portal.
	r.Route("/portal", func(r chi.Router) {
		r.Use(securityHeaders.Handler)

		r.Route("/api", func(r chi.Router) {
			r.Use(defaultBodyLimit.Handler)
			r.Use(csrfMiddleware.Handler)

			r.With(loginRateLimit.Handler).Post("/login", portalHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(sessionMiddleware.Handler)
				r.Mount("/", portalHandler.AuthenticatedRoutes())
			})
		})

		r.Handle("/*", http.StripPrefix("/portal", handler.NewSPAHandler(cfg.StaticDir)))
	})

	// Inbound callbacks from the workflow engine.
	r.Route("/webhooks", func(r chi.Router) {
		r.Use(uploadBodyLimit.Handler)
		r.Use(webhookToken.Handler)
		r.Mount("/", webhookHandler.Routes())
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/portal/", http.StatusFound)
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, store, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: config.ServerReadTimeout,
		// WriteTimeout stays 0: document downloads and the workflow
		// engine round-trip can exceed any reasonable fixed value.
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("production", isProduction).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
