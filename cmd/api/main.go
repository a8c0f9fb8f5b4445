package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"studiobook/internal/app"
	"studiobook/internal/config"
	"studiobook/internal/database"
	"studiobook/internal/middleware"
	"studiobook/internal/modules/availability"
	"studiobook/internal/modules/booking"
	"studiobook/internal/modules/catalog"
	"studiobook/internal/modules/payment"
	"studiobook/internal/modules/schedule"
	jwtsvc "studiobook/internal/pkg/jwt"
	"studiobook/internal/repository"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)

	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	studioRepo := repository.NewStudioRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	ruleRepo := repository.NewAvailabilityRuleRepository(db)
	bookingRepo := repository.NewBookingRepository(db, cfg.ReservationTTL)
	paymentRepo := repository.NewGatewayPaymentRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	resolver := availability.NewResolver(ruleRepo, cfg.DefaultOpenMinute, cfg.DefaultCloseMinute)
	generator := schedule.NewGenerator(resolver, bookingRepo)

	catalogService := catalog.NewService(studioRepo, serviceRepo, equipmentRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	scheduleHandler := schedule.NewHandler(generator)
	availabilityHandler := availability.NewHandler(ruleRepo)

	bookingService := booking.NewService(
		bookingRepo, generator, serviceRepo, equipmentRepo,
		cfg.MaxSlotsPerBooking, cfg.ReservationTTL,
		logger.With().Str("module", "booking").Logger(),
	)
	bookingHandler := booking.NewHandler(bookingService)
	timerHandler := booking.NewTimerStreamHandler(bookingService, j,
		logger.With().Str("module", "timer_ws").Logger())

	paymentService := payment.NewService(paymentRepo, bookingService, payment.Config{
		MerchantLogin: cfg.GatewayMerchantLogin,
		Password1:     cfg.GatewayPassword1,
		Password2:     cfg.GatewayPassword2,
		BaseURL:       cfg.GatewayBaseURL,
		ResultURL:     cfg.GatewayResultURL,
		SuccessURL:    cfg.GatewaySuccessURL,
		FailURL:       cfg.GatewayFailURL,
		TestMode:      cfg.GatewayTestMode,
	}, logger.With().Str("module", "payment").Logger())
	paymentHandler := payment.NewHandler(paymentService,
		logger.With().Str("module", "payment").Logger())

	ownership := middleware.NewOwnershipChecker(studioRepo)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		scheduleHandler.RegisterRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)
		timerHandler.RegisterRoutes(v1)

		// authenticated
		authed := v1.Group("")
		authed.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(authed)
			paymentHandler.RegisterProtectedRoutes(authed)
		}

		// studio owners only
		owner := v1.Group("")
		owner.Use(middleware.Auth(j), ownership.CheckStudioOwnership())
		{
			availabilityHandler.RegisterOwnerRoutes(owner)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := app.NewSweeper(bookingRepo, cfg.SweepInterval,
		logger.With().Str("module", "sweeper").Logger())
	sweeper.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown was not clean")
	}
	sweeper.Stop()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.Env == "production" {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
