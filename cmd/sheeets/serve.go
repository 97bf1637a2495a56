package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "sheeets/docs"
	"sheeets/internal/adapters/auth"
	"sheeets/internal/adapters/email"
	"sheeets/internal/adapters/httpx"
	"sheeets/internal/adapters/ogimage"
	httpdelivery "sheeets/internal/delivery/http"
	"sheeets/internal/delivery/http/controllers"
	"sheeets/internal/delivery/http/middleware"
	"sheeets/internal/domain"
	"sheeets/internal/repository/postgres"
	"sheeets/internal/services"
)

const recommendationLimit = 10

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled cache refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		warm, _ := cmd.Flags().GetBool("warm")
		return runServe(cmd.Context(), skipMigrate, warm)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("skip-migrate", false, "Do not apply pending migrations on start")
	serveCmd.Flags().Bool("warm", true, "Refresh the event cache once before accepting traffic")
}

func runServe(ctx context.Context, skipMigrate, warm bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, logger := a.cfg, a.logger

	if !skipMigrate {
		if err := a.migrateUp(ctx); err != nil {
			return err
		}
	}

	cache, err := a.newEventCache()
	if err != nil {
		return err
	}
	if warm {
		if err := cache.Refresh(ctx); err != nil {
			logger.Warn("initial cache refresh failed, serving stored events", "err", err)
		}
	}

	// Repositories
	itineraryRepo := postgres.NewItineraryRepository(a.db)
	friendRepo := postgres.NewFriendRepository(a.db)
	userRepo := postgres.NewUserRepository(a.db)
	rsvpRepo := postgres.NewRSVPRepository(a.db)
	apiKeyRepo := postgres.NewAPIKeyRepository(a.db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailerFromAddress,
		FromName:    cfg.MailerFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	pages := httpx.NewRetryClient(httpx.Options{Timeout: 10 * time.Second, RetryMax: 1}, logger)
	images := ogimage.NewLookup(pages)

	// Services
	timeout := cfg.RequestTimeout
	loc := cfg.Location()
	nowPolicy := domain.NowPolicy{Lead: cfg.NowLead, Tail: cfg.NowTail}
	friendService := services.NewFriendService(friendRepo, itineraryRepo, timeout)
	eventService := services.NewEventService(cache, services.EventServiceConfig{
		Itinerary: itineraryRepo,
		Friends:   friendService,
		Images:    images,
		NowPolicy: nowPolicy,
		Location:  loc,
	}, logger, timeout)
	itineraryService := services.NewItineraryService(itineraryRepo, cache, timeout)
	recommendationService := services.NewRecommendationService(cache, itineraryRepo, friendService, recommendationLimit, timeout)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	rsvpService := services.NewRSVPService(rsvpRepo, userRepo, cache, emailService, logger, timeout)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, auth.NewBcryptHasher(0), timeout)
	verifier := services.NewCredentialVerifier(apiKeyService, auth.NewJWTVerifier(cfg.JWTSecret))
	limiter := services.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitPerDay, nil)

	// Controllers
	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Events:          controllers.NewEventController(logger, eventService),
		Health:          controllers.NewHealthController(cache),
		Itinerary:       controllers.NewItineraryController(logger, itineraryService, controllers.CalendarOptions{Location: loc, DefaultDuration: cfg.NowTail}),
		Friends:         controllers.NewFriendController(logger, friendService),
		RSVPs:           controllers.NewRSVPController(logger, rsvpService),
		Recommendations: controllers.NewRecommendationController(logger, recommendationService),
		Keys:            controllers.NewAPIKeyController(logger, apiKeyService),
	}, verifier, limiter, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))

	warmer, err := services.NewWarmer(cache, cfg.RefreshCron, loc, 2*time.Minute, logger)
	if err != nil {
		return err
	}
	warmer.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-stop:
		logger.Info("shutting down server")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	warmer.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
