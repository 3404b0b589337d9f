package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/port"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/config"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/database"
	kafkainfra "github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/kafka"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/logger"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/mail"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/media"
	redisinfra "github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/redis"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/security"
	postgresrepo "github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository/postgres"
	redisrepo "github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository/redis"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/transport/http/middleware"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/transport/http/routes"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// Application wires configuration, storage, and transport together.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

// New builds the application graph from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.Migrate(cfg.Postgres.DSN(), log); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		pool.Close()
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	issuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.SessionTTL, cfg.JWT.ResetTTL, cfg.JWT.InviteTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Mail, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init mailer: %w", err)
	}

	mediaStore, err := media.NewCloudinaryStore(cfg.Media, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init media store: %w", err)
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)
	passwordValidator := security.DefaultPasswordValidator()

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "notapp:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	authService := usecase.NewAuthService(
		repos.Users, repos.LoginFailures, issuer, passwordValidator, eventPublisher, log,
		cfg.Throttle.Window, cfg.Throttle.MaxFailures,
	)
	passwordResetService := usecase.NewPasswordResetService(
		repos.Users, repos.Tokens, issuer, passwordValidator, mailer, eventPublisher, log,
		cfg.App.PublicURL, cfg.JWT.ResetTTL,
	)
	invitationService := usecase.NewInvitationService(
		repos.Users, repos.Homes, repos.Tokens, issuer, passwordValidator, mailer, eventPublisher, log,
		cfg.App.PublicURL,
	)
	homeService := usecase.NewHomeService(repos.Users, repos.Homes, repos.Lists, repos.Items, mediaStore, log)
	catalogService := usecase.NewCatalogService(repos.Homes, repos.Lists, repos.Items, mediaStore, log)
	profileService := usecase.NewProfileService(repos.Users, mediaStore, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			PasswordReset: passwordResetService,
			Invitations:   invitationService,
			Homes:         homeService,
			Catalog:       catalogService,
			Profiles:      profileService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting NotApp API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
