package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/config"
	infraredis "github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/redis"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/transport/http/handlers"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/transport/http/middleware"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	PasswordReset *usecase.PasswordResetService
	Invitations   *usecase.InvitationService
	Homes         *usecase.HomeService
	Catalog       *usecase.CatalogService
	Profiles      *usecase.ProfileService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Database    *pgxpool.Pool
	Cache       *infraredis.Client
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	} else {
		r.Use(metrics.Handler())
	}

	requireAuth := middleware.RequireAuth(deps.Services.Auth, deps.Config.App.APIKey)

	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache)
	healthHandler.RegisterRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authHandler.RegisterRoutes(api, requireAuth, rateLimitMiddlewares(deps, "login_ip", deps.Config.RateLimit.LoginMaxAttempts)...)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset)
		passwordHandler.RegisterRoutes(api, rateLimitMiddlewares(deps, "forgot_password_ip", deps.Config.RateLimit.ForgotPasswordMaxAttempts)...)

		memberHandler := handlers.NewMemberHandler(deps.Services.Invitations)
		memberHandler.RegisterRoutes(api, requireAuth)

		homeHandler := handlers.NewHomeHandler(deps.Services.Homes)
		homeHandler.RegisterRoutes(api, requireAuth)

		catalogHandler := handlers.NewCatalogHandler(deps.Services.Catalog)
		catalogHandler.RegisterRoutes(api, requireAuth)

		profileHandler := handlers.NewProfileHandler(deps.Services.Profiles)
		profileHandler.RegisterRoutes(api, requireAuth)
	}

	return r
}

func rateLimitMiddlewares(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
