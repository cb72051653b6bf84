package api

import (
	"net"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/devconnector/connector-api/docs"
	"github.com/devconnector/connector-api/internal/api/handler"
	"github.com/devconnector/connector-api/internal/api/middleware"
	"github.com/devconnector/connector-api/internal/core/ports"
	"github.com/devconnector/connector-api/internal/infrastructure/http/handlers"
)

const metricsNamespace = "connector"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Profiles ports.ProfileService
	Repos    ports.RepoLookup
	Tokens   ports.TokenVerifier

	// LoginLimiter throttles POST /auth; nil disables throttling.
	LoginLimiter ports.RateLimiter
	// TrustedProxies are the only peers whose X-Forwarded-For is honoured
	// when resolving the client IP. Empty means the TCP peer address is used.
	TrustedProxies []*net.IPNet
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handlers.Pinger

	// Registerer and Gatherer back the HTTP metrics; nil means the
	// Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: d.Registerer,
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Profiles, d.Repos)
	requireAuth := middleware.Auth(d.Tokens)

	// --- Users & auth ---
	e.POST("/users", authHandler.Register)
	e.GET("/auth", authHandler.Me, requireAuth)
	if d.LoginLimiter != nil {
		e.POST("/auth", authHandler.Login, middleware.RateLimit(d.LoginLimiter, "login", d.Logger))
	} else {
		e.POST("/auth", authHandler.Login)
	}

	// --- Profiles ---
	p := e.Group("/profile")
	p.GET("", profileHandler.List)
	p.POST("", profileHandler.Upsert, requireAuth)
	p.DELETE("", profileHandler.Delete, requireAuth)
	p.GET("/me", profileHandler.Me, requireAuth)
	p.GET("/user/:user_id", profileHandler.ByUser)
	p.PUT("/experience", profileHandler.AddExperience, requireAuth)
	p.DELETE("/experience/:exp_id", profileHandler.RemoveExperience, requireAuth)
	p.PUT("/education", profileHandler.AddEducation, requireAuth)
	p.DELETE("/education/:edu_id", profileHandler.RemoveEducation, requireAuth)
	p.GET("/github/:username", profileHandler.GithubRepos)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// ipExtractor resolves the client IP used for rate limiting and logs.
// Forwarded headers are ignored unless the peer is a trusted proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, r := range trusted {
		opts = append(opts, echo.TrustIPRange(r))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
