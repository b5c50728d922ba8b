package http

import (
	"time"

	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/handlers"
	"github.com/geocoder89/todohub/internal/http/middlewares"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs from the composition root.
type Deps struct {
	Env string

	Auth     handlers.Authenticator
	Profiles handlers.ProfileService
	Todos    handlers.TodoService
	Tokens   middlewares.TokenVerifier

	JWTExpiresIn time.Duration

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	ReadinessDeps  map[string]handlers.Pinger
	IsShuttingDown func() bool

	CORSAllowedOrigins     []string
	AuthRateLimitPerMinute int
	UserRateLimitPerMinute int
	MaxBodyBytes           int64
	TracingEnabled         bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	if d.TracingEnabled {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSAllowedOrigins))
	if d.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.MaxBodyBytes))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.NewAuthMiddleware(d.Tokens, d.Prom).Authenticate())

	// health checks
	health := handlers.NewHealthHandler(d.ReadinessDeps, d.IsShuttingDown)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authHandler := handlers.NewAuthHandler(d.Auth, d.JWTExpiresIn)
	usersHandler := handlers.NewUsersHandler(d.Profiles)
	todosHandler := handlers.NewTodosHandler(d.Todos, d.Profiles)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	if d.AuthRateLimitPerMinute > 0 {
		authGroup.Use(middlewares.NewRateLimiter(d.AuthRateLimitPerMinute, time.Minute).Middleware(middlewares.KeyByIP))
	}
	authGroup.POST("/register", middlewares.RequireJSON(), authHandler.Register)
	authGroup.POST("/login", middlewares.RequireJSON(), authHandler.Login)
	authGroup.GET("/activate/:token", authHandler.Activate)

	userGroup := api.Group("/user")
	userGroup.Use(middlewares.RequireAuthenticated(), middlewares.RequireAnyRole(user.RoleUser, user.RoleAdmin))
	if d.UserRateLimitPerMinute > 0 {
		userGroup.Use(middlewares.NewRateLimiter(d.UserRateLimitPerMinute, time.Minute).Middleware(middlewares.KeyByPrincipalOrIP))
	}
	{
		userGroup.GET("/me", usersHandler.Me)
		userGroup.PATCH("/me", middlewares.RequireJSON(), usersHandler.UpdateMe)

		userGroup.GET("/todos", todosHandler.List)
		userGroup.POST("/todos", middlewares.RequireJSON(), todosHandler.Create)
		userGroup.GET("/todos/:id", todosHandler.Get)
		userGroup.PATCH("/todos/:id", middlewares.RequireJSON(), todosHandler.Update)
		userGroup.DELETE("/todos/:id", todosHandler.Delete)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middlewares.RequireAuthenticated(), middlewares.RequireAnyRole(user.RoleAdmin))
	{
		adminGroup.GET("/users", usersHandler.List)
	}

	return r
}
