package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/internal/cache"
	"github.com/notethatdown/notethatdown-api/internal/database/postgres"
	"github.com/notethatdown/notethatdown-api/internal/handlers"
	"github.com/notethatdown/notethatdown-api/internal/middleware"
	"github.com/notethatdown/notethatdown-api/internal/repository"
	"github.com/notethatdown/notethatdown-api/internal/services"
	"github.com/notethatdown/notethatdown-api/pkg/db"
	"github.com/notethatdown/notethatdown-api/pkg/httpclient"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/profiling"
	"github.com/notethatdown/notethatdown-api/pkg/retry"
	"github.com/notethatdown/notethatdown-api/pkg/supabase"
	"github.com/notethatdown/notethatdown-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type routeHandlers struct {
	health       *handlers.HealthHandler
	pages        *handlers.PageHandler
	auth         *handlers.AuthHandler
	magicLinks   *handlers.MagicLinkHandler
	onboarding   *handlers.OnboardingHandler
	forms        *handlers.FormHandler
	subscription *handlers.SubscriptionHandler
}

type rateLimiters struct {
	general *middleware.RateLimiter
	auth    *middleware.RateLimiter
	forms   *middleware.RateLimiter
}

// registerAPIRoutes registers the operational and waitlist endpoints; no gate applies here
func registerAPIRoutes(router *gin.Engine, h routeHandlers, limiters rateLimiters) {
	api := router.Group("/api")
	api.GET("/healthcheck", limiters.general.Middleware(), h.health.Healthcheck)
	api.GET("/metrics", limiters.general.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := api.Group("/v1")
	v1.POST("/subscribe", limiters.forms.Middleware(), middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.subscription.Subscribe)
}

// registerPageRoutes registers everything behind the launch and request gates
func registerPageRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h routeHandlers,
	limiters rateLimiters,
	resolver middleware.CallerResolver,
	cookies *middleware.SessionCookies,
) {
	launchGate := middleware.LaunchGate(cfg.Launch)
	requestGate := middleware.RequestGate(resolver, cookies)

	pages := router.Group("/")
	pages.Use(launchGate, requestGate)

	pages.GET("/", h.pages.Landing)
	pages.GET("/login", h.pages.Login)
	pages.GET("/coming-soon", h.pages.ComingSoon)
	pages.GET("/magic-link/:token", limiters.auth.Middleware(), h.magicLinks.Redeem)

	auth := pages.Group("/auth")
	auth.Use(limiters.auth.Middleware())
	auth.POST("/login", middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.auth.Login)
	auth.POST("/signup", middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.auth.Signup)
	auth.GET("/logout", h.auth.Logout)

	protected := pages.Group("/protected")
	protected.GET("", h.pages.Dashboard)
	protected.GET("/profile", h.pages.Profile)
	protected.GET("/onboarding", h.pages.Onboarding)
	protected.GET("/questions", h.pages.Questions)
	protected.GET("/suggestions", h.pages.Suggestions)

	submit := protected.Group("")
	submit.Use(middleware.RequireSubject())
	submit.POST("/magic-link", limiters.auth.Middleware(), h.auth.RequestMagicLink)
	submit.POST("/onboarding/form", limiters.forms.Middleware(), middleware.BodySizeLimit(middleware.OnboardingBodyLimit), h.onboarding.Submit)
	submit.POST("/questions", limiters.forms.Middleware(), middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.forms.SubmitFeedback)
	submit.POST("/standup", limiters.forms.Middleware(), middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.forms.SubmitStandup)
	submit.POST("/suggestions", limiters.forms.Middleware(), middleware.BodySizeLimit(middleware.DefaultBodyLimit), h.forms.SubmitSuggestion)

	// Group middleware only runs on matched routes; unknown page paths still pass the gates
	router.NoRoute(apiNotFound, launchGate, requestGate, notFound)
}

// apiNotFound answers unknown /api paths before the page gates see them
func apiNotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Next()
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	return retry.DoWithResult(ctx, retry.DatabaseStartupConfig(), "db_connect", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.URL,
			MaxConns:   cfg.MaxConns,
			MinConns:   cfg.MinConns,
			CACertPath: cfg.CACertPath,
		})
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Note That Down API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.Bool("coming_soon", cfg.ComingSoon()),
	)

	tracerShutdown, err := tracing.Init(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiling, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiling()

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	pool, err := connectDatabase(appCtx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer db.Close(pool)

	// Migrations run separately: ./migrate -direction up
	store := postgres.NewClient(pool)

	var profileCache *cache.ProfileCache
	if !cfg.Cache.DisableProfileCache {
		profileCache = cache.NewProfileCache(cfg.Cache.ProfileTTLSeconds)
	}
	profileRepo := repository.NewProfileRepository(store, profileCache)

	identityHTTP := httpclient.NewStandardClient(time.Duration(cfg.Supabase.TimeoutSeconds) * time.Second)
	identity := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, identityHTTP)
	triggerHTTP := httpclient.NewStandardClient(httpclient.DefaultTimeout)

	authService := services.NewAuthService(identity, profileRepo, cfg)
	magicLinkService := services.NewMagicLinkService(store, identity, cfg)
	onboardingService := services.NewOnboardingService(profileRepo)
	subscriptionService := services.NewSubscriptionService(store, cfg, triggerHTTP)
	formService := services.NewFormService(store, cfg, triggerHTTP)

	if cfg.MagicLink.ConsumeOnUse {
		logger.Info("Magic links are consumed on first use")
	} else {
		logger.Warn("Magic links stay valid until they expire; set MAGIC_LINK_CONSUME_ON_USE=true to consume them on use")
	}

	cookies := middleware.NewSessionCookies(cfg.Session)
	h := routeHandlers{
		health:       handlers.NewHealthHandler(store.Ping),
		pages:        handlers.NewPageHandler(authService, cfg.Launch.DevHosts),
		auth:         handlers.NewAuthHandler(authService, cookies, cfg.Server.BaseURL),
		magicLinks:   handlers.NewMagicLinkHandler(magicLinkService, cookies),
		onboarding:   handlers.NewOnboardingHandler(onboardingService),
		forms:        handlers.NewFormHandler(formService),
		subscription: handlers.NewSubscriptionHandler(subscriptionService),
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.Observability())
	router.Use(middleware.SecurityHeaders(cfg.Session.CookieSecure))

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true, // session cookies
		MaxAge:           12 * time.Hour,
	}))

	limiters := rateLimiters{
		general: middleware.NewRateLimiter(appCtx, 100, 200), // 100 req/sec, burst of 200
		auth:    middleware.NewRateLimiter(appCtx, 0.2, 5),   // 1 req/5s, burst of 5
		forms:   middleware.NewRateLimiter(appCtx, 2, 10),    // 2 req/sec, burst of 10
	}

	registerAPIRoutes(router, h, limiters)
	registerPageRoutes(router, cfg, h, limiters, authService, cookies)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
