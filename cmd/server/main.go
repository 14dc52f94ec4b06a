package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/application/appstate"
	ideationapp "github.com/ideation/backend/internal/application/ideation"
	identityapp "github.com/ideation/backend/internal/application/identity"
	"github.com/ideation/backend/internal/application/media"
	notificationapp "github.com/ideation/backend/internal/application/notification"
	playerapp "github.com/ideation/backend/internal/application/player"
	rankingapp "github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/identity"
	"github.com/ideation/backend/internal/infrastructure/auth"
	"github.com/ideation/backend/internal/infrastructure/cache"
	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/ideation/backend/internal/infrastructure/event"
	"github.com/ideation/backend/internal/infrastructure/logger"
	"github.com/ideation/backend/internal/infrastructure/mail"
	"github.com/ideation/backend/internal/infrastructure/migration"
	"github.com/ideation/backend/internal/infrastructure/persistence"
	"github.com/ideation/backend/internal/infrastructure/persistence/changefeed"
	"github.com/ideation/backend/internal/infrastructure/scheduler"
	"github.com/ideation/backend/internal/infrastructure/storage"
	"github.com/ideation/backend/internal/infrastructure/telemetry"
	"github.com/ideation/backend/internal/interfaces/http/handler"
	"github.com/ideation/backend/internal/interfaces/http/middleware"
	"github.com/ideation/backend/internal/interfaces/http/router"
	"github.com/ideation/backend/migrations"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

//	@title			Ideation API
//	@version		1.0
//	@description	Backend of the ideation game: ideas, comments, evaluations, votes, the player ranking and notification digests.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting ideation backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry. Every provider is a no-op when telemetry is disabled.
	telemetryCfg := telemetry.ConfigFrom(cfg.Telemetry)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = loggerProvider.Bridge(log, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Profiling, cfg.Telemetry.ServiceName), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.OpenDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	dbInstrumentation, err := telemetry.InstrumentDB(db.DB, telemetry.DBConfigFrom(cfg.Telemetry), meter, log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	defer func() { _ = dbInstrumentation.Close() }()

	// Caches. Without Redis the ranking cache and revocation list live in memory.
	cacheFactory, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}
	defer func() { _ = cacheFactory.Close() }()

	var revocations auth.RevocationList = auth.NewMemoryRevocationList()
	if client := cacheFactory.Client(); client != nil {
		revocations = auth.NewRedisRevocationList(client)
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	tokenRepo := persistence.NewGormTokenRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	playerRepo := persistence.NewGormPlayerRepository(db.DB)
	ideaRepo := persistence.NewGormIdeaRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	evaluationRepo := persistence.NewGormEvaluationRepository(db.DB)
	voteRepo := persistence.NewGormVoteRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Event bus
	ideationMetrics, err := telemetry.NewIdeationMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create ideation metrics", zap.Error(err))
	}
	eventBus := event.NewInMemoryEventBus(log, event.WithObserver(ideationMetrics))

	// Outbound mail. Without an SMTP host messages are written to the log.
	var mailer notificationapp.Mailer = mail.NewLogMailer(log)
	if cfg.Mail.Host != "" {
		smtpMailer, err := mail.NewSMTPMailer(cfg.Mail, log)
		if err != nil {
			log.Fatal("Failed to configure SMTP mailer", zap.Error(err))
		}
		mailer = smtpMailer
	}

	// Object storage
	var objects media.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket check failed", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		objects = s3Storage
	} else {
		log.Warn("Object storage disabled, upload URLs are simulated")
		objects = storage.NewStubObjectStorage()
	}
	mediaService := media.NewService(objects, cfg.Storage.PresignExpiration)

	// Application services
	var allowList *identity.AllowList
	if cfg.Auth.AllowListPath != "" {
		allowList, err = auth.LoadAllowList(cfg.Auth.AllowListPath)
		if err != nil {
			log.Fatal("Failed to load sign-up allow list", zap.Error(err))
		}
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(identityapp.AuthServiceDeps{
		Accounts:    accountRepo,
		Tokens:      tokenRepo,
		Audit:       auditRepo,
		Players:     playerRepo,
		JWT:         jwtService,
		Revocations: revocations,
		AllowList:   allowList,
		Mailer:      mail.NewAccountMailer(cfg.App.Name, mailer),
		Publisher:   eventBus,
	}, identityapp.AuthServiceConfig{
		BaseURL:         cfg.App.BaseURL,
		VerificationTTL: cfg.Auth.VerificationTTL,
		ResetTTL:        cfg.Auth.ResetTTL,
	}, log)

	ideaService := ideationapp.NewIdeaService(ideaRepo, playerRepo, eventBus, log)
	commentService := ideationapp.NewCommentService(ideaRepo, commentRepo, eventBus, log)
	evaluationService := ideationapp.NewEvaluationService(ideaRepo, evaluationRepo, eventBus, log)
	voteService := ideationapp.NewVoteService(voteRepo)
	playerService := playerapp.NewService(playerRepo, mediaService, eventBus, log)
	notificationService := notificationapp.NewService(notificationRepo)
	rankingService := rankingapp.NewService(playerRepo, ideaRepo, commentRepo, evaluationRepo,
		cacheFactory.RankingCache(cfg.Ranking.CacheTTL), log)
	broadcaster := rankingapp.NewBroadcaster()

	// Event handlers
	invalidation := rankingapp.NewInvalidationHandler(rankingService, broadcaster, log)
	eventBus.Subscribe(invalidation)
	fanout := notificationapp.NewMentionFanoutHandler(ideaRepo, playerRepo, notificationRepo, log).
		WithMetrics(ideationMetrics)
	eventBus.Subscribe(fanout)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Changes written by other instances reach this one through the feed
	if cfg.ChangeFeed.Enabled {
		listener, err := changefeed.NewListener(cfg.Database.DSN(), cfg.ChangeFeed.Channel,
			func(ctx context.Context, change changefeed.Change) error {
				return invalidation.OnTableChange(ctx, change.Table)
			},
			changefeed.WithLogger(log),
		)
		if err != nil {
			log.Fatal("Failed to create change feed listener", zap.Error(err))
		}
		go func() { _ = listener.Run(ctx) }()
	}

	// Recap digest
	recapJob := notificationapp.NewRecapDigestJob(notificationapp.RecapJobConfig{
		BaseURL: cfg.App.BaseURL,
		Window:  cfg.Recap.Window,
	}, notificationRepo, playerRepo, mailer, mail.NewDigestRenderer(cfg.App.Name, time.Local), log).
		WithMetrics(ideationMetrics)

	// Scheduler. The admin endpoint can run the recap inline without it.
	var jobSubmitter handler.JobSubmitter
	if cfg.Scheduler.Enabled {
		sched, err := scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		sched.Register(scheduler.JobKindRecapDigest, scheduler.NewRecapExecutor(recapJob))
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			if err := sched.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		jobSubmitter = sched

		if cfg.Recap.Enabled {
			trigger, err := scheduler.NewDailyTrigger(scheduler.DailyTriggerConfigFrom(cfg.Recap),
				scheduler.JobKindRecapDigest, sched, log)
			if err != nil {
				log.Fatal("Failed to create recap trigger", zap.Error(err))
			}
			if err := trigger.Start(ctx); err != nil {
				log.Fatal("Failed to start recap trigger", zap.Error(err))
			}
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				_ = trigger.Stop(stopCtx)
			}()
		}
	}

	sessions := appstate.NewSessionRegistry(nil)

	// HTTP
	middleware.SetupValidator()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log, "/health", "/api/v1/system/health", "/api/v1/ranking/stream"),
		logger.Recovery(log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
			Filter: func(r *http.Request) bool {
				return !strings.HasSuffix(r.URL.Path, "/health")
			},
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		httpMetrics,
	)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	systemHandler := handler.NewSystemHandler(db, version)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware, middleware.TracingAttributeInjector(), middleware.Profiling(profiler.IsEnabled()))
	if cfg.HTTP.RateLimitEnabled {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	guards := router.Guards{
		Verified: middleware.RequireVerified(),
		Admin:    middleware.RequireAdmin(),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		guards.AuthLimit = middleware.RateLimit(
			middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
	}

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, cfg.Cookie, sessions),
		Ideas:         handler.NewIdeaHandler(ideaService, commentService, evaluationService, mediaService),
		Votes:         handler.NewVoteHandler(voteService),
		Players:       handler.NewPlayerHandler(playerService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Ranking:       handler.NewRankingHandler(rankingService, broadcaster, handler.WithRankingLogger(log)),
		Session:       handler.NewSessionHandler(sessions, authService),
		Admin:         handler.NewAdminHandler(recapJob, jobSubmitter),
		System:        systemHandler,
	}
	for _, group := range router.APIGroups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
		BaseContext:    func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Cancelling the base context ends open ranking streams so Shutdown
	// does not wait on them.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited")
}

// applyMigrations brings the schema up to date from the embedded set. The
// migrator is not closed because closing it would close the shared pool.
func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.SQL()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
