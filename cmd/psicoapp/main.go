package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nicolas1xx/psicoapp/internal/auth"
	"github.com/nicolas1xx/psicoapp/internal/avatar"
	"github.com/nicolas1xx/psicoapp/internal/booking"
	"github.com/nicolas1xx/psicoapp/internal/config"
	"github.com/nicolas1xx/psicoapp/internal/db"
	"github.com/nicolas1xx/psicoapp/internal/httpx"
	"github.com/nicolas1xx/psicoapp/internal/identity"
	"github.com/nicolas1xx/psicoapp/internal/kafkax"
	"github.com/nicolas1xx/psicoapp/internal/otelx"
	"github.com/nicolas1xx/psicoapp/internal/outbox"
	"github.com/nicolas1xx/psicoapp/internal/provision"
	"github.com/nicolas1xx/psicoapp/internal/runtime"
	"github.com/nicolas1xx/psicoapp/internal/storage"
	"github.com/nicolas1xx/psicoapp/internal/web"
)

func main() {
	service := config.String("SERVICE_NAME", "psicoapp")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// The pool is optional: without a database the site still serves the
	// default professional dataset read-only.
	var pool *db.Pool
	if dbURL := config.String("DATABASE_URL", ""); dbURL != "" {
		pool, err = db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed; serving default dataset only", "err", err)
			pool = nil
		} else {
			defer pool.Close()
		}
	} else {
		logger.Warn("DATABASE_URL not set; serving default dataset only")
	}

	var rdb *redis.Client
	pendingTTL := config.Duration("PENDING_BOOKING_TTL", booking.DefaultTTL)
	var pending booking.Store = booking.NewMemoryStore(pendingTTL)
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		pending = booking.NewRedisStore(rdb, pendingTTL)
	} else {
		logger.Warn("REDIS_ADDR not set; pending bookings held in memory")
	}

	uploadDir := config.String("UPLOAD_DIR", "static/img/avatares")
	photos, err := avatar.NewStore(uploadDir)
	if err != nil {
		logger.Error("upload dir unavailable", "dir", uploadDir, "err", err)
		panic(err)
	}

	outboxRepo := outbox.NewRepository(pool)
	professionals := storage.NewProfessionalRepository(pool, storage.DefaultProfessionals(), logger)
	appointments := storage.NewAppointmentRepository(pool, outboxRepo)
	accounts := identity.NewService(pool)
	provisioner := provision.NewService(accounts, professionals, photos, logger)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	if pool != nil {
		publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   kafkaBrokers,
			PollEvery: 2 * time.Second,
			BatchSize: 50,
		})
		go publisher.Run(ctx)
	}

	sessionSecret, err := config.RequiredString("SESSION_SECRET")
	if err != nil {
		panic(err)
	}
	sessions := auth.NewSessions(sessionSecret)
	admin := web.AdminCredentials{
		Email:    config.String("ADMIN_EMAIL", "psicoadm@gmail.com"),
		Password: config.String("ADMIN_PASSWORD", "33529710"),
	}

	server, err := web.NewServer(logger, sessions, professionals, appointments, accounts, provisioner, pending, avatar.NewResolver("/static/img/avatares"), admin)
	if err != nil {
		logger.Error("server init failed", "err", err)
		panic(err)
	}

	var bookingLimit web.Middleware
	if rdb != nil {
		limiter := httpx.NewRedisRateLimiter(rdb, config.Int("BOOKING_RATE_LIMIT", 30), time.Minute, service)
		bookingLimit = limiter.Middleware(logger, true)
	} else {
		bookingLimit = httpx.NewRateLimiter(config.Int("BOOKING_RATE_LIMIT", 30), time.Minute).Middleware()
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	if rdb != nil {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: booking.ReadyCheck(rdb)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(config.String("STATIC_DIR", "static")))))
	server.Register(mux, bookingLimit)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(10<<20),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
