package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/cache"
	eventadapter "github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/events"
	grpcadapter "github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/grpc"
	httpadapter "github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/postgres"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/application"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	consumer   *eventadapter.ConsumerWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var cleanups []func()

	// Postgres is the production store; an empty DATABASE_URL runs the
	// service on in-memory repositories for local development.
	var (
		affiliates  ports.AffiliateRepository
		referrals   ports.ReferralRepository
		commissions ports.CommissionRepository
		settings    ports.CODSettingsRepository
		idempotency ports.IdempotencyRepository
		eventDedup  ports.EventDedupRepository
		outboxRepo  ports.OutboxRepository
	)
	if cfg.DatabaseURL != "" {
		db, dbErr := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if dbErr != nil {
			return nil, dbErr
		}
		sqlDB, sqlErr := db.DB()
		if sqlErr != nil {
			return nil, sqlErr
		}
		if migErr := postgres.RunMigrations(ctx, db); migErr != nil {
			_ = sqlDB.Close()
			return nil, migErr
		}
		repos := postgres.NewRepositories(db)
		affiliates = repos.Affiliates
		referrals = repos.Referrals
		commissions = repos.Commissions
		settings = repos.Settings
		idempotency = repos.Idempotency
		eventDedup = repos.EventDedup
		outboxRepo = repos.Outbox
		cleanups = append(cleanups, func() { _ = sqlDB.Close() })
	} else {
		logger.WarnContext(ctx, "database_url empty, using in-memory repositories")
		repos := memory.NewRepositories()
		affiliates = repos.Affiliates
		referrals = repos.Referrals
		commissions = repos.Commissions
		settings = repos.Settings
		idempotency = repos.Idempotency
		eventDedup = repos.EventDedup
		outboxRepo = repos.Outbox
	}

	var cacheStore ports.Cache
	if cfg.RedisURL != "" {
		redisClient, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			logger.WarnContext(ctx, "redis unavailable, overview cache disabled", "error", redisErr)
		} else {
			cacheStore = cache.NewRedisCache(redisClient)
			cleanups = append(cleanups, func() { _ = redisClient.Close() })
		}
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		jwtSecret = hex.EncodeToString(buf)
		logger.WarnContext(ctx, "jwt secret not configured, using ephemeral secret")
	}
	verifier, err := security.NewHMACVerifier(jwtSecret)
	if err != nil {
		runCleanups(cleanups)
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceID,
			PublicBaseURL:        cfg.PublicBaseURL,
			OverviewCacheTTL:     cfg.OverviewCacheTTL,
			IdempotencyTTL:       cfg.IdempotencyTTL,
			EventDedupTTL:        cfg.EventDedupTTL,
			OutboxFlushBatchSize: cfg.OutboxFlushBatchSize,
		},
		Affiliates:  affiliates,
		Referrals:   referrals,
		Commissions: commissions,
		Settings:    settings,
		Idempotency: idempotency,
		EventDedup:  eventDedup,
		Outbox:      outboxRepo,
		Cache:       cacheStore,
	})

	handler := httpadapter.NewHandler(service, verifier, cfg.PublicBaseURL)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewAffiliatePricingInternalServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		runCleanups(cleanups)
		return nil, err
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	consumerAdapter := eventadapter.Consumer(eventadapter.NewNoopConsumer())
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, nil)
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}

		kafkaConsumer, conErr := eventadapter.NewKafkaConsumer(
			cfg.KafkaBrokers,
			cfg.KafkaConsumerGroup,
			[]string{cfg.KafkaTopicUserRegistered, cfg.KafkaTopicOrderPlaced},
		)
		if conErr != nil {
			logger.WarnContext(ctx, "kafka consumer disabled, using noop consumer", "error", conErr)
		} else {
			consumerAdapter = kafkaConsumer
			closers = append(closers, kafkaConsumer)
		}
	}
	outbox := eventadapter.NewOutboxWorker(logger, outboxRepo, publisher, cfg.ServiceID, cfg.OutboxPollInterval, cfg.OutboxFlushBatchSize)
	consumer := eventadapter.NewConsumerWorker(logger, consumerAdapter, service, cfg.ConsumerPollInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		consumer:   consumer,
		cleanupFn: func(ctx context.Context) {
			for _, closer := range closers {
				_ = closer.Close()
			}
			runCleanups(cleanups)
		},
	}, nil
}

func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func Build(ctx context.Context, configPath string) (*Runtime, error) {
	return NewRuntime(ctx, configPath)
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
