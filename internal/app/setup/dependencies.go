package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/auth"
	publisher "github.com/LavaJover/shvark-commission-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/scheduler"
)

type Dependencies struct {
	Config      *config.CommissionConfig
	Logger      *slog.Logger
	DB          *gorm.DB
	Registry    *prometheus.Registry
	Metrics     *metrics.CommissionMetrics
	Publisher   *publisher.DefaultKafkaPublisher
	Notifier    domain.CommissionNotifier
	OrderEvents domain.OrderEventSource
	Authorizer  *auth.JWTAuthorizer
	Scheduler   *scheduler.TimerScheduler
	Location    *time.Location
	Tiers       []domain.Tier
	// ProvisionalRate is the parsed ledger.provisional_rate.
	ProvisionalRate decimal.Decimal
	Repositories    *Repositories
}

type Repositories struct {
	SaleRepo    domain.SaleRepository
	CouponRepo  domain.CouponRepository
	TierRunRepo domain.TierRunRepository
}

func InitializeDependencies(cfg *config.CommissionConfig, logger *slog.Logger) (*Dependencies, error) {
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, fmt.Errorf("ledger timezone: %w", err)
	}
	provisionalRate, err := decimal.NewFromString(cfg.Ledger.ProvisionalRate)
	if err != nil {
		return nil, fmt.Errorf("provisional rate: %w", err)
	}
	tiers, err := cfg.CommissionTiers()
	if err != nil {
		return nil, fmt.Errorf("tiers: %w", err)
	}

	db := postgres.MustInitDB(cfg)
	if !cfg.CommissionDB.AutoMigrate {
		if err := migrate.RunMigrations(db, cfg.CommissionDB.MigrationsPath, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	authorizer, err := auth.NewJWTAuthorizer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("authorizer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	commissionMetrics := metrics.NewCommissionMetrics(registry)

	brokers := cfg.KafkaService.Brokers()
	pub := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.CommissionTopic)
	sub := publisher.NewOrderEventSubscriber(
		brokers,
		cfg.KafkaService.OrderEventsTopic,
		cfg.KafkaService.GroupID,
		logger,
		commissionMetrics,
	)

	notifiers := notifier.Fanout{publisher.NewCommissionEventNotifier(pub)}
	if cfg.Callbacks.WebhookURL != "" {
		notifiers = append(notifiers, notifier.NewWebhookNotifier(cfg.Callbacks.WebhookURL, cfg.Callbacks.Timeout))
	}

	repos := &Repositories{
		SaleRepo:    repository.NewDefaultSaleRepository(db, provisionalRate),
		CouponRepo:  repository.NewDefaultCouponRepository(db),
		TierRunRepo: repository.NewDefaultTierRunRepository(db),
	}

	return &Dependencies{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Registry:        registry,
		Metrics:         commissionMetrics,
		Publisher:       pub,
		Notifier:        notifiers,
		OrderEvents:     sub,
		Authorizer:      authorizer,
		Scheduler:       scheduler.NewTimerScheduler(logger),
		Location:        loc,
		Tiers:           tiers,
		ProvisionalRate: provisionalRate,
		Repositories:    repos,
	}, nil
}

func (d *Dependencies) Close() {
	if err := d.Publisher.Close(); err != nil {
		d.Logger.Warn("failed to close kafka publisher", "error", err)
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
