package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type CommissionConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	CommissionDB `yaml:"commission_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Auth         `yaml:"auth"`
	Ledger       `yaml:"ledger"`
	Callbacks    `yaml:"callbacks"`
	Tiers        []TierConfig `yaml:"tiers"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type CommissionDB struct {
	Dsn            string `yaml:"dsn" env:"COMMISSION_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"COMMISSION_MIGRATIONS_PATH" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env-default:"false"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host             string        `yaml:"host" env:"KAFKA_HOST" env-default:"localhost"`
	Port             string        `yaml:"port" env:"KAFKA_PORT" env-default:"9092"`
	OrderEventsTopic string        `yaml:"order_events_topic" env-default:"order-status-events"`
	CommissionTopic  string        `yaml:"commission_events_topic" env-default:"commission-events"`
	GroupID          string        `yaml:"group_id" env-default:"commission-service"`
	RestartDelay     time.Duration `yaml:"restart_delay" env-default:"5s"`
}

func (k KafkaService) Brokers() []string {
	return []string{fmt.Sprintf("%s:%s", k.Host, k.Port)}
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"COMMISSION_JWT_SECRET" env-required:"true"`
	Issuer    string `yaml:"issuer" env-default:""`
}

type Ledger struct {
	// Timezone of the accounting calendar; month boundaries are computed in it.
	Timezone        string        `yaml:"timezone" env:"LEDGER_TIMEZONE" env-default:"UTC"`
	ProvisionalRate string        `yaml:"provisional_rate" env-default:"10"`
	TierRetryDelay  time.Duration `yaml:"tier_retry_delay" env-default:"15m"`
}

// Callbacks configures the optional operator webhook for commission events.
type Callbacks struct {
	WebhookURL string        `yaml:"webhook_url" env:"COMMISSION_WEBHOOK_URL" env-default:""`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
}

type TierConfig struct {
	Threshold string `yaml:"threshold"`
	Rate      string `yaml:"rate"`
}

func (l Ledger) Location() (*time.Location, error) {
	return time.LoadLocation(l.Timezone)
}

// DefaultTiers: >= 10000 -> 25%, >= 5000 -> 20%, otherwise 10%.
func DefaultTiers() []domain.Tier {
	return []domain.Tier{
		{Threshold: decimal.NewFromInt(10000), Rate: decimal.NewFromInt(25)},
		{Threshold: decimal.NewFromInt(5000), Rate: decimal.NewFromInt(20)},
		{Threshold: decimal.Zero, Rate: decimal.NewFromInt(10)},
	}
}

// CommissionTiers parses the configured tiers, falling back to DefaultTiers.
func (c *CommissionConfig) CommissionTiers() ([]domain.Tier, error) {
	if len(c.Tiers) == 0 {
		return DefaultTiers(), nil
	}
	tiers := make([]domain.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		threshold, err := decimal.NewFromString(t.Threshold)
		if err != nil {
			return nil, fmt.Errorf("tier threshold %q: %w", t.Threshold, err)
		}
		rate, err := decimal.NewFromString(t.Rate)
		if err != nil {
			return nil, fmt.Errorf("tier rate %q: %w", t.Rate, err)
		}
		tiers = append(tiers, domain.Tier{Threshold: threshold, Rate: rate})
	}
	return tiers, nil
}

func Load(configPath string) (*CommissionConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CommissionConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if _, err := cfg.Ledger.Location(); err != nil {
		return nil, fmt.Errorf("ledger timezone: %w", err)
	}
	if _, err := decimal.NewFromString(cfg.Ledger.ProvisionalRate); err != nil {
		return nil, fmt.Errorf("ledger provisional_rate: %w", err)
	}
	if _, err := cfg.CommissionTiers(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *CommissionConfig {
	// Processing env config variable and file
	configPath := os.Getenv("COMMISSION_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("COMMISSION_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	return cfg
}
