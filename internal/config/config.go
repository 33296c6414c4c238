package config

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSqlite   = "sqlite"
	StorageDriverMemory   = "memory"
)

// MinIntentStaleAfter нижняя граница возраста намерения покупки, после которого оно возвращается
// сверкой. Должна превышать самую долгую покупку вместе с компенсацией списания.
const MinIntentStaleAfter = time.Minute

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	StorageDriver string `env:"STORAGE_DRIVER"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	SqlitePath    string `env:"SQLITE_PATH" envDefault:"smsbroker.db"`

	JWTSecret string `env:"JWT_SECRET"`

	ProviderAPIKey       string   `env:"PROVIDER_API_KEY"`
	ProviderBaseURL      string   `env:"PROVIDER_BASE_URL" envDefault:"https://smsbower.app/web/stubs/handler_api.php"`
	ProviderFallbackURLs []string `env:"PROVIDER_FALLBACK_BASE_URLS" envSeparator:","`
	ProviderRPS          float64  `env:"PROVIDER_RPS" envDefault:"10"`

	PollInterval     time.Duration `env:"POLL_INTERVAL" envDefault:"4s"`
	CancelLock       time.Duration `env:"CANCEL_LOCK" envDefault:"180s"`
	MaxMonitor       time.Duration `env:"MAX_MONITOR" envDefault:"1500s"`
	IntentStaleAfter time.Duration `env:"INTENT_STALE_AFTER" envDefault:"5m"`

	AdminUserID int64  `env:"ADMIN_USER_ID"`
	RedisAddr   string `env:"REDIS_ADDR"`
}

// LoadConfig собирает конфигурацию: переменные окружения (в том числе из необязательного .env)
// приоритетнее флагов командной строки.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) Validate() error {
	drivers := []string{StorageDriverPostgres, StorageDriverSqlite, StorageDriverMemory}
	if !slices.Contains(drivers, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver == StorageDriverPostgres && c.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is not set")
	}
	if c.ProviderAPIKey == "" {
		return errors.New("provider api key is not set")
	}
	if c.PollInterval <= 0 || c.CancelLock < 0 || c.MaxMonitor <= c.CancelLock {
		return fmt.Errorf("invalid monitor timings: poll %s, cancel lock %s, max %s",
			c.PollInterval, c.CancelLock, c.MaxMonitor)
	}
	if c.ProviderRPS <= 0 {
		return fmt.Errorf("invalid provider rps %v", c.ProviderRPS)
	}
	if c.IntentStaleAfter < MinIntentStaleAfter {
		return fmt.Errorf("intent stale after %s is less than %s", c.IntentStaleAfter, MinIntentStaleAfter)
	}
	return nil
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.StorageDriver, "s", StorageDriverPostgres, "Storage driver: postgres, sqlite or memory")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	conf.StorageDriver = defaultIfBlank(envConfig.StorageDriver, flagsConfig.StorageDriver)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	return &conf
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
