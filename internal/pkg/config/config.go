package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets, etc.)
// - default: Values common across all environments (timezone, timeout, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	DB        DBConfig
	NATS      NATSConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

type StoreConfig struct {
	Backend string `envconfig:"STORE_BACKEND" default:"memory"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`

	TxMaxRetries int           `envconfig:"DB_TX_MAX_RETRIES" default:"3"`
	LockTimeout  time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"5s"`
}

// NATSConfig: an empty URL disables publishing to NATS.
type NATSConfig struct {
	URL           string `envconfig:"NATS_URL"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"parking"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	Issuer string `envconfig:"JWT_ISSUER"`
}

type LifecycleConfig struct {
	AccessWindow         time.Duration `envconfig:"ACCESS_WINDOW" default:"15m"`
	ExpirySweepInterval  time.Duration `envconfig:"EXPIRY_SWEEP_INTERVAL" default:"1m"`
	SeedLevels           []string      `envconfig:"SEED_LEVELS" default:"P1,P2"`
	SeedSections         []string      `envconfig:"SEED_SECTIONS" default:"A,B"`
	SeedSpotsPerSection  int           `envconfig:"SEED_SPOTS_PER_SECTION" default:"5"`
	SeedMaintenanceSpots []string      `envconfig:"SEED_MAINTENANCE"`
}

// AccessWindowMinutes is the reservation timeToAccess in whole minutes (at least 1).
func (c LifecycleConfig) AccessWindowMinutes() int {
	m := int(c.AccessWindow / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return errors.New("DB_USER and DB_NAME are required for the postgres store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Lifecycle.ExpirySweepInterval <= 0 {
		return errors.New("EXPIRY_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",

			TxMaxRetries: 3,
			LockTimeout:  5 * time.Second,
		},
		NATS: NATSConfig{
			SubjectPrefix: "parking",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Lifecycle: LifecycleConfig{
			AccessWindow:        15 * time.Minute,
			ExpirySweepInterval: time.Minute,
			SeedLevels:          []string{"P1"},
			SeedSections:        []string{"A"},
			SeedSpotsPerSection: 4,
		},
	}
}
