package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"

	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DevJWTSecret signs local tokens when no secret is configured. It is only
// accepted in demo mode.
const DevJWTSecret = "skyportal-dev-secret"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address         string   `yaml:"address"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownSeconds int      `yaml:"shutdown_seconds"`
}

type BackendConfig struct {
	Kind   string       `yaml:"kind"`
	Remote RemoteConfig `yaml:"remote"`
	Local  LocalConfig  `yaml:"local"`
}

type RemoteConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type LocalConfig struct {
	DemoMode      bool   `yaml:"demo_mode"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path"`
	KeyPrefix string `yaml:"key_prefix"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishAttempts    int      `yaml:"publish_attempts"`
}

// Enabled reports whether booking events should be published at all.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.BookingTopic != ""
}

type CacheConfig struct {
	// Driver is memory, redis or none.
	Driver            string `yaml:"driver"`
	FlightsTTLSeconds int    `yaml:"flights_ttl_seconds"`
}

func (c CacheConfig) FlightsTTL() time.Duration {
	return time.Duration(c.FlightsTTLSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

// Default is the configuration used for every value a file leaves out.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":5000",
			AllowedOrigins:  []string{"*"},
			ShutdownSeconds: 5,
		},
		Backend: BackendConfig{
			Kind: BackendLocal,
			Remote: RemoteConfig{
				BaseURL:           "http://localhost:5000/api",
				TimeoutSeconds:    10,
				RequestsPerSecond: 20,
				Burst:             5,
			},
			Local: LocalConfig{
				DemoMode:      true,
				AdminUsername: "admin",
				AdminPassword: "admin123",
			},
		},
		Storage: StorageConfig{
			Driver:    StorageFile,
			Path:      "skyportal-state.json",
			KeyPrefix: "skyportal:",
		},
		Auth: AuthConfig{
			JWTSecret:       DevJWTSecret,
			TokenTTLMinutes: 24 * 60,
			BcryptCost:      10,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "skyportal",
			SSLMode: "disable",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			BookingTopic:       "booking-events",
			NotificationsTopic: "booking-notifications",
			GroupID:            "skyportal-notifier",
			PublishAttempts:    3,
		},
		Cache: CacheConfig{Driver: CacheMemory, FlightsTTLSeconds: 30},
		Log:   LogConfig{Level: "info", Env: "development"},
	}
}

// LoadConfig reads path over Default. A missing file is not an error.
// Values from a .env file and the process environment override the file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path is the config file named by CONFIG_PATH, or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SKYPORTAL_BACKEND"); v != "" {
		c.Backend.Kind = v
	}
	if v := os.Getenv("SKYPORTAL_API_BASE"); v != "" {
		c.Backend.Remote.BaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SKYPORTAL_STATE_PATH"); v != "" {
		c.Storage.Path = v
	}
}

func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendLocal, BackendRemote:
	default:
		return fmt.Errorf("unknown backend kind %q", c.Backend.Kind)
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageRedis, StoragePostgres:
	case StorageFile:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the file driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Backend.Kind == BackendRemote && c.Backend.Remote.BaseURL == "" {
		return errors.New("backend.remote.base_url is required for the remote backend")
	}
	if c.Backend.Kind == BackendLocal && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required for the local backend")
	}
	if c.Backend.Kind == BackendLocal && !c.Backend.Local.DemoMode && c.Auth.JWTSecret == DevJWTSecret {
		return errors.New("auth.jwt_secret must be changed from the development default when demo_mode is off")
	}
	return nil
}
