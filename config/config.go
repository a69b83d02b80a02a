package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"gopkg.in/yaml.v3"
)

const DefaultBookingURLTemplate = "https://www.google.com/travel/flights?q=flights+from+{origin}+to+{destination}+on+{depart}+returning+{return}"

type Config struct {
	HTTP     HTTPConfig       `yaml:"http"`
	GRPC     GRPCConfig       `yaml:"grpc"`
	Database DatabaseConfig   `yaml:"database"`
	Redis    RedisConfig      `yaml:"redis"`
	Kafka    KafkaConfig      `yaml:"kafka"`
	Search   SearchConfig     `yaml:"search"`
	Source   SourceConfig     `yaml:"source"`
	Airports []domain.Airport `yaml:"airports"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
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
	Brokers           []string `yaml:"brokers"`
	SearchEventsTopic string   `yaml:"search_events_topic"`
	GroupID           string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.SearchEventsTopic != ""
}

type SearchConfig struct {
	DisplayCap         int    `yaml:"display_cap"`
	PacingMillis       int    `yaml:"pacing_ms"`
	MaxAttempts        int    `yaml:"max_attempts"`
	RetryBaseMillis    int    `yaml:"retry_base_ms"`
	ResultTTLSeconds   int    `yaml:"result_ttl_seconds"`
	Store              string `yaml:"store"`
	SQLitePath         string `yaml:"sqlite_path"`
	BookingURLTemplate string `yaml:"booking_url_template"`
}

func (s SearchConfig) Pacing() time.Duration {
	return time.Duration(s.PacingMillis) * time.Millisecond
}

func (s SearchConfig) RetryBase() time.Duration {
	return time.Duration(s.RetryBaseMillis) * time.Millisecond
}

func (s SearchConfig) ResultTTL() time.Duration {
	return time.Duration(s.ResultTTLSeconds) * time.Second
}

type SourceConfig struct {
	Kind           string `yaml:"kind"`
	Path           string `yaml:"path"`
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"

	SourceFile = "file"
	SourceHTTP = "http"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Search.DisplayCap == 0 {
		c.Search.DisplayCap = 50
	}
	if c.Search.PacingMillis == 0 {
		c.Search.PacingMillis = 1000
	}
	if c.Search.MaxAttempts == 0 {
		c.Search.MaxAttempts = 4
	}
	if c.Search.RetryBaseMillis == 0 {
		c.Search.RetryBaseMillis = 1000
	}
	if c.Search.Store == "" {
		c.Search.Store = StoreMemory
	}
	if c.Search.BookingURLTemplate == "" {
		c.Search.BookingURLTemplate = DefaultBookingURLTemplate
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceFile
	}
	if c.Source.TimeoutSeconds == 0 {
		c.Source.TimeoutSeconds = 30
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "roundtrip-worker"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Search.DisplayCap < 0 {
		errs = append(errs, errors.New("search.display_cap must not be negative"))
	}
	if c.Search.PacingMillis < 0 {
		errs = append(errs, errors.New("search.pacing_ms must not be negative"))
	}
	if c.Search.MaxAttempts < 1 {
		errs = append(errs, errors.New("search.max_attempts must be at least 1"))
	}
	if c.Search.RetryBaseMillis < 0 {
		errs = append(errs, errors.New("search.retry_base_ms must not be negative"))
	}
	if c.Search.ResultTTLSeconds < 0 {
		errs = append(errs, errors.New("search.result_ttl_seconds must not be negative"))
	}
	switch c.Search.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis store"))
		}
	case StoreSQLite:
		if c.Search.SQLitePath == "" {
			errs = append(errs, errors.New("search.sqlite_path is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("search.store %q is not one of memory, redis, sqlite", c.Search.Store))
	}
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			errs = append(errs, errors.New("source.path is required for the file source"))
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			errs = append(errs, errors.New("source.url is required for the http source"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not one of file, http", c.Source.Kind))
	}
	for i, a := range c.Airports {
		if a.Code == "" || a.Timezone == "" {
			errs = append(errs, fmt.Errorf("airports[%d] needs code and timezone", i))
		}
	}
	return errors.Join(errs...)
}
