package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			RPS   float64 `yaml:"rps" default:"5" validate:"gt=0"`
			Burst int     `yaml:"burst" default:"10" validate:"gte=1"`
		} `yaml:"rate_limit"`
		ResponseTTL time.Duration `yaml:"response_ttl" default:"30s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format     string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output     string `yaml:"output" default:"stdout" validate:"required"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxBackups int    `yaml:"max_backups" default:"7"`
		MaxAgeDays int    `yaml:"max_age_days" default:"30"`
	} `yaml:"log"`
	Source struct {
		Provider     string        `yaml:"provider" default:"cnn" validate:"oneof=cnn alternative archive"`
		ArchiveOf    string        `yaml:"archive_of" default:"cnn" validate:"oneof=cnn alternative"`
		BaseURL      string        `yaml:"base_url"`
		UserAgent    string        `yaml:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
		Timeout      time.Duration `yaml:"timeout" default:"10s"`
		Attempts     int           `yaml:"attempts" default:"3" validate:"gte=1,lte=10"`
		Backoff      time.Duration `yaml:"backoff" default:"250ms"`
		DefaultLimit int           `yaml:"default_limit" default:"30" validate:"gte=1,lte=2000"`
	} `yaml:"source"`
	Cache struct {
		Type    string        `yaml:"type" default:"memory" validate:"oneof=none memory redis layered"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		MaxSize int           `yaml:"max_size" default:"256"`
		Redis   struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"sentipull"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Collector struct {
		Enabled  bool   `yaml:"enabled" default:"true"`
		Schedule string `yaml:"schedule" default:"@every 15m" validate:"required"`
		Limit    int    `yaml:"limit" default:"30" validate:"gte=1,lte=2000"`
	} `yaml:"collector"`
	Backend struct {
		Type string `yaml:"type" default:"none" validate:"oneof=none kafka clickhouse"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"sentipull.observations"`
		SignalTopic  string   `yaml:"signal_topic" default:"sentipull.signals"`
		LogTopic     string   `yaml:"log_topic"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"sentipull-archiver"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"64"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"sentipull"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

var validate = validator.New()

// Default returns a config populated only with default values.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// An empty path starts from defaults.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FNG_PROVIDER"); v != "" {
		c.Source.Provider = v
	}
	if v := os.Getenv("FNG_BASE_URL"); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("COLLECTOR_SCHEDULE"); v != "" {
		c.Collector.Schedule = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.Collector.Schedule); err != nil {
		return fmt.Errorf("collector.schedule: %w", err)
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when backend.type is kafka")
	}
	if c.Backend.Type == "clickhouse" && !c.ClickHouse.Enabled {
		return fmt.Errorf("clickhouse.enabled must be true when backend.type is clickhouse")
	}
	if c.Source.Provider == "archive" && !c.ClickHouse.Enabled {
		return fmt.Errorf("source.provider archive requires clickhouse.enabled")
	}
	if c.Kafka.Consumer.Enabled && (len(c.Kafka.Brokers) == 0 || !c.ClickHouse.Enabled) {
		return fmt.Errorf("kafka.consumer requires kafka.brokers and clickhouse.enabled")
	}
	return nil
}
