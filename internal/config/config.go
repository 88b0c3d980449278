package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by StoreBackend.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Receipt sink and format names.
const (
	SinkLocal = "local"
	SinkS3    = "s3"

	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// Token issuer modes.
const (
	TokenPlaceholder = "placeholder"
	TokenJWT         = "jwt"
)

type Config struct {
	ProductAPIURL    string        `yaml:"product_api_url"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	CarouselInterval time.Duration `yaml:"carousel_interval"`
	ViewportWidth    float64       `yaml:"viewport_width"`

	StoreBackend string `yaml:"store_backend"`
	SQLitePath   string `yaml:"sqlite_path"`
	PostgresDSN  string `yaml:"postgres_dsn"`
	RedisAddr    string `yaml:"redis_addr"`

	TokenMode string `yaml:"token_mode"`
	JWTSecret string `yaml:"jwt_secret"`

	ReceiptSink   string `yaml:"receipt_sink"`
	ReceiptFormat string `yaml:"receipt_format"`
	ReceiptDir    string `yaml:"receipt_dir"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Region      string `yaml:"s3_region"`
	AWSAccessKey  string `yaml:"-"`
	AWSSecretKey  string `yaml:"-"`
	ChromeBin     string `yaml:"chrome_bin"`

	HTTPPort string `yaml:"http_port"`
}

// NewConfig returns the defaults with environment overrides applied.
func NewConfig() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func Default() *Config {
	return &Config{
		ProductAPIURL:    "https://fakestoreapi.com",
		FetchTimeout:     5 * time.Second,
		CarouselInterval: 5000 * time.Millisecond,
		ViewportWidth:    390,
		StoreBackend:     BackendSQLite,
		SQLitePath:       "./data/device.db",
		RedisAddr:        "localhost:6379",
		TokenMode:        TokenPlaceholder,
		ReceiptSink:      SinkLocal,
		ReceiptFormat:    FormatHTML,
		ReceiptDir:       "./data/receipts",
		S3Region:         "us-east-1",
		HTTPPort:         "8080",
	}
}

// Load reads a YAML file over the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ProductAPIURL = getEnv("STOREFRONT_PRODUCT_API_URL", c.ProductAPIURL)
	c.FetchTimeout = getDuration("STOREFRONT_FETCH_TIMEOUT", c.FetchTimeout)
	c.CarouselInterval = getDuration("STOREFRONT_CAROUSEL_INTERVAL", c.CarouselInterval)
	if v, err := strconv.ParseFloat(getEnv("STOREFRONT_VIEWPORT_WIDTH", ""), 64); err == nil {
		c.ViewportWidth = v
	}
	c.StoreBackend = getEnv("STOREFRONT_STORE_BACKEND", c.StoreBackend)
	c.SQLitePath = getEnv("STOREFRONT_SQLITE_PATH", c.SQLitePath)
	c.PostgresDSN = getEnv("DATABASE_URL", c.PostgresDSN)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.TokenMode = getEnv("STOREFRONT_TOKEN_MODE", c.TokenMode)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.ReceiptSink = getEnv("STOREFRONT_RECEIPT_SINK", c.ReceiptSink)
	c.ReceiptFormat = getEnv("STOREFRONT_RECEIPT_FORMAT", c.ReceiptFormat)
	c.ReceiptDir = getEnv("STOREFRONT_RECEIPT_DIR", c.ReceiptDir)
	c.S3Bucket = getEnv("AWS_S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("AWS_REGION", c.S3Region)
	c.AWSAccessKey = getEnv("AWS_ACCESS_KEY_ID", c.AWSAccessKey)
	c.AWSSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", c.AWSSecretKey)
	c.ChromeBin = getEnv("STOREFRONT_CHROME_BIN", c.ChromeBin)
	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres backend requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}

	switch c.TokenMode {
	case TokenPlaceholder:
	case TokenJWT:
		if c.JWTSecret == "" {
			return errors.New("jwt token mode requires JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown token mode: %q", c.TokenMode)
	}

	switch c.ReceiptSink {
	case SinkLocal:
	case SinkS3:
		if c.S3Bucket == "" {
			return errors.New("s3 receipt sink requires AWS_S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown receipt sink: %q", c.ReceiptSink)
	}

	if c.ReceiptFormat != FormatHTML && c.ReceiptFormat != FormatPDF {
		return fmt.Errorf("unknown receipt format: %q", c.ReceiptFormat)
	}
	if c.CarouselInterval <= 0 {
		return errors.New("carousel interval must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
