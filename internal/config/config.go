package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store modes
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	Store    string        `mapstructure:"store"`
	MongoDB  MongoDBConfig `mapstructure:"mongodb"`
	JWT      JWTConfig     `mapstructure:"jwt"`
	Push     PushConfig    `mapstructure:"push"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Points   PointsConfig  `mapstructure:"points"`
	Timezone string        `mapstructure:"timezone"` // IANA zone of the restaurants' wall clock
	LogLevel string        `mapstructure:"logLevel"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	ExpiresIn time.Duration `mapstructure:"expiresIn"`
}

// PushConfig holds push notification dispatch configuration
type PushConfig struct {
	DefaultGateway string            `mapstructure:"defaultGateway"`
	Mock           bool              `mapstructure:"mock"`
	MockFailingIDs []string          `mapstructure:"mockFailingIds"`
	BatchSize      int               `mapstructure:"batchSize"`
	RatePerSecond  float64           `mapstructure:"ratePerSecond"`
	Burst          int               `mapstructure:"burst"`
	HTTP           HTTPGatewayConfig `mapstructure:"http"`
	Kafka          KafkaConfig       `mapstructure:"kafka"`
}

// HTTPGatewayConfig holds the HTTP push gateway configuration
type HTTPGatewayConfig struct {
	BaseURL string        `mapstructure:"baseUrl"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// KafkaConfig holds the Kafka push gateway configuration
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// RedisConfig holds the directory cache configuration. An empty Addr
// selects the in-process cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DirectoryTTL time.Duration `mapstructure:"directoryTtl"`
}

// PointsConfig holds points accrual configuration
type PointsConfig struct {
	AmountPerPoint float64 `mapstructure:"amountPerPoint"`
}

// Load loads configuration from the optional config file and LOYALTY_*
// environment variables, e.g. LOYALTY_PUSH_KAFKA_BROKERS=a:9092,b:9092
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("LOYALTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", GetEnv("PORT", "8080"))
	v.SetDefault("server.allowedOrigins", GetEnvAsSlice("CORS_ORIGINS", ",", []string{"http://localhost:3000"}))
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("store", StoreMemory)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "loyalty")
	v.SetDefault("mongodb.connectTimeout", 10*time.Second)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiresIn", 24*time.Hour)
	v.SetDefault("push.defaultGateway", "MOCK")
	v.SetDefault("push.mock", true)
	v.SetDefault("push.mockFailingIds", []string{})
	v.SetDefault("push.batchSize", 100)
	v.SetDefault("push.ratePerSecond", 5.0)
	v.SetDefault("push.burst", 1)
	v.SetDefault("push.http.baseUrl", "")
	v.SetDefault("push.http.apiKey", "")
	v.SetDefault("push.http.timeout", 30*time.Second)
	v.SetDefault("push.kafka.brokers", []string{})
	v.SetDefault("push.kafka.topic", "loyalty.push")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.directoryTtl", 5*time.Minute)
	v.SetDefault("points.amountPerPoint", 10.0)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("logLevel", "info")
}

// GatewayNames lists the push gateways this configuration enables, in
// fallback order
func (c *Config) GatewayNames() []string {
	var names []string
	if c.Push.Mock {
		names = append(names, "MOCK")
	}
	if c.Push.HTTP.BaseURL != "" {
		names = append(names, "HTTP")
	}
	if len(c.Push.Kafka.Brokers) > 0 {
		names = append(names, "KAFKA")
	}
	return names
}

// Location returns the time zone campaign day, time and birthday rules are
// evaluated in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server.port %q", c.Server.Port)
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoDB.URI == "" || c.MongoDB.Database == "" {
			return fmt.Errorf("mongodb.uri and mongodb.database are required for store %q", c.Store)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q, want %q or %q", c.Store, StoreMongo, StoreMemory)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required (LOYALTY_JWT_SECRET)")
	}
	if c.Push.BatchSize < 1 {
		return fmt.Errorf("push.batchSize must be positive, got %d", c.Push.BatchSize)
	}
	if c.Push.RatePerSecond < 0 || c.Push.Burst < 1 {
		return fmt.Errorf("push.ratePerSecond must not be negative and push.burst must be positive")
	}
	gateways := c.GatewayNames()
	if len(gateways) == 0 {
		return fmt.Errorf("no push gateway configured")
	}
	c.Push.DefaultGateway = strings.ToUpper(c.Push.DefaultGateway)
	for _, name := range gateways {
		if name == c.Push.DefaultGateway {
			return nil
		}
	}
	return fmt.Errorf("push.defaultGateway %q is not among the configured gateways %v", c.Push.DefaultGateway, gateways)
}
