package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Foodie     FoodieConfig     `yaml:"foodie"`
	Assistant  AssistantConfig  `yaml:"assistant"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Model      ModelConfig      `yaml:"model"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type FoodieConfig struct {
	Addr            string   `yaml:"addr"`
	PublicURL       string   `yaml:"public_url"`
	PackagingFee    float64  `yaml:"packaging_fee"`
	DrinkCategories []string `yaml:"drink_categories"`
}

type AssistantConfig struct {
	Addr         string        `yaml:"addr"`
	BackendURL   string        `yaml:"backend_url"`
	HistoryTurns int           `yaml:"history_turns"`
	ModelTimeout time.Duration `yaml:"model_timeout"`
	ToolTimeout  time.Duration `yaml:"tool_timeout"`
	QuoteTTL     time.Duration `yaml:"quote_ttl"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
}

type GatewayConfig struct {
	Addr            string   `yaml:"addr"`
	FoodieSvcURL    string   `yaml:"foodie_svc_url"`
	AssistantSvcURL string   `yaml:"assistant_svc_url"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

type AggregatorConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
}

type ModelConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Name           string  `yaml:"name"`
	Temperature    float32 `yaml:"temperature"`
	TopP           float32 `yaml:"top_p"`
	MaxTokens      int     `yaml:"max_tokens"`
	FinalMaxTokens int     `yaml:"final_max_tokens"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MonitoringConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// Load reads the YAML file at path, expanding ${VAR} references from the
// environment (and from .env when present), then fills unset fields with
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Path returns CONFIG_PATH or the default config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func (c *Config) applyDefaults() {
	setString(&c.App.Name, "foodie")
	setString(&c.App.Environment, "development")

	setString(&c.Foodie.Addr, ":8081")
	setString(&c.Foodie.PublicURL, "http://localhost:8080/api")
	if c.Foodie.PackagingFee == 0 {
		c.Foodie.PackagingFee = 200
	}
	if len(c.Foodie.DrinkCategories) == 0 {
		c.Foodie.DrinkCategories = []string{"drinks"}
	}

	setString(&c.Assistant.Addr, ":8082")
	setString(&c.Assistant.BackendURL, "http://localhost:8081")
	if c.Assistant.HistoryTurns == 0 {
		c.Assistant.HistoryTurns = 3
	}
	setDuration(&c.Assistant.ModelTimeout, 30*time.Second)
	setDuration(&c.Assistant.ToolTimeout, 10*time.Second)
	setDuration(&c.Assistant.QuoteTTL, 15*time.Minute)
	setDuration(&c.Assistant.SessionTTL, 24*time.Hour)

	setString(&c.Gateway.Addr, ":8080")
	setString(&c.Gateway.FoodieSvcURL, "http://localhost:8081")
	setString(&c.Gateway.AssistantSvcURL, "http://localhost:8082")
	if len(c.Gateway.AllowedOrigins) == 0 {
		c.Gateway.AllowedOrigins = []string{"*"}
	}

	setString(&c.Aggregator.MetricsAddr, ":9091")

	setString(&c.Model.BaseURL, "https://generativelanguage.googleapis.com/v1beta/openai/")
	setString(&c.Model.Name, "gemini-2.0-flash")
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.7
	}
	if c.Model.TopP == 0 {
		c.Model.TopP = 1
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 512
	}
	if c.Model.FinalMaxTokens == 0 {
		c.Model.FinalMaxTokens = 2500
	}

	setString(&c.Postgres.Host, "localhost")
	setString(&c.Postgres.Port, "5432")
	setString(&c.Postgres.User, "foodie")
	setString(&c.Postgres.DBName, "foodie")
	setString(&c.Postgres.SSLMode, "disable")
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 25
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 5
	}
	setDuration(&c.Postgres.ConnMaxLifetime, time.Hour)

	setString(&c.Redis.Address, "localhost:6379")

	if len(c.Kafka.Brokers) == 0 || (len(c.Kafka.Brokers) == 1 && c.Kafka.Brokers[0] == "") {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	setString(&c.Kafka.Topic, "foodie.events")
	setString(&c.Kafka.GroupID, "agg-svc-consumer")

	setString(&c.Logging.Level, "info")
	setString(&c.Logging.Format, "json")
}

func setString(field *string, def string) {
	if strings.TrimSpace(*field) == "" {
		*field = def
	}
}

func setDuration(field *time.Duration, def time.Duration) {
	if *field <= 0 {
		*field = def
	}
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Address).Msg("failed to connect to redis")
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
}
