package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyUUID    = key("uuid")
	KeyLogger  = key("logger")
	KeyMetrics = key("metrics")
)

const HeaderUserUUID = "X-User-Uuid"

type Config struct {
	Service    Service
	Postgres   Postgres
	Redis      Redis
	Kafka      Kafka
	Centrifuge Centrifuge
	Logger     Logger
	Metrics    Metrics
	Platform   Platform
	Seeds      Seeds
}

type Service struct {
	Port string `env:"CHAT_SERVICE_PORT" env-default:"7070"`
	Name string `env:"CHAT_SERVICE_NAME" env-default:"exchange-chat-service"`
}

type Postgres struct {
	User     string `env:"CHAT_SERVICE_POSTGRES_USER"`
	Password string `env:"CHAT_SERVICE_POSTGRES_PASSWORD"`
	Database string `env:"CHAT_SERVICE_POSTGRES_DB"`
	Host     string `env:"CHAT_SERVICE_POSTGRES_HOST"`
	Port     string `env:"CHAT_SERVICE_POSTGRES_PORT"`
}

type Redis struct {
	Host      string        `env:"CHAT_SERVICE_REDIS_HOST"`
	Port      string        `env:"CHAT_SERVICE_REDIS_PORT"`
	Password  string        `env:"CHAT_SERVICE_REDIS_PASSWORD"`
	DB        int           `env:"CHAT_SERVICE_REDIS_DB" env-default:"0"`
	UnreadTTL time.Duration `env:"CHAT_SERVICE_UNREAD_TTL" env-default:"1m"`
}

type Kafka struct {
	Host          string `env:"KAFKA_HOST"`
	Port          string `env:"KAFKA_PORT"`
	UserTopic     string `env:"USER_UPDATES_TOPIC" env-default:"user-updates"`
	ExchangeTopic string `env:"EXCHANGE_COMPLETED_TOPIC" env-default:"exchange-completed"`
}

type Centrifuge struct {
	BaseURL   string        `env:"CENTRIFUGO_BASE_URL"`
	APIKey    string        `env:"CENTRIFUGO_API_KEY"`
	JWTSecret string        `env:"CENTRIFUGO_JWT_SECRET"`
	Timeout   time.Duration `env:"CENTRIFUGO_TIMEOUT" env-default:"5s"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

// Seeds points at the YAML file with legacy demo conversations. Empty disables seeding.
type Seeds struct {
	Path string `env:"CHAT_SERVICE_SEEDS_PATH"`
}

func MustLoad() *Config {
	cfg := &Config{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatalf("failed to read env variables: %s", err)
	}
	return cfg
}
