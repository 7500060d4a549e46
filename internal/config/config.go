package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendLocal    = "local"
	BackendMemory   = "memory"

	FeedPostgres = "postgres"
	FeedRabbitMQ = "rabbitmq"
)

type Config struct {
	HTTPPort  int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	ChangeFeed     string `env:"CHANGE_FEED" envDefault:"postgres"`
	RabbitMQURL    string `env:"RABBITMQ_URL"`
	LocalStorePath string `env:"LOCAL_STORE_PATH" envDefault:"clientbook.json"`

	Mail     Mail
	WhatsApp WhatsApp
	Auth     Auth

	CORSOrigins   []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`
	StatsInterval time.Duration `env:"STATS_INTERVAL" envDefault:"1m"`
}

type Mail struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM"`
}

func (m Mail) Enabled() bool {
	return m.Host != ""
}

type WhatsApp struct {
	AccessToken string `env:"WHATSAPP_ACCESS_TOKEN"`
	PhoneID     string `env:"WHATSAPP_PHONE_ID"`
}

func (w WhatsApp) Enabled() bool {
	return w.AccessToken != "" && w.PhoneID != ""
}

type Auth struct {
	Username     string        `env:"AUTH_USERNAME,required"`
	PasswordHash string        `env:"AUTH_PASSWORD_HASH,required"`
	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"12h"`
}

// New loads envPath when it exists and then reads the environment.
func New(envPath string) (Config, error) {
	var c Config

	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.ChangeFeed = strings.ToLower(strings.TrimSpace(c.ChangeFeed))

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
		switch c.ChangeFeed {
		case FeedPostgres:
		case FeedRabbitMQ:
			if c.RabbitMQURL == "" {
				return errors.New("RABBITMQ_URL is required for the rabbitmq change feed")
			}
		default:
			return fmt.Errorf("unknown CHANGE_FEED %q", c.ChangeFeed)
		}
	case BackendLocal, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.StatsInterval <= 0 {
		return errors.New("STATS_INTERVAL must be positive")
	}
	return nil
}
