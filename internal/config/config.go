// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorePostgres = "postgres"
	StoreMemory   = "memory"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	MailSMTP = "smtp"
	MailLog  = "log"
)

type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	Port     string `env:"PORT,default=8080"`
	BaseURL  string `env:"APP_BASE_URL,default=http://localhost:3000"`
	Timezone string `env:"APP_TIMEZONE,default=UTC"`

	Datastore   string `env:"DATASTORE,default=memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTTTL       time.Duration `env:"JWT_TTL,default=168h"`
	MagicLinkTTL time.Duration `env:"MAGIC_LINK_TTL,default=15m"`

	OCR  OCRConfig
	Mail MailConfig

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	StreakDecaySchedule string  `env:"STREAK_DECAY_SCHEDULE,default=5 0 * * *"`
	PublicRPS           float64 `env:"PUBLIC_RPS,default=5"`
	PublicBurst         int     `env:"PUBLIC_BURST,default=20"`

	location *time.Location
}

type OCRConfig struct {
	Provider    string        `env:"OCR_PROVIDER,default=openai"`
	OpenAIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIModel string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	GeminiKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel string        `env:"GEMINI_MODEL,default=gemini-1.5-flash"`
	Timeout     time.Duration `env:"OCR_TIMEOUT,default=30s"`
}

type MailConfig struct {
	Driver     string `env:"MAIL_DRIVER,default=log"`
	Host       string `env:"SMTP_HOST"`
	Port       int    `env:"SMTP_PORT,default=587"`
	Username   string `env:"SMTP_USERNAME"`
	Password   string `env:"SMTP_PASSWORD"`
	From       string `env:"SMTP_FROM,default=no-reply@gynergy.app"`
	FromName   string `env:"SMTP_FROM_NAME,default=Gynergy"`
	UseSSL     bool   `env:"SMTP_USE_SSL,default=false"`
	RequireTLS bool   `env:"SMTP_REQUIRE_TLS,default=true"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Datastore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when DATASTORE=postgres")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("DATASTORE must be %q or %q", StorePostgres, StoreMemory))
	}

	if c.JWTSecret == "" && !c.IsDevelopment() {
		problems = append(problems, "JWT_SECRET is required outside development")
	}

	switch c.OCR.Provider {
	case ProviderOpenAI:
		if c.OCR.OpenAIKey == "" && !c.IsDevelopment() {
			problems = append(problems, "OPENAI_API_KEY is required when OCR_PROVIDER=openai")
		}
	case ProviderGemini:
		if c.OCR.GeminiKey == "" && !c.IsDevelopment() {
			problems = append(problems, "GEMINI_API_KEY is required when OCR_PROVIDER=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("OCR_PROVIDER must be %q or %q", ProviderOpenAI, ProviderGemini))
	}

	switch c.Mail.Driver {
	case MailSMTP:
		if c.Mail.Host == "" {
			problems = append(problems, "SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
	case MailLog:
	default:
		problems = append(problems, fmt.Sprintf("MAIL_DRIVER must be %q or %q", MailSMTP, MailLog))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("APP_TIMEZONE %q: %v", c.Timezone, err))
	} else {
		c.location = loc
	}

	if c.PublicRPS <= 0 || c.PublicBurst <= 0 {
		problems = append(problems, "PUBLIC_RPS and PUBLIC_BURST must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// Location is the timezone that decides which calendar day an entry belongs to.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SessionSecret falls back to a fixed development key so local runs need no setup.
func (c *Config) SessionSecret() string {
	if c.JWTSecret == "" {
		return "gynergy-development-secret"
	}
	return c.JWTSecret
}
