// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `validate:"required,numeric"`
	Env       string `validate:"oneof=development production test"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	Oracle              string        `validate:"oneof=local openai"`
	SequencingTimeout   time.Duration `validate:"gt=0"`
	SequencingThreshold int           `validate:"gte=2"`

	OpenAIKey     string `validate:"required_if=Oracle openai,required_if=DayGenerator openai"`
	OpenAIModel   string
	OpenAIBaseURL string `validate:"omitempty,url"`

	DayGenerator string `validate:"oneof=mock openai"`

	PlaceCache    string `validate:"oneof=none sqlite postgres redis"`
	SqlitePath    string `validate:"required_if=PlaceCache sqlite"`
	DatabaseURL   string `validate:"required_if=PlaceCache postgres"`
	RedisAddr     string `validate:"required_if=PlaceCache redis"`
	PlaceCacheTTL time.Duration
	PhotonURL     string `validate:"required,url"`
}

// Strict reports whether integrity violations should fail loudly.
func (c Config) Strict() bool { return c.Env == "development" }

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadDotenv loads .env into the process environment. A missing file is not
// an error; existing variables are never overwritten.
func LoadDotenv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var errs []error

	c := Config{
		Port:          Get("PORT", "8080"),
		Env:           strings.ToLower(Get("APP_ENV", "production")),
		LogLevel:      strings.ToLower(Get("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(Get("LOG_FORMAT", "text")),
		Oracle:        strings.ToLower(Get("SEQUENCING_ORACLE", "local")),
		OpenAIKey:     Get("OPENAI_API_KEY", ""),
		OpenAIModel:   Get("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: Get("OPENAI_BASE_URL", ""),
		DayGenerator:  strings.ToLower(Get("DAY_GENERATOR", "mock")),
		PlaceCache:    strings.ToLower(Get("PLACE_CACHE", "none")),
		SqlitePath:    Get("SQLITE_PATH", "data/places.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		RedisAddr:     Get("REDIS_ADDR", ""),
		PhotonURL:     Get("PHOTON_BASE_URL", "https://photon.komoot.io"),
	}

	c.SequencingTimeout = duration("SEQUENCING_TIMEOUT", 20*time.Second, &errs)
	c.PlaceCacheTTL = duration("PLACE_CACHE_TTL", 7*24*time.Hour, &errs)

	threshold, err := strconv.Atoi(Get("SEQUENCING_THRESHOLD", "3"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SEQUENCING_THRESHOLD: %w", err))
	}
	c.SequencingThreshold = threshold

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func duration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
