// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/mmynk/imfoot/internal/calculator"
)

type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/settlement.db"`
	SeedPath string `envconfig:"SEED_PATH"`

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	} `envconfig:""`

	Settlement struct {
		TourRecruitHeadcount  int `envconfig:"TOUR_RECRUIT_HEADCOUNT" default:"10"`
		LectureEnrollment     int `envconfig:"LECTURE_ENROLLMENT" default:"20"`
		DefaultCommissionRate int `envconfig:"DEFAULT_COMMISSION_RATE" default:"15"`
	} `envconfig:""`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("config: JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("config: TOKEN_TTL must be positive"))
	}
	if c.Settlement.TourRecruitHeadcount < 0 || c.Settlement.LectureEnrollment < 0 {
		errs = append(errs, errors.New("config: nominal sale counts must not be negative"))
	}
	if err := calculator.ValidateRate(c.Settlement.DefaultCommissionRate); err != nil {
		errs = append(errs, fmt.Errorf("config: DEFAULT_COMMISSION_RATE: %w", err))
	}
	return errors.Join(errs...)
}

// NominalCounts returns the stand-in sale counts for categories without
// per-seat tracking.
func (c Config) NominalCounts() calculator.NominalCounts {
	return calculator.NominalCounts{
		TourRecruitHeadcount: c.Settlement.TourRecruitHeadcount,
		LectureEnrollment:    c.Settlement.LectureEnrollment,
	}
}
