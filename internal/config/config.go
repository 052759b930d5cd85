package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Auth     AuthConfig     `yaml:"auth"`
	Seed     SeedConfig     `yaml:"seed"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Path        string        `yaml:"path" validate:"required"`
	BusyTimeout time.Duration `yaml:"busyTimeout" validate:"gte=0"`
}

type QuizConfig struct {
	// RoundSize is the number of questions drawn per round.
	RoundSize int `yaml:"roundSize" validate:"gte=1,lte=50"`
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcryptCost" validate:"gte=4,lte=31"`
}

type SeedConfig struct {
	File      string `yaml:"file"`
	OnStartup bool   `yaml:"onStartup"`
}

type LogConfig struct {
	// File receives log output; empty keeps logs off the terminal.
	File string `yaml:"file"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path:        "tech_quiz.db",
			BusyTimeout: 5 * time.Second,
		},
		Quiz: QuizConfig{
			RoundSize: 5,
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		Seed: SeedConfig{
			File:      "questoes.json",
			OnStartup: true,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error; the defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if value := os.Getenv("QUIZ_DB_PATH"); value != "" {
		cfg.Database.Path = value
	}
	if value := os.Getenv("QUIZ_ROUND_SIZE"); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("QUIZ_ROUND_SIZE must be an integer: %w", err)
		}
		cfg.Quiz.RoundSize = size
	}
	if value := os.Getenv("QUIZ_LOG_FILE"); value != "" {
		cfg.Log.File = value
	}
	return nil
}
