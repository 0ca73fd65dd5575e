package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvThreshold      = "COUNTRY_LINKER_THRESHOLD"
	EnvScorer         = "COUNTRY_LINKER_SCORER"
	EnvWorkers        = "COUNTRY_LINKER_WORKERS"
	EnvFoldDiacritics = "COUNTRY_LINKER_FOLD_DIACRITICS"
)

// ApplyEnv overlays COUNTRY_LINKER_* variables on cfg. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func ApplyEnv(cfg *Config) error {
	// Missing .env is fine.
	_ = godotenv.Load()

	return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvThreshold)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvThreshold, v)
		}

		cfg.SetThreshold(n)
	}

	if v := strings.TrimSpace(getenv(EnvScorer)); v != "" {
		cfg.Scorer = v
	}

	if v := strings.TrimSpace(getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvWorkers, v)
		}

		cfg.Workers = n
	}

	if v := strings.TrimSpace(getenv(EnvFoldDiacritics)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvFoldDiacritics, v)
		}

		cfg.FoldDiacritics = b
	}

	return nil
}
