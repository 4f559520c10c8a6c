package cliparse

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 int
	DatabaseURL          string
	DatabaseType         string
	SessionSecret        string
	PaymentWebhookSecret string
	VoteRatePerSec       float64
	VoteRateBurst        int
}

// ParseFlags reads flags, then fills anything unset from the environment.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	fs := flag.NewFlagSet("quickly-ask", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token HMAC secret (prefer env)")
	fs.StringVar(&cfg.PaymentWebhookSecret, "webhook-secret", "", "Payment webhook HMAC secret (prefer env)")

	// Vote rate limiting, per user (client IP when anonymous)
	fs.Float64Var(&cfg.VoteRatePerSec, "vote-rate", 0, "Vote requests per second per user")
	fs.IntVar(&cfg.VoteRateBurst, "vote-burst", 0, "Vote request burst per user")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	if cfg.VoteRatePerSec == 0 {
		cfg.VoteRatePerSec = 5
		if s := os.Getenv("VOTE_RATE_PER_SEC"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 {
				return Config{}, errors.New("invalid VOTE_RATE_PER_SEC env variable")
			}
			cfg.VoteRatePerSec = v
		}
	}
	if cfg.VoteRateBurst == 0 {
		cfg.VoteRateBurst = 10
		if s := os.Getenv("VOTE_RATE_BURST"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				return Config{}, errors.New("invalid VOTE_RATE_BURST env variable")
			}
			cfg.VoteRateBurst = v
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.PaymentWebhookSecret == "" {
		cfg.PaymentWebhookSecret = os.Getenv("PAYMENT_WEBHOOK_SECRET")
	}
	if cfg.PaymentWebhookSecret == "" {
		return Config{}, errors.New("PAYMENT_WEBHOOK_SECRET required")
	}

	return cfg, nil
}
