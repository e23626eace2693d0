package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/varco.db"

	// Tokens
	JWTSecret string
	TokenTTL  time.Duration

	// Badge suspension after repeated unauthorized attempts
	SuspendThreshold int // attempts within the window; 0 disables
	SuspendWindow    time.Duration

	// Transit retention
	TransitRetentionDays int // 0 = keep forever
	PruneIntervalHours   int // how often the pruner runs (default 6)
}

func FromEnv() Config {
	addr := getenvDefault("VARCO_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("VARCO_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("VARCO_DB_PATH", "./data/varco.db")

	secret := getenvDefault("VARCO_JWT_SECRET", "dev-secret-change-me")
	tokenTTL := time.Duration(getenvInt("VARCO_TOKEN_TTL_HOURS", 72)) * time.Hour

	threshold := getenvInt("VARCO_SUSPEND_THRESHOLD", 3)
	window := time.Duration(getenvInt("VARCO_SUSPEND_WINDOW_HOURS", 24)) * time.Hour

	retentionDays := getenvInt("VARCO_TRANSIT_RETENTION_DAYS", 0)
	pruneInterval := getenvInt("VARCO_PRUNE_INTERVAL_HOURS", 6)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		JWTSecret: secret,
		TokenTTL:  tokenTTL,

		SuspendThreshold: threshold,
		SuspendWindow:    window,

		TransitRetentionDays: retentionDays,
		PruneIntervalHours:   pruneInterval,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
