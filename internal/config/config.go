package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Card stores.
const (
	StoreFiles  = "files"
	StoreSQLite = "sqlite"
)

type Config struct {
	Addr string

	// ManifestPath points at a YAML manifest. When empty, DataDir is scanned
	// once at startup for *.json collections.
	ManifestPath string
	DataDir      string

	CardStore    string // files|sqlite
	DatabasePath string

	AppEnv   string
	LogLevel string

	WSAllowedOrigins      []string
	DevWebSocketsAllowAll bool

	FetchTimeout time.Duration
	SessionTTL   time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:         strings.TrimSpace(os.Getenv("BACKEND_ADDR")),
		ManifestPath: strings.TrimSpace(os.Getenv("MANIFEST_PATH")),
		DataDir:      strings.TrimSpace(os.Getenv("DATA_DIR")),
		CardStore:    strings.ToLower(strings.TrimSpace(os.Getenv("CARD_STORE"))),
		DatabasePath: strings.TrimSpace(os.Getenv("DATABASE_PATH")),
		AppEnv:       strings.TrimSpace(os.Getenv("APP_ENV")),
		LogLevel:     strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		FetchTimeout: time.Duration(positiveInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		SessionTTL:   time.Duration(positiveInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CardStore == "" {
		cfg.CardStore = StoreFiles
	}

	if v := os.Getenv("WS_ALLOWED_ORIGINS"); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.WSAllowedOrigins = append(cfg.WSAllowedOrigins, p)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEV_WEBSOCKETS_ALLOW_ALL")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DevWebSocketsAllowAll = b
		}
	}

	// BACKEND_ADDR wins over PORT; PORT may be bare or host:port.
	if cfg.Addr == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			if strings.Contains(port, ":") {
				cfg.Addr = port
			} else {
				cfg.Addr = ":" + port
			}
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	var missing []string
	switch cfg.CardStore {
	case StoreFiles:
		if cfg.ManifestPath == "" && cfg.DataDir == "" {
			missing = append(missing, "MANIFEST_PATH (or DATA_DIR)")
		}
	case StoreSQLite:
		if cfg.DatabasePath == "" {
			missing = append(missing, "DATABASE_PATH")
		}
	default:
		missing = append(missing, fmt.Sprintf("CARD_STORE (got %q, want files|sqlite)", cfg.CardStore))
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing/invalid env: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "development"
}

func positiveInt(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "WARNING: invalid %s=%q, using default %d\n", key, v, def)
		return def
	}
	return n
}
