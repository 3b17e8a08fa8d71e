package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Outbound chat backend
	ChatAPIURL     string
	Backend        string // "http" or "stub"
	HTTPTimeout    time.Duration
	TextAliases    []string
	Placeholder    string
	ForbiddenCode  int
	CustomerID     string
	ExportDir      string
	GlamourStyle   string
	// Logging
	LogLevel       string
	LogFormat      string
	LogFile        string
	LogDevelopment bool
	// Gateway
	Port          string
	AllowedOrigin string
	// Stub backend
	StubPort          string
	StubResponsesFile string
	StubMinDelay      time.Duration
	StubMaxDelay      time.Duration
	StubRatePerSecond float64
	StubRateBurst     int
	OpenAIAPIKey      string
	Model             string
}

// DefaultTextAliases is the priority list used to pick a reply's display text.
var DefaultTextAliases = []string{"answer", "introduction", "message", "messageText", "text"}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		ChatAPIURL:        getEnvDefault("CHAT_API_URL", "http://localhost:8081/api/v1/chat"),
		Backend:           strings.ToLower(getEnvDefault("CHAT_BACKEND", "http")),
		HTTPTimeout:       getEnvDurationDefault("CHAT_HTTP_TIMEOUT", 60*time.Second),
		TextAliases:       getEnvListDefault("CHAT_TEXT_ALIASES", DefaultTextAliases),
		Placeholder:       getEnvDefault("CHAT_PLACEHOLDER", "No response from server"),
		ForbiddenCode:     getEnvIntDefault("CHAT_FORBIDDEN_STATUS", 403),
		CustomerID:        os.Getenv("CHAT_CUSTOMER_ID"),
		ExportDir:         getEnvDefault("CHAT_EXPORT_DIR", "."),
		GlamourStyle:      getEnvDefault("CHAT_GLAMOUR_STYLE", "dark"),
		LogLevel:          getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvDefault("LOG_FORMAT", "json"),
		LogFile:           os.Getenv("LOG_FILE"),
		LogDevelopment:    getEnvBoolDefault("LOG_DEVELOPMENT", false),
		Port:              getEnvDefault("PORT", "8080"),
		AllowedOrigin:     getEnvDefault("ALLOWED_ORIGIN", "*"),
		StubPort:          getEnvDefault("STUB_PORT", "8081"),
		StubResponsesFile: os.Getenv("STUB_RESPONSES_FILE"),
		StubMinDelay:      getEnvDurationDefault("STUB_MIN_DELAY", 500*time.Millisecond),
		StubMaxDelay:      getEnvDurationDefault("STUB_MAX_DELAY", 1500*time.Millisecond),
		StubRatePerSecond: getEnvFloatDefault("STUB_RATE_PER_SECOND", 2),
		StubRateBurst:     getEnvIntDefault("STUB_RATE_BURST", 5),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:             getEnvDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}
	if cfg.StubMaxDelay < cfg.StubMinDelay {
		cfg.StubMaxDelay = cfg.StubMinDelay
	}
	return cfg
}

// Warnings lists non-fatal configuration problems worth logging at startup.
func (c Config) Warnings() []string {
	var out []string
	if c.OpenAIAPIKey == "" {
		out = append(out, "OPENAI_API_KEY is not set; the stub backend will use canned replies only")
	}
	if c.Backend != "http" && c.Backend != "stub" {
		out = append(out, "unknown CHAT_BACKEND "+strconv.Quote(c.Backend)+"; falling back to http")
	}
	return out
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return append([]string(nil), def...)
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("warning: invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
		log.Printf("warning: invalid %s=%q, using %g", key, v, def)
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		log.Printf("warning: invalid %s=%q, using %s", key, v, def)
	}
	return def
}
