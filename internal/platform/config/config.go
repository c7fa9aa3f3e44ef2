package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Include sources understood by the bootstrap.
const (
	IncludeSourceFile     = "file"
	IncludeSourceDatabase = "database"
)

// Include failure policies.
const (
	IncludePolicyOmit = "omit"
	IncludePolicyFail = "fail"
)

// Config holds runtime configuration values for the page server.
type Config struct {
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	PageFile      string
	Include       IncludeConfig
	DBPath        string
	RateLimit     RateLimitConfig
}

// IncludeConfig selects where the navigation fragment comes from and what
// happens when it cannot be resolved.
type IncludeConfig struct {
	Source        string
	Dir           string
	FailurePolicy string
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultIncludeSource  = IncludeSourceFile
	defaultIncludeDir     = "./fragments"
	defaultIncludePolicy  = IncludePolicyOmit
	defaultDBPath         = "./data/fragments.db"
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 20
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
		PageFile:    strings.TrimSpace(os.Getenv("PAGE_FILE")),
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		Include: IncludeConfig{
			Source:        strings.ToLower(getEnv("INCLUDE_SOURCE", defaultIncludeSource)),
			Dir:           getEnv("INCLUDE_DIR", defaultIncludeDir),
			FailurePolicy: strings.ToLower(getEnv("INCLUDE_FAILURE_POLICY", defaultIncludePolicy)),
		},
		RateLimit: RateLimitConfig{
			ClientTTL: defaultRateLimitTTL,
		},
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	if port <= 0 || port > 65535 {
		return nil, eris.Errorf("invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	graceValue := getEnv("SHUTDOWN_GRACE", defaultShutdownGrace.String())
	grace, err := time.ParseDuration(graceValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SHUTDOWN_GRACE value: %s", graceValue)
	}
	cfg.ShutdownGrace = grace

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitRPS, 'f', -1, 64))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil || rps <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil || burst <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	switch cfg.Include.Source {
	case IncludeSourceFile, IncludeSourceDatabase:
	default:
		return nil, eris.Errorf("invalid INCLUDE_SOURCE value: %s", cfg.Include.Source)
	}

	switch cfg.Include.FailurePolicy {
	case IncludePolicyOmit, IncludePolicyFail:
	default:
		return nil, eris.Errorf("invalid INCLUDE_FAILURE_POLICY value: %s", cfg.Include.FailurePolicy)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
