package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"SERVER_PORT", "LOG_LEVEL", "SENTRY_DSN", "ENV", "SHUTDOWN_GRACE", "PAGE_FILE",
		"INCLUDE_SOURCE", "INCLUDE_DIR", "INCLUDE_FAILURE_POLICY", "DB_PATH",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.PageFile != "" {
		t.Errorf("expected empty page file, got %q", cfg.PageFile)
	}

	if cfg.Include.Source != IncludeSourceFile {
		t.Errorf("expected include source %q, got %q", IncludeSourceFile, cfg.Include.Source)
	}

	if cfg.Include.Dir != defaultIncludeDir {
		t.Errorf("expected include dir %q, got %q", defaultIncludeDir, cfg.Include.Dir)
	}

	if cfg.Include.FailurePolicy != IncludePolicyOmit {
		t.Errorf("expected include policy %q, got %q", IncludePolicyOmit, cfg.Include.FailurePolicy)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.RateLimit.RequestsPerSecond != defaultRateLimitRPS {
		t.Errorf("expected rate limit rps %v, got %v", defaultRateLimitRPS, cfg.RateLimit.RequestsPerSecond)
	}

	if cfg.RateLimit.Burst != defaultRateLimitBurst {
		t.Errorf("expected rate limit burst %d, got %d", defaultRateLimitBurst, cfg.RateLimit.Burst)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("SHUTDOWN_GRACE", "3s")
	t.Setenv("PAGE_FILE", "/etc/site/page.yaml")
	t.Setenv("INCLUDE_SOURCE", "Database")
	t.Setenv("INCLUDE_DIR", "/srv/fragments")
	t.Setenv("INCLUDE_FAILURE_POLICY", "fail")
	t.Setenv("DB_PATH", "/tmp/fragments.db")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.ShutdownGrace != 3*time.Second {
		t.Errorf("expected shutdown grace 3s, got %s", cfg.ShutdownGrace)
	}

	if cfg.PageFile != "/etc/site/page.yaml" {
		t.Errorf("expected page file /etc/site/page.yaml, got %q", cfg.PageFile)
	}

	if cfg.Include.Source != IncludeSourceDatabase {
		t.Errorf("expected include source %q, got %q", IncludeSourceDatabase, cfg.Include.Source)
	}

	if cfg.Include.Dir != "/srv/fragments" {
		t.Errorf("expected include dir /srv/fragments, got %q", cfg.Include.Dir)
	}

	if cfg.Include.FailurePolicy != IncludePolicyFail {
		t.Errorf("expected include policy %q, got %q", IncludePolicyFail, cfg.Include.FailurePolicy)
	}

	if cfg.DBPath != "/tmp/fragments.db" {
		t.Errorf("expected DB path /tmp/fragments.db, got %q", cfg.DBPath)
	}

	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("expected rate limit rps 2.5, got %v", cfg.RateLimit.RequestsPerSecond)
	}

	if cfg.RateLimit.Burst != 7 {
		t.Errorf("expected rate limit burst 7, got %d", cfg.RateLimit.Burst)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN dsn, got %q", cfg.SentryDSN)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key     string
		value   string
		message string
	}{
		{"SERVER_PORT", "invalid", "invalid SERVER_PORT value"},
		{"SERVER_PORT", "70000", "invalid SERVER_PORT value"},
		{"SHUTDOWN_GRACE", "soon", "invalid SHUTDOWN_GRACE value"},
		{"RATE_LIMIT_RPS", "-1", "invalid RATE_LIMIT_RPS value"},
		{"RATE_LIMIT_BURST", "0", "invalid RATE_LIMIT_BURST value"},
		{"INCLUDE_SOURCE", "ftp", "invalid INCLUDE_SOURCE value"},
		{"INCLUDE_FAILURE_POLICY", "retry", "invalid INCLUDE_FAILURE_POLICY value"},
	}

	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%s, got nil", tc.key, tc.value)
			}

			if !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("expected error to mention %q, got %v", tc.message, err)
			}
		})
	}
}
