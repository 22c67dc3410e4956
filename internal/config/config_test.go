package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "DB_URL", "CATALOG_FILE", "CATALOG_REFRESH_CRON", "AMQP_URL", "SESSION_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Addr())
	}
	if cfg.CatalogRefreshCron != DefaultCatalogRefreshCron {
		t.Errorf("expected default cron, got %q", cfg.CatalogRefreshCron)
	}
	if cfg.SessionLimit != DefaultSessionLimit {
		t.Errorf("expected session limit %d, got %d", DefaultSessionLimit, cfg.SessionLimit)
	}
	if cfg.CatalogSource() != "example" {
		t.Errorf("expected example catalog, got %s", cfg.CatalogSource())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DB_URL", "postgresql://localhost/modeler")
	t.Setenv("CATALOG_FILE", "catalog.yaml")
	t.Setenv("SESSION_LIMIT", "5")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr() != ":9090" {
		t.Errorf("expected addr :9090, got %s", cfg.Addr())
	}
	if cfg.SessionLimit != 5 {
		t.Errorf("expected session limit 5, got %d", cfg.SessionLimit)
	}
	if cfg.CatalogSource() != "postgres" {
		t.Errorf("expected postgres catalog, got %s", cfg.CatalogSource())
	}
}

func TestFromEnv_InvalidSessionLimit(t *testing.T) {
	for _, v := range []string{"abc", "0", "-3"} {
		t.Setenv("SESSION_LIMIT", v)
		if _, err := FromEnv(); err == nil {
			t.Errorf("SESSION_LIMIT=%q: expected error", v)
		}
	}
}
