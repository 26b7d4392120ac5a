package config

import (
	"testing"
	"time"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	rt := loadFrom(envMap(nil))

	if rt.ResolverURL != ResolverBaseURL {
		t.Fatalf("ResolverURL = %q, want %q", rt.ResolverURL, ResolverBaseURL)
	}
	if rt.CacheBackend != CacheBackendSQLite {
		t.Fatalf("CacheBackend = %q, want %q", rt.CacheBackend, CacheBackendSQLite)
	}
	if rt.AttributionGrace != DefaultAttributionGrace {
		t.Fatalf("AttributionGrace = %s, want %s", rt.AttributionGrace, DefaultAttributionGrace)
	}
	if rt.DBPath != "" {
		t.Fatalf("DBPath = %q, want empty", rt.DBPath)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	rt := loadFrom(envMap(map[string]string{
		"COINVOYAGE_DB_PATH":           " /tmp/cv.db ",
		"COINVOYAGE_RESOLVER_URL":      "http://127.0.0.1:8080/server.php",
		"COINVOYAGE_CACHE_BACKEND":     "KEYCHAIN",
		"COINVOYAGE_ATTRIBUTION_GRACE": "250ms",
	}))

	if rt.DBPath != "/tmp/cv.db" {
		t.Fatalf("DBPath = %q", rt.DBPath)
	}
	if rt.ResolverURL != "http://127.0.0.1:8080/server.php" {
		t.Fatalf("ResolverURL = %q", rt.ResolverURL)
	}
	if rt.CacheBackend != CacheBackendKeychain {
		t.Fatalf("CacheBackend = %q, want %q", rt.CacheBackend, CacheBackendKeychain)
	}
	if rt.AttributionGrace != 250*time.Millisecond {
		t.Fatalf("AttributionGrace = %s", rt.AttributionGrace)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	rt := loadFrom(envMap(map[string]string{
		"COINVOYAGE_CACHE_BACKEND":     "redis",
		"COINVOYAGE_ATTRIBUTION_GRACE": "soon",
	}))

	if rt.CacheBackend != CacheBackendSQLite {
		t.Fatalf("CacheBackend = %q, want fallback %q", rt.CacheBackend, CacheBackendSQLite)
	}
	if rt.AttributionGrace != DefaultAttributionGrace {
		t.Fatalf("AttributionGrace = %s, want fallback", rt.AttributionGrace)
	}

	rt = loadFrom(envMap(map[string]string{"COINVOYAGE_ATTRIBUTION_GRACE": "-1s"}))
	if rt.AttributionGrace != DefaultAttributionGrace {
		t.Fatalf("negative grace should fall back, got %s", rt.AttributionGrace)
	}
}
