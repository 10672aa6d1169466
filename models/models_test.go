package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListingEmpty(t *testing.T) {
	tests := []struct {
		name    string
		listing *Listing
		want    bool
	}{
		{name: "nil", listing: nil, want: true},
		{name: "zero value", listing: &Listing{}, want: true},
		{name: "only identifiers", listing: &Listing{ID: "1", URL: "https://example.com"}, want: true},
		{name: "price present", listing: &Listing{Price: Float64(100)}, want: false},
		{name: "zero photo count is data", listing: &Listing{PhotoCount: Int(0)}, want: false},
		{name: "description present", listing: &Listing{Description: "piso"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.Empty(); got != tt.want {
				t.Errorf("Empty() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() with missing file failed: %v", err)
	}
	if cfg.ListenAddr != ":8087" {
		t.Errorf("listen addr = %q; want default :8087", cfg.ListenAddr)
	}
	if cfg.CacheTTL != "24h" {
		t.Errorf("cache ttl = %q; want 24h", cfg.CacheTTL)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "listen_addr: \":9000\"\ncache_ttl: 12h\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRUST_SHIELD_CACHE_TTL", "6h")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("listen addr = %q; want file value :9000", cfg.ListenAddr)
	}
	// Environment wins over the file.
	if cfg.CacheTTL != "6h" {
		t.Errorf("cache ttl = %q; want env value 6h", cfg.CacheTTL)
	}

	ttl, err := cfg.TTL()
	if err != nil || ttl.Hours() != 6 {
		t.Errorf("TTL() = (%v, %v); want 6h", ttl, err)
	}
}

func TestLoadConfigRejectsBadDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache_ttl: forever\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unparseable cache_ttl")
	}
}
