package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestGetReturnsSameInstance(t *testing.T) {
	first := Get()
	second := Get()

	if first == nil {
		t.Fatalf("expected config instance")
	}
	if first != second {
		t.Fatalf("expected identical pointers, got %p and %p", first, second)
	}
	if *first != *second {
		t.Fatalf("expected equal field values")
	}
}

func TestGetConcurrentCallersShareInstance(t *testing.T) {
	const callers = 32
	got := make([]*Config, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Get()
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if got[i] != got[0] {
			t.Fatalf("caller %d saw a different instance", i)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("unexpected theme %q", cfg.Theme)
	}
	if cfg.APIEndpoint != defaultAPIEndpoint {
		t.Fatalf("unexpected endpoint %q", cfg.APIEndpoint)
	}
	if cfg.CountryCode != defaultCountryCode {
		t.Fatalf("unexpected country %q", cfg.CountryCode)
	}
	if cfg.Transport != TransportProxy || cfg.ProxyURL != defaultProxyURL {
		t.Fatalf("unexpected transport settings %q %q", cfg.Transport, cfg.ProxyURL)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("unexpected timeout %s", cfg.HTTPTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HEADLINES_API_KEY", " abc123 ")
	t.Setenv("HEADLINES_COUNTRY_CODE", "GB")
	t.Setenv("HEADLINES_THEME", "light")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "abc123" {
		t.Fatalf("unexpected api key %q", cfg.APIKey)
	}
	if cfg.CountryCode != "gb" {
		t.Fatalf("unexpected country %q", cfg.CountryCode)
	}
	if cfg.Theme != "light" {
		t.Fatalf("unexpected theme %q", cfg.Theme)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headlines.yaml")
	body := []byte("theme: solarized\ntransport: direct\nhttp_timeout: 3s\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Theme != "solarized" || cfg.Transport != TransportDirect {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("HEADLINES_TRANSPORT", "carrier-pigeon")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for unsupported transport")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
