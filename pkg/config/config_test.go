package config

import (
	"testing"
	"time"

	"github.com/interiorhaus/catalog-admin/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.API.Origin != "http://localhost:5000" {
		t.Fatalf("unexpected default origin %q", cfg.API.Origin)
	}
	if cfg.API.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected default request timeout %v", cfg.API.RequestTimeout)
	}
	if cfg.Media.AddressMode != enums.AddressModeRelative {
		t.Fatalf("unexpected default address mode %q", cfg.Media.AddressMode)
	}
	if cfg.Media.MaxUploadBytes != 50*1024*1024 {
		t.Fatalf("unexpected default max upload bytes %d", cfg.Media.MaxUploadBytes)
	}
	if cfg.Media.UploadTimeout != 5*time.Minute {
		t.Fatalf("unexpected default upload timeout %v", cfg.Media.UploadTimeout)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev by default, got %q", cfg.App.Env)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_API_ORIGIN", "https://catalog.example.com")
	t.Setenv("CATALOG_MEDIA_ADDRESS_MODE", "absolute")
	t.Setenv("CATALOG_APP_ENV", "prod")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.API.Origin != "https://catalog.example.com" {
		t.Fatalf("unexpected origin %q", cfg.API.Origin)
	}
	if cfg.Media.AddressMode != enums.AddressModeAbsolute {
		t.Fatalf("unexpected address mode %q", cfg.Media.AddressMode)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env")
	}
}

func TestLoad_RejectsBadOrigin(t *testing.T) {
	t.Setenv("CATALOG_API_ORIGIN", "not a url")
	if _, err := Load(); err == nil {
		t.Fatal("expected an invalid origin to return an error")
	}
}

func TestLoad_RejectsBadAddressMode(t *testing.T) {
	t.Setenv("CATALOG_MEDIA_ADDRESS_MODE", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected an invalid address mode to return an error")
	}
}
