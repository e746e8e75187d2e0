package main

import (
	"testing"
)

func TestLoadEnvironmentConfig(t *testing.T) {
	t.Setenv("WA_VERIFY_TOKEN", "shhh")
	t.Setenv("NORTSUR_API_BASE_URL", "https://backend.example")
	t.Setenv("ORDERBOT_CHANNEL", "cloudapi")
	t.Setenv("CATALOG_IMAGES_DIR", "/srv/catalog")
	t.Setenv("API_ADDR", ":9090")

	config := loadEnvironmentConfig()

	if config.VerifyToken != "shhh" {
		t.Errorf("VerifyToken = %q", config.VerifyToken)
	}
	if config.BackendBaseURL != "https://backend.example" {
		t.Errorf("BackendBaseURL = %q", config.BackendBaseURL)
	}
	if config.Channel != "cloudapi" {
		t.Errorf("Channel = %q", config.Channel)
	}
	if config.CatalogDir != "/srv/catalog" {
		t.Errorf("CatalogDir = %q", config.CatalogDir)
	}
	if config.APIAddr != ":9090" {
		t.Errorf("APIAddr = %q", config.APIAddr)
	}
}

func TestLoadEnvironmentConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"WA_VERIFY_TOKEN", "NORTSUR_API_BASE_URL", "ORDERBOT_CHANNEL",
		"CATALOG_IMAGES_DIR", "CATALOG_IMAGES_BASE_URL", "API_ADDR",
	} {
		t.Setenv(key, "")
	}

	config := loadEnvironmentConfig()

	if config.VerifyToken != "" || config.Channel != "" || config.APIAddr != "" {
		t.Errorf("expected empty defaults, got %+v", config)
	}
}

func TestBuildWhatsmeowOptions(t *testing.T) {
	dsn := "postgres://test/whatsapp"
	qrPath := "/tmp/qr.txt"
	numeric := true

	flags := Flags{
		whatsmeowDSN: &dsn,
		qrOutput:     &qrPath,
		numeric:      &numeric,
	}

	if opts := buildWhatsmeowOptions(flags); len(opts) != 3 {
		t.Errorf("expected 3 whatsmeow options, got %d", len(opts))
	}

	empty := ""
	off := false
	flags = Flags{whatsmeowDSN: &empty, qrOutput: &empty, numeric: &off}
	if opts := buildWhatsmeowOptions(flags); len(opts) != 0 {
		t.Errorf("expected 0 whatsmeow options, got %d", len(opts))
	}
}
