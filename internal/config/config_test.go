package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("API_BASE_URL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SchoolCode != "demo" {
		t.Errorf("school code = %q", cfg.SchoolCode)
	}
	if cfg.TenantSuffix != ".admin.itsmyskool.com" {
		t.Errorf("suffix = %q", cfg.TenantSuffix)
	}
	if !cfg.Metrics {
		t.Error("metrics should default on")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.test/")
	t.Setenv("SCHOOL_CODE", "oakwood")
	t.Setenv("HTTP_PORT", "not-a-port")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.test" {
		t.Errorf("base url = %q", cfg.APIBaseURL)
	}
	if cfg.SchoolCode != "oakwood" {
		t.Errorf("school code = %q", cfg.SchoolCode)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("port = %q, want fallback 8080", cfg.HTTPPort)
	}
}
