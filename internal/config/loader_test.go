package config

import "testing"

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/clicks")
	t.Setenv("FALLBACK_URL", "https://x.com/landing")
	t.Setenv("APP_DEBUG", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	applyEnvOverrides(cfg)

	assertIntEqual(t, "service.port", 8080, cfg.Service.Port)
	assertStringEqual(t, "database.url", "postgres://u:p@db:5432/clicks", cfg.Database.URL)
	assertStringEqual(t, "tracking.fallback_url", "https://x.com/landing", cfg.Tracking.FallbackURL)
	if !cfg.Service.Debug {
		t.Error("service.debug: expected true for APP_DEBUG=yes")
	}
}

func TestApplyEnvOverrides_EmptyValuesIgnored(t *testing.T) {
	t.Setenv("PORT", "")

	cfg := &Config{}
	setDefaults(cfg)
	applyEnvOverrides(cfg)

	assertIntEqual(t, "service.port", defaultServicePort, cfg.Service.Port)
}

func TestParseBool(t *testing.T) {
	testCases := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" yes ", true},
		{"false", false},
		{"0", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := parseBool(tc.in); got != tc.want {
			t.Errorf("parseBool(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}
