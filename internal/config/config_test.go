package config

import (
	"testing"

	"github.com/forensix/log-inspector/internal/profile"
)

func validConfig() *Config {
	return &Config{
		InputPaths:         []string{"audit.log"},
		BucketWidthSeconds: 10,
		ZScoreThreshold:    3.0,
		Contamination:      0.05,
		ForestTrees:        100,
		ForestSampleSize:   256,
		ExportFormat:       "json",
		LogLevel:           "info",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no inputs", func(c *Config) { c.InputPaths = nil }, true},
		{"zero bucket width", func(c *Config) { c.BucketWidthSeconds = 0 }, true},
		{"negative threshold", func(c *Config) { c.ZScoreThreshold = -1 }, true},
		{"contamination too high", func(c *Config) { c.Contamination = 1 }, true},
		{"no trees", func(c *Config) { c.ForestTrees = 0 }, true},
		{"bad export format", func(c *Config) { c.ExportFormat = "xml" }, true},
		{"geo without cache path", func(c *Config) { c.GeoEnabled = true; c.GeoCachePath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyProfile(t *testing.T) {
	cfg := validConfig()

	threshold := 2.5
	seed := int64(42)
	cfg.ApplyProfile(&profile.Profile{
		ZScoreThreshold: &threshold,
		Seed:            &seed,
	})

	if cfg.ZScoreThreshold != 2.5 {
		t.Errorf("expected overridden threshold 2.5, got %g", cfg.ZScoreThreshold)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("expected overridden seed 42, got %v", cfg.Seed)
	}
	// Keys the profile does not set keep their values.
	if cfg.Contamination != 0.05 || cfg.ForestTrees != 100 {
		t.Errorf("untouched keys changed: %+v", cfg)
	}
}

func TestParsePathList(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a.log", 1},
		{"a.log;b.txt", 2},
		{" a.log ; ; b.txt ", 2},
	}

	for _, tt := range tests {
		got := parsePathList(tt.input)
		if len(got) != tt.want {
			t.Errorf("parsePathList(%q) = %v, want %d entries", tt.input, got, tt.want)
		}
	}
}
