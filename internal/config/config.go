package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/forensix/log-inspector/internal/profile"
)

// Config holds all configuration for the application
type Config struct {
	// Input
	InputPaths []string // Log files or directories to analyze

	// Aggregation and detection
	BucketWidthSeconds int64
	ZScoreThreshold    float64
	Contamination      float64
	ForestTrees        int
	ForestSampleSize   int
	Seed               *int64 // nil means non-deterministic (time-derived, logged)

	// Geolocation collaborator
	GeoEnabled   bool
	GeoCachePath string

	// Export
	ExportFormat string
	ExportPath   string // empty means stdout
	ExportGzip   bool

	// Optional per-investigation overrides
	ProfilePath string

	// Observability
	LogLevel        string
	TracingEnabled  bool
	TracingEndpoint string
	TracingProtocol string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		InputPaths: parsePathList(getEnv("INPUT_PATHS", "")),

		BucketWidthSeconds: int64(getEnvInt("BUCKET_WIDTH_SECONDS", 10)),
		ZScoreThreshold:    getEnvFloat("ZSCORE_THRESHOLD", 3.0),
		Contamination:      getEnvFloat("CONTAMINATION", 0.05),
		ForestTrees:        getEnvInt("FOREST_TREES", 100),
		ForestSampleSize:   getEnvInt("FOREST_SAMPLE_SIZE", 256),

		GeoEnabled:   getEnvBool("GEO_ENABLED", false),
		GeoCachePath: getEnv("GEO_CACHE_PATH", "geo_cache.db"),

		ExportFormat: getEnv("EXPORT_FORMAT", "json"),
		ExportPath:   getEnv("EXPORT_PATH", ""),
		ExportGzip:   getEnvBool("EXPORT_GZIP", false),

		ProfilePath: getEnv("PROFILE_PATH", ""),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", ""),
		TracingProtocol: getEnv("TRACING_PROTOCOL", "grpc"),
	}

	// Seed is only fixed when explicitly configured; an unset seed means
	// the run is explicitly non-deterministic.
	if v := os.Getenv("ANALYSIS_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ANALYSIS_SEED must be an integer: %w", err)
		}
		cfg.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyProfile overlays the keys present in an analysis profile.
func (c *Config) ApplyProfile(p *profile.Profile) {
	if p.BucketWidthSeconds != nil {
		c.BucketWidthSeconds = *p.BucketWidthSeconds
	}
	if p.ZScoreThreshold != nil {
		c.ZScoreThreshold = *p.ZScoreThreshold
	}
	if p.Contamination != nil {
		c.Contamination = *p.Contamination
	}
	if p.Trees != nil {
		c.ForestTrees = *p.Trees
	}
	if p.SampleSize != nil {
		c.ForestSampleSize = *p.SampleSize
	}
	if p.Seed != nil {
		c.Seed = p.Seed
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.InputPaths) == 0 {
		return fmt.Errorf("INPUT_PATHS is required")
	}
	if c.BucketWidthSeconds < 1 {
		return fmt.Errorf("BUCKET_WIDTH_SECONDS must be at least 1")
	}
	if c.ZScoreThreshold <= 0 {
		return fmt.Errorf("ZSCORE_THRESHOLD must be positive")
	}
	if c.Contamination <= 0 || c.Contamination >= 1 {
		return fmt.Errorf("CONTAMINATION must be between 0 and 1 exclusive")
	}
	if c.ForestTrees < 1 {
		return fmt.Errorf("FOREST_TREES must be at least 1")
	}
	switch c.ExportFormat {
	case "json", "csv", "txt":
	default:
		return fmt.Errorf("EXPORT_FORMAT must be json, csv or txt")
	}
	if c.GeoEnabled && c.GeoCachePath == "" {
		return fmt.Errorf("GEO_CACHE_PATH is required when GEO_ENABLED is set")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// parsePathList parses a semicolon-separated list of paths
func parsePathList(pathsStr string) []string {
	if pathsStr == "" {
		return nil
	}

	paths := strings.Split(pathsStr, ";")
	result := make([]string, 0, len(paths))

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
