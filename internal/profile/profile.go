package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional analyst-maintained YAML file overriding the
// detection knobs for a particular investigation. Only the keys present in
// the file take effect; everything else keeps its configured value.
type Profile struct {
	BucketWidthSeconds *int64   `yaml:"bucket_width_seconds"`
	ZScoreThreshold    *float64 `yaml:"zscore_threshold"`
	Contamination      *float64 `yaml:"contamination"`
	Trees              *int     `yaml:"trees"`
	SampleSize         *int     `yaml:"sample_size"`
	Seed               *int64   `yaml:"seed"`
}

// Load reads a profile file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return &p, nil
}
