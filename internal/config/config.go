package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir string `yaml:"work_dir"`

	// Segmentation settings
	Segment SegmentConfig `yaml:"segment"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Annotation settings
	Annotate AnnotateConfig `yaml:"annotate"`
}

type SegmentConfig struct {
	SampleInterval   float64 `yaml:"sample_interval"`
	DiffThreshold    float64 `yaml:"diff_threshold"`
	FixedSegment     float64 `yaml:"fixed_segment"`
	MaxDimension     int     `yaml:"max_dimension"`
	ThumbnailQuality int     `yaml:"thumbnail_quality"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
}

type AnnotateConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Prompt  string `yaml:"prompt"`
}

// Load reads the config at path, falling back to the search locations and
// finally to defaults. Values absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: "./work",
		Segment: SegmentConfig{
			SampleInterval:   1.0,
			DiffThreshold:    18,
			FixedSegment:     0,
			MaxDimension:     480,
			ThumbnailQuality: 85,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
		},
		Annotate: AnnotateConfig{
			Model:  "gpt-4o-mini",
			Prompt: "Describe this video scene in one short sentence.",
		},
	}
}

// findConfigFile checks the working directory first, then the per-user
// location under the home directory
func findConfigFile() string {
	candidates := []string{"config.yaml", "config.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".scenecut", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
