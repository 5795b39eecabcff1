package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Segment.SampleInterval != 1.0 {
		t.Errorf("default sample interval = %v", cfg.Segment.SampleInterval)
	}
	if cfg.Segment.DiffThreshold != 18 {
		t.Errorf("default diff threshold = %v", cfg.Segment.DiffThreshold)
	}
	if cfg.Segment.FixedSegment != 0 {
		t.Errorf("fixed segment should default to disabled, got %v", cfg.Segment.FixedSegment)
	}
	if cfg.Segment.MaxDimension != 480 {
		t.Errorf("default max dimension = %d", cfg.Segment.MaxDimension)
	}
	if cfg.FFmpeg.BinaryPath != "ffmpeg" {
		t.Errorf("default ffmpeg path = %q", cfg.FFmpeg.BinaryPath)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Segment.SampleInterval = 0.5
	cfg.Segment.FixedSegment = 30
	cfg.Annotate.Model = "gpt-4o"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Segment.SampleInterval != 0.5 {
		t.Errorf("sample interval = %v after round trip", loaded.Segment.SampleInterval)
	}
	if loaded.Segment.FixedSegment != 30 {
		t.Errorf("fixed segment = %v after round trip", loaded.Segment.FixedSegment)
	}
	if loaded.Annotate.Model != "gpt-4o" {
		t.Errorf("annotate model = %q after round trip", loaded.Annotate.Model)
	}
}

func TestSaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "config.yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := Load(path); err != nil {
		t.Errorf("reload from nested dir failed: %v", err)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("segment: [not a mapping"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestContextCarry(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
	cfg.WorkDir = "/tmp/segtest"

	ctx := WithConfig(context.Background(), cfg)
	got := FromContext(ctx)
	if got.WorkDir != "/tmp/segtest" {
		t.Errorf("FromContext returned wrong config: %q", got.WorkDir)
	}

	// Missing config falls back to defaults
	fallback := FromContext(context.Background())
	if fallback.Segment.SampleInterval != 1.0 {
		t.Errorf("fallback config wrong: %v", fallback.Segment.SampleInterval)
	}
}
