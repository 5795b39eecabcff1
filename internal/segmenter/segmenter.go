package segmenter

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/scenes"
)

// Config controls a segmentation run
type Config struct {
	// SampleInterval is the adaptive strategy's sampling cadence in seconds
	SampleInterval float64
	// DiffThreshold is the luminance-difference score above which a cut is
	// emitted
	DiffThreshold float64
	// FixedSegment, when > 0, selects the fixed-interval strategy with
	// segments of this many seconds. Zero selects content-adaptive cuts.
	FixedSegment float64
	// MaxDimension caps the longest side of sampled frames and thumbnails
	MaxDimension int
	// ThumbnailQuality is the JPEG quality (1-100) for scene thumbnails
	ThumbnailQuality int
	// Progress, if set, receives monotonic 0-100 completion updates
	Progress ProgressFunc
}

// DefaultConfig returns the segmentation defaults
func DefaultConfig() Config {
	return Config{
		SampleInterval:   1.0,
		DiffThreshold:    18,
		FixedSegment:     0,
		MaxDimension:     480,
		ThumbnailQuality: 85,
	}
}

// Result is the complete output of a segmentation run. Diffs is empty for
// the fixed-interval strategy: that mode computes no difference signal,
// which is intentional, not an omission.
type Result struct {
	Scenes []scenes.Scene
	Diffs  []scenes.Diff
}

// Segmenter partitions a video timeline into scenes
type Segmenter struct {
	logger zerolog.Logger
	cfg    Config
}

// New creates a segmenter after validating the config
func New(logger zerolog.Logger, cfg Config) (*Segmenter, error) {
	if cfg.SampleInterval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", cfg.SampleInterval)
	}
	if cfg.DiffThreshold < 0 {
		return nil, fmt.Errorf("diff threshold must be non-negative, got %v", cfg.DiffThreshold)
	}
	if cfg.FixedSegment < 0 {
		return nil, fmt.Errorf("fixed segment length must be non-negative, got %v", cfg.FixedSegment)
	}
	if cfg.MaxDimension <= 0 {
		return nil, fmt.Errorf("max dimension must be positive, got %d", cfg.MaxDimension)
	}
	if cfg.ThumbnailQuality < 1 || cfg.ThumbnailQuality > 100 {
		return nil, fmt.Errorf("thumbnail quality must be in 1..100, got %d", cfg.ThumbnailQuality)
	}

	return &Segmenter{
		logger: logger.With().Str("component", "segmenter").Logger(),
		cfg:    cfg,
	}, nil
}

// Run segments the source's timeline into an ordered, contiguous scene
// list covering [0, duration] exactly. The source is closed on both the
// success and the failure path. Either a complete, boundary-consistent
// scene list is returned or a single terminal error; never a partial one.
func (s *Segmenter) Run(ctx context.Context, src Source) (*Result, error) {
	defer func() {
		if err := src.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close video source")
		}
	}()

	duration, err := src.Duration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read duration: %w", err)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return nil, ErrDurationUnknown
	}

	nativeW, nativeH, err := src.Bounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame bounds: %w", err)
	}
	// Output dimensions are computed once and reused for every capture
	width, height := fitDimensions(nativeW, nativeH, s.cfg.MaxDimension)

	s.logger.Info().
		Float64("duration", duration).
		Int("width", width).
		Int("height", height).
		Bool("fixed_interval", s.cfg.FixedSegment > 0).
		Msg("starting segmentation")

	progress := &progressReporter{fn: s.cfg.Progress}

	if s.cfg.FixedSegment > 0 {
		scs, err := s.fixedSegments(ctx, src, duration, width, height, progress)
		if err != nil {
			return nil, err
		}
		s.logger.Info().Int("scenes", len(scs)).Msg("fixed-interval segmentation complete")
		return &Result{Scenes: scs, Diffs: []scenes.Diff{}}, nil
	}

	frames, err := s.sampleFrames(ctx, src, duration, width, height, progress)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	diffs := scoreDiffs(frames)
	scs := detectCuts(frames, diffs, s.cfg.DiffThreshold, duration)
	if len(scs) == 0 {
		return nil, ErrNoFrames
	}

	s.logger.Info().
		Int("frames", len(frames)).
		Int("diffs", len(diffs)).
		Int("scenes", len(scs)).
		Msg("adaptive segmentation complete")

	return &Result{Scenes: scs, Diffs: diffs}, nil
}

// fitDimensions caps the longest side at max while preserving aspect ratio.
// Frames already within the bound keep their native size.
func fitDimensions(width, height, max int) (int, int) {
	if width <= 0 || height <= 0 {
		return max, max
	}
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= max {
		return width, height
	}

	scale := float64(max) / float64(longest)
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// progressReporter clamps progress to a monotonically non-decreasing
// 0-100 sequence for one run
type progressReporter struct {
	fn   ProgressFunc
	last int
}

func (p *progressReporter) report(percent int) {
	if p.fn == nil {
		return
	}
	if percent < p.last {
		percent = p.last
	}
	if percent > 100 {
		percent = 100
	}
	p.last = percent
	p.fn(percent)
}
