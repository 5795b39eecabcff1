package segmenter

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Source is the host decode-and-capture capability the engine consumes.
//
// Implementations are stateful and single-seek-at-a-time: the engine never
// issues a second Capture before the previous one returns. That ordering is
// guaranteed by the sequential driver loop, not by locking.
type Source interface {
	// Duration returns the media duration in seconds.
	Duration(ctx context.Context) (float64, error)

	// Bounds returns the native decoded frame dimensions.
	Bounds(ctx context.Context) (width, height int, err error)

	// Capture seeks to the timestamp and returns the decoded RGBA frame.
	// Failures are reported as *DecodeError.
	Capture(ctx context.Context, timestamp float64) (*image.RGBA, error)

	// Close releases the underlying decode resource.
	Close() error
}

// Frame is one sampled video frame. Pixels are released after scoring;
// Time and Thumbnail survive into the emitted scene list.
type Frame struct {
	Time      float64
	Pixels    *image.RGBA
	Thumbnail []byte
}

// ProgressFunc receives monotonic completion percentages (0-100)
type ProgressFunc func(percent int)

var (
	// ErrDurationUnknown means the source reported a non-finite or negative
	// duration. Fatal before any capture happens.
	ErrDurationUnknown = errors.New("video duration is unknown or invalid")

	// ErrNoFrames means sampling produced zero frames, which indicates a
	// degenerate (near-zero-length) input rather than a decode fault.
	ErrNoFrames = errors.New("no frames could be sampled from the video")
)

// DecodeError reports a failed capture. A single decode failure is fatal to
// the whole run: a thumbnail coverage gap would invalidate every boundary
// downstream, so no partial scene list is ever returned.
type DecodeError struct {
	Timestamp float64
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %.3fs: %v", e.Timestamp, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
