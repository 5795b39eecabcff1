package ffmpeg

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/scenecut/internal/segmenter"
	"github.com/kikiluvv/scenecut/pkg/util"
)

// endSeekBackoff keeps seeks clear of the container's reported duration.
// The last frame's pts is duration minus one frame interval, so a seek to
// exactly t = duration decodes nothing and the run would abort on a valid
// video.
const endSeekBackoff = 0.1

// VideoSource adapts a video file to the segmenter's capture contract.
// Each capture spawns one decode; seeks are issued strictly sequentially
// by the caller, matching the single-seek-at-a-time contract.
type VideoSource struct {
	logger zerolog.Logger
	exec   *Executor
	path   string
	info   *VideoInfo
}

// OpenVideo probes the file once and returns a capture source for it
func OpenVideo(ctx context.Context, logger zerolog.Logger, exec *Executor, path string) (*VideoSource, error) {
	info, err := exec.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}

	return &VideoSource{
		logger: logger.With().Str("component", "video-source").Logger(),
		exec:   exec,
		path:   path,
		info:   info,
	}, nil
}

// Info returns the probed metadata
func (v *VideoSource) Info() *VideoInfo {
	return v.info
}

// Duration returns the media duration in seconds
func (v *VideoSource) Duration(ctx context.Context) (float64, error) {
	if v.info.Duration <= 0 {
		return 0, segmenter.ErrDurationUnknown
	}
	return v.info.Duration, nil
}

// Bounds returns the native decoded frame dimensions
func (v *VideoSource) Bounds(ctx context.Context) (int, int, error) {
	return v.info.Width, v.info.Height, nil
}

// Capture seeks to the timestamp and decodes one frame as raw RGBA.
// Seeks at or past the last frame's pts are clamped so a capture at
// t = duration yields the final frame instead of an empty decode; the
// caller's timestamp is still the one reported on any error.
func (v *VideoSource) Capture(ctx context.Context, timestamp float64) (*image.RGBA, error) {
	seek := timestamp
	if v.info.Duration > 0 {
		if limit := v.info.Duration - endSeekBackoff; seek > limit {
			seek = limit
		}
		if seek < 0 {
			seek = 0
		}
	}

	args := []string{
		"-ss", util.FormatSeconds(seek),
		"-i", v.path,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}

	raw, err := v.exec.Output(ctx, args)
	if err != nil {
		return nil, &segmenter.DecodeError{Timestamp: timestamp, Err: err}
	}

	want := v.info.Width * v.info.Height * 4
	if len(raw) != want {
		return nil, &segmenter.DecodeError{
			Timestamp: timestamp,
			Err:       fmt.Errorf("short frame: got %d bytes, want %d", len(raw), want),
		}
	}

	return &image.RGBA{
		Pix:    raw,
		Stride: v.info.Width * 4,
		Rect:   image.Rect(0, 0, v.info.Width, v.info.Height),
	}, nil
}

// Close releases the source. The decoder is per-capture, so there is no
// long-lived process to tear down.
func (v *VideoSource) Close() error {
	v.logger.Debug().Str("path", v.path).Msg("video source closed")
	return nil
}
