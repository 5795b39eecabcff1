package segmenter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/nfnt/resize"
)

// sampleFrames captures one frame per sampling interval across the whole
// timeline, strictly sequentially and in increasing timestamp order. The
// decode resource is single-seek-at-a-time, so the next capture is only
// issued after the previous one has returned. Any capture failure aborts
// the run: a coverage gap would invalidate downstream scene boundaries.
func (s *Segmenter) sampleFrames(ctx context.Context, src Source, duration float64, width, height int, progress *progressReporter) ([]Frame, error) {
	interval := s.cfg.SampleInterval
	// The epsilon keeps a final in-range sample from being dropped when
	// duration/interval lands just under a whole number (0.3/0.1 is
	// 2.999...).
	expected := int(math.Floor(duration/interval+1e-9)) + 1

	frames := make([]Frame, 0, expected)
	for i := 0; i < expected; i++ {
		// An in-flight capture always completes or fails before an abort
		// takes effect; cancellation is only observed between frames.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ts := float64(i) * interval
		frame, err := s.captureFrame(ctx, src, ts, width, height)
		if err != nil {
			return nil, err
		}
		frames = append(frames, *frame)

		progress.report(len(frames) * 100 / expected)
	}

	s.logger.Debug().
		Int("frames", len(frames)).
		Float64("interval", interval).
		Msg("frame sampling complete")

	return frames, nil
}

// captureFrame seeks, decodes, downscales to the run's fixed output
// dimensions and encodes the JPEG thumbnail for one timestamp
func (s *Segmenter) captureFrame(ctx context.Context, src Source, ts float64, width, height int) (*Frame, error) {
	native, err := src.Capture(ctx, ts)
	if err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			return nil, err
		}
		return nil, &DecodeError{Timestamp: ts, Err: err}
	}

	pixels := toRGBA(resize.Resize(uint(width), uint(height), native, resize.Lanczos3))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, pixels, &jpeg.Options{Quality: s.cfg.ThumbnailQuality}); err != nil {
		return nil, &DecodeError{Timestamp: ts, Err: err}
	}

	return &Frame{
		Time:      ts,
		Pixels:    pixels,
		Thumbnail: buf.Bytes(),
	}, nil
}

// toRGBA normalizes any image to a tightly packed RGBA buffer
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}
