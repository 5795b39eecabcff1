package segmenter

import (
	"context"
	"math"

	"github.com/kikiluvv/scenecut/internal/scenes"
)

// midpointBackoff keeps midpoint seeks clear of end-of-stream, where many
// decoders fail to produce a frame. Tunable, not load-bearing.
const midpointBackoff = 0.1

// fixedSegments splits the timeline into equal-length segments and captures
// one representative frame per segment at its temporal midpoint. No
// difference scoring happens on this path; it trades boundary accuracy for
// speed and never depends on threshold tuning.
func (s *Segmenter) fixedSegments(ctx context.Context, src Source, duration float64, width, height int, progress *progressReporter) ([]scenes.Scene, error) {
	length := s.cfg.FixedSegment
	count := int(math.Ceil(duration / length))
	if count <= 0 {
		return nil, ErrNoFrames
	}

	out := make([]scenes.Scene, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := float64(i) * length
		end := math.Min(start+length, duration)

		// Seek point stays strictly inside the segment
		seek := (start + end) / 2
		if limit := duration - midpointBackoff; seek > limit {
			seek = limit
		}
		if seek < start {
			seek = start
		}

		frame, err := s.captureFrame(ctx, src, seek, width, height)
		if err != nil {
			return nil, err
		}

		out = append(out, scenes.Scene{
			ID:        i + 1,
			Start:     start,
			End:       end,
			Thumbnail: frame.Thumbnail,
		})

		progress.report((i + 1) * 100 / count)
	}

	return out, nil
}
