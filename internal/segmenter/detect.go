package segmenter

import (
	"github.com/kikiluvv/scenecut/internal/scenes"
)

// detectCuts partitions the sampled timeline into scenes with a single
// O(n) pass over the diff sequence. A diff at position idx scores the pair
// (frames[idx], frames[idx+1]); a score above the threshold closes the
// current scene at frames[idx+1].Time. The representative thumbnail is the
// midpoint frame of the span, which keeps it away from boundary frames
// that are often transition artifacts.
func detectCuts(frames []Frame, diffs []scenes.Diff, threshold float64, duration float64) []scenes.Scene {
	if len(frames) == 0 {
		return nil
	}

	var out []scenes.Scene
	start := 0

	for idx, d := range diffs {
		if d.Score <= threshold {
			continue
		}
		end := idx + 1
		out = append(out, scenes.Scene{
			ID:        len(out) + 1,
			Start:     frames[start].Time,
			End:       frames[end].Time,
			Thumbnail: frames[(start+end)/2].Thumbnail,
		})
		start = end
	}

	// Trailing scene runs to the true video end, not the last sample time.
	// Skipped when a cut landed exactly on a final sample at the duration;
	// an empty span would violate Start < End.
	if start < len(frames) && frames[start].Time < duration {
		out = append(out, scenes.Scene{
			ID:        len(out) + 1,
			Start:     frames[start].Time,
			End:       duration,
			Thumbnail: frames[(start+len(frames)-1)/2].Thumbnail,
		})
	}

	return out
}
