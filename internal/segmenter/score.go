package segmenter

import (
	"image"
	"math"

	"github.com/kikiluvv/scenecut/internal/scenes"
)

// ITU-R BT.601 luminance weights, alpha ignored
const (
	lumaRed   = 0.299
	lumaGreen = 0.587
	lumaBlue  = 0.114
)

// diffScore computes the mean absolute luminance difference between two
// frames of identical dimensions. Accumulation is sequential left-to-right
// in float64 so the score is bit-for-bit reproducible for the same inputs.
func diffScore(a, b *image.RGBA) float64 {
	w := a.Rect.Dx()
	h := a.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride:]
		rb := b.Pix[y*b.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			ya := lumaRed*float64(ra[i]) + lumaGreen*float64(ra[i+1]) + lumaBlue*float64(ra[i+2])
			yb := lumaRed*float64(rb[i]) + lumaGreen*float64(rb[i+1]) + lumaBlue*float64(rb[i+2])
			sum += math.Abs(ya - yb)
		}
	}

	return sum / float64(w*h)
}

// scoreDiffs produces one diff per consecutive frame pair, in strictly
// increasing frame order. Pixel buffers are released as soon as both of
// their scores are computed; only Time and Thumbnail survive the scoring
// phase.
func scoreDiffs(frames []Frame) []scenes.Diff {
	if len(frames) < 2 {
		if len(frames) == 1 {
			frames[0].Pixels = nil
		}
		return []scenes.Diff{}
	}

	diffs := make([]scenes.Diff, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		diffs = append(diffs, scenes.Diff{
			Time:       frames[i].Time,
			Score:      diffScore(frames[i-1].Pixels, frames[i].Pixels),
			FrameIndex: i,
		})
		frames[i-1].Pixels = nil
	}
	frames[len(frames)-1].Pixels = nil

	return diffs
}
