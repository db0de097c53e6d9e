package billboard

import (
	"github.com/chewxy/math32"
)

const fadeEpsilon = 1e-4

// Fade evaluates the distance fade the billboard shader applies. lit is the
// blend from unlit (0) to fully lit (1); alpha is coverage, 0 meaning culled.
// It never panics and returns values in [0, 1] for finite input, including
// inverted configurations.
func Fade(dist float32, f FadeDistances) (lit, alpha float32) {
	litFrom := f.UnlitStart - f.FadeBuffer
	lit = 1 - clamp01((dist-litFrom)/math32.Max(f.FadeBuffer, fadeEpsilon))

	alpha = 1 - clamp01((dist-f.UnlitStart)/math32.Max(f.UnlitEnd-f.UnlitStart, fadeEpsilon))
	if dist >= f.UnlitEnd {
		alpha = 0
	}
	return lit, alpha
}

func clamp01(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}
