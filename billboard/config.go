package billboard

// FadeDistances control lighting and visibility by camera distance, in meters.
// Points are lit up to UnlitStart-FadeBuffer, fade from lit to unlit over
// FadeBuffer, then fade out and are culled by UnlitEnd.
// UnlitStart <= UnlitEnd is expected but not enforced; an inverted pair
// gives an unspecified (but finite) fade.
type FadeDistances struct {
	FadeBuffer float32
	UnlitStart float32
	UnlitEnd   float32
}

func (f FadeDistances) Inverted() bool {
	return f.UnlitStart > f.UnlitEnd
}

type Config struct {
	Program Program

	// PointSize is the billboard edge length in world meters.
	PointSize float32
	Fade      FadeDistances

	// Layer is the object's layer; cameras whose culling mask lacks it skip
	// the draw.
	Layer uint

	// DebugPoint substitutes one red point at the origin when no cloud was set.
	DebugPoint bool

	SkipEditorCameras bool
}

func DefaultConfig() Config {
	return Config{
		PointSize: 1.0,
		Fade: FadeDistances{
			FadeBuffer: 1.0,
			UnlitStart: 7.0,
			UnlitEnd:   20.0,
		},
		DebugPoint: true,
	}
}
