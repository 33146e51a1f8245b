package interview

import "strings"

// Depth is a difficulty tier for questions on a skill.
type Depth string

const (
	DepthFoundation   Depth = "foundation"
	DepthIntermediate Depth = "intermediate"
	DepthAdvanced     Depth = "advanced"
)

// Scale is the ordered depth scale, easiest first.
var Scale = []Depth{DepthFoundation, DepthIntermediate, DepthAdvanced}

func (d Depth) String() string { return string(d) }

// Valid reports whether d is a member of the scale.
func (d Depth) Valid() bool {
	return d.index() >= 0
}

func (d Depth) index() int {
	for i, level := range Scale {
		if level == d {
			return i
		}
	}
	return -1
}

// NormalizeLevel converts a free-text skill depth label (for example "Beginner")
// into a member of the question depth scale. Unknown labels map to foundation.
func NormalizeLevel(label string) Depth {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "beginner", "foundation":
		return DepthFoundation
	case "intermediate":
		return DepthIntermediate
	case "advanced":
		return DepthAdvanced
	default:
		return DepthFoundation
	}
}

// NextLevel moves one step up the scale on a strong verdict and one step down on a
// weak verdict, staying within bounds. Any other verdict keeps the current level.
// Verdicts are matched exactly.
func NextLevel(current Depth, verdict Quality) Depth {
	idx := NormalizeLevel(string(current)).index()

	switch {
	case verdict == QualityStrong && idx < len(Scale)-1:
		return Scale[idx+1]
	case verdict == QualityWeak && idx > 0:
		return Scale[idx-1]
	default:
		return Scale[idx]
	}
}
