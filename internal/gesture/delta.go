package gesture

import (
	"math"

	"tridrag/internal/touch"
)

const (
	// largeJumpThreshold is the per-axis centroid displacement treated as a
	// tracking artifact rather than finger movement, in normalized units.
	largeJumpThreshold = 0.03

	// boostSaturationSpeed is the centroid speed at which velocity boost
	// reaches its maximum, in normalized units per second.
	boostSaturationSpeed = 5.0
)

// exceedsJump reports whether a displacement looks like a tracking artifact.
func exceedsJump(dx, dy float64) bool {
	return math.Abs(dx) > largeJumpThreshold || math.Abs(dy) > largeJumpThreshold
}

// EffectiveSensitivity returns the sensitivity to apply for the given
// centroid velocity. With velocity boost disabled it is the configured
// sensitivity unchanged; with boost enabled it ramps linearly with speed and
// saturates at Sensitivity * (1 + MaxVelocityBoost/2).
func EffectiveSensitivity(velocity touch.Point, cfg Configuration) float64 {
	if !cfg.VelocityBoost {
		return cfg.Sensitivity
	}
	speed := math.Hypot(velocity.X, velocity.Y)
	factor := speed / boostSaturationSpeed
	if factor > 1 {
		factor = 1
	}
	return cfg.Sensitivity * (1 + cfg.MaxVelocityBoost*0.5*factor)
}

// FrameDelta converts one frame's drag data into a pointer delta. Large
// single-frame jumps return a zero delta; the recognizer already resets its
// reference on such jumps, this is an independent guard for direct callers.
func FrameDelta(data Data, cfg Configuration) (dx, dy float64) {
	rawX := data.Centroid.X - data.LastPosition.X
	rawY := data.Centroid.Y - data.LastPosition.Y
	if exceedsJump(rawX, rawY) {
		return 0, 0
	}
	s := EffectiveSensitivity(data.Velocity, cfg)
	return rawX * s, rawY * s
}
