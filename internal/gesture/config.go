// Package gesture implements the three-finger tap/drag recognizer: a
// deterministic per-frame state machine over filtered touch contacts, plus
// the sensitivity-scaled drag delta calculation.
package gesture

import (
	"time"

	"tridrag/internal/touch"
)

// Configuration is the immutable-per-frame snapshot of gesture settings.
// It is owned by the caller; the recognizer treats it as read-only input.
type Configuration struct {
	// Sensitivity scales the emitted drag delta.
	Sensitivity float64 `json:"sensitivity"`

	// Smoothing is the exponential moving average factor applied to the
	// centroid while a session is active. Zero disables smoothing.
	Smoothing float64 `json:"smoothing"`

	// TapThreshold is the longest press that still counts as a tap.
	TapThreshold time.Duration `json:"tap_threshold"`

	// MaxTapHoldDuration caps how long fingers may rest before a lift no
	// longer produces a tap. Zero means no cap.
	MaxTapHoldDuration time.Duration `json:"max_tap_hold_duration"`

	// MoveThreshold is the centroid displacement that turns a possible tap
	// into a drag.
	MoveThreshold float64 `json:"move_threshold"`

	// ExclusionZone drops contacts in the bottom band of the surface.
	ExclusionZone     bool    `json:"exclusion_zone"`
	ExclusionZoneSize float64 `json:"exclusion_zone_size,omitempty"`

	// RequireModifierKey gates all gestures on ModifierKey being held.
	RequireModifierKey bool           `json:"require_modifier_key"`
	ModifierKey        touch.Modifier `json:"modifier_key,omitempty"`

	// ContactSizeFilter drops contacts larger than MaxContactSize.
	ContactSizeFilter bool    `json:"contact_size_filter"`
	MaxContactSize    float64 `json:"max_contact_size,omitempty"`

	// AllowReliftDuringDrag keeps a drag alive when one finger briefly
	// lifts, leaving two.
	AllowReliftDuringDrag bool `json:"allow_relift_during_drag"`

	// VelocityBoost raises the effective sensitivity with centroid speed,
	// saturating at Sensitivity * (1 + MaxVelocityBoost/2).
	VelocityBoost    bool    `json:"velocity_boost"`
	MaxVelocityBoost float64 `json:"max_velocity_boost,omitempty"`
}

// DefaultConfiguration returns a Configuration with sensible defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		Sensitivity:           1.0,
		TapThreshold:          300 * time.Millisecond,
		MaxTapHoldDuration:    time.Second,
		MoveThreshold:         0.01,
		ExclusionZone:         true,
		ExclusionZoneSize:     0.05,
		ContactSizeFilter:     true,
		MaxContactSize:        5.0,
		AllowReliftDuringDrag: true,
		VelocityBoost:         false,
		MaxVelocityBoost:      1.0,
	}
}

// FilterConfig returns the contact-filter settings embedded in the
// configuration.
func (c Configuration) FilterConfig() touch.FilterConfig {
	return touch.FilterConfig{
		ExclusionZone:     c.ExclusionZone,
		ExclusionZoneSize: c.ExclusionZoneSize,
		ContactSizeFilter: c.ContactSizeFilter,
		MaxContactSize:    c.MaxContactSize,
	}
}

// ModifierSatisfied reports whether the configured modifier requirement is
// met by the held modifier set.
func (c Configuration) ModifierSatisfied(held touch.Modifier) bool {
	if !c.RequireModifierKey {
		return true
	}
	return held.Has(c.ModifierKey)
}
