package touch

// FilterConfig controls which contacts count as valid fingers.
type FilterConfig struct {
	// ExclusionZone drops contacts resting in the bottom band of the surface
	// (normalized Y below ExclusionZoneSize), typically a palm near the edge.
	ExclusionZone     bool
	ExclusionZoneSize float64

	// ContactSizeFilter drops contacts whose size metric exceeds
	// MaxContactSize (palm rejection).
	ContactSizeFilter bool
	MaxContactSize    float64
}

// Filter returns the contacts that survive the phase, exclusion-zone and
// contact-size filters. The filters are independent and additive. Pure
// function of its inputs.
func Filter(contacts []Contact, cfg FilterConfig) []Contact {
	valid := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if !c.Phase.Valid() {
			continue
		}
		if cfg.ExclusionZone && c.Y < cfg.ExclusionZoneSize {
			continue
		}
		if cfg.ContactSizeFilter && c.ZTotal > cfg.MaxContactSize {
			continue
		}
		valid = append(valid, c)
	}
	return valid
}
