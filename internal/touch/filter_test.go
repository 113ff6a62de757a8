package touch

import (
	"math"
	"testing"
)

func TestFilterDropsInvalidPhases(t *testing.T) {
	contacts := []Contact{
		{ID: 0, X: 0.5, Y: 0.5, Phase: PhaseTouching},
		{ID: 1, X: 0.5, Y: 0.6, Phase: PhaseActive},
		{ID: 2, X: 0.5, Y: 0.7, Phase: PhaseHovering},
		{ID: 3, X: 0.5, Y: 0.8, Phase: PhaseLifting},
		{ID: 4, X: 0.5, Y: 0.9, Phase: PhaseNotTracking},
	}

	valid := Filter(contacts, FilterConfig{})
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid contacts, got %d", len(valid))
	}
	if valid[0].ID != 0 || valid[1].ID != 1 {
		t.Errorf("wrong contacts survived: %+v", valid)
	}
}

func TestFilterExclusionZone(t *testing.T) {
	contacts := []Contact{
		{ID: 0, X: 0.5, Y: 0.02, Phase: PhaseTouching}, // resting palm near edge
		{ID: 1, X: 0.5, Y: 0.05, Phase: PhaseTouching}, // exactly at the boundary
		{ID: 2, X: 0.5, Y: 0.50, Phase: PhaseTouching},
	}

	cfg := FilterConfig{ExclusionZone: true, ExclusionZoneSize: 0.05}
	valid := Filter(contacts, cfg)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid contacts, got %d", len(valid))
	}
	if valid[0].ID != 1 || valid[1].ID != 2 {
		t.Errorf("wrong contacts survived: %+v", valid)
	}

	// Disabled zone keeps everything.
	if got := len(Filter(contacts, FilterConfig{})); got != 3 {
		t.Errorf("expected 3 contacts with zone disabled, got %d", got)
	}
}

func TestFilterContactSize(t *testing.T) {
	contacts := []Contact{
		{ID: 0, X: 0.5, Y: 0.5, ZTotal: 1.0, Phase: PhaseTouching},
		{ID: 1, X: 0.5, Y: 0.5, ZTotal: 8.0, Phase: PhaseTouching}, // palm
	}

	cfg := FilterConfig{ContactSizeFilter: true, MaxContactSize: 5.0}
	valid := Filter(contacts, cfg)
	if len(valid) != 1 || valid[0].ID != 0 {
		t.Fatalf("expected only the small contact, got %+v", valid)
	}
}

func TestFiltersAreAdditive(t *testing.T) {
	contacts := []Contact{
		{ID: 0, X: 0.5, Y: 0.5, ZTotal: 1.0, Phase: PhaseTouching},
		{ID: 1, X: 0.5, Y: 0.01, ZTotal: 1.0, Phase: PhaseTouching}, // zone
		{ID: 2, X: 0.5, Y: 0.5, ZTotal: 9.0, Phase: PhaseTouching},  // size
		{ID: 3, X: 0.5, Y: 0.5, ZTotal: 1.0, Phase: PhaseHovering},  // phase
	}

	cfg := FilterConfig{
		ExclusionZone:     true,
		ExclusionZoneSize: 0.05,
		ContactSizeFilter: true,
		MaxContactSize:    5.0,
	}
	valid := Filter(contacts, cfg)
	if len(valid) != 1 || valid[0].ID != 0 {
		t.Fatalf("expected a single survivor, got %+v", valid)
	}
}

func TestCentroidOf(t *testing.T) {
	contacts := []Contact{
		{X: 0.2, Y: 0.4},
		{X: 0.4, Y: 0.8},
	}
	c := CentroidOf(contacts)
	if math.Abs(c.X-0.3) > 1e-9 || math.Abs(c.Y-0.6) > 1e-9 {
		t.Errorf("unexpected centroid %+v", c)
	}

	zero := CentroidOf(nil)
	if zero.X != 0 || zero.Y != 0 {
		t.Errorf("empty frame should give the zero point, got %+v", zero)
	}
}

func TestFrameCloneIsDeep(t *testing.T) {
	frame := Frame{Contacts: []Contact{{ID: 1, X: 0.5, Phase: PhaseTouching}}}
	clone := frame.Clone()
	frame.Contacts[0].X = 0.9
	if clone.Contacts[0].X != 0.5 {
		t.Error("clone shares the capture buffer with the original")
	}
}
