package movement

import (
	"math"
	"testing"
)

func TestAvoidanceWeight_Clamped(t *testing.T) {
	cases := []struct {
		count int
		want  float64
	}{
		{0, 0}, {1, 0.2}, {2, 0.4}, {3, 0.6}, {4, 0.8}, {5, 0.8}, {100, 0.8},
	}
	for _, c := range cases {
		if got := avoidanceWeight(c.count); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("avoidanceWeight(%d) = %v, want %v", c.count, got, c.want)
		}
	}
	// The clamp must be exact, not approximate.
	if avoidanceWeight(4) != 0.8 {
		t.Fatal("weight at count 4 must be exactly 0.8")
	}
}

func TestDensityAt_ExcludesSelf(t *testing.T) {
	s := NewSpatialIndex(4)
	s.UpdateEntity("me", Position{})
	if got := densityAt(s, "me", Position{}, 3); got != 0 {
		t.Fatalf("a lone indexed member should see zero obstacles, got %d", got)
	}
	s.UpdateEntity("other", Position{X: 1, Y: 0})
	if got := densityAt(s, "me", Position{}, 3); got != 1 {
		t.Fatalf("expected 1 obstacle, got %d", got)
	}
}

func TestSteerAway_PicksLeastCrowdedDirection(t *testing.T) {
	s := NewSpatialIndex(4)
	radius := 3.0
	// Crowd every probe point except due-west.
	for i, dir := range steerDirs {
		if dir == (Position{X: -1, Y: 0}) {
			continue
		}
		probe := dir.Scale(radius)
		s.UpdateEntity(string(rune('a'+i)), probe)
	}

	best := steerAway(s, "me", Position{}, radius)
	if best != (Position{X: -1, Y: 0}) {
		t.Fatalf("expected west escape, got %v", best)
	}
}

func TestSteerAway_TieGoesToFirstDirection(t *testing.T) {
	s := NewSpatialIndex(4)
	// Empty index: every direction counts zero, so the first scanned
	// direction (east) must win.
	best := steerAway(s, "me", Position{}, 3)
	if best != (Position{X: 1, Y: 0}) {
		t.Fatalf("density tie should go to east, got %v", best)
	}
}

func TestAvoidStep_NeverExceedsSpeed(t *testing.T) {
	s := NewSpatialIndex(4)
	s.UpdateEntity("me", Position{})
	for i := 0; i < 6; i++ {
		s.UpdateEntity(string(rune('a'+i)), Position{X: 0.5 + float64(i)*0.1, Y: 0})
	}

	speed := 2.0
	count := densityAt(s, "me", Position{}, 3)
	if count < 4 {
		t.Fatalf("setup should yield at least 4 obstacles, got %d", count)
	}
	step := avoidStep(s, "me", Position{}, Position{X: 100, Y: 0}, speed, count, 3)
	if step.Len() > speed+1e-9 {
		t.Fatalf("blended step length %.4f exceeds speed %.1f", step.Len(), speed)
	}
}

func TestAvoidStep_BlendWeights(t *testing.T) {
	s := NewSpatialIndex(4)
	// One obstacle: weight 0.2, escape direction east (tie on an
	// otherwise-empty probe ring).
	s.UpdateEntity("me", Position{})

	target := Position{X: 0, Y: 100}
	speed := 1.0
	step := avoidStep(s, "me", Position{}, target, speed, 1, 3)

	// base = (0,1), escape = (1,0): expect (0.2, 0.8).
	if math.Abs(step.X-0.2) > 1e-9 || math.Abs(step.Y-0.8) > 1e-9 {
		t.Fatalf("expected blended step (0.2,0.8), got (%v,%v)", step.X, step.Y)
	}
}
