package gamemath

import "math"

// Jump describes the envelope of a single jump.
type Jump struct {
	MaxHeight          float64
	AirTime            float64
	HorizontalDistance float64
}

// MaxJump returns the envelope of a full jump at run speed.
func MaxJump(p Profile) Jump {
	v := p.JumpVelocity
	g := p.Gravity
	air := 2 * -v / g
	return Jump{
		MaxHeight:          v * v / (2 * g),
		AirTime:            air,
		HorizontalDistance: p.RunSpeed * air,
	}
}

// ComfortableJump scales the max jump by fraction. Height does not scale
// linearly with a shorter press in practice; this is an approximation.
func ComfortableJump(p Profile, fraction float64) Jump {
	j := MaxJump(p)
	return Jump{
		MaxHeight:          j.MaxHeight * fraction,
		AirTime:            j.AirTime * fraction,
		HorizontalDistance: j.HorizontalDistance * fraction,
	}
}

// CanTraverse reports whether a gap gapDistance wide whose landing is
// gapHeight pixels above the takeoff (negative = below) can be cleared.
func CanTraverse(p Profile, gapDistance, gapHeight float64) bool {
	if gapHeight > MaxJump(p).MaxHeight {
		return false
	}
	t, ok := landingTime(p.JumpVelocity, p.Gravity, -gapHeight)
	if !ok {
		return false
	}
	return gapDistance <= p.RunSpeed*t
}

// CanReach reports whether target is reachable from start with a running
// sprint jump. Offsets are pixels with +Y down.
func CanReach(p Profile, start, target Vec2) bool {
	dx := target.X - start.X
	dy := target.Y - start.Y
	vy := p.SprintJump()
	g := p.Gravity

	apex := -vy / g
	peak := vy*apex + 0.5*g*apex*apex
	if dy < peak {
		return false
	}
	t, ok := landingTime(vy, g, dy)
	if !ok {
		return false
	}
	return math.Abs(dx) <= p.RunSpeed*t
}

// Trajectory samples the jump arc from start toward target every step
// seconds. running selects the sprint jump and horizontal motion; a standing
// jump rises straight up. The last point is target. It returns nil when the
// target height is out of reach.
func Trajectory(p Profile, start, target Vec2, running bool, step float64) []Vec2 {
	if step <= 0 {
		step = 0.05
	}
	vx := 0.0
	vy := p.JumpVelocity
	if running {
		vx = p.RunSpeed * sign(target.X-start.X)
		vy = p.SprintJump()
	}
	g := p.Gravity

	flight, ok := landingTime(vy, g, target.Y-start.Y)
	if !ok {
		return nil
	}

	var points []Vec2
	for t := 0.0; t < flight; t += step {
		points = append(points, Vec2{
			X: math.Round(start.X + vx*t),
			Y: math.Round(start.Y + vy*t + 0.5*g*t*t),
		})
	}
	return append(points, target)
}

// landingTime solves dy = v·t + g·t²/2 for the later root. ok is false when
// the height is never reached or the root is not in the future.
func landingTime(v, g, dy float64) (float64, bool) {
	a := 0.5 * g
	disc := v*v + 4*a*dy
	if disc < 0 {
		return 0, false
	}
	t := (-v + math.Sqrt(disc)) / (2 * a)
	if t <= 0 {
		return 0, false
	}
	return t, true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
