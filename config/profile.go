package config

import (
	"fmt"
	"strings"

	"github.com/automoto/doomerang-levelgen/shared/gamemath"
)

// ProfileConfig mirrors gamemath.Profile with pointer fields so a missing key
// can be told apart from a zero value.
type ProfileConfig struct {
	RunSpeed           *float64   `yaml:"run_speed,omitempty"`
	Gravity            *float64   `yaml:"gravity,omitempty"`
	JumpVelocity       *float64   `yaml:"jump_velocity,omitempty"`
	SprintJumpVelocity *float64   `yaml:"sprint_jump_velocity,omitempty"`
	WallSlideSpeed     *float64   `yaml:"wall_slide_speed,omitempty"`
	WallJumpVelocity   *VecConfig `yaml:"wall_jump_velocity,omitempty"`
}

// VecConfig is a required two-component vector.
type VecConfig struct {
	X *float64 `yaml:"x,omitempty"`
	Y *float64 `yaml:"y,omitempty"`
}

// Missing lists the required profile keys that are absent.
func (p ProfileConfig) Missing() []string {
	var missing []string
	if p.RunSpeed == nil {
		missing = append(missing, "run_speed")
	}
	if p.Gravity == nil {
		missing = append(missing, "gravity")
	}
	if p.JumpVelocity == nil {
		missing = append(missing, "jump_velocity")
	}
	if p.WallSlideSpeed == nil {
		missing = append(missing, "wall_slide_speed")
	}
	switch {
	case p.WallJumpVelocity == nil:
		missing = append(missing, "wall_jump_velocity")
	default:
		if p.WallJumpVelocity.X == nil {
			missing = append(missing, "wall_jump_velocity.x")
		}
		if p.WallJumpVelocity.Y == nil {
			missing = append(missing, "wall_jump_velocity.y")
		}
	}
	return missing
}

// IsEmpty reports whether no profile key was set at all.
func (p ProfileConfig) IsEmpty() bool {
	return p.RunSpeed == nil && p.Gravity == nil && p.JumpVelocity == nil &&
		p.SprintJumpVelocity == nil && p.WallSlideSpeed == nil && p.WallJumpVelocity == nil
}

// Resolve converts the config into a validated gamemath.Profile.
func (p ProfileConfig) Resolve() (gamemath.Profile, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return gamemath.Profile{}, fmt.Errorf("%w: missing profile key(s): %s",
			gamemath.ErrInvalidProfile, strings.Join(missing, ", "))
	}
	profile := gamemath.Profile{
		RunSpeed:       *p.RunSpeed,
		Gravity:        *p.Gravity,
		JumpVelocity:   *p.JumpVelocity,
		WallSlideSpeed: *p.WallSlideSpeed,
		WallJumpVelocity: gamemath.Vec2{
			X: *p.WallJumpVelocity.X,
			Y: *p.WallJumpVelocity.Y,
		},
	}
	if p.SprintJumpVelocity != nil {
		profile.SprintJumpVelocity = *p.SprintJumpVelocity
	}
	if err := profile.Validate(); err != nil {
		return gamemath.Profile{}, err
	}
	return profile, nil
}

// ProfileFrom builds a ProfileConfig holding every field of p.
func ProfileFrom(p gamemath.Profile) ProfileConfig {
	f := func(v float64) *float64 { return &v }
	pc := ProfileConfig{
		RunSpeed:         f(p.RunSpeed),
		Gravity:          f(p.Gravity),
		JumpVelocity:     f(p.JumpVelocity),
		WallSlideSpeed:   f(p.WallSlideSpeed),
		WallJumpVelocity: &VecConfig{X: f(p.WallJumpVelocity.X), Y: f(p.WallJumpVelocity.Y)},
	}
	if p.SprintJumpVelocity != 0 {
		pc.SprintJumpVelocity = f(p.SprintJumpVelocity)
	}
	return pc
}
