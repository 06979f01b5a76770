package gamemath

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile is returned when a profile cannot describe a jump.
var ErrInvalidProfile = errors.New("invalid player profile")

// Vec2 is a pixel-space vector. +Y points down.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Profile holds the movement constants every generation and validation step
// derives its limits from. Velocities are pixels/second, gravity is
// pixels/second², negative Y velocity is upward.
type Profile struct {
	RunSpeed           float64 `yaml:"run_speed" json:"run_speed"`
	Gravity            float64 `yaml:"gravity" json:"gravity"`
	JumpVelocity       float64 `yaml:"jump_velocity" json:"jump_velocity"`
	SprintJumpVelocity float64 `yaml:"sprint_jump_velocity,omitempty" json:"sprint_jump_velocity,omitempty"`
	WallSlideSpeed     float64 `yaml:"wall_slide_speed" json:"wall_slide_speed"`
	WallJumpVelocity   Vec2    `yaml:"wall_jump_velocity" json:"wall_jump_velocity"`
}

// Validate checks the invariants the kinematics rely on.
func (p Profile) Validate() error {
	switch {
	case p.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive, got %v", ErrInvalidProfile, p.Gravity)
	case p.JumpVelocity >= 0:
		return fmt.Errorf("%w: jump_velocity must be negative, got %v", ErrInvalidProfile, p.JumpVelocity)
	case p.SprintJumpVelocity > 0:
		return fmt.Errorf("%w: sprint_jump_velocity must be negative, got %v", ErrInvalidProfile, p.SprintJumpVelocity)
	case p.RunSpeed <= 0:
		return fmt.Errorf("%w: run_speed must be positive, got %v", ErrInvalidProfile, p.RunSpeed)
	case p.WallSlideSpeed < 0:
		return fmt.Errorf("%w: wall_slide_speed must not be negative, got %v", ErrInvalidProfile, p.WallSlideSpeed)
	}
	return nil
}

// SprintJump returns the sprint jump velocity, falling back to the regular
// jump when none is configured.
func (p Profile) SprintJump() float64 {
	if p.SprintJumpVelocity != 0 {
		return p.SprintJumpVelocity
	}
	return p.JumpVelocity
}
