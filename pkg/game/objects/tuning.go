package objects

import "fmt"

// Tuning holds the car's performance limits. Speeds are in pixels per
// second, rates in pixels per second squared and steering in degrees per
// second. A Car copies its Tuning at construction and never changes it.
type Tuning struct {
	MaxSpeed   float64 `json:"max_speed"`
	MaxReverse float64 `json:"max_reverse"`
	AccelRate  float64 `json:"accel_rate"`
	BrakeRate  float64 `json:"brake_rate"`
	DragRate   float64 `json:"drag_rate"`
	SteerRate  float64 `json:"steer_rate"`

	// Steering is ignored at or below this absolute speed
	SteerDeadZone float64 `json:"steer_dead_zone"`
	// Lowest fraction of SteerRate available at low speed
	MinSteerFactor float64 `json:"min_steer_factor"`
	// Fraction of DragRate applied while the car is heading off the track
	OffTrackDragFactor float64 `json:"off_track_drag_factor"`

	SpriteWidth  float64 `json:"sprite_width"`
	SpriteHeight float64 `json:"sprite_height"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxSpeed:           420,
		MaxReverse:         160,
		AccelRate:          650,
		BrakeRate:          800,
		DragRate:           320,
		SteerRate:          190,
		SteerDeadZone:      5,
		MinSteerFactor:     0.2,
		OffTrackDragFactor: 0.3,
		SpriteWidth:        60,
		SpriteHeight:       30,
	}
}

// Validate checks that the tuning describes a drivable car
func (t Tuning) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"max_speed", t.MaxSpeed},
		{"accel_rate", t.AccelRate},
		{"brake_rate", t.BrakeRate},
		{"drag_rate", t.DragRate},
		{"steer_rate", t.SteerRate},
		{"sprite_width", t.SpriteWidth},
		{"sprite_height", t.SpriteHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("tuning validation: %s must be positive, got %g", p.name, p.value)
		}
	}

	if t.MaxReverse < 0 {
		return fmt.Errorf("tuning validation: max_reverse must not be negative, got %g", t.MaxReverse)
	}
	if t.SteerDeadZone < 0 {
		return fmt.Errorf("tuning validation: steer_dead_zone must not be negative, got %g", t.SteerDeadZone)
	}
	if t.MinSteerFactor <= 0 || t.MinSteerFactor > 1 {
		return fmt.Errorf("tuning validation: min_steer_factor must be in (0, 1], got %g", t.MinSteerFactor)
	}
	if t.OffTrackDragFactor < 0 {
		return fmt.Errorf("tuning validation: off_track_drag_factor must not be negative, got %g", t.OffTrackDragFactor)
	}

	return nil
}
