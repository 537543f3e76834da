package objects

import (
	"math"

	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/geometry"
)

// Input is one frame of driver intent. Accel is +1 throttle, -1 brake,
// 0 coast. Steer is -1 left, +1 right, 0 straight.
type Input struct {
	Accel int
	Steer int
}

// TerrainSampler reports the terrain under a pixel. ok is false when the
// pixel is outside the sampled area.
type TerrainSampler interface {
	TerrainAt(x, y int) (terrain world.Terrain, ok bool)
}

const (
	maxHistoryPoints = 50
	historySpacing   = 12.0 // pixels between trail points
)

type Car struct {
	Pos     geometry.Point
	Heading float64 // in degrees, 0 = +X, clockwise on screen
	Speed   float64 // signed, positive is forward
	// Whether the last Update applied the off-track penalty
	OffTrack bool
	// Recent positions, oldest first, for drawing a trail
	History []geometry.Point

	tuning Tuning
}

func NewCar(tuning Tuning, pos geometry.Point, heading float64) *Car {
	return &Car{
		Pos:     pos,
		Heading: heading,
		tuning:  tuning,
	}
}

func (c *Car) Tuning() Tuning {
	return c.tuning
}

func (c *Car) Forward() geometry.Point {
	return geometry.FromHeading(c.Heading)
}

// Update advances the car by dt seconds
func (c *Car) Update(dt float64, in Input, terrain TerrainSampler) {
	t := &c.tuning

	// Longitudinal
	switch {
	case in.Accel > 0:
		c.Speed += t.AccelRate * dt
	case in.Accel < 0:
		c.Speed -= t.BrakeRate * dt
	default:
		c.Speed = towardZero(c.Speed, t.DragRate*dt)
	}
	c.Speed = math.Max(-t.MaxReverse, math.Min(c.Speed, t.MaxSpeed))

	// Steering, reversed when going backwards
	if math.Abs(c.Speed) > t.SteerDeadZone {
		speedFactor := math.Max(t.MinSteerFactor, math.Min(1.0, math.Abs(c.Speed)/t.MaxSpeed))
		direction := 1.0
		if c.Speed < 0 {
			direction = -1.0
		}
		c.Heading += float64(in.Steer) * t.SteerRate * speedFactor * direction * dt
	}

	// Sample where the car is about to be. Outside the raster nothing is
	// sampled and the car coasts freely.
	forward := c.Forward()
	next := c.Pos.Add(forward.Scale(c.Speed * dt))
	c.OffTrack = false
	if terrain != nil {
		if kind, ok := terrain.TerrainAt(int(next.X), int(next.Y)); ok && kind != world.Drivable {
			c.Speed = towardZero(c.Speed, t.DragRate*t.OffTrackDragFactor*dt)
			c.OffTrack = true
		}
	}

	c.Pos = c.Pos.Add(forward.Scale(c.Speed * dt))

	c.recordHistory()
}

func (c *Car) recordHistory() {
	if n := len(c.History); n > 0 {
		last := c.History[n-1]
		if math.Hypot(c.Pos.X-last.X, c.Pos.Y-last.Y) < historySpacing {
			return
		}
	}

	c.History = append(c.History, c.Pos)
	if len(c.History) > maxHistoryPoints {
		c.History = c.History[1:]
	}
}

// SpriteTransform is what a renderer needs to draw the car sprite
type SpriteTransform struct {
	Center geometry.Point
	// Rotation in degrees, counter-clockwise positive, so -Heading
	Angle float64
}

func (c *Car) Transform() SpriteTransform {
	return SpriteTransform{
		Center: c.Pos,
		Angle:  -c.Heading,
	}
}

// Bounds is the axis aligned box around the rotated sprite
func (c *Car) Bounds() geometry.Rect {
	w, h := geometry.RotatedBounds(c.tuning.SpriteWidth, c.tuning.SpriteHeight, c.Heading)
	return geometry.CenteredRect(c.Pos, w, h)
}

// towardZero reduces |v| by amount without crossing zero
func towardZero(v, amount float64) float64 {
	switch {
	case v > 0:
		return math.Max(0, v-amount)
	case v < 0:
		return math.Min(0, v+amount)
	default:
		return 0
	}
}
