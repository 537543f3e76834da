package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/mpihlak/ebiten-racing/pkg/dashboard"
	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/geometry"
	"github.com/mpihlak/ebiten-racing/pkg/telemetry"
)

// Publisher receives telemetry frames. Publish must not block.
type Publisher interface {
	Publish(f telemetry.Frame) bool
}

// Race is the simulation for one session: the car, the track and the lap
// bookkeeping. It has no graphics state.
type Race struct {
	SessionID string
	Car       *objects.Car
	Track     *world.Track
	Laps      *world.LapCounter
	Timer     *world.LapTimer
	Tick      int64

	tickDuration time.Duration
	telemetry    Publisher
	publishEvery int64
}

// StartPose is where every session begins: bottom half of the screen,
// facing up.
func StartPose(width, height int) (geometry.Point, float64) {
	return geometry.Point{X: float64(width) * 0.5, Y: float64(height) * 0.75}, -90
}

func NewRace(track *world.Track, tuning objects.Tuning, tps int, pub Publisher, publishEvery int) *Race {
	pos, heading := StartPose(track.Width(), track.Height())
	if publishEvery < 1 {
		publishEvery = 1
	}

	return &Race{
		SessionID:    uuid.NewString(),
		Car:          objects.NewCar(tuning, pos, heading),
		Track:        track,
		Laps:         &world.LapCounter{},
		Timer:        &world.LapTimer{},
		tickDuration: time.Second / time.Duration(tps),
		telemetry:    pub,
		publishEvery: int64(publishEvery),
	}
}

// Elapsed is the simulation time, which only advances while stepping
func (r *Race) Elapsed() time.Duration {
	return time.Duration(r.Tick) * r.tickDuration
}

// Step runs one tick: physics, then lap detection, then telemetry. It
// reports whether a lap was counted.
func (r *Race) Step(in objects.Input) bool {
	r.Tick++
	r.Car.Update(r.tickDuration.Seconds(), in, r.Track)

	lapped := r.Laps.Observe(r.Car.Bounds().Intersects(r.Track.FinishZone))
	if lapped {
		r.Timer.Mark(r.Elapsed())
	}

	switch {
	case lapped:
		r.publish(telemetry.EventLap)
	case r.Tick%r.publishEvery == 0:
		r.publish("")
	}

	return lapped
}

// Frame snapshots the race for telemetry
func (r *Race) Frame(event string) telemetry.Frame {
	now := r.Elapsed()
	return telemetry.Frame{
		Session:    r.SessionID,
		Tick:       r.Tick,
		X:          r.Car.Pos.X,
		Y:          r.Car.Pos.Y,
		Heading:    r.Car.Heading,
		Speed:      r.Car.Speed,
		SpeedKPH:   dashboard.SpeedKPH(r.Car.Speed),
		Laps:       r.Laps.Laps,
		OffTrack:   r.Car.OffTrack,
		CurrentLap: r.Timer.Current(now).Seconds(),
		LastLap:    r.Timer.Last.Seconds(),
		BestLap:    r.Timer.Best.Seconds(),
		Event:      event,
	}
}

func (r *Race) publish(event string) {
	if r.telemetry == nil {
		return
	}
	r.telemetry.Publish(r.Frame(event))
}
