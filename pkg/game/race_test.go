package game

import (
	"testing"
	"time"

	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/geometry"
	"github.com/mpihlak/ebiten-racing/pkg/telemetry"
)

type recordingPublisher struct {
	frames []telemetry.Frame
}

func (p *recordingPublisher) Publish(f telemetry.Frame) bool {
	p.frames = append(p.frames, f)
	return true
}

// Helper function to create a race on the built-in circuit
func createTestRace(pub Publisher, publishEvery int) *Race {
	track := world.NewGeneratedTrack(ScreenWidth, ScreenHeight,
		&world.ColorClassifier{Surface: world.SurfaceColor}, world.SurfaceColor)
	return NewRace(track, objects.DefaultTuning(), TPS, pub, publishEvery)
}

var (
	onFinishLine  = geometry.Point{X: 600, Y: 725}
	offFinishLine = geometry.Point{X: 600, Y: 600}
)

func TestNewRace_StartPose(t *testing.T) {
	r := createTestRace(nil, 1)

	if r.Car.Pos != (geometry.Point{X: 600, Y: 600}) {
		t.Errorf("Expected car at (600, 600), got %v", r.Car.Pos)
	}
	if r.Car.Heading != -90 {
		t.Errorf("Expected heading -90, got %.1f", r.Car.Heading)
	}
	if r.Car.Speed != 0 || r.Tick != 0 || r.Laps.Laps != 0 {
		t.Errorf("Expected a fresh race, got speed %.1f tick %d laps %d", r.Car.Speed, r.Tick, r.Laps.Laps)
	}
	if r.SessionID == "" {
		t.Error("Expected a session id")
	}
	if terrain, ok := r.Track.TerrainAt(600, 600); !ok || terrain != world.Drivable {
		t.Error("Start position should be on the track")
	}
}

func TestRaceStep_AdvancesSimulationTime(t *testing.T) {
	r := createTestRace(nil, 1)

	for i := 0; i < 6; i++ {
		r.Step(objects.Input{Accel: 1})
	}

	if r.Tick != 6 {
		t.Errorf("Expected tick 6, got %d", r.Tick)
	}
	want := 6 * (time.Second / TPS)
	if r.Elapsed() != want {
		t.Errorf("Expected elapsed %v, got %v", want, r.Elapsed())
	}
	// 650 px/s^2 for a tenth of a second
	if r.Car.Speed < 64.99 || r.Car.Speed > 65.01 {
		t.Errorf("Expected speed ~65, got %.2f", r.Car.Speed)
	}
	if r.Car.Pos.Y >= 600 {
		t.Errorf("Car facing up should have moved up, y=%.2f", r.Car.Pos.Y)
	}
	if r.Car.OffTrack {
		t.Error("Car should still be on the track")
	}
}

func TestRaceStep_CountsLapOncePerEntry(t *testing.T) {
	r := createTestRace(nil, 1)

	steps := []struct {
		pos      geometry.Point
		wantLap  bool
		wantLaps int
	}{
		{offFinishLine, false, 0},
		{onFinishLine, true, 1},
		{onFinishLine, false, 1}, // parked on the line
		{onFinishLine, false, 1},
		{offFinishLine, false, 1},
		{onFinishLine, true, 2},
	}

	for i, s := range steps {
		r.Car.Pos = s.pos
		r.Car.Speed = 0
		lapped := r.Step(objects.Input{})
		if lapped != s.wantLap {
			t.Errorf("Step %d: expected lapped=%v, got %v", i, s.wantLap, lapped)
		}
		if r.Laps.Laps != s.wantLaps {
			t.Errorf("Step %d: expected %d laps, got %d", i, s.wantLaps, r.Laps.Laps)
		}
	}
}

func TestRaceStep_LapTimes(t *testing.T) {
	r := createTestRace(nil, 1)
	tick := time.Second / TPS

	park := func(pos geometry.Point, n int) {
		for i := 0; i < n; i++ {
			r.Car.Pos = pos
			r.Car.Speed = 0
			r.Step(objects.Input{})
		}
	}

	park(offFinishLine, 10)
	park(onFinishLine, 1) // tick 11 starts the clock

	if !r.Timer.Started() || r.Timer.Completed != 0 {
		t.Fatal("First crossing should start the clock without completing a lap")
	}

	park(offFinishLine, 29)
	park(onFinishLine, 1) // tick 41

	if r.Timer.Completed != 1 {
		t.Fatalf("Expected 1 completed lap, got %d", r.Timer.Completed)
	}
	if r.Timer.Last != 30*tick {
		t.Errorf("Expected lap time %v, got %v", 30*tick, r.Timer.Last)
	}

	park(offFinishLine, 9)
	park(onFinishLine, 1) // tick 51

	if r.Timer.Last != 10*tick {
		t.Errorf("Expected lap time %v, got %v", 10*tick, r.Timer.Last)
	}
	if r.Timer.Best != 10*tick {
		t.Errorf("Expected best lap %v, got %v", 10*tick, r.Timer.Best)
	}
}

func TestRaceStep_PublishCadence(t *testing.T) {
	pub := &recordingPublisher{}
	r := createTestRace(pub, 3)

	for i := 0; i < 6; i++ {
		r.Car.Pos = offFinishLine
		r.Step(objects.Input{})
	}

	if len(pub.frames) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(pub.frames))
	}
	if pub.frames[0].Tick != 3 || pub.frames[1].Tick != 6 {
		t.Errorf("Expected frames at ticks 3 and 6, got %d and %d", pub.frames[0].Tick, pub.frames[1].Tick)
	}
	for _, f := range pub.frames {
		if f.Event != "" {
			t.Errorf("Periodic frame should carry no event, got %q", f.Event)
		}
		if f.Session != r.SessionID {
			t.Errorf("Expected session %s, got %s", r.SessionID, f.Session)
		}
	}

	// A lap is published right away, off the cadence
	r.Car.Pos = onFinishLine
	r.Car.Speed = 0
	r.Step(objects.Input{})

	if len(pub.frames) != 3 {
		t.Fatalf("Expected lap frame, got %d frames", len(pub.frames))
	}
	lap := pub.frames[2]
	if lap.Event != telemetry.EventLap || lap.Tick != 7 || lap.Laps != 1 {
		t.Errorf("Unexpected lap frame: %+v", lap)
	}
}

func TestRaceFrame(t *testing.T) {
	r := createTestRace(nil, 1)
	r.Car.Speed = 100

	f := r.Frame("")

	if f.X != r.Car.Pos.X || f.Y != r.Car.Pos.Y || f.Heading != -90 {
		t.Errorf("Frame pose mismatch: %+v", f)
	}
	if f.SpeedKPH != 36 {
		t.Errorf("Expected 36 kph, got %d", f.SpeedKPH)
	}
	if f.CurrentLap != 0 || f.LastLap != 0 || f.BestLap != 0 {
		t.Errorf("Expected zero lap times before the first crossing: %+v", f)
	}
}

func TestNewRace_ClampsPublishEvery(t *testing.T) {
	pub := &recordingPublisher{}
	r := createTestRace(pub, 0)

	r.Car.Pos = offFinishLine
	r.Step(objects.Input{})

	if len(pub.frames) != 1 {
		t.Errorf("Expected a frame every tick, got %d frames", len(pub.frames))
	}
}

func TestGameRestart(t *testing.T) {
	pub := &recordingPublisher{}
	track := world.NewGeneratedTrack(ScreenWidth, ScreenHeight,
		&world.ColorClassifier{Surface: world.SurfaceColor}, world.SurfaceColor)
	g := NewGame(Options{
		Track:          track,
		Tuning:         objects.DefaultTuning(),
		Telemetry:      pub,
		TelemetryEvery: 1000,
	})

	oldSession := g.Race.SessionID
	for i := 0; i < 30; i++ {
		g.Race.Step(objects.Input{Accel: 1, Steer: 1})
	}

	g.restart()

	if g.Race.SessionID == oldSession {
		t.Error("Restart should start a new session")
	}
	if g.Race.Tick != 0 || g.Race.Car.Speed != 0 || g.Race.Car.Pos != (geometry.Point{X: 600, Y: 600}) {
		t.Errorf("Restart should reset the race, got tick %d pos %v", g.Race.Tick, g.Race.Car.Pos)
	}
	if g.Race.Track != track {
		t.Error("Restart should keep the track")
	}
	if g.Dashboard.Car != g.Race.Car {
		t.Error("Dashboard should follow the new car")
	}
	if !g.showRestartBanner {
		t.Error("Restart banner should be shown")
	}

	if len(pub.frames) != 1 {
		t.Fatalf("Expected only the restart frame, got %d", len(pub.frames))
	}
	if pub.frames[0].Event != telemetry.EventRestart || pub.frames[0].Session != g.Race.SessionID {
		t.Errorf("Unexpected restart frame: %+v", pub.frames[0])
	}
}
