package dashboard

import (
	"testing"
	"time"

	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/geometry"
)

// Helper to create test dashboard
func createTestDashboard() *Dashboard {
	car := objects.NewCar(objects.DefaultTuning(), geometry.Point{X: 600, Y: 600}, -90)
	return &Dashboard{
		Car:   car,
		Laps:  &world.LapCounter{},
		Timer: &world.LapTimer{},
	}
}

func TestSpeedKPH(t *testing.T) {
	tests := []struct {
		speed float64
		want  int
	}{
		{0, 0},
		{420, 151},    // 151.2
		{100, 36},     // 36.0
		{2.7, 0},      // 0.972
		{-160, -57},   // -57.6 truncates toward zero
		{-2.7, 0},     // -0.972
		{277.78, 100}, // 100.0008
	}

	for _, tt := range tests {
		if got := SpeedKPH(tt.speed); got != tt.want {
			t.Errorf("SpeedKPH(%.2f) = %d, expected %d", tt.speed, got, tt.want)
		}
	}
}

func TestDisplayAngle(t *testing.T) {
	tests := []struct {
		heading float64
		want    int
	}{
		{0, 0},
		{-90, 270},
		{-90.7, 270}, // truncates to -90 first
		{359.9, 359},
		{360, 0},
		{725.5, 5},
		{-360, 0},
		{-1, 359},
	}

	for _, tt := range tests {
		if got := DisplayAngle(tt.heading); got != tt.want {
			t.Errorf("DisplayAngle(%.1f) = %d, expected %d", tt.heading, got, tt.want)
		}
	}
}

func TestFormatLap(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "-:--.--"},
		{65*time.Second + 320*time.Millisecond, "1:05.32"},
		{9*time.Second + 5*time.Millisecond, "0:09.00"},
		{10 * time.Minute, "10:00.00"},
	}

	for _, tt := range tests {
		if got := FormatLap(tt.d); got != tt.want {
			t.Errorf("FormatLap(%v) = %q, expected %q", tt.d, got, tt.want)
		}
	}
}

func TestLines_StartState(t *testing.T) {
	dash := createTestDashboard()

	lines := dash.Lines(0)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 HUD lines, got %d", len(lines))
	}

	if lines[0] != "Speed: 0 kph   Angle: 270°   Laps: 0" {
		t.Errorf("Unexpected status line %q", lines[0])
	}
	if lines[1] != HintText {
		t.Errorf("Expected hint line, got %q", lines[1])
	}
	if lines[2] != "Lap: -:--.--   Last: -:--.--   Best: -:--.--" {
		t.Errorf("Unexpected lap line %q", lines[2])
	}
}

func TestLines_Racing(t *testing.T) {
	dash := createTestDashboard()
	dash.Car.Speed = 300
	dash.Car.Heading = 12.8
	dash.Laps.Observe(true)
	dash.Laps.Observe(false)
	dash.Laps.Observe(true)

	dash.Timer.Mark(10 * time.Second)
	dash.Timer.Mark(72500 * time.Millisecond)

	lines := dash.Lines(80 * time.Second)

	if lines[0] != "Speed: 108 kph   Angle: 12°   Laps: 2" {
		t.Errorf("Unexpected status line %q", lines[0])
	}
	if lines[2] != "Lap: 0:07.50   Last: 1:02.50   Best: 1:02.50" {
		t.Errorf("Unexpected lap line %q", lines[2])
	}
}

func TestLines_NoTimer(t *testing.T) {
	dash := createTestDashboard()
	dash.Timer = nil

	if n := len(dash.Lines(0)); n != 2 {
		t.Errorf("Expected 2 lines without a lap timer, got %d", n)
	}
}
