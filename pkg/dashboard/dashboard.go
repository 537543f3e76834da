package dashboard

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
)

const (
	// Internal speed units (pixels per second) to km/h
	KPHPerUnit = 0.36

	HintText = "Arrows/WASD to drive, ESC to quit"

	textScale  = 1.5
	lineHeight = 26
	marginX    = 20
	marginY    = 20
)

var textColor = color.RGBA{240, 240, 240, 255}

type Dashboard struct {
	Car   *objects.Car
	Laps  *world.LapCounter
	Timer *world.LapTimer
	face  text.Face
}

func NewDashboard(car *objects.Car, laps *world.LapCounter, timer *world.LapTimer) *Dashboard {
	return &Dashboard{
		Car:   car,
		Laps:  laps,
		Timer: timer,
		face:  text.NewGoXFace(bitmapfont.Face),
	}
}

// SpeedKPH converts internal speed to whole km/h, truncated toward zero
func SpeedKPH(speed float64) int {
	return int(speed * KPHPerUnit)
}

// DisplayAngle truncates the heading to whole degrees in [0, 360)
func DisplayAngle(heading float64) int {
	a := int(heading) % 360
	if a < 0 {
		a += 360
	}
	return a
}

// FormatLap renders a lap time as m:ss.cc, or dashes when unknown
func FormatLap(d time.Duration) string {
	if d <= 0 {
		return "-:--.--"
	}
	cs := d.Milliseconds() / 10
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}

// Lines returns the HUD text, one entry per line. now is the simulation time.
func (d *Dashboard) Lines(now time.Duration) []string {
	lines := []string{
		fmt.Sprintf("Speed: %d kph   Angle: %d°   Laps: %d",
			SpeedKPH(d.Car.Speed), DisplayAngle(d.Car.Heading), d.Laps.Laps),
		HintText,
	}

	if d.Timer != nil {
		lines = append(lines, fmt.Sprintf("Lap: %s   Last: %s   Best: %s",
			FormatLap(d.Timer.Current(now)), FormatLap(d.Timer.Last), FormatLap(d.Timer.Best)))
	}

	return lines
}

func (d *Dashboard) Draw(screen *ebiten.Image, now time.Duration) {
	for i, line := range d.Lines(now) {
		op := &text.DrawOptions{}
		op.GeoM.Scale(textScale, textScale)
		op.GeoM.Translate(marginX, float64(marginY+i*lineHeight))
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, line, d.face, op)
	}

	// Off-track warning
	if d.Car.OffTrack {
		warning := "OFF TRACK"
		w := text.Advance(warning, d.face) * textScale
		x := float32(screen.Bounds().Dx()) - float32(w) - 30
		y := float32(marginY)

		vector.DrawFilledRect(screen, x-6, y-4, float32(w)+12, lineHeight, color.RGBA{200, 30, 30, 220}, false)

		op := &text.DrawOptions{}
		op.GeoM.Scale(textScale, textScale)
		op.GeoM.Translate(float64(x), float64(y))
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, warning, d.face, op)
	}
}
