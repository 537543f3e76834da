package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mpihlak/ebiten-racing/pkg/dashboard"
	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/telemetry"
)

const (
	ScreenWidth  = 1200
	ScreenHeight = 800
	TPS          = 60

	restartBannerDuration = 2 * time.Second
)

// Options are fixed for the lifetime of the process and reused on restart
type Options struct {
	Track          *world.Track
	Tuning         objects.Tuning
	Telemetry      Publisher // may be nil
	TelemetryEvery int
}

type GameState struct {
	Race      *Race
	Dashboard *dashboard.Dashboard

	opts     Options
	isPaused bool

	mobileControls *MobileControls
	keys           KeyState

	// Created on first Draw, ebiten images need a running graphics driver
	trackImage *ebiten.Image
	carSprite  *ebiten.Image

	showRestartBanner bool
	restartBannerTime time.Time
}

func NewGame(opts Options) *GameState {
	race := NewRace(opts.Track, opts.Tuning, TPS, opts.Telemetry, opts.TelemetryEvery)
	mc := NewMobileControls(ScreenWidth, ScreenHeight)

	return &GameState{
		Race:           race,
		Dashboard:      dashboard.NewDashboard(race.Car, race.Laps, race.Timer),
		opts:           opts,
		mobileControls: mc,
		keys:           Combine(ebiten.IsKeyPressed, mc.Pressed),
	}
}

// restart starts a new session on the same track, keeping loaded images
func (g *GameState) restart() {
	trackImage, carSprite := g.trackImage, g.carSprite
	*g = *NewGame(g.opts)
	g.trackImage, g.carSprite = trackImage, carSprite

	g.showRestartBanner = true
	g.restartBannerTime = time.Now()
	g.Race.publish(telemetry.EventRestart)
}

func (g *GameState) Update() error {
	mobileInput := g.mobileControls.Update()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if IsWASM() {
			// Nothing to quit to in the browser
			g.isPaused = true
			return nil
		}
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) || mobileInput.RestartPressed {
		g.restart()
		return nil
	}

	pauseTogglePressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) || mobileInput.PausePressed

	// On mobile, any touch outside the buttons resumes
	if g.isPaused && g.mobileControls.hasTouchInput {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			x, y := ebiten.TouchPosition(id)
			if !g.mobileControls.OnButton(x, y) {
				pauseTogglePressed = true
				break
			}
		}
	}

	if pauseTogglePressed {
		g.isPaused = !g.isPaused
	}

	if g.isPaused {
		return nil
	}

	if g.showRestartBanner && time.Since(g.restartBannerTime) > restartBannerDuration {
		g.showRestartBanner = false
	}

	// Input is sampled before physics, and Draw always follows a full Step
	g.Race.Step(MapKeys(g.keys))

	return nil
}

func (g *GameState) Draw(screen *ebiten.Image) {
	if g.trackImage == nil {
		g.trackImage = ebiten.NewImageFromImage(g.Race.Track.Image())
	}
	if g.carSprite == nil {
		t := g.Race.Car.Tuning()
		g.carSprite = newCarSprite(int(t.SpriteWidth), int(t.SpriteHeight))
	}

	screen.DrawImage(g.trackImage, nil)
	drawFinishLine(screen, g.Race.Track)
	drawTrail(screen, g.Race.Car)
	drawCar(screen, g.carSprite, g.Race.Car.Transform())

	g.Dashboard.Draw(screen, g.Race.Elapsed())
	g.mobileControls.Draw(screen, g.isPaused)

	if g.showRestartBanner {
		g.drawBanner(screen, "*** RESTARTED ***")
	}

	if g.isPaused {
		g.drawHelpScreen(screen)
	}
}

// drawHelpScreen displays the help overlay when game is paused
func (g *GameState) drawHelpScreen(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, ScreenWidth, ScreenHeight, color.RGBA{0, 0, 0, 180}, false)

	var helpText string
	if g.mobileControls.hasTouchInput {
		helpText = `RACING - PAUSED

Touch Controls:
  < >       - Steer
  GAS / BRK - Throttle / Brake and reverse
  ||        - Pause/Resume
  =         - Menu with restart

Stay on the grey tarmac, the grass slows you down.
Every pass over the chequered line counts a lap.

Tap anywhere to continue...`
	} else {
		quitText := "Quit"
		if IsWASM() {
			quitText = "Pause"
		}

		helpText = fmt.Sprintf(`RACING - PAUSED

Controls:
  Up / W    - Throttle
  Down / S  - Brake, then reverse
  Left / A  - Steer left
  Right / D - Steer right
  Space     - Pause/Resume
  R         - Restart
  Esc       - %s

Stay on the grey tarmac, the grass slows you down.
Every pass over the chequered line counts a lap.

Press SPACE to continue...`, quitText)
	}

	bounds := screen.Bounds()
	ebitenutil.DebugPrintAt(screen, helpText, bounds.Dx()/2-160, bounds.Dy()/2-120)
}

func (g *GameState) drawBanner(screen *ebiten.Image, msg string) {
	bounds := screen.Bounds()
	vector.DrawFilledRect(screen, 0, float32(bounds.Dy()/2-30), ScreenWidth, 40, color.RGBA{0, 0, 0, 100}, false)
	ebitenutil.DebugPrintAt(screen, msg, bounds.Dx()/2-50, bounds.Dy()/2-20)
}

func (g *GameState) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
