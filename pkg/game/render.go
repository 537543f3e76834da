package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
)

var (
	carRed     = color.RGBA{200, 30, 30, 255}
	carBlack   = color.RGBA{10, 10, 10, 255}
	cockpit    = color.RGBA{30, 30, 30, 255}
	trailColor = color.RGBA{240, 240, 240, 60}
)

// newCarSprite draws the unrotated car, nose towards +X
func newCarSprite(w, h int) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	sx := float32(w) / 60
	sy := float32(h) / 30

	rect := func(x, y, rw, rh float32, c color.Color) {
		vector.DrawFilledRect(img, x*sx, y*sy, rw*sx, rh*sy, c, true)
	}

	// Wheels
	rect(45, 0, 10, 6, carBlack)
	rect(45, 24, 10, 6, carBlack)
	rect(5, 0, 10, 6, carBlack)
	rect(5, 24, 10, 6, carBlack)

	// Body and rear wing
	rect(10, 8, 40, 14, carRed)
	rect(2, 10, 8, 10, carBlack)

	// Nose as a narrowing stack of lines
	for i := float32(0); i < 7; i++ {
		vector.StrokeLine(img, 50*sx, (8+i)*sy, (50+i*10/7)*sx, (8+i)*sy, sy, carBlack, true)
		vector.StrokeLine(img, 50*sx, (22-i)*sy, (50+i*10/7)*sx, (22-i)*sy, sy, carBlack, true)
	}
	vector.StrokeLine(img, 50*sx, 15*sy, 60*sx, 15*sy, sy, carBlack, true)

	vector.DrawFilledCircle(img, 30*sx, 15*sy, 5*sy, cockpit, true)

	return img
}

// drawCar places the sprite using the car's render projection
func drawCar(screen, sprite *ebiten.Image, tr objects.SpriteTransform) {
	b := sprite.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	// Angle is counter-clockwise positive, GeoM rotates clockwise on screen
	op.GeoM.Rotate(-tr.Angle * math.Pi / 180)
	op.GeoM.Translate(tr.Center.X, tr.Center.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

func drawTrail(screen *ebiten.Image, car *objects.Car) {
	for _, p := range car.History {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 2, trailColor, false)
	}
}

// drawFinishLine draws the finish zone as a checkered strip
func drawFinishLine(screen *ebiten.Image, track *world.Track) {
	z := track.FinishZone
	const square = 5.0

	for y := 0.0; y < z.H; y += square {
		for x := 0.0; x < z.W; x += square {
			c := color.RGBA{240, 240, 240, 255}
			if (int(x/square)+int(y/square))%2 == 1 {
				c = carBlack
			}
			w := math.Min(square, z.W-x)
			h := math.Min(square, z.H-y)
			vector.DrawFilledRect(screen, float32(z.X+x), float32(z.Y+y), float32(w), float32(h), c, false)
		}
	}
}
