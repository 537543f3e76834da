package world

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/mpihlak/ebiten-racing/pkg/geometry"
)

var ErrTrackLoad = errors.New("track load failed")

var GrassColor = color.RGBA{20, 80, 35, 255}

// Track is the static track raster. It is sized to the viewport and never
// modified after construction.
type Track struct {
	raster     *image.RGBA
	classifier Classifier
	FinishZone geometry.Rect
}

// FinishZoneFor returns the finish line rectangle for a viewport, a thin
// strip near the bottom center.
func FinishZoneFor(width, height int) geometry.Rect {
	return geometry.Rect{
		X: float64(width/2 - 30),
		Y: float64(height - 80),
		W: 60,
		H: 10,
	}
}

// NewTrack wraps an already decoded raster
func NewTrack(raster *image.RGBA, classifier Classifier) *Track {
	b := raster.Bounds()
	return &Track{
		raster:     raster,
		classifier: classifier,
		FinishZone: FinishZoneFor(b.Dx(), b.Dy()),
	}
}

// LoadTrack decodes a PNG or JPEG track image and scales it to width x height.
// Scaling is nearest neighbour so that the surface color is never blended
// into its neighbours.
func LoadTrack(path string, width, height int, classifier Classifier) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrackLoad, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrTrackLoad, path, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return NewTrack(dst, classifier), nil
}

// NewGeneratedTrack renders the built-in oval circuit. The ring passes
// through the finish zone and the start position.
func NewGeneratedTrack(width, height int, classifier Classifier, surface color.RGBA) *Track {
	raster := image.NewRGBA(image.Rect(0, 0, width, height))

	cx := float64(width) / 2
	cy := float64(height) / 2
	outerRX, outerRY := float64(width)/2-40, float64(height)/2-30
	innerRX, innerRY := outerRX-190, outerRY-190

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			outer := (dx*dx)/(outerRX*outerRX) + (dy*dy)/(outerRY*outerRY)
			inner := (dx*dx)/(innerRX*innerRX) + (dy*dy)/(innerRY*innerRY)
			if outer <= 1 && inner > 1 {
				raster.SetRGBA(x, y, surface)
			} else {
				raster.SetRGBA(x, y, GrassColor)
			}
		}
	}

	return NewTrack(raster, classifier)
}

func (t *Track) Width() int {
	return t.raster.Bounds().Dx()
}

func (t *Track) Height() int {
	return t.raster.Bounds().Dy()
}

// Image returns the raster for drawing. Callers must not modify it.
func (t *Track) Image() *image.RGBA {
	return t.raster
}

// TerrainAt classifies the pixel at (x, y). The second return value is false
// when the pixel lies outside the raster, in which case nothing is sampled.
func (t *Track) TerrainAt(x, y int) (Terrain, bool) {
	if !(image.Point{X: x, Y: y}).In(t.raster.Bounds()) {
		return OffTrack, false
	}
	return t.classifier.Classify(t.raster.RGBAAt(x, y)), true
}
