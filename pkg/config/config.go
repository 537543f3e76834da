// Package config assembles the racer's startup configuration from command
// line flags, RACER_* environment variables, an optional .env file and an
// optional JSON tuning file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
)

var ErrInvalidTuning = errors.New("invalid tuning")

// Config is everything the racer command needs before the window opens
type Config struct {
	TrackPath     string
	Tuning        objects.Tuning
	Surface       color.RGBA
	TelemetryAddr string
	// Publish one telemetry frame every N ticks
	TelemetryEvery int
	Debug          bool
}

const (
	FlagTrack       = "track"
	FlagTuning      = "tuning"
	FlagSurface     = "surface"
	FlagTelemetry   = "telemetry"
	FlagTelemetryHz = "telemetry-hz"
	FlagDebug       = "debug"
)

// Flags returns a fresh set of flags for the racer command
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagTrack,
			Usage:   "track image (PNG or JPEG), empty for the built-in circuit",
			Sources: cli.EnvVars("RACER_TRACK"),
		},
		&cli.StringFlag{
			Name:    FlagTuning,
			Usage:   "JSON file overriding car tuning values",
			Sources: cli.EnvVars("RACER_TUNING"),
		},
		&cli.StringFlag{
			Name:    FlagSurface,
			Value:   "555555",
			Usage:   "RGB hex of the drivable surface color",
			Sources: cli.EnvVars("RACER_SURFACE"),
		},
		&cli.StringFlag{
			Name:    FlagTelemetry,
			Usage:   "listen address for the websocket telemetry stream, empty to disable",
			Sources: cli.EnvVars("RACER_TELEMETRY"),
		},
		&cli.FloatFlag{
			Name:    FlagTelemetryHz,
			Value:   10,
			Usage:   "telemetry frames per second",
			Sources: cli.EnvVars("RACER_TELEMETRY_HZ"),
		},
		&cli.BoolFlag{
			Name:    FlagDebug,
			Usage:   "enable debug logging",
			Sources: cli.EnvVars("RACER_DEBUG"),
		},
	}
}

// FromCommand builds a Config from parsed flags. tps is the game tick rate
// used to turn the telemetry rate into a tick interval.
func FromCommand(cmd *cli.Command, tps int) (*Config, error) {
	surface, err := ParseSurface(cmd.String(FlagSurface))
	if err != nil {
		return nil, err
	}

	tuning, err := LoadTuning(cmd.String(FlagTuning))
	if err != nil {
		return nil, err
	}

	every, err := telemetryEvery(cmd.Float(FlagTelemetryHz), tps)
	if err != nil {
		return nil, err
	}

	return &Config{
		TrackPath:      cmd.String(FlagTrack),
		Tuning:         tuning,
		Surface:        surface,
		TelemetryAddr:  cmd.String(FlagTelemetry),
		TelemetryEvery: every,
		Debug:          cmd.Bool(FlagDebug),
	}, nil
}

func telemetryEvery(hz float64, tps int) (int, error) {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return 0, fmt.Errorf("telemetry rate must be positive, got %g", hz)
	}
	every := int(math.Round(float64(tps) / hz))
	if every < 1 {
		every = 1
	}
	return every, nil
}

// LoadEnv loads environment files, .env by default. Missing files are not
// an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// LoadTuning reads a JSON tuning file over the defaults. Fields missing from
// the file keep their default values. An empty path returns the defaults.
func LoadTuning(path string) (objects.Tuning, error) {
	tuning := objects.DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}

	if err := json.Unmarshal(data, &tuning); err != nil {
		return tuning, fmt.Errorf("%w: %v", ErrInvalidTuning, err)
	}

	if err := tuning.Validate(); err != nil {
		return tuning, fmt.Errorf("%w: %v", ErrInvalidTuning, err)
	}

	return tuning, nil
}

// ParseSurface parses an RGB color given as "555555", "#555555" or
// "85,85,85".
func ParseSurface(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return world.SurfaceColor, nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return color.RGBA{}, fmt.Errorf("surface color %q: expected three components", s)
		}
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("surface color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return color.RGBA{rgb[0], rgb[1], rgb[2], 255}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("surface color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("surface color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}
