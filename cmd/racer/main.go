package main

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/mpihlak/ebiten-racing/pkg/config"
	"github.com/mpihlak/ebiten-racing/pkg/game"
	"github.com/mpihlak/ebiten-racing/pkg/game/world"
	"github.com/mpihlak/ebiten-racing/pkg/telemetry"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	cmd := &cli.Command{
		Name:   "racer",
		Usage:  "top-down racing on a track image",
		Flags:  config.Flags(),
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.FromCommand(cmd, game.TPS)
	if err != nil {
		return err
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	classifier := &world.ColorClassifier{Surface: cfg.Surface}

	var track *world.Track
	if cfg.TrackPath == "" {
		track = world.NewGeneratedTrack(game.ScreenWidth, game.ScreenHeight, classifier, cfg.Surface)
		log.Println("Using the built-in circuit")
	} else {
		track, err = world.LoadTrack(cfg.TrackPath, game.ScreenWidth, game.ScreenHeight, classifier)
		if err != nil {
			return err
		}
		log.Printf("Loaded track %s", cfg.TrackPath)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := game.Options{
		Track:          track,
		Tuning:         cfg.Tuning,
		TelemetryEvery: cfg.TelemetryEvery,
	}

	if cfg.TelemetryAddr != "" {
		hub := telemetry.NewHub()
		srv, err := telemetry.Listen(cfg.TelemetryAddr, hub)
		if err != nil {
			return err
		}
		go func() {
			if err := srv.Serve(ctx); err != nil {
				log.Printf("Telemetry server stopped: %v", err)
			}
		}()
		opts.Telemetry = hub
	}

	if cfg.Debug {
		log.Printf("Tuning: %+v", cfg.Tuning)
		log.Printf("Telemetry every %d ticks", cfg.TelemetryEvery)
	}

	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle("Ebiten Racing")
	ebiten.SetTPS(game.TPS)

	g := game.NewGame(opts)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return nil
}
