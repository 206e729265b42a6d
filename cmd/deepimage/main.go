package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gekko3d/deepimage"
	"github.com/gekko3d/deepimage/rt/app"
	"github.com/gekko3d/deepimage/rt/soft"
)

func main() {
	configPath := flag.String("config", "deepimage.yaml", "Path to the YAML configuration")
	snapshot := flag.String("snapshot", "", "Render one frame headless and write it to this PNG file")
	pick := flag.String("pick", "", "With -snapshot, click pixel x,y before rendering")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := deepimage.LoadConfig(*configPath)
	log := deepimage.NewDefaultLogger("DeepImage", *debug || cfg.Debug)
	if err != nil {
		log.Warnf("%v; using defaults", err)
	}

	if *snapshot != "" {
		if err := runSnapshot(cfg, log, *snapshot, *pick); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer a.Close()
	a.Run()
}

func runSnapshot(cfg deepimage.Config, log deepimage.Logger, out, pick string) error {
	dev, err := soft.NewDevice(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	view, err := deepimage.NewViewport(dev, cfg, log)
	if err != nil {
		return err
	}
	defer view.Release()

	if pick != "" {
		x, y, err := parsePoint(pick)
		if err != nil {
			return err
		}
		ev := deepimage.PointerEvent{X: x, Y: y, Button: deepimage.ButtonLeft}
		view.OnMousePressed(ev)
		view.OnMouseReleased(ev)
	}
	if err := view.RenderFrame(); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	if err := dev.Screen().WritePNG(f, view.Status()...); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Infof("wrote %s", out)
	return nil
}

func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("pick %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("pick %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("pick %q: %w", s, err)
	}
	return x, y, nil
}
