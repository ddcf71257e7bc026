//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"automata/internal/app"
	"automata/internal/engine"
	_ "automata/internal/sims/evolution"
	_ "automata/internal/sims/predprey"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	params, err := cfg.ParamMap()
	if err != nil {
		log.Fatalf("params: %v", err)
	}
	names := cfg.SimNames()
	eng, err := engine.FromRegistry(cfg.Seed, params, names...)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	game := app.New(eng, cfg.Scale, cfg.HUDWidth)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("automata - " + strings.Join(names, ", "))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
