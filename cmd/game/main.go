package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"game-engine/internal/engine"
	"game-engine/internal/engineconfig"
	"game-engine/internal/env"
	"game-engine/internal/graphics"
	"game-engine/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	log := logger.New()
	defer log.Sync()
	if err := env.Load(".env"); err != nil {
		log.Warn("could not read .env", zap.Error(err))
	}
	prefs, err := engineconfig.Load()
	if err != nil {
		log.Warn("engine config ignored, using defaults", zap.Error(err))
	}
	prefs = engineconfig.ApplyEnv(prefs)

	win := graphics.New(prefs.Window, log)
	g := newGame(prefs, win, log)
	g.engine = engine.New(win, g, engine.Options{
		TargetUPS: prefs.Loop.TargetUPS,
		Title:     prefs.Window.Title,
		Log:       log,
	})
	if err := g.engine.Run(); err != nil {
		log.Error("engine stopped with an error", zap.Error(err))
		return err
	}
	return nil
}
