package main

import (
	"flag"
	"log"
	"time"
)

func main() {
	levelName := flag.String("level", "demo", "level name in levels/ (basename, .json optional)")
	physicsPath := flag.String("physics", "physics.yaml", "physics spec in prefabs/")
	ticks := flag.Int("ticks", 600, "ticks to simulate; 0 runs until interrupted (requires -watch)")
	every := flag.Int("every", 60, "print the player state every N ticks; 0 disables")
	watch := flag.Bool("watch", false, "hot reload prefabs/, scripts and levels/ while running")
	realtime := flag.Bool("realtime", false, "sleep one dt between ticks")
	serve := flag.String("serve", "", "stream per-tick telemetry over websocket on this address, e.g. :8080")
	flag.Parse()

	if *ticks <= 0 && !*watch {
		log.Fatal("spire: -ticks 0 needs -watch")
	}

	game, err := NewGame(Options{
		Level:       *levelName,
		PhysicsPath: *physicsPath,
		Every:       *every,
		Watch:       *watch,
		Serve:       *serve,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	var tick <-chan time.Time
	if *realtime {
		t := time.NewTicker(game.TickDuration())
		defer t.Stop()
		tick = t.C
	}

	for i := 0; *ticks <= 0 || i < *ticks; i++ {
		if tick != nil {
			<-tick
		}
		if err := game.Update(); err != nil {
			log.Fatal(err)
		}
	}
	game.Summary()
}
