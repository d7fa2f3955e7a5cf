package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"

	"blockfall/internal/engine"
	"blockfall/internal/sound"
	"blockfall/internal/term"
)

func main() {
	seed := flag.Int64("seed", 0, "randomizer seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	var cues term.Cues
	if !*mute {
		if err := speaker.Init(sound.SampleRate, sound.SampleRate.N(time.Second/10)); err != nil {
			// Non-fatal, play on without sound.
			log.Printf("audio init failed: %v", err)
		} else {
			defer speaker.Close()
			cues = sound.NewPlayer(sound.SampleRate, speaker.Play)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	term.New(screen, engine.NewSession(engine.WithSeed(*seed)), cues).Run()
}
