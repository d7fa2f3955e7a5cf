package main

import (
	"flag"
	"log"
	"time"

	"github.com/gopxl/beep/speaker"
	"github.com/hajimehoshi/ebiten/v2"

	"blockfall/internal/desktop"
	"blockfall/internal/engine"
	"blockfall/internal/sound"
)

func main() {
	scale := flag.Int("scale", 1, "window scale factor")
	seed := flag.Int64("seed", 0, "randomizer seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if *scale < 1 {
		*scale = 1
	}

	var cues desktop.Cues
	if !*mute {
		if err := speaker.Init(sound.SampleRate, sound.SampleRate.N(time.Second/10)); err != nil {
			log.Printf("audio init failed: %v", err)
		} else {
			defer speaker.Close()
			cues = sound.NewPlayer(sound.SampleRate, speaker.Play)
		}
	}

	game := desktop.NewGame(engine.NewSession(engine.WithSeed(*seed)), cues)
	w, h := game.Size()
	ebiten.SetWindowSize(w**scale, h**scale)
	ebiten.SetWindowTitle("blockfall")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
