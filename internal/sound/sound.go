package sound

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"blockfall/internal/engine"
)

// SampleRate is the rate cues are synthesized at.
const SampleRate = beep.SampleRate(44100)

// Tone is one sine beep; a zero frequency is a rest.
type Tone struct {
	Freq float64
	Dur  time.Duration
}

// Cue returns the tones announcing e, or nil for events that stay silent.
func Cue(e engine.Event) []Tone {
	switch e.Kind {
	case engine.EventLocked:
		if e.HardDrop {
			return []Tone{{Freq: 220, Dur: 40 * time.Millisecond}}
		}
		return []Tone{{Freq: 330, Dur: 30 * time.Millisecond}}
	case engine.EventLinesCleared:
		tones := make([]Tone, 0, e.Rows)
		for i := 0; i < e.Rows; i++ {
			tones = append(tones, Tone{Freq: 523.25 * float64(i+2) / 2, Dur: 60 * time.Millisecond})
		}
		return tones
	case engine.EventLevelUp:
		return []Tone{
			{Freq: 659.25, Dur: 80 * time.Millisecond},
			{Freq: 783.99, Dur: 80 * time.Millisecond},
			{Freq: 1046.5, Dur: 120 * time.Millisecond},
		}
	case engine.EventGameOver:
		return []Tone{
			{Freq: 392, Dur: 150 * time.Millisecond},
			{Dur: 50 * time.Millisecond},
			{Freq: 196, Dur: 400 * time.Millisecond},
		}
	}
	return nil
}

// Streamer renders tones back to back at rate.
func Streamer(rate beep.SampleRate, tones []Tone) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		n := rate.N(t.Dur)
		if t.Freq <= 0 {
			parts = append(parts, beep.Silence(n))
			continue
		}
		sine, err := generators.SineTone(rate, t.Freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(n, sine))
	}
	return beep.Seq(parts...), nil
}

// Player turns engine events into sound through play, normally speaker.Play.
type Player struct {
	rate beep.SampleRate
	play func(...beep.Streamer)
}

// NewPlayer returns a player that hands its streamers to play.
func NewPlayer(rate beep.SampleRate, play func(...beep.Streamer)) *Player {
	return &Player{rate: rate, play: play}
}

// Event plays the cue for e, if any.
func (p *Player) Event(e engine.Event) {
	if p == nil || p.play == nil {
		return
	}
	tones := Cue(e)
	if len(tones) == 0 {
		return
	}
	s, err := Streamer(p.rate, tones)
	if err != nil {
		log.Printf("sound cue error event=%s err=%v", e.Kind, err)
		return
	}
	p.play(s)
}
