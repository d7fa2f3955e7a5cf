package sound

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockfall/internal/engine"
)

func countSamples(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok || n == 0 {
			return total
		}
	}
}

func TestCue(t *testing.T) {
	assert.Len(t, Cue(engine.Event{Kind: engine.EventLocked}), 1)
	assert.Len(t, Cue(engine.Event{Kind: engine.EventLinesCleared, Rows: 4}), 4)
	assert.Len(t, Cue(engine.Event{Kind: engine.EventLevelUp, Level: 2}), 3)
	assert.Nil(t, Cue(engine.Event{}))

	soft := Cue(engine.Event{Kind: engine.EventLocked})
	hard := Cue(engine.Event{Kind: engine.EventLocked, HardDrop: true})
	assert.NotEqual(t, soft, hard)
}

func TestStreamer_Length(t *testing.T) {
	rate := beep.SampleRate(8000)
	tones := Cue(engine.Event{Kind: engine.EventGameOver})
	s, err := Streamer(rate, tones)
	require.NoError(t, err)

	want := 0
	for _, tone := range tones {
		want += rate.N(tone.Dur)
	}
	assert.Equal(t, want, countSamples(s))
}

func TestStreamer_RejectsBadFrequency(t *testing.T) {
	// A tone above the Nyquist frequency cannot be synthesized.
	_, err := Streamer(beep.SampleRate(8000), []Tone{{Freq: 10000, Dur: time.Millisecond}})
	assert.Error(t, err)
}

func TestPlayer_Event(t *testing.T) {
	var played []beep.Streamer
	p := NewPlayer(beep.SampleRate(8000), func(s ...beep.Streamer) { played = append(played, s...) })

	p.Event(engine.Event{Kind: engine.EventLinesCleared, Rows: 2})
	p.Event(engine.Event{})
	require.Len(t, played, 1)
	assert.Equal(t, beep.SampleRate(8000).N(120*time.Millisecond), countSamples(played[0]))

	var nilPlayer *Player
	nilPlayer.Event(engine.Event{Kind: engine.EventLocked})
}

func TestPlayer_EventLogsSynthesisError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	played := 0
	// 400Hz cannot represent any cue tone.
	p := NewPlayer(beep.SampleRate(400), func(...beep.Streamer) { played++ })
	p.Event(engine.Event{Kind: engine.EventLocked})

	assert.Zero(t, played)
	assert.Contains(t, buf.String(), "sound cue error event=locked")
}
