// Package term plays a session in a terminal through tcell.
package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"blockfall/internal/engine"
	"blockfall/pkg/realtime"
)

const (
	frame     = 16 * time.Millisecond
	cellWidth = 2
	boardLeft = 2
	boardTop  = 1
	panelGap  = 4
)

// Cues receives engine events as they are drained, for sound.
type Cues interface {
	Event(e engine.Event)
}

var pieceColors = map[engine.Cell]tcell.Color{
	engine.Cell(engine.PieceI): tcell.ColorAqua,
	engine.Cell(engine.PieceJ): tcell.ColorBlue,
	engine.Cell(engine.PieceL): tcell.ColorOrange,
	engine.Cell(engine.PieceO): tcell.ColorYellow,
	engine.Cell(engine.PieceS): tcell.ColorGreen,
	engine.Cell(engine.PieceT): tcell.ColorPurple,
	engine.Cell(engine.PieceZ): tcell.ColorRed,
}

// App owns the screen and one session.
type App struct {
	screen  tcell.Screen
	session *engine.Session
	cues    Cues
	clock   realtime.Clock
	best    int
}

// New wraps an initialized screen. cues may be nil.
func New(screen tcell.Screen, session *engine.Session, cues Cues) *App {
	return &App{screen: screen, session: session, cues: cues}
}

// Run drives the game until the player quits. The screen is not finalized.
func (a *App) Run() {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	a.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ev) {
				return
			}
			a.Draw()
		case now := <-ticker.C:
			a.Step(now)
			a.Draw()
		}
	}
}

// HandleEvent applies one terminal event and reports whether to keep running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(key tcell.Key, r rune, _ tcell.ModMask) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		if !a.session.Started() {
			_ = a.session.Start()
			a.clock.Reset()
		}
	case tcell.KeyLeft:
		a.session.Move(-1)
	case tcell.KeyRight:
		a.session.Move(1)
	case tcell.KeyDown:
		a.session.SoftDrop()
	case tcell.KeyUp:
		a.session.Rotate()
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case ' ':
			a.session.HardDrop()
		case 'x', 'X':
			a.session.Rotate()
		case 'r', 'R':
			if a.session.Started() {
				a.best = max(a.best, a.session.Score())
				a.session.Restart()
				a.clock.Reset()
			}
		}
	}
	a.drain()
	return true
}

// Step advances the session to now.
func (a *App) Step(now time.Time) {
	a.session.Tick(a.clock.Advance(now))
	a.drain()
}

func (a *App) drain() {
	for _, e := range a.session.TakeEvents() {
		if a.cues != nil {
			a.cues.Event(e)
		}
	}
}

// Draw renders the current frame and shows it.
func (a *App) Draw() {
	a.screen.Clear()
	snap := a.session.Snapshot()
	a.drawBoard(snap)
	a.drawPanel(snap)
	switch snap.Phase {
	case engine.PhaseNotStarted:
		a.banner(snap, "PRESS ENTER")
	case engine.PhaseGameOver:
		a.banner(snap, "GAME OVER")
	}
	a.screen.Show()
}

func (a *App) drawBoard(snap engine.Snapshot) {
	frameStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	right := boardLeft + snap.Width*cellWidth
	bottom := boardTop + snap.Height
	for y := boardTop; y < bottom; y++ {
		a.screen.SetContent(boardLeft-1, y, '│', nil, frameStyle)
		a.screen.SetContent(right, y, '│', nil, frameStyle)
	}
	a.screen.SetContent(boardLeft-1, bottom, '└', nil, frameStyle)
	a.screen.SetContent(right, bottom, '┘', nil, frameStyle)
	for x := boardLeft; x < right; x++ {
		a.screen.SetContent(x, bottom, '─', nil, frameStyle)
	}

	for y, row := range snap.Compose() {
		for x, t := range row {
			ch, style := tileGlyph(t)
			for i := 0; i < cellWidth; i++ {
				a.screen.SetContent(boardLeft+x*cellWidth+i, boardTop+y, ch, nil, style)
			}
		}
	}
}

func tileGlyph(t engine.Tile) (rune, tcell.Style) {
	color := pieceColors[t.Cell]
	switch t.Layer {
	case engine.LayerSettled, engine.LayerActive:
		return '█', tcell.StyleDefault.Foreground(color)
	case engine.LayerFlash:
		return '█', tcell.StyleDefault.Foreground(tcell.ColorWhite)
	case engine.LayerGhost:
		return '░', tcell.StyleDefault.Foreground(color)
	}
	return ' ', tcell.StyleDefault
}

func (a *App) drawPanel(snap engine.Snapshot) {
	x := boardLeft + snap.Width*cellWidth + panelGap
	y := boardTop
	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	value := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)

	for _, line := range []struct{ k, v string }{
		{"SCORE", fmt.Sprint(snap.Score)},
		{"LEVEL", fmt.Sprint(snap.Level)},
		{"LINES", fmt.Sprint(snap.Lines)},
		{"BEST", fmt.Sprint(max(a.best, snap.Score))},
	} {
		a.text(x, y, label, line.k)
		a.text(x+7, y, value, line.v)
		y += 2
	}

	y++
	for _, pc := range snap.Pieces {
		a.screen.SetContent(x, y, '■', nil, tcell.StyleDefault.Foreground(pieceColors[pc.Type.Color()]))
		a.text(x+2, y, label, fmt.Sprintf("%s %d", pc.Type, pc.Count))
		y++
	}

	y++
	for _, help := range []string{"←→ move", "↓ soft drop", "space drop", "↑/x rotate", "r restart", "q quit"} {
		a.text(x, y, label, help)
		y++
	}
}

func (a *App) banner(snap engine.Snapshot, msg string) {
	width := snap.Width * cellWidth
	x := boardLeft + (width-len(msg))/2
	y := boardTop + snap.Height/2
	a.text(x, y, tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite), msg)
}

func (a *App) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
