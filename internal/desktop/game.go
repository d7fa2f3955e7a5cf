// Package desktop plays a session in a window through ebiten.
package desktop

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"blockfall/internal/engine"
)

const (
	// cellSize is the size of each cell in pixels before scaling
	cellSize = 24
	// margin surrounds the board and separates it from the side panel
	margin = 16
	// panelWidth is the width of the score panel right of the board
	panelWidth = 160
	// repeatDelay is how many frames a held key waits before auto-repeating
	repeatDelay = 10
	// repeatEvery is how many frames pass between auto-repeated moves
	repeatEvery = 3
)

var (
	background = color.RGBA{0x12, 0x12, 0x18, 0xff}
	wellColor  = color.RGBA{0x1e, 0x1e, 0x28, 0xff}
	gridColor  = color.RGBA{0x2a, 0x2a, 0x36, 0xff}
	flashColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	dimColor   = color.RGBA{0x00, 0x00, 0x00, 0xa0}
)

var pieceColors = map[engine.Cell]color.RGBA{
	engine.Cell(engine.PieceI): {0x00, 0xf0, 0xf0, 0xff},
	engine.Cell(engine.PieceJ): {0x00, 0x00, 0xf0, 0xff},
	engine.Cell(engine.PieceL): {0xf0, 0xa0, 0x00, 0xff},
	engine.Cell(engine.PieceO): {0xf0, 0xf0, 0x00, 0xff},
	engine.Cell(engine.PieceS): {0x00, 0xf0, 0x00, 0xff},
	engine.Cell(engine.PieceT): {0xa0, 0x00, 0xf0, 0xff},
	engine.Cell(engine.PieceZ): {0xf0, 0x00, 0x00, 0xff},
}

// Cues receives engine events as they are drained, for sound.
type Cues interface {
	Event(e engine.Event)
}

// Game adapts a session to ebiten.Game.
type Game struct {
	session *engine.Session
	cues    Cues
	best    int
}

// NewGame wraps session. cues may be nil.
func NewGame(session *engine.Session, cues Cues) *Game {
	return &Game{session: session, cues: cues}
}

// Size returns the logical screen size for the session's grid.
func (g *Game) Size() (width, height int) {
	grid := g.session.Grid()
	width = margin + grid.Width()*cellSize + margin + panelWidth
	height = margin + grid.Height()*cellSize + margin
	return
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	s := g.session
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if !s.Started() {
			_ = s.Start()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if s.Started() {
			g.best = max(g.best, s.Score())
			s.Restart()
		}
	}

	if held(ebiten.KeyLeft) {
		s.Move(-1)
	}
	if held(ebiten.KeyRight) {
		s.Move(1)
	}
	if held(ebiten.KeyDown) {
		s.SoftDrop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) || inpututil.IsKeyJustPressed(ebiten.KeyX) {
		s.Rotate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.HardDrop()
	}

	s.Tick(time.Second / time.Duration(ebiten.TPS()))
	for _, e := range s.TakeEvents() {
		if g.cues != nil {
			g.cues.Event(e)
		}
	}
	return nil
}

// held reports a fresh press or an auto-repeat frame of a held key.
func held(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > repeatDelay && d%repeatEvery == 0)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	snap := g.session.Snapshot()

	left, top := float32(margin), float32(margin)
	w, h := float32(snap.Width*cellSize), float32(snap.Height*cellSize)
	vector.DrawFilledRect(screen, left, top, w, h, wellColor, false)
	vector.StrokeRect(screen, left-1, top-1, w+2, h+2, 2, gridColor, false)

	for y, row := range snap.Compose() {
		for x, t := range row {
			g.drawTile(screen, left+float32(x*cellSize), top+float32(y*cellSize), t)
		}
	}

	panelX := margin + snap.Width*cellSize + margin
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d\nLEVEL %d\nLINES %d\nBEST  %d",
		snap.Score, snap.Level, snap.Lines, max(g.best, snap.Score)), panelX, margin)

	y := margin + 80
	for _, pc := range snap.Pieces {
		vector.DrawFilledRect(screen, float32(panelX), float32(y+3), 10, 10, pieceColors[pc.Type.Color()], false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %d", pc.Type, pc.Count), panelX+16, y)
		y += 16
	}
	ebitenutil.DebugPrintAt(screen, "arrows move\nup/x rotate\nspace drop\nr restart\nq quit", panelX, y+16)

	switch snap.Phase {
	case engine.PhaseNotStarted:
		g.banner(screen, left, top, w, h, "PRESS ENTER")
	case engine.PhaseGameOver:
		g.banner(screen, left, top, w, h, "GAME OVER")
	}
}

func (g *Game) drawTile(screen *ebiten.Image, x, y float32, t engine.Tile) {
	size := float32(cellSize)
	switch t.Layer {
	case engine.LayerSettled, engine.LayerActive:
		vector.DrawFilledRect(screen, x+1, y+1, size-2, size-2, pieceColors[t.Cell], false)
	case engine.LayerFlash:
		vector.DrawFilledRect(screen, x+1, y+1, size-2, size-2, flashColor, false)
	case engine.LayerGhost:
		vector.StrokeRect(screen, x+2, y+2, size-4, size-4, 1, pieceColors[t.Cell], false)
	}
}

func (g *Game) banner(screen *ebiten.Image, left, top, w, h float32, msg string) {
	vector.DrawFilledRect(screen, left, top, w, h, dimColor, false)
	// DebugPrint glyphs are 6x16.
	x := int(left+w/2) - len(msg)*3
	y := int(top+h/2) - 8
	ebitenutil.DebugPrintAt(screen, msg, x, y)
}

func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	return g.Size()
}
