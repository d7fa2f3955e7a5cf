package engine

import "time"

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Phase        Phase
	Width        int
	Height       int
	Rows         [][]Cell
	Piece        Piece
	HasPiece     bool
	Ghost        Point
	Flashing     []int
	FlashVisible bool
	Score        int
	Level        int
	Lines        int
	DropInterval time.Duration
	LockDelay    time.Duration
	Clock        time.Duration
	Pieces       []PieceCount
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Phase:        s.phase,
		Width:        s.grid.Width(),
		Height:       s.grid.Height(),
		Rows:         s.grid.Rows(),
		Piece:        s.piece,
		HasPiece:     s.phase != PhaseNotStarted,
		Ghost:        s.Ghost(),
		Flashing:     s.FlashingRows(),
		FlashVisible: s.FlashVisible(),
		Score:        s.score,
		Level:        s.level,
		Lines:        s.stats.Lines,
		DropInterval: s.dropInterval,
		LockDelay:    s.lockDelay,
		Clock:        s.clock,
		Pieces:       s.stats.Distribution(),
	}
}

// Layer says what a composed cell shows.
type Layer uint8

const (
	LayerEmpty Layer = iota
	LayerSettled
	LayerFlash
	LayerGhost
	LayerActive
)

// Tile is one composed cell of the playfield.
type Tile struct {
	Cell  Cell
	Layer Layer
}

// Compose flattens the grid, flashing rows, ghost and active piece into one
// [y][x] layer so renderers do not repeat the overlay rules. Flashing rows show
// LayerFlash only while the blink is lit. Active piece cells above the top edge
// are not shown.
func (snap Snapshot) Compose() [][]Tile {
	tiles := make([][]Tile, snap.Height)
	for y := range tiles {
		tiles[y] = make([]Tile, snap.Width)
		for x := range tiles[y] {
			c := snap.Rows[y][x]
			if c.Filled() {
				tiles[y][x] = Tile{Cell: c, Layer: LayerSettled}
			}
		}
	}
	if snap.FlashVisible {
		for _, y := range snap.Flashing {
			if y < 0 || y >= snap.Height {
				continue
			}
			for x := range tiles[y] {
				if tiles[y][x].Layer == LayerSettled {
					tiles[y][x].Layer = LayerFlash
				}
			}
		}
	}
	if !snap.HasPiece {
		return tiles
	}
	put := func(origin Point, layer Layer) {
		snap.Piece.Shape.Each(func(local Point, c Cell) {
			x, y := origin.X+local.X, origin.Y+local.Y
			if x < 0 || y < 0 || x >= snap.Width || y >= snap.Height {
				return
			}
			if layer == LayerGhost && tiles[y][x].Layer != LayerEmpty {
				return
			}
			tiles[y][x] = Tile{Cell: c, Layer: layer}
		})
	}
	if snap.Phase == PhasePlaying {
		put(snap.Ghost, LayerGhost)
	}
	put(snap.Piece.Pos, LayerActive)
	return tiles
}
