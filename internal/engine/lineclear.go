package engine

import "sort"

// sweep collects the full rows and, if any, arms the flash deadline. The grid
// is left untouched until clearRows runs.
func (s *Session) sweep() {
	rows := s.grid.FullRows()
	if len(rows) == 0 {
		return
	}
	s.flashing = rows
	s.flash.Arm(s.clock, FlashDuration)
}

// clearRows removes the flashing rows, scores them and disarms the flash.
func (s *Session) clearRows() {
	rows := append([]int(nil), s.flashing...)
	s.flashing = nil
	s.flash.Disarm()
	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	n := s.grid.RemoveRows(rows)
	if n == 0 {
		return
	}
	points := Points(n)
	s.score += points
	s.stats.recordClear(n)
	previous := s.level
	s.updateLevel()
	s.emit(Event{Kind: EventLinesCleared, Rows: n, Points: points, Level: s.level})
	if s.level > previous {
		s.emit(Event{Kind: EventLevelUp, Level: s.level})
	}
}

// liftPiece moves the active piece up until it no longer overlaps settled
// cells. Rows sliding down after a clear can land on a piece tucked under an
// overhang.
func (s *Session) liftPiece() {
	for i := 0; i <= s.grid.Height() && Collides(s.grid, s.piece.Shape, s.piece.Pos); i++ {
		s.piece.Pos.Y--
	}
}

// FlashingRows returns the rows waiting to be cleared, bottom to top.
func (s *Session) FlashingRows() []int {
	return append([]int(nil), s.flashing...)
}

// FlashVisible reports whether flashing rows are in the lit half of their blink.
func (s *Session) FlashVisible() bool {
	if !s.flash.Armed() {
		return false
	}
	return (s.flash.Since(s.clock)/FlashInterval)%2 == 0
}
