package engine

import "time"

const (
	pointsPerSingle  = 10
	pointsPerLevel   = 100
	baseDropInterval = 1000 * time.Millisecond
	dropIntervalStep = 100 * time.Millisecond
	minDropInterval  = 100 * time.Millisecond
	LockDelay        = 500 * time.Millisecond
	FlashDuration    = 500 * time.Millisecond
	FlashInterval    = 100 * time.Millisecond
)

// Points returns the award for clearing rows lines at once: 10, 20, 40, 80.
func Points(rows int) int {
	if rows <= 0 {
		return 0
	}
	return pointsPerSingle << (rows - 1)
}

// LevelFor derives the level from a cumulative score.
func LevelFor(score int) int {
	if score < 0 {
		score = 0
	}
	return score/pointsPerLevel + 1
}

// DropIntervalFor returns the gravity cadence at level.
func DropIntervalFor(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	interval := baseDropInterval - time.Duration(level-1)*dropIntervalStep
	if interval < minDropInterval {
		return minDropInterval
	}
	return interval
}
