package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{0, 0},
		{1, 10},
		{2, 20},
		{3, 40},
		{4, 80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Points(tt.rows), "rows=%d", tt.rows)
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 2, LevelFor(100))
	assert.Equal(t, 3, LevelFor(250))
	assert.Equal(t, 11, LevelFor(1000))
}

func TestDropIntervalFor(t *testing.T) {
	assert.Equal(t, time.Second, DropIntervalFor(1))
	assert.Equal(t, 800*time.Millisecond, DropIntervalFor(3))
	assert.Equal(t, 100*time.Millisecond, DropIntervalFor(10))
	assert.Equal(t, 100*time.Millisecond, DropIntervalFor(25), "interval never drops below the floor")
}
