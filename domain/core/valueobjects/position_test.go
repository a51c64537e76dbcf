package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAveragePosition(t *testing.T) {
	tests := []struct {
		name      string
		positions []Position
		want      Position
	}{
		{
			name:      "empty input",
			positions: nil,
			want:      Position{},
		},
		{
			name:      "single node sits 100 below itself",
			positions: []Position{{X: 250, Y: 0}},
			want:      Position{X: 250, Y: 100},
		},
		{
			name:      "centroid of three nodes",
			positions: []Position{{X: 250, Y: 0}, {X: 100, Y: 100}, {X: 400, Y: 100}},
			want:      Position{X: 250, Y: 167},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AveragePosition(tt.positions))
		})
	}
}

func TestPosition_Equals(t *testing.T) {
	assert.True(t, NewPosition(1, 2).Equals(Position{X: 1, Y: 2}))
	assert.False(t, NewPosition(1, 2).Equals(Position{X: 2, Y: 1}))
}
