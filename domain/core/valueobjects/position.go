package valueobjects

import "math"

// Position is the 2-D canvas placement of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position from coordinates
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// AveragePosition returns the rounded centroid of the given positions
// shifted 100 units down, the placement used for synthesized nodes.
// Returns the zero position for empty input.
func AveragePosition(positions []Position) Position {
	if len(positions) == 0 {
		return Position{}
	}
	var sumX, sumY float64
	for _, p := range positions {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(positions))
	return Position{X: math.Round(sumX / n), Y: math.Round(sumY/n) + 100}
}
