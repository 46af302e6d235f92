package shared

import (
	"fmt"
	"math"
)

// Position is an immutable map coordinate of a node
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceSquaredTo returns the squared Euclidean distance to another position.
// Donor ordering only needs relative distances, so the square root is skipped.
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := float64(other.X - p.X)
	dy := float64(other.Y - p.Y)
	return dx*dx + dy*dy
}

// DistanceTo returns the Euclidean distance in map fields
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

func (p Position) String() string {
	return fmt.Sprintf("(%d|%d)", p.X, p.Y)
}
