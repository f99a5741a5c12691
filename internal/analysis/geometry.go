package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Point is a tracked position in millimetres.
type Point struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return floats.Distance([]float64{a.X, a.Y, a.Z}, []float64{b.X, b.Y, b.Z}, 2)
}

// Distances returns the pairwise distance between a[i] and b[i].
func Distances(a, b []Point) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d points", ErrShapeMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = Distance(a[i], b[i])
	}
	return out, nil
}
