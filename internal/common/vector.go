package common

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Vector represents a point or displacement on the simulation plane.
type Vector []float64

// NewVector creates a new vector of a given dimension.
func NewVector(dimension int) Vector {
	return make(Vector, dimension)
}

// NewGaussianVector creates a vector whose coordinates are drawn i.i.d. from
// N(mean, stdDev) using src. Coordinates are drawn in index order.
func NewGaussianVector(dimension int, mean, stdDev float64, src rand.Source) (Vector, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}
	if stdDev < 0 {
		return nil, fmt.Errorf("standard deviation must be non-negative, got %g", stdDev)
	}
	v := NewVector(dimension)
	dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: src}
	for i := range v {
		v[i] = dist.Rand()
	}
	return v, nil
}

// Dimension returns the dimension of the vector.
func (v Vector) Dimension() int {
	return len(v)
}

// Distance calculates the Euclidean distance between two vectors.
func (v Vector) Distance(other Vector) (float64, error) {
	if v.Dimension() != other.Dimension() {
		return 0, fmt.Errorf("vectors must have the same dimension: %d != %d", v.Dimension(), other.Dimension())
	}
	return floats.Distance(v, other, 2), nil
}

// AddInPlace adds other to v, element-wise.
func (v Vector) AddInPlace(other Vector) error {
	if v.Dimension() != other.Dimension() {
		return fmt.Errorf("vectors must have the same dimension: %d != %d", v.Dimension(), other.Dimension())
	}
	floats.Add(v, other)
	return nil
}

// Zero resets every coordinate to 0.
func (v Vector) Zero() {
	for i := range v {
		v[i] = 0
	}
}

// IsZero reports whether every coordinate is exactly 0.
func (v Vector) IsZero() bool {
	for _, val := range v {
		if val != 0 {
			return false
		}
	}
	return true
}

// String returns a string representation of the vector.
func (v Vector) String() string {
	strs := make([]string, len(v))
	for i, val := range v {
		strs[i] = fmt.Sprintf("%.3f", val)
	}
	return fmt.Sprintf("[%s]", strings.Join(strs, ", "))
}

// Clone creates a deep copy of the vector.
func (v Vector) Clone() Vector {
	clone := make(Vector, len(v))
	copy(clone, v)
	return clone
}
