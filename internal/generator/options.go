package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mattulau/Algo-Visualizer/internal/geometry"
)

// Sentinel errors for invalid generation parameters.
var (
	ErrTooFewNodes      = errors.New("generator: node count must be at least 1")
	ErrBadNodeSize      = errors.New("generator: node size must be positive")
	ErrCanvasTooSmall   = errors.New("generator: canvas cannot hold a node of this size")
	ErrBadSeparation    = errors.New("generator: minimum separation must be non-negative")
	ErrBadDegree        = errors.New("generator: degree bounds must satisfy 0 <= min <= max, max >= 1")
	ErrBadDistance      = errors.New("generator: max connection distance must be non-negative")
	ErrBadWeightRange   = errors.New("generator: weight range must satisfy 1 <= min <= max")
	ErrNeedRandSource   = errors.New("generator: a random source is required")
	ErrPlacementAborted = errors.New("generator: node placement aborted")
)

// WeightRange is an inclusive range of edge weights
type WeightRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Valid reports whether the range can produce positive weights
func (w WeightRange) Valid() bool {
	return w.Min >= 1 && w.Max >= w.Min
}

// Draw picks a weight uniformly from the range
func (w WeightRange) Draw(rng *rand.Rand) int {
	return w.Min + rng.Intn(w.Max-w.Min+1)
}

// Options controls a generation run
type Options struct {
	Count         int
	NodeSize      float64
	MinSeparation float64
	Canvas        geometry.Canvas

	// MinDegree is the degree the augmentation pass tries to give each node;
	// MaxDegree is the cap it never exceeds. The spanning pass ignores both.
	MinDegree   int
	MaxDegree   int
	MaxDistance float64

	SpanningWeights WeightRange
	ExtraWeights    WeightRange

	Logger *slog.Logger
}

// DefaultOptions returns the default generation settings
func DefaultOptions() Options {
	return Options{
		Count:           10,
		NodeSize:        32,
		MinSeparation:   64,
		Canvas:          geometry.Canvas{Width: 800, Height: 600},
		MinDegree:       2,
		MaxDegree:       4,
		MaxDistance:     250,
		SpanningWeights: WeightRange{Min: 1, Max: 100},
		ExtraWeights:    WeightRange{Min: 1, Max: 100},
	}
}

// Validate checks the options without generating anything
func (o Options) Validate() error {
	switch {
	case o.Count < 1:
		return fmt.Errorf("%s: count=%d: %w", method, o.Count, ErrTooFewNodes)
	case o.NodeSize <= 0:
		return fmt.Errorf("%s: size=%.2f: %w", method, o.NodeSize, ErrBadNodeSize)
	case !o.Canvas.Fits(o.NodeSize):
		return fmt.Errorf("%s: canvas %.0fx%.0f, size=%.2f: %w",
			method, o.Canvas.Width, o.Canvas.Height, o.NodeSize, ErrCanvasTooSmall)
	case o.MinSeparation < 0:
		return fmt.Errorf("%s: separation=%.2f: %w", method, o.MinSeparation, ErrBadSeparation)
	case o.MinDegree < 0 || o.MaxDegree < 1 || o.MinDegree > o.MaxDegree:
		return fmt.Errorf("%s: degree [%d,%d]: %w", method, o.MinDegree, o.MaxDegree, ErrBadDegree)
	case o.MaxDistance < 0:
		return fmt.Errorf("%s: distance=%.2f: %w", method, o.MaxDistance, ErrBadDistance)
	case !o.SpanningWeights.Valid():
		return fmt.Errorf("%s: spanning weights [%d,%d]: %w",
			method, o.SpanningWeights.Min, o.SpanningWeights.Max, ErrBadWeightRange)
	case !o.ExtraWeights.Valid():
		return fmt.Errorf("%s: extra weights [%d,%d]: %w",
			method, o.ExtraWeights.Min, o.ExtraWeights.Max, ErrBadWeightRange)
	}
	return nil
}
