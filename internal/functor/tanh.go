package functor

import (
	"math"

	"github.com/born-ml/opset/internal/tensor"
)

// Tanh is the hyperbolic tangent: y = tanh(x).
//
// Inputs outside the finite range follow IEEE semantics: tanh(±Inf) = ±1 and
// NaN propagates.
type Tanh struct{}

// Float32 implements Unary.
func (Tanh) Float32(_ Context, x, y []float32) { tanhKernel(x, y) }

// Float64 implements Unary.
func (Tanh) Float64(_ Context, x, y []float64) { tanhKernel(x, y) }

func tanhKernel[T tensor.Float](x, y []T) {
	x = x[:len(y)]
	for i := range y {
		y[i] = T(math.Tanh(float64(x[i])))
	}
}

// TanhGradient computes the tanh input gradient from the forward output:
//
//	dx = dy * (1 - y²)
//
// The forward input is never needed, so y must still hold the forward result
// when this runs.
type TanhGradient struct{}

// Float32 implements Binary with a = y, b = dy, out = dx.
func (TanhGradient) Float32(_ Context, y, dy, dx []float32) { tanhGradKernel(y, dy, dx) }

// Float64 implements Binary with a = y, b = dy, out = dx.
func (TanhGradient) Float64(_ Context, y, dy, dx []float64) { tanhGradKernel(y, dy, dx) }

func tanhGradKernel[T tensor.Float](y, dy, dx []T) {
	y, dy = y[:len(dx)], dy[:len(dx)]
	for i := range dx {
		dx[i] = dy[i] * (1 - y[i]*y[i])
	}
}
