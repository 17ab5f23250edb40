// Package functor defines stateless per-element scalar transforms.
//
// A functor is applied over equal-length slices by the elementwise adapters.
// Kernels touch only index i when producing element i, so callers may split
// the slices into disjoint ranges and run them concurrently, and an output
// slice may be the very same slice as one of the inputs.
package functor

import "github.com/born-ml/opset/internal/tensor"

// Context is the execution handle passed through to every functor call.
// Functors must not depend on its contents.
type Context interface {
	Device() tensor.Device
}

// Unary computes y[i] = f(x[i]) for every i < len(y).
type Unary interface {
	Float32(ctx Context, x, y []float32)
	Float64(ctx Context, x, y []float64)
}

// Binary computes out[i] = f(a[i], b[i]) for every i < len(out).
type Binary interface {
	Float32(ctx Context, a, b, out []float32)
	Float64(ctx Context, a, b, out []float64)
}
