package functor

import "github.com/born-ml/opset/internal/tensor"

// Add is elementwise addition: out = a + b.
type Add struct{}

// Float32 implements Binary.
func (Add) Float32(_ Context, a, b, out []float32) { addKernel(a, b, out) }

// Float64 implements Binary.
func (Add) Float64(_ Context, a, b, out []float64) { addKernel(a, b, out) }

func addKernel[T tensor.Float](a, b, out []T) {
	a, b = a[:len(out)], b[:len(out)]
	for i := range out {
		out[i] = a[i] + b[i]
	}
}
