package elementwise

import (
	"github.com/born-ml/opset/internal/functor"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/x448/float16"
)

// Unary applies a functor.Unary from input 0 to output 0.
type Unary struct {
	schema *registry.Schema
	f      functor.Unary
}

// NewUnary binds f to schema, which must declare one input and one output.
func NewUnary(schema *registry.Schema, f functor.Unary) (*Unary, error) {
	if err := checkArity(schema, 1, 1); err != nil {
		return nil, err
	}
	return &Unary{schema: schema, f: f}, nil
}

// UnaryFactory returns a registry.Factory producing Unary operators for f.
func UnaryFactory(f functor.Unary) registry.Factory {
	return func(schema *registry.Schema) (registry.Operator, error) {
		return NewUnary(schema, f)
	}
}

// Schema returns the schema the operator was built from.
func (u *Unary) Schema() *registry.Schema {
	return u.schema
}

// Run applies the functor. Output 0 may be input 0 itself when the schema
// declares the (0, 0) in-place pair.
func (u *Unary) Run(ctx *registry.Context, inputs, outputs []*tensor.RawTensor) error {
	dtype, n, err := validate(u.schema, inputs, outputs)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = defaultContext
	}
	cfg := ctx.Parallel()

	switch dtype {
	case tensor.Float32:
		x, y := inputs[0].AsFloat32(), outputs[0].AsFloat32()
		parallel.Range(n, func(s, e int) {
			u.f.Float32(ctx, x[s:e], y[s:e])
		}, cfg)
	case tensor.Float64:
		x, y := inputs[0].AsFloat64(), outputs[0].AsFloat64()
		parallel.Range(n, func(s, e int) {
			u.f.Float64(ctx, x[s:e], y[s:e])
		}, cfg)
	case tensor.Float16:
		x, y := inputs[0].AsFloat16(), outputs[0].AsFloat16()
		parallel.Range(n, func(s, e int) {
			buf := widen(x[s:e])
			u.f.Float32(ctx, buf, buf)
			narrow(buf, y[s:e])
		}, cfg)
	}
	return nil
}

func widen(src []float16.Float16) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = v.Float32()
	}
	return dst
}

func narrow(src []float32, dst []float16.Float16) {
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
}
