package elementwise

import (
	"github.com/born-ml/opset/internal/functor"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

// Binary applies a functor.Binary from inputs 0 and 1 to output 0.
//
// Gradient operators use it with input 0 = forward output, input 1 = output
// gradient and output 0 = input gradient.
type Binary struct {
	schema *registry.Schema
	f      functor.Binary
}

// NewBinary binds f to schema, which must declare two inputs and one output.
func NewBinary(schema *registry.Schema, f functor.Binary) (*Binary, error) {
	if err := checkArity(schema, 2, 1); err != nil {
		return nil, err
	}
	return &Binary{schema: schema, f: f}, nil
}

// BinaryFactory returns a registry.Factory producing Binary operators for f.
func BinaryFactory(f functor.Binary) registry.Factory {
	return func(schema *registry.Schema) (registry.Operator, error) {
		return NewBinary(schema, f)
	}
}

// Schema returns the schema the operator was built from.
func (b *Binary) Schema() *registry.Schema {
	return b.schema
}

// Run applies the functor.
func (b *Binary) Run(ctx *registry.Context, inputs, outputs []*tensor.RawTensor) error {
	dtype, n, err := validate(b.schema, inputs, outputs)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = defaultContext
	}
	cfg := ctx.Parallel()

	switch dtype {
	case tensor.Float32:
		x0, x1, y := inputs[0].AsFloat32(), inputs[1].AsFloat32(), outputs[0].AsFloat32()
		parallel.Range(n, func(s, e int) {
			b.f.Float32(ctx, x0[s:e], x1[s:e], y[s:e])
		}, cfg)
	case tensor.Float64:
		x0, x1, y := inputs[0].AsFloat64(), inputs[1].AsFloat64(), outputs[0].AsFloat64()
		parallel.Range(n, func(s, e int) {
			b.f.Float64(ctx, x0[s:e], x1[s:e], y[s:e])
		}, cfg)
	case tensor.Float16:
		x0, x1, y := inputs[0].AsFloat16(), inputs[1].AsFloat16(), outputs[0].AsFloat16()
		parallel.Range(n, func(s, e int) {
			a, c := widen(x0[s:e]), widen(x1[s:e])
			b.f.Float32(ctx, a, c, c)
			narrow(c, y[s:e])
		}, cfg)
	}
	return nil
}
