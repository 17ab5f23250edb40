package elementwise

import (
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

var defaultContext = registry.NewContext(tensor.CPU, parallel.DefaultConfig())

// checkArity fails with ErrArity unless schema has exactly the adapter's
// fixed slot counts.
func checkArity(schema *registry.Schema, numInputs, numOutputs int) error {
	if schema == nil {
		return &registry.OpError{Op: "<nil>", Constraint: "nil schema", Err: registry.ErrArity}
	}
	if schema.NumInputs != numInputs || schema.NumOutputs != numOutputs {
		return registry.Errorf(schema.Name, registry.ErrArity,
			"adapter takes %d input(s) and %d output(s), schema declares %d and %d",
			numInputs, numOutputs, schema.NumInputs, schema.NumOutputs)
	}
	return nil
}

// validate checks operands against schema and returns their shared dtype and
// element count. Nothing is written.
func validate(schema *registry.Schema, inputs, outputs []*tensor.RawTensor) (tensor.DataType, int, error) {
	name := schema.Name
	if len(inputs) != schema.NumInputs {
		return 0, 0, registry.Errorf(name, registry.ErrArity, "inputs: want %d, got %d", schema.NumInputs, len(inputs))
	}
	if len(outputs) != schema.NumOutputs {
		return 0, 0, registry.Errorf(name, registry.ErrArity, "outputs: want %d, got %d", schema.NumOutputs, len(outputs))
	}
	for i, t := range inputs {
		if t == nil {
			return 0, 0, registry.Errorf(name, registry.ErrArity, "input %d is nil", i)
		}
	}
	for i, t := range outputs {
		if t == nil {
			return 0, 0, registry.Errorf(name, registry.ErrArity, "output %d is nil", i)
		}
	}

	dtype := inputs[0].DType()
	n := inputs[0].NumElements()
	check := func(kind string, i int, t *tensor.RawTensor) error {
		if t.DType() != dtype {
			return registry.Errorf(name, registry.ErrDTypeMismatch, "%s %d is %s, input 0 is %s", kind, i, t.DType(), dtype)
		}
		if t.NumElements() != n {
			return registry.Errorf(name, registry.ErrShapeMismatch,
				"%s %d has %d elements, input 0 has %d", kind, i, t.NumElements(), n)
		}
		return nil
	}
	for i, t := range inputs {
		if err := check("input", i, t); err != nil {
			return 0, 0, err
		}
	}
	for i, t := range outputs {
		if err := check("output", i, t); err != nil {
			return 0, 0, err
		}
	}
	if !dtype.IsFloat() {
		return 0, 0, registry.Errorf(name, registry.ErrUnsupportedDType, "%s", dtype)
	}

	for o, out := range outputs {
		for i, in := range inputs {
			exact, overlaps := out.Overlap(in)
			if !overlaps {
				continue
			}
			if !exact {
				return 0, 0, registry.Errorf(name, registry.ErrInplaceNotAllowed,
					"output %d partially overlaps input %d", o, i)
			}
			if !schema.AllowsInplace(i, o) {
				return 0, 0, registry.Errorf(name, registry.ErrInplaceNotAllowed,
					"output %d aliases input %d", o, i)
			}
		}
	}
	return dtype, n, nil
}
