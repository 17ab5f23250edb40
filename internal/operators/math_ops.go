package operators

import (
	"github.com/born-ml/opset/internal/elementwise"
	"github.com/born-ml/opset/internal/functor"
	"github.com/born-ml/opset/internal/registry"
)

// Add is the elementwise sum operator type.
const Add = "Add"

func mathOps() []definition {
	return []definition{
		{
			schema: registry.Schema{
				Name:       Add,
				NumInputs:  2,
				NumOutputs: 1,
				Inplace: []registry.InplacePair{
					{Input: 0, Output: 0},
					{Input: 1, Output: 0},
				},
				Doc: "Element-wise sum of two tensors holding the same number of elements. No broadcasting.",
				Inputs: []registry.SlotDoc{
					{Index: 0, Name: "A", Description: "First operand"},
					{Index: 1, Name: "B", Description: "Second operand"},
				},
				Outputs: []registry.SlotDoc{
					{Index: 0, Name: "C", Description: "A + B"},
				},
			},
			cpu:      elementwise.BinaryFactory(functor.Add{}),
			gradient: addGradient,
		},
	}
}

// addGradient passes the output gradient through to both inputs unchanged;
// no backward op is needed.
func addGradient(req registry.GradientRequest) (registry.GradientResult, error) {
	return registry.GradientResult{
		InputGrads: []string{req.GO(0), req.GO(0)},
	}, nil
}
