package operators

import (
	"github.com/born-ml/opset/internal/elementwise"
	"github.com/born-ml/opset/internal/functor"
	"github.com/born-ml/opset/internal/registry"
)

// Operator type names.
const (
	Tanh         = "Tanh"
	TanhGradient = "TanhGradient"
)

func activations() []definition {
	return []definition{
		{
			schema: registry.Schema{
				Name:       Tanh,
				NumInputs:  1,
				NumOutputs: 1,
				Inplace:    []registry.InplacePair{{Input: 0, Output: 0}},
				Doc: "Calculates the hyperbolic tangent of the given input tensor element-wise. " +
					"This operation can be done in an in-place fashion too, by providing the same " +
					"input and output blobs.",
				Inputs: []registry.SlotDoc{
					{Index: 0, Name: "input", Description: "1-D input tensor"},
				},
				Outputs: []registry.SlotDoc{
					{Index: 0, Name: "output", Description: "The hyperbolic tangent values of the input tensor computed element-wise"},
				},
			},
			cpu:      elementwise.UnaryFactory(functor.Tanh{}),
			gradient: tanhGradient,
		},
		{
			schema: registry.Schema{
				Name:       TanhGradient,
				NumInputs:  2,
				NumOutputs: 1,
				Inplace:    []registry.InplacePair{{Input: 1, Output: 0}},
				Doc:        "Computes the input gradient of Tanh from its output Y and output gradient dY: dX = dY * (1 - Y*Y).",
				Inputs: []registry.SlotDoc{
					{Index: 0, Name: "Y", Description: "Output of the forward Tanh"},
					{Index: 1, Name: "dY", Description: "Gradient of the loss with respect to Y"},
				},
				Outputs: []registry.SlotDoc{
					{Index: 0, Name: "dX", Description: "Gradient of the loss with respect to the Tanh input"},
				},
			},
			cpu: elementwise.BinaryFactory(functor.TanhGradient{}),
		},
	}
}

// tanhGradient needs only the forward output, so the forward input can be
// released before the backward pass.
func tanhGradient(req registry.GradientRequest) (registry.GradientResult, error) {
	return registry.SingleGradientDef(req, TanhGradient,
		[]string{req.O(0), req.GO(0)},
		[]string{req.GI(0)},
	), nil
}
