package operators

import (
	"fmt"

	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

// definition is everything registered for one operator type.
type definition struct {
	schema   registry.Schema
	cpu      registry.Factory
	gradient registry.GradientMaker // nil when the operator stops gradient flow
}

func definitions() []definition {
	var defs []definition
	defs = append(defs, activations()...)
	defs = append(defs, mathOps()...)
	return defs
}

// Register adds all built-in operators to ops and their gradient rules to
// grads.
func Register(ops *registry.Registry, grads *registry.GradientRegistry) error {
	for _, d := range definitions() {
		if err := ops.RegisterSchema(d.schema); err != nil {
			return fmt.Errorf("register schema: %w", err)
		}
		if err := ops.RegisterOperator(d.schema.Name, tensor.CPU, d.cpu); err != nil {
			return fmt.Errorf("register operator: %w", err)
		}
		if d.gradient == nil {
			continue
		}
		if err := grads.RegisterGradient(d.schema.Name, d.gradient); err != nil {
			return fmt.Errorf("register gradient: %w", err)
		}
	}
	return nil
}
