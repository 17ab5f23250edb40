// Package catalog builds the operator catalog a process uses: the operator
// registry and the gradient rule registry, populated once and then sealed.
//
// The catalog is passed explicitly to the executor and the differentiation
// pass; there is no package-level registry.
package catalog

import (
	"github.com/born-ml/opset/internal/operators"
	"github.com/born-ml/opset/internal/registry"
)

// RegisterFunc adds operators and gradient rules to a catalog under
// construction.
type RegisterFunc func(ops *registry.Registry, grads *registry.GradientRegistry) error

// Catalog is a sealed pair of registries. Safe for concurrent use.
type Catalog struct {
	Operators *registry.Registry
	Gradients *registry.GradientRegistry
}

// New returns a catalog holding the built-in operators.
func New() (*Catalog, error) {
	return NewWith()
}

// NewWith returns a catalog holding the built-in operators plus whatever
// extra registers, in order, before sealing.
func NewWith(extra ...RegisterFunc) (*Catalog, error) {
	c := &Catalog{
		Operators: registry.New(),
		Gradients: registry.NewGradientRegistry(),
	}

	for _, register := range append([]RegisterFunc{operators.Register}, extra...) {
		if err := register(c.Operators, c.Gradients); err != nil {
			return nil, err
		}
	}

	c.Operators.Seal()
	c.Gradients.Seal()
	return c, nil
}
