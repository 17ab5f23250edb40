// Package autodiff builds reverse-mode gradient nets from forward nets.
//
// The pass is symbolic: it never touches tensor data. Walking the forward ops
// in reverse, it asks the gradient registry for each op's backward ops, keeps
// track of which blob holds the gradient of which forward blob, and sums
// gradients that reach one blob along several paths.
//
// Architecture:
//   - GradientRegistry: forward op type -> GradientMaker (see internal/registry)
//   - Builder: walks a forward net and emits backward OperatorDefs
//   - Operators without a gradient rule stop gradient flow
//
// Usage:
//
//	b := autodiff.NewBuilder(cat.Gradients)
//	bw, err := b.Build(forwardOps, map[string]string{"Y": "Y_grad"})
//	// run bw.Ops after the forward ops; bw.Grads["X"] names dL/dX.
package autodiff

import (
	"github.com/rs/zerolog"

	"github.com/born-ml/opset/internal/registry"
)

// AccumulateOp is the operator type used to sum gradients.
const AccumulateOp = "Add"

// Builder derives backward nets using a gradient registry.
type Builder struct {
	grads  *registry.GradientRegistry
	logger zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report dead ends and generated ops.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a builder reading rules from grads.
func NewBuilder(grads *registry.GradientRegistry, opts ...Option) *Builder {
	b := &Builder{
		grads:  grads,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}
