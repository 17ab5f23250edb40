// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff derives backward nets from forward nets.
//
// Differentiation is symbolic: the builder asks the catalog's gradient
// registry for each forward op's backward ops and returns them as a net that
// a workspace runs after the forward pass.
//
// Example:
//
//	cat, _ := catalog.New()
//	b := autodiff.NewBuilder(cat)
//	bw, _ := b.Build(forward.Ops, map[string]string{"Y": "Y_grad"})
//	// bw.Grads["X"] names the blob holding dL/dX.
package autodiff

import (
	"github.com/born-ml/opset/catalog"
	"github.com/born-ml/opset/internal/autodiff"
)

// Builder derives backward nets.
type Builder = autodiff.Builder

// BackwardNet is the result of a Build.
type BackwardNet = autodiff.BackwardNet

// Option configures a Builder.
type Option = autodiff.Option

// WithLogger sets the logger used to report dead ends and generated ops.
var WithLogger = autodiff.WithLogger

// NewBuilder creates a builder reading gradient rules from cat.
func NewBuilder(cat *catalog.Catalog, opts ...Option) *Builder {
	return autodiff.NewBuilder(cat.Gradients, opts...)
}
