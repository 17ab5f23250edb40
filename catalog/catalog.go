// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package catalog provides the sealed set of operators and gradient rules.
//
// A Catalog is built once, populated with the built-in operators (Tanh,
// TanhGradient, Add) plus any extra registrations, and then sealed. It is
// passed explicitly to workspaces and gradient builders.
//
// Example:
//
//	cat, err := catalog.New()
//	if err != nil {
//	    return err
//	}
//	schema, _ := cat.Operators.Schema("Tanh")
//	fmt.Println(schema.Doc)
package catalog

import (
	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/registry"
)

// Catalog is a sealed operator registry and gradient registry pair.
type Catalog = catalog.Catalog

// RegisterFunc adds operators and gradient rules before sealing.
type RegisterFunc = catalog.RegisterFunc

// Schema describes an operator's arity, in-place pairs and documentation.
type Schema = registry.Schema

// InplacePair declares that an input may share storage with an output.
type InplacePair = registry.InplacePair

// SlotDoc documents one input or output slot.
type SlotDoc = registry.SlotDoc

// Operator is an instantiated operator implementation.
type Operator = registry.Operator

// Factory creates an Operator for a schema.
type Factory = registry.Factory

// OperatorDef is a symbolic operator invocation over named blobs.
type OperatorDef = registry.OperatorDef

// GradientMaker produces the backward ops of a forward op.
type GradientMaker = registry.GradientMaker

// GradientRequest is the input to a GradientMaker.
type GradientRequest = registry.GradientRequest

// GradientResult is the output of a GradientMaker.
type GradientResult = registry.GradientResult

// Registry errors, for use with errors.Is.
var (
	ErrNotFound          = registry.ErrNotFound
	ErrNoGradientDefined = registry.ErrNoGradientDefined
	ErrInplaceNotAllowed = registry.ErrInplaceNotAllowed
	ErrSealed            = registry.ErrSealed
	ErrOverwrittenInput  = registry.ErrOverwrittenInput
)

// New returns a catalog holding the built-in operators.
func New() (*Catalog, error) {
	return catalog.New()
}

// NewWith returns a catalog holding the built-in operators plus extra.
func NewWith(extra ...RegisterFunc) (*Catalog, error) {
	return catalog.NewWith(extra...)
}
