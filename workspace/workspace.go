// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package workspace runs operator nets over named blobs.
//
// Example:
//
//	cat, _ := catalog.New()
//	ws := workspace.New(cat)
//	x, _ := tensor.FromFloat32([]float32{0, 0.5, 1})
//	ws.SetBlob("X", x)
//	net := &workspace.Net{Name: "fwd", Ops: []catalog.OperatorDef{
//	    {Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"Y"}},
//	}}
//	_ = ws.RunNet(ctx, net)
//	bw, _ := ws.RunGradient(ctx, net, []string{"Y"})
//	dx, _ := ws.Blob(bw.Grads["X"])
package workspace

import (
	"github.com/born-ml/opset/catalog"
	"github.com/born-ml/opset/internal/workspace"
)

// Workspace holds named blobs and instantiated operators.
type Workspace = workspace.Workspace

// Net is a named sequence of operator definitions.
type Net = workspace.Net

// Option configures a Workspace.
type Option = workspace.Option

// ErrBlobNotFound is returned when a named blob does not exist.
var ErrBlobNotFound = workspace.ErrBlobNotFound

// WithLogger sets the workspace logger.
var WithLogger = workspace.WithLogger

// New creates an empty workspace bound to cat.
func New(cat *catalog.Catalog, opts ...Option) *Workspace {
	return workspace.New(cat, opts...)
}
