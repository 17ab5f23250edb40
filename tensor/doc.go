// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the raw tensor type operators read and write.
//
// A RawTensor is a flat, typed byte buffer with a shape and a device. Views
// created with View share storage with their parent, which is how in-place
// execution and aliasing checks are expressed.
//
// Example:
//
//	x, _ := tensor.FromFloat32([]float32{-1, 0, 1})
//	y := x.Clone()
//	_ = y.AsFloat32()
package tensor
