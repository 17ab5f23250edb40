// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/opset/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Typed data access via AsFloat32(), AsFloat64(), AsFloat16()
//   - Deep copies via Clone() and shared-storage views via View()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()
//	view, _ := raw.View(0, 3) // Aliases the first row
type RawTensor = tensor.RawTensor

// Shape is a tensor's dimensions.
type Shape = tensor.Shape

// DataType is a tensor element type.
type DataType = tensor.DataType

// Device identifies an execution backend.
type Device = tensor.Device

// Element types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Float16 = tensor.Float16
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// Devices.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	Vulkan = tensor.Vulkan
	Metal  = tensor.Metal
	WebGPU = tensor.WebGPU
)

// NewRaw allocates a zeroed tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32 creates a 1-D float32 CPU tensor holding a copy of data.
func FromFloat32(data []float32) (*RawTensor, error) {
	return tensor.FromFloat32(data)
}

// FromFloat64 creates a 1-D float64 CPU tensor holding a copy of data.
func FromFloat64(data []float64) (*RawTensor, error) {
	return tensor.FromFloat64(data)
}

// FromFloat16 creates a 1-D float16 CPU tensor, rounding each value of data.
func FromFloat16(data []float32) (*RawTensor, error) {
	return tensor.FromFloat16(data)
}

// ParseDevice maps a device name such as "CPU" to a Device.
func ParseDevice(name string) (Device, error) {
	return tensor.ParseDevice(name)
}
