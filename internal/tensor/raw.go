package tensor

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/x448/float16"
)

// Device identifies the execution backend a tensor lives on and an operator
// implementation is registered for.
type Device int

// Known devices. Only CPU ships kernels; the others exist as registration keys.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// ParseDevice maps a device name (case-sensitive, as printed by String) back
// to a Device.
func ParseDevice(name string) (Device, error) {
	for d := CPU; d <= WebGPU; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return CPU, fmt.Errorf("unknown device %q", name)
}

// storage is the backing allocation shared by a tensor and its views.
type storage struct {
	data []byte
}

// RawTensor is the low-level tensor representation.
// Views created with View share storage with their parent.
type RawTensor struct {
	buffer *storage // Backing allocation, possibly shared with views
	shape  Shape    // Tensor dimensions
	dtype  DataType // Runtime type information
	device Device   // Compute device
	offset int      // Byte offset into buffer
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	n := shape.NumElements()
	if n > math.MaxInt/dtype.Size() {
		return nil, fmt.Errorf("invalid shape: %v of %s exceeds addressable memory", shape, dtype)
	}
	byteSize := n * dtype.Size()

	return &RawTensor{
		buffer: &storage{data: make([]byte, byteSize)},
		shape:  shape.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromFloat32 creates a 1-D CPU float32 tensor holding a copy of data.
func FromFloat32(data []float32) (*RawTensor, error) {
	t, err := NewRaw(Shape{len(data)}, Float32, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromFloat64 creates a 1-D CPU float64 tensor holding a copy of data.
func FromFloat64(data []float64) (*RawTensor, error) {
	t, err := NewRaw(Shape{len(data)}, Float64, CPU)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat64(), data)
	return t, nil
}

// FromFloat16 creates a 1-D CPU float16 tensor, rounding each value of data
// to half precision.
func FromFloat16(data []float32) (*RawTensor, error) {
	t, err := NewRaw(Shape{len(data)}, Float16, CPU)
	if err != nil {
		return nil, err
	}
	dst := t.AsFloat16()
	for i, v := range data {
		dst[i] = float16.Fromfloat32(v)
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data[r.offset : r.offset+r.ByteSize()]
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	if r.dtype != Float16 {
		panic(fmt.Sprintf("tensor dtype is %s, not float16", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Float64s returns a widened copy of the elements of a floating point tensor.
func (r *RawTensor) Float64s() []float64 {
	out := make([]float64, r.NumElements())
	switch r.dtype {
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	case Float16:
		for i, v := range r.AsFloat16() {
			out[i] = float64(v.Float32())
		}
	default:
		panic(fmt.Sprintf("tensor dtype is %s, not a float type", r.dtype))
	}
	return out
}

// Clone returns a deep copy with its own storage.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, r.ByteSize())
	copy(data, r.Data())
	return &RawTensor{
		buffer: &storage{data: data},
		shape:  r.shape.Clone(),
		dtype:  r.dtype,
		device: r.device,
	}
}

// View returns a 1-D tensor of n elements starting at element start that
// shares storage with r.
func (r *RawTensor) View(start, n int) (*RawTensor, error) {
	if start < 0 || n <= 0 || start+n > r.NumElements() {
		return nil, fmt.Errorf("view [%d, %d) out of range for %d elements", start, start+n, r.NumElements())
	}
	return &RawTensor{
		buffer: r.buffer,
		shape:  Shape{n},
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset + start*r.dtype.Size(),
	}, nil
}

// Overlap reports how the storage of r relates to other. exact is true when
// both tensors start at the same address with the same byte length; overlaps
// is true whenever their byte ranges intersect.
func (r *RawTensor) Overlap(other *RawTensor) (exact, overlaps bool) {
	if r.buffer != other.buffer {
		return false, false
	}
	aStart, aEnd := r.offset, r.offset+r.ByteSize()
	bStart, bEnd := other.offset, other.offset+other.ByteSize()
	overlaps = aStart < bEnd && bStart < aEnd
	exact = aStart == bStart && aEnd == bEnd
	return exact, overlaps
}

// Fill sets every element of a floating point tensor to v.
func (r *RawTensor) Fill(v float64) {
	switch r.dtype {
	case Float32:
		data := r.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = v
		}
	case Float16:
		h := float16.Fromfloat32(float32(v))
		data := r.AsFloat16()
		for i := range data {
			data[i] = h
		}
	default:
		panic(fmt.Sprintf("fill: unsupported dtype %s", r.dtype))
	}
}
