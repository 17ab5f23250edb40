package registry

import (
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/tensor"
)

// Context is the execution handle passed to operators. Operators forward it
// to their functors untouched.
type Context struct {
	device   tensor.Device
	parallel parallel.Config
}

// NewContext creates a context for device with the given fan-out config.
func NewContext(device tensor.Device, cfg parallel.Config) *Context {
	return &Context{device: device, parallel: cfg}
}

// Device returns the device operators run on.
func (c *Context) Device() tensor.Device {
	return c.device
}

// Parallel returns the index-range fan-out configuration.
func (c *Context) Parallel() parallel.Config {
	return c.parallel
}

// Operator is an instantiated operator bound to one backend.
//
// Run either fully applies the operator or returns an error without writing
// any output.
type Operator interface {
	Schema() *Schema
	Run(ctx *Context, inputs, outputs []*tensor.RawTensor) error
}

// Factory builds an Operator for a registered schema.
type Factory func(schema *Schema) (Operator, error)
