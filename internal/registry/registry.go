// Package registry holds operator schemas, per-device operator factories and
// gradient rules.
//
// Registries are filled once at start-up and then sealed. After Seal they are
// read-only and safe for concurrent lookups without locking.
package registry

import (
	"slices"
	"strings"

	"github.com/born-ml/opset/internal/tensor"
)

type opKey struct {
	name   string
	device tensor.Device
}

// Registry maps operator names to schemas and (name, device) pairs to
// factories.
type Registry struct {
	schemas   map[string]*Schema
	factories map[opKey]Factory
	sealed    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		schemas:   make(map[string]*Schema),
		factories: make(map[opKey]Factory),
	}
}

// RegisterSchema adds a schema. The schema is copied.
func (r *Registry) RegisterSchema(s Schema) error {
	if r.sealed {
		return &OpError{Op: s.Name, Err: ErrSealed}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := r.schemas[s.Name]; ok {
		return &OpError{Op: s.Name, Constraint: "schema already registered", Err: ErrDuplicateSchema}
	}

	s.Inplace = slices.Clone(s.Inplace)
	s.Inputs = slices.Clone(s.Inputs)
	s.Outputs = slices.Clone(s.Outputs)
	r.schemas[s.Name] = &s
	return nil
}

// RegisterOperator binds a factory to (name, device). The schema for name
// must already be registered.
func (r *Registry) RegisterOperator(name string, device tensor.Device, factory Factory) error {
	if r.sealed {
		return &OpError{Op: name, Err: ErrSealed}
	}
	if _, ok := r.schemas[name]; !ok {
		return Errorf(name, ErrNotFound, "no schema registered for device %s", device)
	}
	key := opKey{name: name, device: device}
	if _, ok := r.factories[key]; ok {
		return Errorf(name, ErrDuplicateRegistration, "already registered for device %s", device)
	}
	r.factories[key] = factory
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.sealed = true
}

// Resolve returns the factory registered for (name, device).
func (r *Registry) Resolve(name string, device tensor.Device) (Factory, error) {
	f, ok := r.factories[opKey{name: name, device: device}]
	if !ok {
		return nil, Errorf(name, ErrNotFound, "no implementation for device %s", device)
	}
	return f, nil
}

// Create resolves (name, device) and builds an operator from its schema.
func (r *Registry) Create(name string, device tensor.Device) (Operator, error) {
	f, err := r.Resolve(name, device)
	if err != nil {
		return nil, err
	}
	return f(r.schemas[name])
}

// Schema returns the schema registered under name. The result must not be
// modified.
func (r *Registry) Schema(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, Errorf(name, ErrNotFound, "no schema registered")
	}
	return s, nil
}

// Schemas returns all schemas sorted by name.
func (r *Registry) Schemas() []*Schema {
	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Schema) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Devices returns the devices name has an implementation for, in device
// order.
func (r *Registry) Devices(name string) []tensor.Device {
	var out []tensor.Device
	for key := range r.factories {
		if key.name == name {
			out = append(out, key.device)
		}
	}
	slices.Sort(out)
	return out
}
