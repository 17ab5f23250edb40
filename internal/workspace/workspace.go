// Package workspace executes operator nets over named blobs.
//
// A Workspace owns a set of named tensors and runs OperatorDefs against them
// using the operators of a catalog. It also drives the gradient pass: given
// the output blobs of a forward net it seeds their gradients with ones,
// derives the backward ops, and runs them.
package workspace

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

// ErrBlobNotFound is returned when a named blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// Net is a named sequence of operator definitions run in order.
type Net struct {
	Name string
	Ops  []registry.OperatorDef
}

type opKey struct {
	typ    string
	device tensor.Device
}

// Workspace holds named blobs and instantiated operators.
// A Workspace is not safe for concurrent use.
type Workspace struct {
	catalog   *catalog.Catalog
	blobs     map[string]*tensor.RawTensor
	operators map[opKey]registry.Operator
	parallel  parallel.Config
	logger    zerolog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the workspace logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithParallel sets the fan-out used by elementwise operators.
func WithParallel(cfg parallel.Config) Option {
	return func(w *Workspace) {
		w.parallel = cfg
	}
}

// New creates an empty workspace backed by cat.
func New(cat *catalog.Catalog, opts ...Option) *Workspace {
	w := &Workspace{
		catalog:   cat,
		blobs:     make(map[string]*tensor.RawTensor),
		operators: make(map[opKey]registry.Operator),
		parallel:  parallel.DefaultConfig(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetBlob stores t under name, replacing any previous blob.
func (w *Workspace) SetBlob(name string, t *tensor.RawTensor) {
	w.blobs[name] = t
}

// Blob returns the blob stored under name.
func (w *Workspace) Blob(name string) (*tensor.RawTensor, error) {
	t, ok := w.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBlobNotFound, name)
	}
	return t, nil
}

// HasBlob reports whether name exists.
func (w *Workspace) HasBlob(name string) bool {
	_, ok := w.blobs[name]
	return ok
}

// BlobNames returns all blob names, sorted.
func (w *Workspace) BlobNames() []string {
	names := make([]string, 0, len(w.blobs))
	for name := range w.blobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// operator verifies def against its schema and returns the cached operator
// instance for (type, device).
func (w *Workspace) operator(def registry.OperatorDef) (registry.Operator, error) {
	schema, err := w.catalog.Operators.Schema(def.Type)
	if err != nil {
		return nil, err
	}
	if err := schema.Verify(def); err != nil {
		return nil, err
	}

	key := opKey{typ: def.Type, device: def.Device}
	if op, ok := w.operators[key]; ok {
		return op, nil
	}
	op, err := w.catalog.Operators.Create(def.Type, def.Device)
	if err != nil {
		return nil, err
	}
	w.operators[key] = op
	return op, nil
}
