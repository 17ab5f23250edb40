package workspace

import (
	"context"

	"github.com/born-ml/opset/internal/autodiff"
	"github.com/born-ml/opset/internal/registry"
)

// RunGradient differentiates forward with respect to the given output blobs
// and runs the resulting backward net. forward must already have run: the
// backward ops read its outputs.
//
// Each output Y is seeded with a blob "Y_grad" of ones unless that blob
// already exists, in which case its contents are used as the upstream
// gradient.
func (w *Workspace) RunGradient(ctx context.Context, forward *Net, outputs []string) (*autodiff.BackwardNet, error) {
	seeds := make(map[string]string, len(outputs))
	for _, name := range outputs {
		y, err := w.Blob(name)
		if err != nil {
			return nil, err
		}
		gradName := name + registry.GradientSuffix
		if !w.HasBlob(gradName) {
			g := y.Clone()
			g.Fill(1)
			w.SetBlob(gradName, g)
		}
		seeds[name] = gradName
	}

	b := autodiff.NewBuilder(w.catalog.Gradients, autodiff.WithLogger(w.logger))
	bw, err := b.Build(forward.Ops, seeds)
	if err != nil {
		return nil, err
	}

	if err := w.RunNet(ctx, &Net{Name: forward.Name + "_backward", Ops: bw.Ops}); err != nil {
		return nil, err
	}
	return bw, nil
}
