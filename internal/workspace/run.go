package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

var tracer = otel.Tracer("github.com/born-ml/opset/internal/workspace")

// RunNet runs the ops of net in order. Each op's outputs are stored as blobs
// once it succeeds. The run stops at the first failing op; ctx is checked
// between ops.
func (w *Workspace) RunNet(ctx context.Context, net *Net) (err error) {
	runID := uuid.NewString()
	logger := w.logger.With().Str("net", net.Name).Str("run_id", runID).Logger()

	ctx, span := tracer.Start(ctx, "RunNet", trace.WithAttributes(
		attribute.String("net", net.Name),
		attribute.String("run_id", runID),
		attribute.Int("ops", len(net.Ops)),
	))
	defer func() {
		NetRuns.WithLabelValues(status(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	for i, def := range net.Ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.runOp(ctx, def); err != nil {
			logger.Error().Err(err).Int("index", i).Str("op", def.Type).Msg("operator failed")
			return fmt.Errorf("net %q op %d (%s): %w", net.Name, i, def.Type, err)
		}
	}
	logger.Debug().Int("ops", len(net.Ops)).Dur("elapsed", time.Since(start)).Msg("net finished")
	return nil
}

func (w *Workspace) runOp(ctx context.Context, def registry.OperatorDef) (err error) {
	_, span := tracer.Start(ctx, def.Type, trace.WithAttributes(
		attribute.String("device", def.Device.String()),
		attribute.StringSlice("inputs", def.Inputs),
		attribute.StringSlice("outputs", def.Outputs),
	))
	defer span.End()

	op, err := w.operator(def)
	if err != nil {
		span.RecordError(err)
		return err
	}

	inputs := make([]*tensor.RawTensor, len(def.Inputs))
	for i, name := range def.Inputs {
		if inputs[i], err = w.Blob(name); err != nil {
			return err
		}
	}
	outputs, err := w.outputBlobs(def, inputs)
	if err != nil {
		return err
	}

	start := time.Now()
	err = op.Run(registry.NewContext(def.Device, w.parallel), inputs, outputs)
	OperatorDuration.WithLabelValues(def.Type, def.Device.String()).Observe(time.Since(start).Seconds())
	OperatorRuns.WithLabelValues(def.Type, def.Device.String(), status(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for i, name := range def.Outputs {
		w.blobs[name] = outputs[i]
	}
	w.logger.Trace().Stringer("def", def).Msg("operator ran")
	return nil
}

// outputBlobs picks the tensor each output is written to: the input tensor
// for in-place outputs, an existing blob of matching shape and type, or a new
// tensor shaped like input 0.
func (w *Workspace) outputBlobs(def registry.OperatorDef, inputs []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if len(inputs) == 0 {
		return nil, registry.Errorf(def.Type, registry.ErrArity, "cannot infer output shape without inputs")
	}
	like := inputs[0]

	outputs := make([]*tensor.RawTensor, len(def.Outputs))
	for j, name := range def.Outputs {
		if k := indexOf(def.Inputs, name); k >= 0 {
			outputs[j] = inputs[k]
			continue
		}
		if t, ok := w.blobs[name]; ok && t.DType() == like.DType() && t.Shape().Equal(like.Shape()) {
			outputs[j] = t
			continue
		}
		t, err := tensor.NewRaw(like.Shape(), like.DType(), def.Device)
		if err != nil {
			return nil, fmt.Errorf("allocate output %q: %w", name, err)
		}
		outputs[j] = t
	}
	return outputs, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
