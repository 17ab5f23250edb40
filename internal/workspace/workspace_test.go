package workspace

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/parallel"
	"github.com/born-ml/opset/internal/registry"
	"github.com/born-ml/opset/internal/tensor"
)

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return New(cat, WithParallel(parallel.Sequential()))
}

func setFloat32(t *testing.T, w *Workspace, name string, data ...float32) {
	t.Helper()
	raw, err := tensor.FromFloat32(data)
	require.NoError(t, err)
	w.SetBlob(name, raw)
}

func blobFloat32(t *testing.T, w *Workspace, name string) []float32 {
	t.Helper()
	raw, err := w.Blob(name)
	require.NoError(t, err)
	return raw.AsFloat32()
}

func tanhNet(in, out string) *Net {
	return &Net{Name: "tanh", Ops: []registry.OperatorDef{
		{Type: "Tanh", Inputs: []string{in}, Outputs: []string{out}},
	}}
}

func TestForwardBackward(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 0, 1, -1)

	net := tanhNet("X", "Y")
	require.NoError(t, w.RunNet(context.Background(), net))
	assert.InDeltaSlice(t, []float32{0, 0.7615942, -0.7615942}, blobFloat32(t, w, "Y"), 1e-6)

	bw, err := w.RunGradient(context.Background(), net, []string{"Y"})
	require.NoError(t, err)
	assert.Equal(t, "X_grad", bw.Grads["X"])
	assert.InDeltaSlice(t, []float32{1, 0.41997434, 0.41997434}, blobFloat32(t, w, "X_grad"), 1e-6)
}

func TestGradientUsesExistingSeed(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 0, 0.5)
	setFloat32(t, w, "Y_grad", 2, -3)

	net := tanhNet("X", "Y")
	require.NoError(t, w.RunNet(context.Background(), net))
	_, err := w.RunGradient(context.Background(), net, []string{"Y"})
	require.NoError(t, err)

	th := math.Tanh(0.5)
	assert.InDeltaSlice(t, []float32{2, float32(-3 * (1 - th*th))}, blobFloat32(t, w, "X_grad"), 1e-6)
}

func TestFanOutGradientIsSummed(t *testing.T) {
	w := newWorkspace(t)
	xs := []float32{-1.5, 0, 0.3, 2}
	setFloat32(t, w, "X", xs...)

	net := &Net{Name: "fanout", Ops: []registry.OperatorDef{
		{Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"A"}},
		{Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"B"}},
		{Type: "Add", Inputs: []string{"A", "B"}, Outputs: []string{"Y"}},
	}}
	require.NoError(t, w.RunNet(context.Background(), net))
	bw, err := w.RunGradient(context.Background(), net, []string{"Y"})
	require.NoError(t, err)

	got := blobFloat32(t, w, bw.Grads["X"])
	for i, x := range xs {
		th := math.Tanh(float64(x))
		assert.InDelta(t, 2*(1-th*th), got[i], 1e-6, "x=%v", x)
	}
}

func TestInplaceForwardGradient(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 0, 1, -1)
	x, _ := w.Blob("X")

	net := tanhNet("X", "X")
	require.NoError(t, w.RunNet(context.Background(), net))

	same, _ := w.Blob("X")
	assert.Same(t, x, same, "in-place op should reuse the input tensor")
	assert.InDeltaSlice(t, []float32{0, 0.7615942, -0.7615942}, same.AsFloat32(), 1e-6)

	bw, err := w.RunGradient(context.Background(), net, []string{"X"})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 0.41997434, 0.41997434}, blobFloat32(t, w, bw.Grads["X"]), 1e-6)
}

func TestChainedInplaceGradientRejected(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 1)

	net := &Net{Name: "chain", Ops: []registry.OperatorDef{
		{Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"X"}},
		{Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"X"}},
	}}
	require.NoError(t, w.RunNet(context.Background(), net))

	_, err := w.RunGradient(context.Background(), net, []string{"X"})
	require.ErrorIs(t, err, registry.ErrOverwrittenInput)
	assert.False(t, w.HasBlob("X_grad_autosplit_1"), "no backward op may run")
}

func TestRunNetErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing blob", func(t *testing.T) {
		w := newWorkspace(t)
		err := w.RunNet(ctx, tanhNet("X", "Y"))
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("unknown operator", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "X", 1)
		err := w.RunNet(ctx, &Net{Ops: []registry.OperatorDef{
			{Type: "Relu", Inputs: []string{"X"}, Outputs: []string{"Y"}},
		}})
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("unregistered device", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "X", 1)
		err := w.RunNet(ctx, &Net{Ops: []registry.OperatorDef{
			{Type: "Tanh", Inputs: []string{"X"}, Outputs: []string{"Y"}, Device: tensor.CUDA},
		}})
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("arity", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "X", 1)
		err := w.RunNet(ctx, &Net{Ops: []registry.OperatorDef{
			{Type: "Tanh", Inputs: []string{"X", "X"}, Outputs: []string{"Y"}},
		}})
		assert.ErrorIs(t, err, registry.ErrArity)
	})

	t.Run("undeclared in-place", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "Y", 0.5)
		setFloat32(t, w, "dY", 1)
		err := w.RunNet(ctx, &Net{Ops: []registry.OperatorDef{
			{Type: "TanhGradient", Inputs: []string{"Y", "dY"}, Outputs: []string{"Y"}},
		}})
		assert.ErrorIs(t, err, registry.ErrInplaceNotAllowed)
	})

	t.Run("shape mismatch leaves no output", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "Y", 0.5, 0.5)
		setFloat32(t, w, "dY", 1)
		err := w.RunNet(ctx, &Net{Ops: []registry.OperatorDef{
			{Type: "TanhGradient", Inputs: []string{"Y", "dY"}, Outputs: []string{"dX"}},
		}})
		assert.ErrorIs(t, err, registry.ErrShapeMismatch)
		assert.False(t, w.HasBlob("dX"))
	})

	t.Run("cancelled", func(t *testing.T) {
		w := newWorkspace(t)
		setFloat32(t, w, "X", 1)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := w.RunNet(cctx, tanhNet("X", "Y"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, w.HasBlob("Y"))
	})
}

func TestOutputBlobReused(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 1, 2)
	setFloat32(t, w, "Y", 9, 9)
	y, _ := w.Blob("Y")

	require.NoError(t, w.RunNet(context.Background(), tanhNet("X", "Y")))

	got, _ := w.Blob("Y")
	assert.Same(t, y, got)
	assert.InDelta(t, math.Tanh(1), got.AsFloat32()[0], 1e-6)
}

func TestOutputBlobWithOtherShapeReplaced(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 1, 2)
	old, err := tensor.NewRaw(tensor.Shape{2, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	w.SetBlob("Y", old)

	require.NoError(t, w.RunNet(context.Background(), tanhNet("X", "Y")))

	y, err := w.Blob("Y")
	require.NoError(t, err)
	assert.NotSame(t, old, y)
	assert.Equal(t, tensor.Shape{2}, y.Shape())
	assert.Equal(t, []float32{0, 0}, old.AsFloat32())
}

func TestMetricsRecorded(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "X", 1)

	before := testutil.ToFloat64(OperatorRuns.WithLabelValues("Tanh", "CPU", "ok"))
	require.NoError(t, w.RunNet(context.Background(), tanhNet("X", "Y")))
	after := testutil.ToFloat64(OperatorRuns.WithLabelValues("Tanh", "CPU", "ok"))

	assert.Equal(t, before+1, after)
}

func TestBlobNames(t *testing.T) {
	w := newWorkspace(t)
	setFloat32(t, w, "b", 1)
	setFloat32(t, w, "a", 1)

	assert.Equal(t, []string{"a", "b"}, w.BlobNames())
}
