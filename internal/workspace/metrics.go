package workspace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperatorRuns counts operator invocations by type, device and outcome.
	OperatorRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opset_operator_runs_total",
		Help: "Operator invocations by type, device and status",
	}, []string{"op_type", "device", "status"})

	// OperatorDuration tracks time spent inside operator Run calls.
	OperatorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "opset_operator_duration_seconds",
		Help:    "Time spent running a single operator",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"op_type", "device"})

	// NetRuns counts net executions by outcome.
	NetRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "opset_net_runs_total",
		Help: "Net executions by status",
	}, []string{"status"})
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
