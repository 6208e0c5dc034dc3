package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcomes recorded for CV operations.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var cvOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cv",
		Name:      "operations_total",
		Help:      "简历文档操作次数，按操作与结果区分。",
	},
	[]string{"operation", "outcome"},
)

// RecordCVOperation counts one store-backed CV operation.
func RecordCVOperation(operation, outcome string) {
	cvOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
