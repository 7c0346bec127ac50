package spans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// withoutTracer counts executions that ran unspanned because the
// context carried no tracer. A nonzero rate usually means WithTracer
// was skipped somewhere on the call path.
//
// Metric name: validation_spans_without_tracer_total
// Labels:
//   - span_name: The name the span would have carried
//
// Example PromQL query:
//
//	sum by (span_name) (rate(validation_spans_without_tracer_total[5m]))
var withoutTracer = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "validation",
		Subsystem: "spans",
		Name:      "without_tracer_total",
		Help:      "Total number of executions without a tracer in context",
	},
	[]string{"span_name"},
)
