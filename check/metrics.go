package check

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// checksTotal is a Prometheus counter that tracks the total number of
	// validated calls.
	//
	// This metric monitors checking activity across the application: how
	// many calls run through wrappers and dynamic invocation, and what
	// fraction of them carry bad arguments.
	//
	// Labels:
	//   - kind: "func" for plain callables, "constructor" for construction
	//     routines wrapped with WrapConstructor.
	//   - has_error: "true" if the call produced at least one constraint
	//     violation, "false" if every checked argument matched.
	//
	// The counter increments once per validated call, not per argument, so
	// a call with three offending arguments counts once here (and three
	// times in validation_check_violations_total).
	//
	// Usage example in dashboards:
	//   - rate(validation_check_calls_total[5m]) - Checked calls per second
	//   - sum(rate(validation_check_calls_total{has_error="true"}[5m]))
	//     / sum(rate(validation_check_calls_total[5m])) - Violation rate
	//   - validation_check_calls_total{kind="constructor"} - Constructor traffic
	//
	// The nolint:gochecknoglobals directive is used because Prometheus
	// metrics are intentionally global: registered once, collected for the
	// whole application lifecycle.
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "validation",
		Subsystem: "check",
		Name:      "calls_total",
		Help:      "The total number of validated calls",
	}, []string{"kind", "has_error"})

	// checkTime is a Prometheus histogram that tracks the duration of one
	// argument scan in microseconds.
	//
	// Scans are pure in-memory type matching, so the buckets sit well below
	// typical request-latency ranges. A scan drifting toward the top
	// buckets usually means a very wide signature or a pathological union.
	//
	// Labels:
	//   - callable: The declared display name of the callable being
	//     checked. High-cardinality names (per-request closures) should be
	//     wrapped once and reused rather than wrapped per call.
	//   - has_error: "true" if the scan found violations, "false" otherwise.
	//
	// Usage example in dashboards:
	//   - histogram_quantile(0.95, rate(validation_check_time_micros_bucket[5m])) - p95 scan time
	//   - rate(validation_check_time_micros_sum[5m]) / rate(validation_check_time_micros_count[5m]) - Average duration
	checkTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "validation",
		Subsystem: "check",
		Name:      "time_micros",
		Help:      "The time it takes to validate one call, in microseconds",
		Buckets: []float64{
			1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500,
		},
	}, []string{"callable", "has_error"})

	// violationsTotal counts individual constraint violations, one per
	// offending argument. Compared against calls_total it shows whether
	// failing calls tend to carry one bad argument or several.
	//
	// Labels:
	//   - callable: The declared display name of the callable whose
	//     arguments failed.
	//
	// Usage example in dashboards:
	//   - topk(5, sum by (callable) (rate(validation_check_violations_total[5m]))) - Worst call sites
	violationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "validation",
		Subsystem: "check",
		Name:      "violations_total",
		Help:      "The total number of constraint violations found",
	}, []string{"callable"})
)

// init pre-initializes checksTotal with zero values for all known label
// combinations.
//
// Prometheus queries on metrics that do not exist yet return no data, so
// pre-initialization makes the series visible from application start,
// keeps rate() calculations accurate across the first real increment, and
// lets alerting distinguish "zero checks" from "metric missing". The
// callable-labelled metrics cannot be pre-seeded because their label
// values are only known once signatures are wrapped.
func init() {
	checksTotal.WithLabelValues("func", "true").Add(0)
	checksTotal.WithLabelValues("func", "false").Add(0)
	checksTotal.WithLabelValues("constructor", "true").Add(0)
	checksTotal.WithLabelValues("constructor", "false").Add(0)
}
