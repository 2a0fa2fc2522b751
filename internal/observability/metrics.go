// Package observability exposes Vigil's Prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "activity_events_total",
		Help:      "Observed notebook activity events by source.",
	}, []string{"source"})

	reportsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "reports_total",
		Help:      "Reporter write attempts by outcome.",
	}, []string{"status"})

	lastReportGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vigil",
		Name:      "last_report_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful report.",
	})

	presenceGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vigil",
		Name:      "notebook_presence",
		Help:      "Presence value carried by the most recent report (0 or 1).",
	})

	prunedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "journal_pruned_total",
		Help:      "Journal events removed by retention pruning.",
	})
)

func init() {
	prometheus.MustRegister(eventsCounter, reportsCounter, lastReportGauge, presenceGauge, prunedCounter)
}

// RecordEvent counts one observed activity event.
func RecordEvent(source string) {
	eventsCounter.WithLabelValues(source).Inc()
}

// RecordReport counts a reporter write attempt and, on success, moves the
// report watermark and presence gauges.
func RecordReport(ok bool, presence int, at time.Time) {
	status := "ok"
	if !ok {
		status = "error"
	}
	reportsCounter.WithLabelValues(status).Inc()
	if ok {
		lastReportGauge.Set(float64(at.Unix()))
		presenceGauge.Set(float64(presence))
	}
}

// RecordPruned counts journal rows removed by retention.
func RecordPruned(n int64) {
	if n > 0 {
		prunedCounter.Add(float64(n))
	}
}
