package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/audiolith/jobwatch/pkg/monitor"
)

var (
	// Queue metrics
	QueueVisible = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobwatch_queue_visible_messages",
			Help: "Approximate number of visible messages in the work queue",
		},
	)

	QueueInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobwatch_queue_inflight_messages",
			Help: "Approximate number of in-flight messages in the work queue",
		},
	)

	// Worker metrics
	WorkersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobwatch_workers_total",
			Help: "Number of worker instances by lifecycle state",
		},
		[]string{"state"},
	)

	// Job metrics
	JobsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobwatch_jobs_total",
			Help: "Number of jobs in the lookback window by status",
		},
		[]string{"status"},
	)

	StuckJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobwatch_stuck_jobs_total",
			Help: "Number of jobs processing longer than the stuck threshold",
		},
	)

	// Health metrics
	Healthy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobwatch_healthy",
			Help: "Whether the last health pass found no issues (1 = healthy)",
		},
	)

	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobwatch_checks_total",
			Help: "Total health check passes by result",
		},
		[]string{"result"},
	)
)

// Register registers all jobwatch metrics with the given registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		QueueVisible,
		QueueInFlight,
		WorkersTotal,
		JobsTotal,
		StuckJobs,
		Healthy,
		ChecksTotal,
	)
}

// Observe publishes one check result to the gauges. Gauge vectors are
// reset first so states that emptied out since the last pass drop to
// absent rather than lingering at stale values.
func Observe(res *monitor.Result) {
	if res.Report.Queue != nil {
		QueueVisible.Set(float64(res.Report.Queue.Visible))
		QueueInFlight.Set(float64(res.Report.Queue.InFlight))
	}

	WorkersTotal.Reset()
	for _, w := range res.Workers {
		WorkersTotal.WithLabelValues(string(w.State)).Inc()
	}

	JobsTotal.Reset()
	for _, j := range res.Jobs {
		JobsTotal.WithLabelValues(string(j.Status)).Inc()
	}
	StuckJobs.Set(float64(len(res.Stuck)))

	if res.Report.Healthy {
		Healthy.Set(1)
		ChecksTotal.WithLabelValues("healthy").Inc()
	} else {
		Healthy.Set(0)
		ChecksTotal.WithLabelValues("unhealthy").Inc()
	}
}
