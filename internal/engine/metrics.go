package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestra_agent_tasks_total",
			Help: "Total number of agent tasks executed.",
		},
		[]string{"client_mode", "status"},
	)

	taskDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orchestra_agent_task_duration_seconds",
			Help:    "Wall-clock duration of one agent task, in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	inFlightTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orchestra_agent_tasks_in_flight",
			Help: "Number of agent tasks currently awaiting a backend response.",
		},
	)
)

func init() {
	prometheus.MustRegister(tasksTotal)
	prometheus.MustRegister(taskDuration)
	prometheus.MustRegister(inFlightTasks)
}
