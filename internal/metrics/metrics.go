package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlannerEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_evaluations_total",
		Help: "Planner evaluations by outcome.",
	}, []string{"outcome"})

	ExamWriteBacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_exam_writebacks_total",
		Help: "Solved exam grades written back into a planner.",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_persist_failures_total",
		Help: "Planner writes that failed and were dropped.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
