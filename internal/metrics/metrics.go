package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 排课任务的结果
const (
	OutcomeApplied = "applied"
	OutcomeDryRun  = "dry_run"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
	OutcomeLocked  = "locked"

	OutcomeUnresolvable = "unresolvable"
)

// Recorder 记录排课相关的 prometheus 指标
type Recorder struct {
	registry     *prometheus.Registry
	handler      http.Handler
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	generations  prometheus.Histogram
	fitness      prometheus.Gauge
	unresolvable prometheus.Counter
	violations   *prometheus.CounterVec
	resets       prometheus.Counter
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total number of schedule generation runs by outcome",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Duration of the genetic algorithm in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	generations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_generations",
		Help:    "Number of generations actually run",
		Buckets: prometheus.LinearBuckets(0, 25, 9),
	})

	fitness := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scheduler_last_fitness",
		Help: "Fitness score of the latest schedule",
	})

	unresolvable := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_unresolvable_courses_total",
		Help: "Courses skipped because no eligible teacher or suitable room exists",
	})

	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_violations_total",
		Help: "Constraint violations left in generated schedules",
	}, []string{"kind"})

	resets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_resets_total",
		Help: "Total number of term schedule resets",
	})

	registry.MustRegister(runs, duration, generations, fitness, unresolvable, violations, resets)

	return &Recorder{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		runs:         runs,
		duration:     duration,
		generations:  generations,
		fitness:      fitness,
		unresolvable: unresolvable,
		violations:   violations,
		resets:       resets,
	}
}

func (r *Recorder) Handler() http.Handler {
	return r.handler
}

// RunStats 是一次排课任务需要上报的数据
type RunStats struct {
	Duration         time.Duration
	Generations      int
	Fitness          float64
	Unresolvable     int
	RoomConflicts    int
	TeacherConflicts int
	ClassConflicts   int
	CapacityIssues   int
	HardViolations   int
}

// ObserveRun 记录一次跑完遗传算法的排课任务
func (r *Recorder) ObserveRun(outcome string, stats RunStats) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(stats.Duration.Seconds())
	r.generations.Observe(float64(stats.Generations))
	r.fitness.Set(stats.Fitness)
	r.unresolvable.Add(float64(stats.Unresolvable))

	r.violations.WithLabelValues("room").Add(float64(stats.RoomConflicts))
	r.violations.WithLabelValues("teacher").Add(float64(stats.TeacherConflicts))
	r.violations.WithLabelValues("class").Add(float64(stats.ClassConflicts))
	r.violations.WithLabelValues("capacity").Add(float64(stats.CapacityIssues))
	r.violations.WithLabelValues("hard").Add(float64(stats.HardViolations))
}

// CountRun 只记录结果，用于没有运行遗传算法的请求（被锁拒绝、没有课程等）
func (r *Recorder) CountRun(outcome string) {
	r.runs.WithLabelValues(outcome).Inc()
}

func (r *Recorder) CountReset() {
	r.resets.Inc()
}
