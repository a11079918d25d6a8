// Package metrics 提供Prometheus监控指标
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster"

// Collector 指标集合
type Collector struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	generations         *prometheus.CounterVec
	generationDuration  prometheus.Histogram
	optimizerIterations *prometheus.CounterVec
	solutionCost        prometheus.Gauge
	coverageRate        prometheus.Gauge
	fairnessGini        *prometheus.GaugeVec
	repairedCells       prometheus.Counter
	edits               *prometheus.CounterVec
	activeGenerations   prometheus.Gauge
}

var (
	defaultCollector *Collector
	once             sync.Once
)

// NewCollector 在独立注册表上创建指标
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求延迟",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "path"}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_generation_total",
			Help:      "月度排班生成次数",
		}, []string{"status"}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_generation_duration_seconds",
			Help:      "月度排班生成耗时",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		}),
		optimizerIterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_iterations_total",
			Help:      "模拟退火迭代次数",
		}, []string{"kind"}),
		solutionCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solution_cost",
			Help:      "最近一次排班的软约束成本",
		}),
		coverageRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_rate",
			Help:      "最近一次排班的覆盖率 (%)",
		}),
		fairnessGini: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fairness_gini",
			Help:      "最近一次排班的公平性基尼系数",
		}, []string{"metric_type"}),
		repairedCells: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repaired_cells_total",
			Help:      "修复禁止模式时改为休息的格子数",
		}),
		edits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shift_edits_total",
			Help:      "单次班次修改校验结果",
		}, []string{"result", "pattern"}),
		activeGenerations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_generations",
			Help:      "正在进行的排班生成数",
		}),
	}
}

// Default 获取全局指标集合
func Default() *Collector {
	once.Do(func() {
		defaultCollector = NewCollector()
	})
	return defaultCollector
}

// Handler 返回指标抓取处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry 返回底层注册表
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRequest 记录HTTP请求指标
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// GenerationStarted 标记一次生成开始，返回结束回调
func (c *Collector) GenerationStarted() func() {
	c.activeGenerations.Inc()
	return c.activeGenerations.Dec
}

// RecordGeneration 记录排班生成结果
func (c *Collector) RecordGeneration(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.generations.WithLabelValues(status).Inc()
	c.generationDuration.Observe(duration.Seconds())
}

// OptimizerRun 一次优化运行的计数
type OptimizerRun struct {
	Iterations int
	Accepted   int
	Skipped    int
	Reheats    int
	Repaired   int
	Cost       float64
}

// RecordOptimizer 记录优化器运行情况
func (c *Collector) RecordOptimizer(run OptimizerRun) {
	c.optimizerIterations.WithLabelValues("total").Add(float64(run.Iterations))
	c.optimizerIterations.WithLabelValues("accepted").Add(float64(run.Accepted))
	c.optimizerIterations.WithLabelValues("skipped").Add(float64(run.Skipped))
	c.optimizerIterations.WithLabelValues("reheat").Add(float64(run.Reheats))
	c.repairedCells.Add(float64(run.Repaired))
	c.solutionCost.Set(run.Cost)
}

// SetCoverageRate 设置覆盖率
func (c *Collector) SetCoverageRate(rate float64) {
	c.coverageRate.Set(rate)
}

// SetFairnessGini 设置公平性基尼系数
func (c *Collector) SetFairnessGini(metricType string, gini float64) {
	c.fairnessGini.WithLabelValues(metricType).Set(gini)
}

// RecordEdit 记录单次修改校验结果，pattern 为空表示通过
func (c *Collector) RecordEdit(accepted bool, pattern string) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	c.edits.WithLabelValues(result, pattern).Inc()
}
