package task

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tsinghua-fib-lab/ocit2sumo/entity"
)

// Metrics 编译统计
// 说明：使用独立的Registry，批处理结束后以textfile格式写出
type Metrics struct {
	registry *prometheus.Registry

	cycles      *prometheus.CounterVec // 按结果统计的周期数
	programs    prometheus.Counter
	steps       prometheus.Counter
	transitions prometheus.Counter
	corrections prometheus.Counter
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics 创建编译统计
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "cycles_total",
			Help:      "Compiled cycles by status",
		}, []string{"status"}),
		programs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "programs_total",
			Help:      "Compiled signal programs",
		}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "steps_total",
			Help:      "Emitted simulator phases",
		}),
		transitions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "transitions_total",
			Help:      "Synthesized phase transitions",
		}),
		corrections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "minor_green_corrections_total",
			Help:      "Link indices demoted from major to minor green inside transitions",
		}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ocit2sumo",
			Name:      "diagnostics_total",
			Help:      "Skipped or corrected records by kind",
		}, []string{"kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ocit2sumo",
			Name:      "cycle_compile_seconds",
			Help:      "Time to compile one cycle",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1},
		}),
	}
}

// Registry 统计使用的Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDiagnostics 按类型累计诊断数
func (m *Metrics) ObserveDiagnostics(items []entity.Diagnostic) {
	for _, d := range items {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}

// WriteFile 以textfile格式写出全部统计
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
