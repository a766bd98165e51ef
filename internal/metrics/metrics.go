// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// habit.MetricsRecorderとmiddleware.HTTPStatusRecorderを満たす。
type Collector struct {
	toggleTotal     prometheus.Counter
	habitsCreated   prometheus.Counter
	streakRecompute prometheus.Histogram
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		toggleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habitflow_toggle_total",
			Help: "完了トグル操作の合計数",
		}),
		habitsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "habitflow_habits_created_total",
			Help: "作成された習慣の合計数",
		}),
		streakRecompute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "habitflow_streak_recompute_seconds",
			Help:    "ストリーク再計算のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habitflow_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.toggleTotal,
		c.habitsCreated,
		c.streakRecompute,
		c.httpStatus,
	)

	return c
}

// RecordToggle は完了トグル操作を記録する。
func (c *Collector) RecordToggle() {
	c.toggleTotal.Inc()
}

// RecordHabitCreated は習慣作成を記録する。
func (c *Collector) RecordHabitCreated() {
	c.habitsCreated.Inc()
}

// RecordStreakRecompute はストリーク再計算のレイテンシを記録する。
func (c *Collector) RecordStreakRecompute(duration time.Duration) {
	c.streakRecompute.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
