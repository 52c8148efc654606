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
// internal/middleware.HTTPMetricsRecorderとinternal/auth.MetricsRecorderを満たす。
type Collector struct {
	httpRequests        *prometheus.CounterVec
	httpDuration        prometheus.Histogram
	loginSuccess        prometheus.Counter
	loginFailure        prometheus.Counter
	registrations       prometheus.Counter
	remindersDispatched prometheus.Counter
	remindersFailed     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskdeck_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_login_failure_total",
			Help: "ログイン失敗の合計数",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_registrations_total",
			Help: "ユーザー登録の合計数",
		}),
		remindersDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_reminders_dispatched_total",
			Help: "発火処理されたリマインダーの合計数",
		}),
		remindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskdeck_reminders_failed_total",
			Help: "発火処理に失敗したリマインダーの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.loginSuccess,
		c.loginFailure,
		c.registrations,
		c.remindersDispatched,
		c.remindersFailed,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの結果を記録する。
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFailure.Inc()
}

// RecordRegistration はユーザー登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordReminderDispatched はリマインダー発火処理の成功を記録する。
func (c *Collector) RecordReminderDispatched() {
	c.remindersDispatched.Inc()
}

// RecordReminderFailed はリマインダー発火処理の失敗を記録する。
func (c *Collector) RecordReminderFailed() {
	c.remindersFailed.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
