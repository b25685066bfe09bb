// Package metrics Prometheus指标
//
// 指标分三类：
//   - HTTP：请求数、耗时、处理中的请求数（服务端中间件记录）
//   - 目录轮询：拉取结果、快照大小（客户端Fetcher记录）
//   - 业务：登录结果、删除图书数、熔断器状态
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾。
// 标签只用有限取值（method、route、result），不要用user_id、book_id。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var once sync.Once

var (
	// HTTPRequestsTotal HTTP请求总数，标签：method、route、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（秒），标签：method、route
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// CatalogPollsTotal 目录轮询次数，标签：result（success/failure/skipped/stale）
	CatalogPollsTotal *prometheus.CounterVec

	// CatalogPollDuration 一次轮询（图书+分类）耗时
	CatalogPollDuration prometheus.Histogram

	// CatalogSnapshotBooks 最近一次快照中的图书数量
	CatalogSnapshotBooks prometheus.Gauge

	// LoginsTotal 登录次数，标签：result（success/failure）
	LoginsTotal *prometheus.CounterVec

	// BooksDeletedTotal 删除图书总数
	BooksDeletedTotal prometheus.Counter

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN），标签：name
	CircuitBreakerState *prometheus.GaugeVec
)

// Poll结果标签值
const (
	PollSuccess = "success"
	PollFailure = "failure"
	PollSkipped = "skipped"
	PollStale   = "stale"
)

// InitMetrics 注册所有指标到默认Registry，重复调用无副作用
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "route", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "route"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		CatalogPollsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_polls_total",
				Help: "目录轮询次数",
			},
			[]string{"result"},
		)

		CatalogPollDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_poll_duration_seconds",
				Help:    "一次目录轮询耗时（秒）",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		)

		CatalogSnapshotBooks = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_snapshot_books",
				Help: "最近一次快照中的图书数量",
			},
		)

		LoginsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_logins_total",
				Help: "登录次数",
			},
			[]string{"result"},
		)

		BooksDeletedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "books_deleted_total",
				Help: "删除图书总数",
			},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)
	})
}

// ObservePoll 记录一次轮询结果
func ObservePoll(result string, seconds float64) {
	InitMetrics()
	CatalogPollsTotal.WithLabelValues(result).Inc()
	if result == PollSuccess || result == PollFailure {
		CatalogPollDuration.Observe(seconds)
	}
}

// SetSnapshotBooks 记录快照大小
func SetSnapshotBooks(n int) {
	InitMetrics()
	CatalogSnapshotBooks.Set(float64(n))
}

// ObserveLogin 记录登录结果
func ObserveLogin(success bool) {
	InitMetrics()
	result := "failure"
	if success {
		result = "success"
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

// IncBooksDeleted 删除图书计数
func IncBooksDeleted() {
	InitMetrics()
	BooksDeletedTotal.Inc()
}

// SetBreakerState 记录熔断器状态
func SetBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
