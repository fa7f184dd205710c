package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики - количество запросов
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP метрики - время обработки запросов
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Время обработки HTTP запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	// WS метрики - количество активных соединений
	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Количество активных WebSocket соединений",
		},
	)

	roomsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_created_total",
			Help: "Количество созданных комнат",
		},
	)

	// Применённые изменения документа по типу (update, reset)
	diagramChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_changes_total",
			Help: "Количество применённых изменений документа",
		},
		[]string{"type"},
	)

	diagramDroppedMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagram_dropped_messages_total",
			Help: "Количество отброшенных realtime сообщений",
		},
		[]string{"reason"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Количество запросов, отклонённых ограничителем частоты",
		},
		[]string{"policy"},
	)

	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Количество попыток входа",
		},
		[]string{"result"},
	)
)

// RecordHTTPMetrics записывает метрики HTTP запроса
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

func IncrementRoomsCreated() {
	roomsCreatedTotal.Inc()
}

func IncrementDiagramChanges(changeType string) {
	diagramChangesTotal.WithLabelValues(changeType).Inc()
}

func IncrementDroppedMessages(reason string) {
	diagramDroppedMessagesTotal.WithLabelValues(reason).Inc()
}

func IncrementRateLimited(policy string) {
	rateLimitedTotal.WithLabelValues(policy).Inc()
}

func IncrementLoginAttempts(success bool) {
	result := "failure"
	if success {
		result = "success"
	}

	loginAttemptsTotal.WithLabelValues(result).Inc()
}
