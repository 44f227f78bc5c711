package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foodie"

var (
	once sync.Once

	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of committed food orders.",
		},
	)

	revenue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_naira_total",
			Help:      "Naira debited from wallets by transaction kind.",
		},
		[]string{"kind"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_bookings_total",
			Help:      "Count of committed table bookings by branch.",
		},
		[]string{"location"},
	)

	deposits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_deposits_total",
			Help:      "Count of wallet deposits.",
		},
	)

	rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_rejections_total",
			Help:      "Count of rejected commit attempts by reason.",
		},
		[]string{"reason"},
	)

	turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_turns_total",
			Help:      "Count of conversation turns by final outcome.",
		},
		[]string{"outcome"},
	)

	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_tool_calls_total",
			Help:      "Count of tool invocations by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	modelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_model_call_seconds",
			Help:      "Latency of model calls by phase.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"phase"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Count of domain events processed by the aggregator.",
		},
		[]string{"type", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ordersPlaced, revenue, bookings, deposits, rejections,
			turns, toolCalls, modelLatency, eventsConsumed,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncOrderPlaced(amount float64) {
	ordersPlaced.Inc()
	revenue.WithLabelValues("order").Add(amount)
}

func IncTableBooked(location string, amount float64) {
	bookings.WithLabelValues(location).Inc()
	revenue.WithLabelValues("booking").Add(amount)
}

func IncWalletDeposit() {
	deposits.Inc()
}

func IncRejection(reason string) {
	rejections.WithLabelValues(reason).Inc()
}

func IncTurn(outcome string) {
	turns.WithLabelValues(outcome).Inc()
}

func IncToolCall(tool, outcome string) {
	toolCalls.WithLabelValues(tool, outcome).Inc()
}

func ObserveModelCall(phase string, seconds float64) {
	modelLatency.WithLabelValues(phase).Observe(seconds)
}

func IncEventConsumed(eventType, result string) {
	eventsConsumed.WithLabelValues(eventType, result).Inc()
}
