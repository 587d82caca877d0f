package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome はユーザー操作の結果
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeAborted   Outcome = "aborted"
	OutcomeFailed    Outcome = "failed"
)

var (
	Actions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_actions_total",
		Help: "Listing actions by action name and outcome.",
	}, []string{"action", "outcome"})

	ContractCalls = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_contract_call_seconds",
		Help:    "Latency of marketplace and collection contract calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"contract", "method"})
)

// RecordAction は操作結果をカウントする
func RecordAction(action string, outcome Outcome) {
	Actions.WithLabelValues(action, string(outcome)).Inc()
}

// ObserveCall はコントラクト呼び出しの所要時間を記録する
func ObserveCall(contract, method string, start time.Time) {
	ContractCalls.WithLabelValues(contract, method).Observe(time.Since(start).Seconds())
}

func NewHandler() http.Handler {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(Actions, ContractCalls)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
