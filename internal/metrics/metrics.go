package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelType   = "type"
	typeSuccess = "success"
	typeFailed  = "failed"
)

var (
	sentTxs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_sent_txs",
		Help: "The total number of submitted transactions (counter)",
	}, []string{labelType})

	resubmittedTxs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_resubmitted_txs",
		Help: "The total number of stuck transactions resubmitted at a higher gas price (counter)",
	})

	confirmedTxs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_confirmed_txs",
		Help: "The total number of transactions confirmed by a receipt (counter)",
	})

	ticks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_reconciliation_ticks",
		Help: "The total number of reconciliation ticks (counter)",
	}, []string{labelType})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relay_tick_duration",
		Help:    "A histogram of reconciliation tick duration",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 30},
	})

	readyGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_ready",
		Help: "Whether the relay is currently eligible to serve requests (gauge)",
	})

	pendingTxsQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_pending_txs_queue_size",
		Help: "The current number of transactions awaiting confirmation (gauge)",
	})
)

func SetPendingTxsQueueSize(size int) {
	pendingTxsQueueSize.Set(float64(size))
}

func IncSuccessSentTxs() {
	sentTxs.With(prometheus.Labels{labelType: typeSuccess}).Inc()
}

func IncFailedSentTxs() {
	sentTxs.With(prometheus.Labels{labelType: typeFailed}).Inc()
}

func IncResubmittedTxs() {
	resubmittedTxs.Inc()
}

func IncConfirmedTxs() {
	confirmedTxs.Inc()
}

func AddSuccessTick(durationSeconds float64) {
	ticks.With(prometheus.Labels{labelType: typeSuccess}).Inc()
	tickDuration.Observe(durationSeconds)
}

func AddFailedTick(durationSeconds float64) {
	ticks.With(prometheus.Labels{labelType: typeFailed}).Inc()
	tickDuration.Observe(durationSeconds)
}

func SetReady(ready bool) {
	if ready {
		readyGauge.Set(1)
	} else {
		readyGauge.Set(0)
	}
}
