package webserver

import (
	"net/http"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/metrics"
	"github.com/relaynet-org/relay-daemon/internal/relay"
)

const MonitoringLoggerContext = "monitoring"

// PromWrapper refreshes storage-derived gauges before handing off to the
// Prometheus handler.
type PromWrapper struct {
	promHandler http.Handler
	storage     relay.TxStorage
	logger      *zap.Logger
}

func NewPromWrapper(logRegistry *nlogger.Registry, storage relay.TxStorage) PromWrapper {
	return PromWrapper{
		promHandler: promhttp.Handler(),
		storage:     storage,
		logger:      logRegistry.Get(MonitoringLoggerContext),
	}
}

func (p PromWrapper) FillPendingTxsMetric() {
	txs, err := p.storage.GetAllPendingTxs()
	if err != nil {
		p.logger.Error("failed to get pending txs from storage", zap.Error(err))
		return
	}
	metrics.SetPendingTxsQueueSize(len(txs))
}

func (p PromWrapper) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	p.FillPendingTxsMetric()
	p.promHandler.ServeHTTP(res, req)
}
