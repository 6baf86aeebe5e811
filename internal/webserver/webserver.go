package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/relay"
)

const ServerContext = "webserver"

// StatusProvider is the read-only view the webserver serves.
type StatusProvider interface {
	Status() relay.Status
}

func Router(status StatusProvider, store relay.TxStorage, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/status", getStatus(status, logger))
	router.HandleFunc("/pending_txs", getPendingTxs(store, logger))
	return router
}

func getStatus(status StatusProvider, logger *zap.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status.Status()); err != nil {
			logger.Error("failed to encode status response", zap.Error(err))
		}
	}
}

func getPendingTxs(store relay.TxStorage, logger *zap.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		txs, err := store.GetAllPendingTxs()
		if err != nil {
			logger.Error("failed to read pending txs from storage", zap.Error(err))
			http.Error(w, "failed to read pending txs", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(txs); err != nil {
			logger.Error("failed to encode pending txs response", zap.Error(err))
		}
	}
}
