package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/storage"
)

// queryCmd groups offline inspection commands over the daemon's storage.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Inspect the daemon's local storage",
}

var pendingTxsCmd = &cobra.Command{
	Use:   "pending-txs",
	Short: "Print all transactions still awaiting confirmation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.NewRelayDaemonConfig()
		if err != nil {
			log.Fatalf("cannot initialize relay daemon config: %s", err)
		}

		store, err := storage.NewLevelDBStorage(cfg.StoragePath)
		if err != nil {
			log.Fatalf("failed to open storage at %s: %s", cfg.StoragePath, err)
		}
		defer store.Close()

		txs, err := store.GetAllPendingTxs()
		if err != nil {
			log.Fatalf("failed to read pending txs: %s", err)
		}

		out, err := json.MarshalIndent(txs, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal pending txs: %s", err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	queryCmd.AddCommand(pendingTxsCmd)
	RootCmd.AddCommand(queryCmd)
}
