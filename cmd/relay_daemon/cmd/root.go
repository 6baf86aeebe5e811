package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "relay_daemon",
	Short: "Transaction relay daemon",
	Long: `An off-chain agent that stakes collateral with an on-chain registry,
advertises itself as available to relay transactions, and keeps its
registration, funding and in-flight transactions consistent with the ledger.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
