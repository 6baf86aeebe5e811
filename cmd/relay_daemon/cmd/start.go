package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relaynet-org/relay-daemon/internal/app"
	"github.com/relaynet-org/relay-daemon/internal/config"
	"github.com/relaynet-org/relay-daemon/internal/relay"
	"github.com/relaynet-org/relay-daemon/internal/webserver"
)

const mainContext = "main"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the relay daemon main app",
	Run: func(cmd *cobra.Command, args []string) {
		startDaemon()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func startDaemon() {
	logRegistry, err := nlogger.NewRegistry(
		mainContext,
		app.AppContext,
		app.RelayerContext,
		app.LedgerClientContext,
		app.RegistryClientContext,
		app.KeyStoreContext,
		app.TxManagerContext,
		app.RegistrationManagerContext,
		webserver.ServerContext,
		webserver.MonitoringLoggerContext,
	)
	if err != nil {
		log.Fatalf("couldn't initialize loggers registry: %s", err)
	}
	logger := logRegistry.Get(mainContext)
	logger.Info("relay-daemon starts...")

	cfg, err := config.NewRelayDaemonConfig()
	if err != nil {
		logger.Fatal("cannot initialize relay daemon config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	storage, err := app.NewDefaultStorage(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create NewDefaultStorage", zap.Error(err))
	}
	defer func(storage relay.TxStorage) {
		if err := storage.Close(); err != nil {
			logger.Error("failed to close storage", zap.Error(err))
		}
	}(storage)

	keys, err := app.NewDefaultKeyStore(cfg, logRegistry)
	if err != nil {
		logger.Fatal("failed to create NewDefaultKeyStore", zap.Error(err))
	}
	defer func() {
		if err := keys.Close(); err != nil {
			logger.Error("failed to close keystore", zap.Error(err))
		}
	}()

	ledgerClient, err := app.NewDefaultLedgerClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create NewDefaultLedgerClient", zap.Error(err))
	}
	defer ledgerClient.Close()

	relayer, err := app.NewDefaultRelayer(ctx, cfg, logRegistry, ledgerClient, storage, keys)
	if err != nil {
		logger.Fatal("failed to create NewDefaultRelayer", zap.Error(err))
	}

	// Resume event replay from the persisted watermark so registration state
	// derived from past events survives restarts. A fresh storage starts at
	// the current head.
	storedBlock, found, err := storage.GetLastScannedBlock()
	if err != nil {
		logger.Fatal("failed to read last scanned block", zap.Error(err))
	}
	if found {
		relayer.SetLastScannedBlock(storedBlock)
		logger.Info("resuming event replay", zap.Uint64("last_scanned_block", storedBlock))
	} else {
		currentBlock, err := ledgerClient.BlockNumber(ctx)
		if err != nil {
			logger.Fatal("failed to get current block", zap.Error(err))
		}
		relayer.SetLastScannedBlock(currentBlock)
		if err := storage.SetLastScannedBlock(currentBlock); err != nil {
			logger.Fatal("failed to persist last scanned block", zap.Error(err))
		}
	}

	router := webserver.Router(relayer, storage, logRegistry.Get(webserver.ServerContext))
	router.Handle("/metrics", webserver.NewPromWrapper(logRegistry, storage))
	server := &http.Server{Addr: cfg.ListenAddr, Handler: router}

	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server exited with an error", zap.Error(err))
			cancel()
		}
	}()
	logger.Info("status server set up", zap.String("listen_addr", cfg.ListenAddr))

	wg.Add(1)
	go func() {
		defer wg.Done()
		runReconciliation(ctx, cfg, ledgerClient, relayer, logger)
	}()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		s := <-sigs
		logger.Info("received termination signal, gracefully shutting down...",
			zap.String("signal", s.String()))
		cancel()
	}()

	<-ctx.Done()
	if err := server.Close(); err != nil {
		logger.Error("failed to close status server", zap.Error(err))
	}
	wg.Wait()
}

// runReconciliation drives the relayer with one tick per observed new block.
// Ticks are serialized by construction: the next poll only happens after the
// previous tick returned.
func runReconciliation(ctx context.Context, cfg config.RelayDaemonConfig, ledgerClient relay.LedgerClient, relayer *relay.Relayer, logger *zap.Logger) {
	ticker := time.NewTicker(cfg.ChainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("context cancelled, shutting down reconciliation loop...")
			return
		case <-ticker.C:
			currentBlock, err := ledgerClient.BlockNumber(ctx)
			if err != nil {
				logger.Error("failed to get current block", zap.Error(err))
				continue
			}
			if currentBlock <= relayer.LastScannedBlock() {
				continue
			}

			if _, err := relayer.Tick(ctx, currentBlock); err != nil {
				if errors.Is(err, relay.ErrTickInProgress) {
					continue
				}
				logger.Error("reconciliation tick failed",
					zap.Uint64("current_block", currentBlock), zap.Error(err))
			}
		}
	}
}
