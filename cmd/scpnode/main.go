// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ledgerquorum/scp-core/clock"
	"github.com/ledgerquorum/scp-core/config"
	scplog "github.com/ledgerquorum/scp-core/log"
	"github.com/ledgerquorum/scp-core/metrics"
	"github.com/ledgerquorum/scp-core/scp"
	"github.com/ledgerquorum/scp-core/scptest"
)

var rootCmd = &cobra.Command{
	Use:   "scpnode",
	Short: "Federated Byzantine Agreement node for the ledgerquorum consensus core",
	Long: `scpnode runs a single replica of the federated voting protocol
against its configured quorum set, driving slot after slot to
externalization and forwarding decisions to a ledger-close backend.`,
}

func main() {
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var configPath string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the node until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(configPath, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "scpnode.yaml", "path to the node's YAML config file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "address to serve Prometheus metrics on")
	return cmd
}

// runNode wires the orchestrator to an in-memory herder/ledger pair.
// This module does not implement a real transaction-set herder, ledger
// store, or peer-to-peer overlay (spec.md §1 Non-goals); a production
// deployment supplies those by implementing the herder.Herder,
// ledgerclose.Engine, and overlay.Overlay interfaces and passing them to
// scp.New in place of the scptest doubles used here.
func runNode(configPath, metricsAddr string) error {
	logger := scplog.New("scpnode")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("falling back to default config", "path", configPath, "err", err)
		cfg = config.Default()
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New("scp", reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	herderDouble := scptest.NewMemHerder()
	ledgerDouble := scptest.NewMemLedger()
	net := scptest.NewNetwork()
	overlayDouble := net.Join(cfg.QuorumSet.Members[0].Node)

	orchCfg := scp.Config{
		Self:              cfg.QuorumSet.Members[0].Node,
		PrivateKey:        cfg.PrivateKey(),
		QSet:              cfg.QuorumSet,
		Validating:        cfg.Validator,
		NetworkPassphrase: cfg.NetworkPassphrase,
		BallotTimeout:     cfg.BallotTimeout,
		PendingLimits:     cfg.PendingLimits(),
		QuorumCacheSize:   cfg.QuorumCacheSize,
		SlotWindow:        cfg.SlotWindow,
	}
	orch := scp.New(orchCfg, clock.Real{}, herderDouble, ledgerDouble, overlayDouble)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go orch.Run(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	// ForceSCP=false means "begin consensus without waiting for peers" is
	// declined (spec.md §6): hold off opening slot 1 until at least one
	// peer has been observed, so a freshly started node doesn't nominate
	// and time out alone before anyone else is listening.
	if !cfg.ForceSCP {
		logger.Info("forceSCP disabled, waiting for a peer before opening slot 1")
		waitTicker := time.NewTicker(200 * time.Millisecond)
		for orch.PeerCount() == 0 {
			select {
			case <-sig:
				waitTicker.Stop()
				cancel()
				_ = server.Close()
				return nil
			case <-waitTicker.C:
			}
		}
		waitTicker.Stop()
	}

	ticker := time.NewTicker(cfg.MinCloseInterval)
	defer ticker.Stop()

	slotIndex := uint64(1)
	orch.StartSlot(slotIndex)

	for {
		select {
		case <-sig:
			logger.Info("shutting down")
			cancel()
			_ = server.Close()
			return nil
		case <-ticker.C:
			m.Report(orch.Stats)
			slotIndex++
			orch.StartSlot(slotIndex)
		}
	}
}
