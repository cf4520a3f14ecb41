// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/luxfi/intents"
	"github.com/luxfi/intents/config"
	"github.com/luxfi/intents/escrow"
	"github.com/luxfi/intents/flow"
	"github.com/luxfi/intents/registry"
	"github.com/luxfi/intents/sigauth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a settlement node",
	Long: `Start a node that dispatches inbound wire messages to the local
settlement components and queues outbound messages for the relay. The node is
configured through a JSON config file; see the config package for the keys.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, err := config.BuildViper(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to build viper: %w", err)
	}
	cfg, err := config.NewConfig(v)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg.LogLevel)
	node := newNode(cfg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/deliver", node.handleDeliver)
	mux.HandleFunc("/v1/outbound", node.handleOutbound)

	addr := fmt.Sprintf(":%d", cfg.MetricsPort)
	logger.Info("settlement node listening",
		log.String("addr", addr),
		log.Stringer("chainID", cfg.GetChainID()),
	)
	return http.ListenAndServe(addr, mux)
}

// node is one chain's worth of settlement components, assembled from the
// validated config. It plays every role at once: intent chain, escrow chain
// and relay endpoint.
type node struct {
	log        log.Logger
	dispatcher *flow.Dispatcher
	sender     *flow.CollectingSender
}

func newNode(cfg config.Config, logger log.Logger) *node {
	ledger := intents.NewLedger()
	schemes := sigauth.DefaultRegistry()
	solvers := registry.NewSolverRegistry()
	_, recorder := registry.NewActiveIntents()
	sender := flow.NewCollectingSender()

	store := intents.NewStore(intents.StoreConfig{
		Ledger:  ledger,
		Custody: cfg.GetCustodyAddress(),
		ChainID: cfg.GetChainID(),
		Schemes: schemes,
		Keys:    solvers,
		Tracker: recorder,
		Emitter: intents.NewMemoryEmitter(),
	})
	inflow := flow.NewInflow(flow.InflowConfig{
		Log:     logger,
		Store:   store,
		Sender:  sender,
		Solvers: solvers,
	})
	outflow := flow.NewOutflow(flow.OutflowConfig{
		Log:     logger,
		Store:   store,
		Schemes: schemes,
		Admin:   cfg.GetAdminAddress(),
	})
	vault := escrow.NewVault(escrow.VaultConfig{
		Ledger:  ledger,
		Custody: cfg.GetCustodyAddress(),
		Admin:   cfg.GetAdminAddress(),
		ChainID: cfg.GetChainID(),
		Home:    cfg.GetChainID(),
		Sender:  sender,
	})
	dispatcher := flow.NewDispatcher(flow.DispatcherConfig{
		Log:     logger,
		Vault:   vault,
		Inflow:  inflow,
		Outflow: outflow,
	})
	return &node{log: logger, dispatcher: dispatcher, sender: sender}
}

type deliverRequest struct {
	SourceChainID string `json:"source-chain-id"`
	SourceAddress string `json:"source-address"`
	Payload       string `json:"payload"`
}

// handleDeliver applies one relayed wire message to the local components.
// The relay retries non-2xx responses, which matches the dispatcher's
// only-mark-seen-on-success contract.
func (n *node) handleDeliver(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req deliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	srcChainID, err := ids.FromString(req.SourceChainID)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid source chain id: %v", err), http.StatusBadRequest)
		return
	}
	srcAddress, err := hexToAddress(req.SourceAddress)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid source address: %v", err), http.StatusBadRequest)
		return
	}
	raw, err := hex.DecodeString(req.Payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid payload hex: %v", err), http.StatusBadRequest)
		return
	}

	if err := n.dispatcher.Deliver(srcChainID, srcAddress, raw); err != nil {
		n.log.Debug("delivery rejected", log.Err(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type outboundMessage struct {
	DstChainID string `json:"dst-chain-id"`
	Payload    string `json:"payload"`
}

// handleOutbound returns every message queued for the relay so far.
func (n *node) handleOutbound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sent := n.sender.Sent()
	out := make([]outboundMessage, 0, len(sent))
	for _, msg := range sent {
		out = append(out, outboundMessage{
			DstChainID: msg.DstChainID.String(),
			Payload:    hex.EncodeToString(msg.Payload),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		n.log.Debug("failed to encode outbound queue", log.Err(err))
	}
}
