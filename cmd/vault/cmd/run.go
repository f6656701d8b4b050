package cmd

import (
	"github.com/VaultTeam/vault-go-node/api"
	"github.com/VaultTeam/vault-go-node/core/events"
	"github.com/VaultTeam/vault-go-node/core/state"
	"github.com/VaultTeam/vault-go-node/core/statistics"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/core/vault"
	"github.com/VaultTeam/vault-go-node/helpers"
	"github.com/VaultTeam/vault-go-node/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	db "github.com/tendermint/tm-db"
)

var RunNode = &cobra.Command{
	Use:   "run",
	Short: "Run the vault node",
	RunE:  runNode,
}

func runNode(cmd *cobra.Command, args []string) error {
	logger := log.InitLog(cfg)

	stateDB, err := db.NewGoLevelDB("state", cfg.DataDir())
	if err != nil {
		return err
	}

	eventsDB, err := db.NewGoLevelDB("events", cfg.DataDir())
	if err != nil {
		return err
	}

	ceiling := helpers.StringToBigInt(cfg.CapacityCeiling)
	settlement := types.AssetID(cfg.SettlementAssetID)

	ledger, err := state.NewState(0, stateDB, cfg.StateCacheSize, cfg.KeepLastStates,
		ceiling, settlement, cfg.SettlementDecimals)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	stats := statistics.New(registry)

	// exchange, transfer, price and access adapters are bound by the
	// embedding integration; the bare node serves the ledger read surface
	v := vault.NewVault(ledger, events.NewEventsStore(eventsDB), nil, nil, nil, nil,
		types.Address{}, logger.With("module", "vault"), stats)

	logger.Info("starting vault node",
		"height", ledger.Height(),
		"settlement", settlement.String(),
		"ceiling", ceiling.String(),
		"total_custodied", ledger.Capacity.Total().String(),
	)

	go func() {
		service := api.NewService(v, logger.With("module", "api"))
		if err := service.Run(cfg.APIListenAddr, registry); err != nil {
			logger.Error("API stopped", "err", err)
		}
	}()

	tmos.TrapSignal(logger, func() {
		logger.Info("stopping vault node")
	})

	select {}
}
