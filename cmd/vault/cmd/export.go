package cmd

import (
	"log"
	"os"
	"time"

	"github.com/VaultTeam/vault-go-node/core/state"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/helpers"
	"github.com/spf13/cobra"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger state as JSON",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "state version to export, 0 for latest")
	ExportCommand.Flags().Bool("indent", false, "indent the JSON output")
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		log.Panicf("Cannot parse height: %s", err)
	}

	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		log.Panicf("Cannot parse indent: %s", err)
	}

	stateDB, err := db.NewGoLevelDB("state", cfg.DataDir())
	if err != nil {
		log.Panicf("Cannot load db: %s", err)
	}

	ceiling := helpers.StringToBigInt(cfg.CapacityCeiling)

	currentState, err := state.NewState(height, stateDB, cfg.StateCacheSize, cfg.KeepLastStates,
		ceiling, types.AssetID(cfg.SettlementAssetID), cfg.SettlementDecimals)
	if err != nil {
		log.Panicf("Cannot load state at height %d: %s", height, err)
	}

	exportTimeStart := time.Now()
	appState := state.NewCheckState(currentState).Export()
	log.Printf("State has been exported. Took %s\n", time.Since(exportTimeStart))

	var jsonBytes []byte
	if indent {
		jsonBytes, err = amino.NewCodec().MarshalJSONIndent(appState, "", "	")
	} else {
		jsonBytes, err = amino.NewCodec().MarshalJSON(appState)
	}
	if err != nil {
		log.Panicf("Cannot marshal state: %s", err)
	}

	if _, err := os.Stdout.Write(jsonBytes); err != nil {
		return err
	}

	return nil
}
