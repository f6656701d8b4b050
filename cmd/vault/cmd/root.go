package cmd

import (
	"os"

	"github.com/VaultTeam/vault-go-node/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "vault",
	Short: "Vault Go Node",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.GetConfig()

		v := viper.New()
		v.SetConfigFile(cfg.ConfigPath())

		if err := v.ReadInConfig(); err != nil {
			// missing config file means defaults apply
			if !os.IsNotExist(err) {
				panic(err)
			}
		} else if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}

		if cfg.KeepLastStates < 1 {
			panic("keep_last_states field should be greater than 0")
		}
	},
}
