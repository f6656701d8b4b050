package main

import (
	"github.com/VaultTeam/vault-go-node/cmd/utils"
	"github.com/VaultTeam/vault-go-node/cmd/vault/cmd"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.VaultHome, "home-dir", "", "base dir (default is $HOME/.vault)")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.ExportCommand,
		cmd.Version)

	if err := cmd.RootCmd.Execute(); err != nil {
		panic(err)
	}
}
