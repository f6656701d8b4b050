package utils

import (
	"os"
	"path/filepath"
)

// VaultHome is the base dir flag value, empty means $HOME/.vault
var VaultHome string

// GetVaultHome returns the node's home directory.
func GetVaultHome() string {
	if VaultHome != "" {
		return VaultHome
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return filepath.Join(home, ".vault")
}
