package bus

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/core/types"
)

type Checker interface {
	AddBalance(types.AssetID, *big.Int)
	AddCustodied(*big.Int)
}
