package vault

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/helpers"
)

// ConvertToSettlementUnits converts an amount in the asset's native
// precision into settlement precision using the supplied price. All
// arithmetic is integer, truncation is toward zero, division before any
// compensation. The result is informational only: deposits credit the
// measured exchange output, never this conversion.
func ConvertToSettlementUnits(assetAmount *big.Int, assetDecimals uint8, price *big.Int, priceDecimals uint8, settlementDecimals uint8) *big.Int {
	value := big.NewInt(0).Mul(assetAmount, price)
	value.Quo(value, helpers.Pow10(priceDecimals))

	if assetDecimals >= settlementDecimals {
		return value.Quo(value, helpers.Pow10(assetDecimals-settlementDecimals))
	}

	return value.Mul(value, helpers.Pow10(settlementDecimals-assetDecimals))
}
