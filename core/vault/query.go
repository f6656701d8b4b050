package vault

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/types"
)

// BalanceOf returns the credited amount for the given asset and depositor.
func (v *Vault) BalanceOf(asset types.AssetID, address types.Address) *big.Int {
	return v.state.Balances.GetBalance(address, asset)
}

// EstimatedUSDBalance values a depositor's balance in settlement units.
// For the settlement asset the raw balance is returned; any other asset
// is valued through its configured price feed. Valuation failures never
// affect deposits or withdrawals of the settlement asset.
func (v *Vault) EstimatedUSDBalance(asset types.AssetID, address types.Address) (*big.Int, error) {
	balance := v.state.Balances.GetBalance(address, asset)

	settlement := v.state.Settlement()
	if asset == settlement {
		return balance, nil
	}

	cfg := v.state.Assets.GetAsset(asset)
	if cfg == nil || !cfg.IsSupported() {
		return nil, code.NewUnsupportedAsset(asset.String())
	}

	feed := cfg.PriceFeed()
	if feed.IsZero() || v.prices == nil {
		return nil, code.NewPriceUnavailable(asset.String())
	}

	price, updatedAt, err := v.prices.LatestPrice(feed)
	if err != nil {
		return nil, code.NewPriceUnavailable(asset.String())
	}
	if price == nil || price.Sign() != 1 {
		priceStr := "nil"
		if price != nil {
			priceStr = price.String()
		}
		return nil, code.NewInvalidPrice(priceStr)
	}

	feedDecimals, err := v.prices.FeedDecimals(feed)
	if err != nil {
		return nil, code.NewPriceUnavailable(asset.String())
	}

	v.logger.Debug("valuation query", "asset", asset.String(), "price", price.String(), "updated_at", updatedAt)

	settlementCfg := v.state.Assets.GetAsset(settlement)

	return ConvertToSettlementUnits(balance, cfg.Decimals(), price, feedDecimals, settlementCfg.Decimals()), nil
}
