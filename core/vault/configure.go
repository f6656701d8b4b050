package vault

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/events"
	"github.com/VaultTeam/vault-go-node/core/types"
)

// ConfigureAsset creates or updates an asset's registry entry. Restricted
// to the configurer role; the native pseudo-asset is fixed at
// construction and not reachable here. Zero decimals means "probe the
// token's own metadata", with 18 as the fallback.
func (v *Vault) ConfigureAsset(caller types.Address, asset types.AssetID, supported bool, decimals uint8, withdrawLimit *big.Int, priceFeed types.Address) error {
	if err := v.lockGuard(); err != nil {
		return err
	}
	defer v.unlockGuard()

	if v.access == nil || !v.access.IsConfigurer(caller) {
		return code.NewUnauthorized(caller.String())
	}

	if asset.IsNative() {
		return code.NewUnsupportedAsset(asset.String())
	}

	if decimals == 0 {
		if v.transfer != nil {
			if probed, err := v.transfer.TokenDecimals(asset); err == nil {
				decimals = probed
			}
		}
		if decimals == 0 {
			decimals = types.NativeDecimals
		}
	}

	// the settlement asset stays recognized for the life of the system
	if asset == v.state.Settlement() {
		supported = true
	}

	model := v.state.Assets.Configure(asset, supported, decimals, withdrawLimit, priceFeed)

	ev := &events.ConfigureAssetEvent{
		Asset:     uint64(asset),
		Supported: model.IsSupported(),
		IsNative:  model.IsNative(),
		Decimals:  uint64(model.Decimals()),
		PriceFeed: model.PriceFeed(),
	}
	if limit := model.WithdrawLimit(); limit != nil {
		ev.WithdrawLimit = limit.String()
	}

	if err := v.commit(ev); err != nil {
		return err
	}

	v.logger.Info("configure asset", "asset", asset.String(), "supported", model.IsSupported(),
		"decimals", model.Decimals(), "caller", caller.String())

	return nil
}
