package balances

import (
	"math/big"
	"sort"
	"sync"

	"github.com/VaultTeam/vault-go-node/core/types"
)

// Model is the in-memory image of a single depositor's balance cells.
type Model struct {
	address  types.Address
	assets   []types.AssetID
	balances map[types.AssetID]*big.Int

	hasDirtyAssets bool
	dirtyBalances  map[types.AssetID]struct{}
	isNew          bool

	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (model *Model) getBalance(asset types.AssetID) *big.Int {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return model.balances[asset]
}

func (model *Model) hasDirtyBalances() bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	return len(model.dirtyBalances) > 0
}

func (model *Model) isBalanceDirty(asset types.AssetID) bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	_, exists := model.dirtyBalances[asset]
	return exists
}

func (model *Model) getOrderedAssets() []types.AssetID {
	model.lock.RLock()
	keys := make([]types.AssetID, 0, len(model.balances))
	for k := range model.balances {
		keys = append(keys, k)
	}
	model.lock.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

func (model *Model) setBalance(asset types.AssetID, amount *big.Int) {
	if amount.Sign() == 0 {
		if !model.hasAsset(asset) {
			return
		}

		var newAssets []types.AssetID
		model.lock.RLock()
		for _, a := range model.assets {
			if a == asset {
				continue
			}
			newAssets = append(newAssets, a)
		}
		model.lock.RUnlock()

		model.lock.Lock()
		model.assets = newAssets
		model.hasDirtyAssets = true
		model.balances[asset] = big.NewInt(0)
		model.dirtyBalances[asset] = struct{}{}
		model.lock.Unlock()

		model.markDirty(model.address)
		return
	}

	if !model.hasAsset(asset) {
		model.lock.Lock()
		model.assets = append(model.assets, asset)
		model.hasDirtyAssets = true
		model.lock.Unlock()
	}

	model.lock.Lock()
	model.balances[asset] = amount
	model.dirtyBalances[asset] = struct{}{}
	model.lock.Unlock()

	model.markDirty(model.address)
}

func (model *Model) hasAsset(asset types.AssetID) bool {
	model.lock.RLock()
	defer model.lock.RUnlock()

	for _, a := range model.assets {
		if a == asset {
			return true
		}
	}

	return false
}
