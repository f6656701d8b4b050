package assets

import (
	"math/big"
	"sync"

	"github.com/VaultTeam/vault-go-node/core/types"
)

// Model holds the configuration of a single asset. The native pseudo-asset
// and the settlement asset are seeded at construction and never removed.
type Model struct {
	id types.AssetID

	supported     bool
	isNative      bool
	decimals      uint8
	withdrawLimit *big.Int // nil is unbounded
	priceFeed     types.Address

	markDirty func(types.AssetID)
	isDirty   bool

	lock sync.RWMutex
}

func (m *Model) ID() types.AssetID {
	return m.id
}

func (m *Model) IsSupported() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.supported
}

func (m *Model) IsNative() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.isNative
}

func (m *Model) Decimals() uint8 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.decimals
}

// WithdrawLimit returns the per-withdrawal cap in the asset's native
// precision, or nil when unbounded.
func (m *Model) WithdrawLimit() *big.Int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.withdrawLimit == nil {
		return nil
	}

	return big.NewInt(0).Set(m.withdrawLimit)
}

// PriceFeed returns the price-oracle handle, zero address when absent.
func (m *Model) PriceFeed() types.Address {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.priceFeed
}

func (m *Model) update(supported bool, decimals uint8, withdrawLimit *big.Int, priceFeed types.Address) {
	m.lock.Lock()
	m.supported = supported
	m.decimals = decimals
	if withdrawLimit == nil {
		m.withdrawLimit = nil
	} else {
		m.withdrawLimit = big.NewInt(0).Set(withdrawLimit)
	}
	m.priceFeed = priceFeed
	m.isDirty = true
	m.lock.Unlock()

	m.markDirty(m.id)
}
