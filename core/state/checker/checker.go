package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/VaultTeam/vault-go-node/core/state/bus"
	"github.com/VaultTeam/vault-go-node/core/types"
)

// Checker accumulates the balance deltas and the custodied-total delta of
// the current operation batch. Before a commit the two views must agree:
// the settlement-asset balance delta has to equal the total delta, and no
// other asset may have moved, otherwise the ledger lost conservation.
type Checker struct {
	delta          map[types.AssetID]*big.Int
	custodiedDelta *big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		delta:          map[types.AssetID]*big.Int{},
		custodiedDelta: big.NewInt(0),
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddBalance(asset types.AssetID, value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cValue, exists := c.delta[asset]
	if !exists {
		cValue = big.NewInt(0)
		c.delta[asset] = cValue
	}

	cValue.Add(cValue, value)
}

func (c *Checker) AddCustodied(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.custodiedDelta.Add(c.custodiedDelta, value)
}

// Reset clears accumulated deltas
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta = map[types.AssetID]*big.Int{}
	c.custodiedDelta = big.NewInt(0)
}

func (c *Checker) Check(settlement types.AssetID) error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	for asset, delta := range c.delta {
		if asset == settlement {
			continue
		}
		if delta.Sign() != 0 {
			return fmt.Errorf("invariants error on asset %s: balance delta %s without custody movement", asset.String(), delta.String())
		}
	}

	settlementDelta := c.delta[settlement]
	if settlementDelta == nil {
		settlementDelta = big.NewInt(0)
	}

	if settlementDelta.Cmp(c.custodiedDelta) != 0 {
		return fmt.Errorf("invariants error on asset %s: %s", settlement.String(),
			big.NewInt(0).Sub(c.custodiedDelta, settlementDelta).String())
	}

	return nil
}
