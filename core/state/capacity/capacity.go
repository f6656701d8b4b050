package capacity

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/state/bus"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('t')

var cdc = amino.NewCodec()

// RCapacity is the read-only view of the capacity ledger.
type RCapacity interface {
	Total() *big.Int
	Ceiling() *big.Int
	DepositCount() uint64
	WithdrawCount() uint64
	Export(state *types.AppState)
}

// Capacity owns the running total of custodied settlement value and the
// immutable global ceiling. The total moves only in lock-step with a
// settlement balance credit or debit.
type Capacity struct {
	total         *big.Int
	ceiling       *big.Int
	depositCount  uint64
	withdrawCount uint64

	loaded bool
	dirty  bool

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

type capacityData struct {
	Total         []byte
	DepositCount  uint64
	WithdrawCount uint64
}

func NewCapacity(stateBus *bus.Bus, db *iavl.ImmutableTree, ceiling *big.Int) *Capacity {
	if ceiling == nil || ceiling.Sign() != 1 {
		panic("capacity ceiling should be strictly positive")
	}

	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Capacity{
		db:      immutableTree,
		bus:     stateBus,
		total:   big.NewInt(0),
		ceiling: big.NewInt(0).Set(ceiling),
	}
}

func (c *Capacity) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Capacity) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

// TryReserve atomically checks the ceiling and commits the reservation.
// On failure the total is left untouched.
func (c *Capacity) TryReserve(amount *big.Int) (*big.Int, error) {
	c.load()

	c.lock.Lock()
	defer c.lock.Unlock()

	attempted := big.NewInt(0).Add(c.total, amount)
	if attempted.Cmp(c.ceiling) == 1 {
		return nil, code.NewCapacityExceeded(attempted.String(), c.ceiling.String())
	}

	c.total = attempted
	c.dirty = true
	c.bus.Checker().AddCustodied(amount)

	return big.NewInt(0).Set(attempted), nil
}

// Release decrements the total, saturating at zero. The returned flag
// reports whether the floor was hit; callers surface that to operators.
func (c *Capacity) Release(amount *big.Int) (released *big.Int, clamped bool) {
	c.load()

	c.lock.Lock()
	defer c.lock.Unlock()

	released = big.NewInt(0).Set(amount)
	if amount.Cmp(c.total) == 1 {
		released.Set(c.total)
		clamped = true
	}

	c.total = big.NewInt(0).Sub(c.total, released)
	c.dirty = true
	c.bus.Checker().AddCustodied(big.NewInt(0).Neg(released))

	return released, clamped
}

func (c *Capacity) Total() *big.Int {
	c.load()

	c.lock.RLock()
	defer c.lock.RUnlock()

	return big.NewInt(0).Set(c.total)
}

func (c *Capacity) Ceiling() *big.Int {
	return big.NewInt(0).Set(c.ceiling)
}

func (c *Capacity) IncDepositCount() {
	c.load()

	c.lock.Lock()
	defer c.lock.Unlock()

	c.depositCount++
	c.dirty = true
}

func (c *Capacity) IncWithdrawCount() {
	c.load()

	c.lock.Lock()
	defer c.lock.Unlock()

	c.withdrawCount++
	c.dirty = true
}

func (c *Capacity) DepositCount() uint64 {
	c.load()

	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.depositCount
}

func (c *Capacity) WithdrawCount() uint64 {
	c.load()

	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.withdrawCount
}

func (c *Capacity) Commit(db *iavl.MutableTree, version int64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.dirty {
		return nil
	}
	c.dirty = false

	data, err := cdc.MarshalBinaryBare(capacityData{
		Total:         c.total.Bytes(),
		DepositCount:  c.depositCount,
		WithdrawCount: c.withdrawCount,
	})
	if err != nil {
		return fmt.Errorf("can't encode capacity record: %v", err)
	}

	db.Set([]byte{mainPrefix}, data)

	return nil
}

func (c *Capacity) Export(state *types.AppState) {
	c.load()

	c.lock.RLock()
	defer c.lock.RUnlock()

	state.TotalCustodied = c.total.String()
	state.CapacityCeiling = c.ceiling.String()
	state.DepositCount = c.depositCount
	state.WithdrawCount = c.withdrawCount
}

func (c *Capacity) load() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.loaded {
		return
	}
	c.loaded = true

	tree := c.immutableTree()
	if tree == nil {
		return
	}

	_, enc := tree.Get([]byte{mainPrefix})
	if len(enc) == 0 {
		return
	}

	var data capacityData
	if err := cdc.UnmarshalBinaryBare(enc, &data); err != nil {
		panic(fmt.Sprintf("failed to decode capacity record: %s", err))
	}

	c.total = big.NewInt(0).SetBytes(data.Total)
	c.depositCount = data.DepositCount
	c.withdrawCount = data.WithdrawCount
}
