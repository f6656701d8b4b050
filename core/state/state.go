package state

import (
	"log"
	"math/big"
	"sync"

	"github.com/VaultTeam/vault-go-node/core/state/assets"
	"github.com/VaultTeam/vault-go-node/core/state/balances"
	"github.com/VaultTeam/vault-go-node/core/state/bus"
	"github.com/VaultTeam/vault-go-node/core/state/capacity"
	"github.com/VaultTeam/vault-go-node/core/state/checker"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/tree"
	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

// CheckState is a read-only facade over the ledger state.
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) Balances() balances.RBalances {
	return cs.state.Balances
}

func (cs *CheckState) Assets() assets.RAssets {
	return cs.state.Assets
}

func (cs *CheckState) Capacity() capacity.RCapacity {
	return cs.state.Capacity
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.state.Assets.Export(appState)
	cs.state.Balances.Export(appState)
	cs.state.Capacity.Export(appState)

	return *appState
}

// State aggregates the ledger stores over a single versioned tree.
type State struct {
	Balances *balances.Balances
	Assets   *assets.Assets
	Capacity *capacity.Capacity
	Checker  *checker.Checker

	db             db.DB
	tree           tree.MTree
	keepLastStates int64

	settlement         types.AssetID
	settlementDecimals uint8
	ceiling            *big.Int

	bus    *bus.Bus
	lock   sync.RWMutex
	height int64
}

// NewState loads (or initializes) the ledger at the given height. Height 0
// means the latest committed version. The ceiling and the settlement asset
// identity are fixed here for the life of the state.
func NewState(height uint64, stateDB db.DB, cacheSize int, keepLastStates int64, ceiling *big.Int, settlement types.AssetID, settlementDecimals uint8) (*State, error) {
	if settlement.IsNative() {
		panic("settlement asset can't be the native pseudo-asset")
	}

	iavlTree, err := tree.NewMutableTree(height, stateDB, cacheSize)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), stateDB, keepLastStates, ceiling, settlement, settlementDecimals)
	state.tree = iavlTree
	state.height = int64(height)
	state.Assets.Seed(settlement, settlementDecimals)

	return state, nil
}

func newStateForTree(immutable *iavl.ImmutableTree, stateDB db.DB, keepLastStates int64, ceiling *big.Int, settlement types.AssetID, settlementDecimals uint8) *State {
	stateBus := bus.NewBus()
	stateChecker := checker.NewChecker(stateBus)

	state := &State{
		Balances:           balances.NewBalances(stateBus, immutable),
		Assets:             assets.NewAssets(immutable),
		Capacity:           capacity.NewCapacity(stateBus, immutable, ceiling),
		Checker:            stateChecker,
		db:                 stateDB,
		keepLastStates:     keepLastStates,
		settlement:         settlement,
		settlementDecimals: settlementDecimals,
		ceiling:            big.NewInt(0).Set(ceiling),
		bus:                stateBus,
	}

	return state
}

func (s *State) Settlement() types.AssetID {
	return s.settlement
}

func (s *State) SettlementDecimals() uint8 {
	return s.settlementDecimals
}

func (s *State) Height() int64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.height
}

// Check verifies conservation of the current operation batch: the
// settlement balance delta must match the custodied-total delta and no
// other asset may have moved.
func (s *State) Check() error {
	return s.Checker.Check(s.settlement)
}

// Commit flushes the dirty stores into the tree and saves a new version.
func (s *State) Commit() ([]byte, int64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Assets,
		s.Balances,
		s.Capacity,
	)
	if err != nil {
		return hash, version, err
	}

	s.height = version

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete > 0 {
		if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
			log.Printf("DeleteVersion %d error: %s\n", versionToDelete, err)
		}
	}

	return hash, version, nil
}

// Rollback discards every uncommitted in-memory change by rebinding fresh
// stores to the last committed tree version. Used by the engines to keep
// failed operations atomic.
func (s *State) Rollback() {
	s.lock.Lock()
	defer s.lock.Unlock()

	immutable := s.tree.GetLastImmutable()

	s.Checker.Reset()
	s.Balances = balances.NewBalances(s.bus, immutable)
	s.Assets = assets.NewAssets(immutable)
	s.Capacity = capacity.NewCapacity(s.bus, immutable, s.ceiling)
	s.Assets.Seed(s.settlement, s.settlementDecimals)
}

func (s *State) Tree() tree.MTree {
	return s.tree
}
