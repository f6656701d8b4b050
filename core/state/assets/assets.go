package assets

import (
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('q')

var cdc = amino.NewCodec()

// RAssets is the read-only view of the asset registry.
type RAssets interface {
	GetAsset(id types.AssetID) *Model
	Exists(id types.AssetID) bool
	Export(state *types.AppState)
}

// Assets owns the per-asset configuration records. Entries are created at
// construction (native pseudo-asset, settlement asset) or through
// Configure; they are never deleted, only updated.
type Assets struct {
	list  map[types.AssetID]*Model
	dirty map[types.AssetID]struct{}

	db atomic.Value

	lock sync.RWMutex
}

type assetData struct {
	Supported     bool
	IsNative      bool
	Decimals      uint8
	HasLimit      bool
	WithdrawLimit []byte
	PriceFeed     types.Address
}

func NewAssets(db *iavl.ImmutableTree) *Assets {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Assets{
		db:    immutableTree,
		list:  map[types.AssetID]*Model{},
		dirty: map[types.AssetID]struct{}{},
	}
}

func (a *Assets) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Assets) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

// Seed initializes the two mandatory registry entries on a fresh tree:
// the native pseudo-asset and the settlement asset. Existing entries are
// left untouched on restart.
func (a *Assets) Seed(settlement types.AssetID, settlementDecimals uint8) {
	if a.GetAsset(types.AssetNative) == nil {
		native := &Model{
			id:        types.AssetNative,
			supported: true,
			isNative:  true,
			decimals:  types.NativeDecimals,
			markDirty: a.markDirty,
			isDirty:   true,
		}
		a.setToMap(native.id, native)
		a.markDirty(native.id)
	}

	if a.GetAsset(settlement) == nil {
		settlementModel := &Model{
			id:        settlement,
			supported: true,
			isNative:  false,
			decimals:  settlementDecimals,
			markDirty: a.markDirty,
			isDirty:   true,
		}
		a.setToMap(settlementModel.id, settlementModel)
		a.markDirty(settlementModel.id)
	}
}

func (a *Assets) GetAsset(id types.AssetID) *Model {
	return a.get(id)
}

func (a *Assets) Exists(id types.AssetID) bool {
	return a.get(id) != nil
}

// Configure creates or updates a registry entry. The caller is expected
// to have rejected the native sentinel already; hitting it here is a
// programming error.
func (a *Assets) Configure(id types.AssetID, supported bool, decimals uint8, withdrawLimit *big.Int, priceFeed types.Address) *Model {
	if id.IsNative() {
		panic("native pseudo-asset is not configurable")
	}

	asset := a.get(id)
	if asset == nil {
		asset = &Model{
			id:        id,
			markDirty: a.markDirty,
		}
		a.setToMap(id, asset)
	}

	asset.update(supported, decimals, withdrawLimit, priceFeed)

	return asset
}

func (a *Assets) Commit(db *iavl.MutableTree, version int64) error {
	ids := a.getOrderedDirtyAssets()
	for _, id := range ids {
		asset := a.getFromMap(id)

		a.lock.Lock()
		delete(a.dirty, id)
		a.lock.Unlock()

		asset.lock.Lock()
		asset.isDirty = false
		data := assetData{
			Supported: asset.supported,
			IsNative:  asset.isNative,
			Decimals:  asset.decimals,
			PriceFeed: asset.priceFeed,
		}
		if asset.withdrawLimit != nil {
			data.HasLimit = true
			data.WithdrawLimit = asset.withdrawLimit.Bytes()
		}
		asset.lock.Unlock()

		enc, err := cdc.MarshalBinaryBare(data)
		if err != nil {
			return fmt.Errorf("can't encode asset %s: %v", id.String(), err)
		}

		db.Set(getPathForAsset(id), enc)
	}

	return nil
}

func (a *Assets) Export(state *types.AppState) {
	a.loadAll()

	a.lock.RLock()
	ids := make([]types.AssetID, 0, len(a.list))
	for id := range a.list {
		ids = append(ids, id)
	}
	a.lock.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		asset := a.get(id)

		exported := types.Asset{
			ID:        uint64(id),
			Supported: asset.IsSupported(),
			IsNative:  asset.IsNative(),
			Decimals:  uint64(asset.Decimals()),
			PriceFeed: asset.PriceFeed(),
		}
		if limit := asset.WithdrawLimit(); limit != nil {
			exported.WithdrawLimit = limit.String()
		}

		state.Assets = append(state.Assets, exported)
	}
}

func (a *Assets) get(id types.AssetID) *Model {
	if asset := a.getFromMap(id); asset != nil {
		return asset
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(getPathForAsset(id))
	if len(enc) == 0 {
		return nil
	}

	var data assetData
	if err := cdc.UnmarshalBinaryBare(enc, &data); err != nil {
		panic(fmt.Sprintf("failed to decode asset %s: %s", id.String(), err))
	}

	asset := &Model{
		id:        id,
		supported: data.Supported,
		isNative:  data.IsNative,
		decimals:  data.Decimals,
		priceFeed: data.PriceFeed,
		markDirty: a.markDirty,
	}
	if data.HasLimit {
		asset.withdrawLimit = big.NewInt(0).SetBytes(data.WithdrawLimit)
	}

	a.setToMap(id, asset)

	return asset
}

func (a *Assets) loadAll() {
	tree := a.immutableTree()
	if tree == nil {
		return
	}

	tree.Iterate(func(key []byte, value []byte) bool {
		if key[0] != mainPrefix {
			return false
		}

		id := types.AssetID(bytesToUint32(key[1:]))
		a.get(id)

		return false
	})
}

func (a *Assets) getOrderedDirtyAssets() []types.AssetID {
	a.lock.RLock()
	keys := make([]types.AssetID, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

func (a *Assets) markDirty(id types.AssetID) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[id] = struct{}{}
}

func (a *Assets) getFromMap(id types.AssetID) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[id]
}

func (a *Assets) setToMap(id types.AssetID, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[id] = model
}

func getPathForAsset(id types.AssetID) []byte {
	return append([]byte{mainPrefix}, uint32ToBytes(id.Uint32())...)
}

func uint32ToBytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func bytesToUint32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
