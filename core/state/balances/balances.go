package balances

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/VaultTeam/vault-go-node/core/state/bus"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('b')
const assetsPrefix = byte('c')
const cellPrefix = byte('v')

var cdc = amino.NewCodec()

// RBalances is the read-only view of the balance ledger.
type RBalances interface {
	GetBalance(address types.Address, asset types.AssetID) *big.Int
	GetBalances(address types.Address) []Balance
	Export(state *types.AppState)
}

type Balance struct {
	Asset types.AssetID
	Value *big.Int
}

// Balances owns the (asset, depositor) -> amount mapping. Every stored
// amount is non-negative; a negative cell at commit time is a broken
// invariant and panics.
type Balances struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

type assetList struct {
	Assets []uint32
}

func NewBalances(stateBus *bus.Bus, db *iavl.ImmutableTree) *Balances {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Balances{
		db:    immutableTree,
		bus:   stateBus,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (b *Balances) immutableTree() *iavl.ImmutableTree {
	db := b.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (b *Balances) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	b.db.Store(immutableTree)
}

func (b *Balances) AddBalance(address types.Address, asset types.AssetID, amount *big.Int) {
	balance := b.GetBalance(address, asset)
	b.SetBalance(address, asset, big.NewInt(0).Add(balance, amount))
}

func (b *Balances) SubBalance(address types.Address, asset types.AssetID, amount *big.Int) {
	balance := big.NewInt(0).Sub(b.GetBalance(address, asset), amount)
	b.SetBalance(address, asset, balance)
}

func (b *Balances) SetBalance(address types.Address, asset types.AssetID, amount *big.Int) {
	account := b.getOrNew(address)
	oldBalance := b.GetBalance(address, asset)
	b.bus.Checker().AddBalance(asset, big.NewInt(0).Sub(amount, oldBalance))

	account.setBalance(asset, amount)
}

func (b *Balances) GetBalance(address types.Address, asset types.AssetID) *big.Int {
	account := b.getOrNew(address)
	if !account.hasAsset(asset) {
		return big.NewInt(0)
	}

	account.lock.RLock()
	balance, ok := account.balances[asset]
	account.lock.RUnlock()
	if !ok {
		balance = big.NewInt(0)

		if tree := b.immutableTree(); tree != nil {
			_, enc := tree.Get(getPathForCell(address, asset))
			if len(enc) != 0 {
				balance = big.NewInt(0).SetBytes(enc)
			}
		}

		account.lock.Lock()
		account.balances[asset] = balance
		account.lock.Unlock()
	}

	return big.NewInt(0).Set(balance)
}

func (b *Balances) GetBalances(address types.Address) []Balance {
	account := b.getOrNew(address)

	account.lock.RLock()
	assets := make([]types.AssetID, len(account.assets))
	copy(assets, account.assets)
	account.lock.RUnlock()

	balances := make([]Balance, 0, len(assets))
	for _, asset := range assets {
		balances = append(balances, Balance{
			Asset: asset,
			Value: b.GetBalance(address, asset),
		})
	}

	return balances
}

func (b *Balances) Commit(db *iavl.MutableTree, version int64) error {
	accounts := b.getOrderedDirtyAccounts()
	for _, address := range accounts {
		account := b.getFromMap(address)
		b.lock.Lock()
		delete(b.dirty, address)
		b.lock.Unlock()

		// save asset list
		if b.hasDirtyAssets(account) {
			account.lock.Lock()
			account.hasDirtyAssets = false
			account.isNew = false
			list := assetList{Assets: make([]uint32, 0, len(account.assets))}
			for _, asset := range account.assets {
				list.Assets = append(list.Assets, asset.Uint32())
			}
			account.lock.Unlock()

			data, err := cdc.MarshalBinaryBare(list)
			if err != nil {
				return fmt.Errorf("can't encode asset list at %x: %v", address[:], err)
			}

			db.Set(getPathForAssets(address), data)
		}

		// save balance cells
		if account.hasDirtyBalances() {
			assets := account.getOrderedAssets()
			for _, asset := range assets {
				if !account.isBalanceDirty(asset) {
					continue
				}

				path := getPathForCell(address, asset)

				balance := account.getBalance(asset)
				switch balance.Sign() {
				case 0:
					db.Remove(path)
				case 1:
					db.Set(path, balance.Bytes())
				case -1:
					panic(fmt.Sprintf("address %s has negative balance of asset %d: %s", account.address.String(), asset.Uint32(), balance))
				}
			}

			account.lock.Lock()
			account.dirtyBalances = map[types.AssetID]struct{}{}
			account.lock.Unlock()
		}
	}

	return nil
}

func (b *Balances) Export(state *types.AppState) {
	tree := b.immutableTree()
	if tree == nil {
		return
	}

	var addresses []types.Address
	tree.Iterate(func(key []byte, value []byte) bool {
		if key[0] != mainPrefix {
			return false
		}
		if len(key) != 22 || key[21] != assetsPrefix {
			return false
		}

		addresses = append(addresses, types.BytesToAddress(key[1:21]))
		return false
	})

	for _, address := range addresses {
		account := types.Account{Address: address}
		for _, balance := range b.GetBalances(address) {
			account.Balance = append(account.Balance, types.Balance{
				Asset: uint64(balance.Asset),
				Value: balance.Value.String(),
			})
		}

		state.Accounts = append(state.Accounts, account)
	}
}

func (b *Balances) hasDirtyAssets(account *Model) bool {
	account.lock.RLock()
	defer account.lock.RUnlock()

	return account.hasDirtyAssets
}

func (b *Balances) getOrderedDirtyAccounts() []types.Address {
	b.lock.RLock()
	keys := make([]types.Address, 0, len(b.dirty))
	for k := range b.dirty {
		keys = append(keys, k)
	}
	b.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (b *Balances) get(address types.Address) *Model {
	if account := b.getFromMap(address); account != nil {
		return account
	}

	tree := b.immutableTree()
	if tree == nil {
		return nil
	}

	_, enc := tree.Get(getPathForAssets(address))
	if len(enc) == 0 {
		return nil
	}

	var list assetList
	if err := cdc.UnmarshalBinaryBare(enc, &list); err != nil {
		panic(fmt.Sprintf("failed to decode asset list at address %s: %s", address.String(), err))
	}

	account := &Model{
		address:       address,
		balances:      map[types.AssetID]*big.Int{},
		dirtyBalances: map[types.AssetID]struct{}{},
		markDirty:     b.markDirty,
	}
	for _, asset := range list.Assets {
		account.assets = append(account.assets, types.AssetID(asset))
	}

	b.setToMap(address, account)

	return account
}

func (b *Balances) getOrNew(address types.Address) *Model {
	account := b.get(address)
	if account == nil {
		account = &Model{
			address:       address,
			balances:      map[types.AssetID]*big.Int{},
			dirtyBalances: map[types.AssetID]struct{}{},
			markDirty:     b.markDirty,
			isNew:         true,
		}
		b.setToMap(address, account)
	}

	return account
}

func (b *Balances) markDirty(address types.Address) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.dirty[address] = struct{}{}
}

func (b *Balances) getFromMap(address types.Address) *Model {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.list[address]
}

func (b *Balances) setToMap(address types.Address, model *Model) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.list[address] = model
}

func getPathForAssets(address types.Address) []byte {
	path := []byte{mainPrefix}
	path = append(path, address[:]...)
	path = append(path, assetsPrefix)

	return path
}

func getPathForCell(address types.Address, asset types.AssetID) []byte {
	path := []byte{mainPrefix}
	path = append(path, address[:]...)
	path = append(path, cellPrefix)
	path = append(path, uint32ToBytes(asset.Uint32())...)

	return path
}

func uint32ToBytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
