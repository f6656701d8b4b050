package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// Dirty is a state store that can flush its in-memory changes into the
// mutable tree and rebind itself to the committed immutable view.
type Dirty interface {
	Commit(db *iavl.MutableTree, version int64) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type ReadOnlyTree interface {
	Get(key []byte) (index int64, value []byte)
	Version() int64
	Hash() []byte
	Iterate(fn func(key []byte, value []byte) bool) (stopped bool)
}

type MTree interface {
	ReadOnlyTree
	Set(key, value []byte) bool
	Remove(key []byte) ([]byte, bool)
	SaveVersion() ([]byte, int64, error)
	GetLastImmutable() *iavl.ImmutableTree
	Commit(stores ...Dirty) (hash []byte, version int64, err error)
	DeleteVersionIfExists(version int64) error
}

// NewMutableTree loads the tree at the given height, or at the latest
// saved version when height is 0.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int) (MTree, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize)
	if err != nil {
		return nil, err
	}

	if height == 0 {
		if _, err := tree.Load(); err != nil {
			return nil, errors.Wrap(err, "can't load latest version")
		}
		return &mutableTree{tree: tree}, nil
	}

	if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, errors.Wrapf(err, "can't load version %d", height)
	}

	return &mutableTree{tree: tree}, nil
}

type mutableTree struct {
	tree *iavl.MutableTree
	lock sync.RWMutex
}

func (t *mutableTree) Get(key []byte) (index int64, value []byte) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Get(key)
}

func (t *mutableTree) Set(key, value []byte) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Set(key, value)
}

func (t *mutableTree) Remove(key []byte) ([]byte, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.Remove(key)
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) Iterate(fn func(key []byte, value []byte) bool) (stopped bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Iterate(fn)
}

func (t *mutableTree) SaveVersion() ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tree.SaveVersion()
}

// GetLastImmutable returns the last committed view of the tree, or nil
// when nothing has been committed yet.
func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	immutable, err := t.tree.GetImmutable(t.tree.Version())
	if err != nil {
		return nil
	}

	return immutable
}

// Commit flushes the given stores into the tree, saves a version and
// rebinds every store to the freshly committed immutable view.
func (t *mutableTree) Commit(stores ...Dirty) ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	version := t.tree.Version() + 1
	for _, store := range stores {
		if err := store.Commit(t.tree, version); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err := t.tree.SaveVersion()
	if err != nil {
		return nil, 0, errors.Wrap(err, "can't save version")
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "can't get immutable view of version %d", version)
	}

	for _, store := range stores {
		store.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersionIfExists(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}
