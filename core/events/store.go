package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is the audit log consumed by external observers. Events are
// buffered in memory and flushed per committed state version.
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(version uint64) Events
	CommitEvents(version uint64) error
}

var cdc = amino.NewCodec()

func init() {
	RegisterAminoEvents(cdc)
}

// RegisterAminoEvents registers the concrete event types on the codec
func RegisterAminoEvents(codec *amino.Codec) {
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(&DepositEvent{},
		TypeDepositEvent, nil)
	codec.RegisterConcrete(&WithdrawEvent{},
		TypeWithdrawEvent, nil)
	codec.RegisterConcrete(&ConfigureAssetEvent{},
		TypeConfigureAssetEvent, nil)
}

type eventsStore struct {
	db      db.DB
	pending Events

	lock sync.RWMutex
}

// NewEventsStore creates an amino-encoded event store over the given db.
func NewEventsStore(db db.DB) IEventsDB {
	return &eventsStore{
		db: db,
	}
}

func (store *eventsStore) AddEvent(event Event) {
	store.lock.Lock()
	defer store.lock.Unlock()

	store.pending = append(store.pending, event)
}

func (store *eventsStore) CommitEvents(version uint64) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	bytes, err := cdc.MarshalBinaryBare(store.pending)
	if err != nil {
		return err
	}

	if err := store.db.Set(getKeyForVersion(version), bytes); err != nil {
		return err
	}

	store.pending = nil

	return nil
}

func (store *eventsStore) LoadEvents(version uint64) Events {
	store.lock.RLock()
	defer store.lock.RUnlock()

	data, err := store.db.Get(getKeyForVersion(version))
	if err != nil {
		panic(err)
	}

	if len(data) == 0 {
		return Events{}
	}

	var decoded Events
	if err := cdc.UnmarshalBinaryBare(data, &decoded); err != nil {
		panic(err)
	}

	return decoded
}

func getKeyForVersion(version uint64) []byte {
	var bs [8]byte
	binary.BigEndian.PutUint64(bs[:], version)

	return append([]byte{'e'}, bs[:]...)
}

// MockEvents is a no-op event store for contexts that do not record audit
// events (tests, stateless queries).
type MockEvents struct{}

func (e MockEvents) AddEvent(event Event)              {}
func (e MockEvents) LoadEvents(version uint64) Events  { return nil }
func (e MockEvents) CommitEvents(version uint64) error { return nil }
