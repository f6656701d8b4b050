package vault

import (
	"math/big"
	"sync/atomic"
	"time"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/events"
	"github.com/VaultTeam/vault-go-node/core/state"
	"github.com/VaultTeam/vault-go-node/core/statistics"
	"github.com/VaultTeam/vault-go-node/core/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// ExchangeService converts assets into the settlement asset with slippage
// protection. The engine never trusts the returned amounts: the measured
// balance delta of the custody account is authoritative.
type ExchangeService interface {
	SwapNativeForSettlement(value, minOut *big.Int, recipient types.Address, deadline uint64) ([]*big.Int, error)
	SwapAssetForSettlement(asset types.AssetID, amountIn, minOut *big.Int, recipient types.Address, deadline uint64) ([]*big.Int, error)
	RouteExists(assetA, assetB types.AssetID) bool
}

// AssetTransfer moves value between the custody account and the outside
// world, for both the native pseudo-asset and token assets.
type AssetTransfer interface {
	PullFromCaller(asset types.AssetID, from types.Address, amount *big.Int) error
	PushToCaller(asset types.AssetID, to types.Address, amount *big.Int) error
	BalanceOf(asset types.AssetID, holder types.Address) (*big.Int, error)
	ApproveExchange(asset types.AssetID, amount *big.Int) error
	TokenDecimals(asset types.AssetID) (uint8, error)
}

// PriceSource resolves price-feed handles for valuation queries.
type PriceSource interface {
	LatestPrice(feed types.Address) (price *big.Int, updatedAt time.Time, err error)
	FeedDecimals(feed types.Address) (uint8, error)
}

// AccessControl answers whether an address may change asset configuration.
type AccessControl interface {
	IsConfigurer(address types.Address) bool
}

// Vault is the deposit/withdraw accounting engine. All mutating entry
// points are guarded by a call-scoped reentrancy lock: a reentrant
// attempt fails immediately instead of queuing.
type Vault struct {
	state    *state.State
	eventsDB events.IEventsDB

	exchange ExchangeService
	transfer AssetTransfer
	prices   PriceSource
	access   AccessControl

	// address is the custody account whose external settlement balance
	// the engine measures around exchange calls
	address types.Address

	stats  *statistics.Data
	logger tmlog.Logger

	guard int32
}

func NewVault(st *state.State, eventsDB events.IEventsDB, exchange ExchangeService, transfer AssetTransfer,
	prices PriceSource, access AccessControl, address types.Address, logger tmlog.Logger, stats *statistics.Data) *Vault {
	if eventsDB == nil {
		eventsDB = events.MockEvents{}
	}

	return &Vault{
		state:    st,
		eventsDB: eventsDB,
		exchange: exchange,
		transfer: transfer,
		prices:   prices,
		access:   access,
		address:  address,
		stats:    stats,
		logger:   logger,
	}
}

// CurrentState returns a read-only facade over the ledger.
func (v *Vault) CurrentState() *state.CheckState {
	return state.NewCheckState(v.state)
}

func (v *Vault) Settlement() types.AssetID {
	return v.state.Settlement()
}

func (v *Vault) lockGuard() error {
	if !atomic.CompareAndSwapInt32(&v.guard, 0, 1) {
		return code.NewVaultBusy()
	}
	return nil
}

func (v *Vault) unlockGuard() {
	atomic.StoreInt32(&v.guard, 0)
}

// commit verifies conservation, saves a state version and flushes the
// audit events recorded for it.
func (v *Vault) commit(evs ...events.Event) error {
	if err := v.state.Check(); err != nil {
		// the only legal source of drift is a clamped capacity release,
		// which was already reported on its own path
		v.logger.Error("ledger conservation check failed", "err", err)
	}

	_, version, err := v.state.Commit()
	if err != nil {
		return err
	}

	for _, ev := range evs {
		v.eventsDB.AddEvent(ev)
	}
	if err := v.eventsDB.CommitEvents(uint64(version)); err != nil {
		v.logger.Error("can't commit audit events", "version", version, "err", err)
	}

	v.stats.SetTotalCustodied(v.state.Capacity.Total())

	return nil
}

// refund pushes value back to the caller on failure paths where the
// external movement already happened and can't be unwound any other way.
func (v *Vault) refund(asset types.AssetID, to types.Address, amount *big.Int) {
	if err := v.transfer.PushToCaller(asset, to, amount); err != nil {
		v.logger.Error("refund failed, funds stranded in custody account",
			"asset", asset.String(), "address", to.String(), "amount", amount.String(), "err", err)
	}
}
