package events

import (
	"github.com/VaultTeam/vault-go-node/core/types"
)

// Event type names
const (
	TypeDepositEvent        = "vault/DepositEvent"
	TypeWithdrawEvent       = "vault/WithdrawEvent"
	TypeConfigureAssetEvent = "vault/ConfigureAssetEvent"
)

type Event interface {
	Type() string
}

type Events []Event

// DepositEvent is emitted after every successful deposit, in any of the
// three entry variants. AmountIn is denominated in the deposited asset,
// SettlementCredited and NewBalance in the settlement asset.
type DepositEvent struct {
	Asset              uint64        `json:"asset"`
	Address            types.Address `json:"address"`
	AmountIn           string        `json:"amount_in"`
	SettlementCredited string        `json:"settlement_credited"`
	NewBalance         string        `json:"new_balance"`
}

func (e *DepositEvent) Type() string {
	return TypeDepositEvent
}

func (e *DepositEvent) AddressString() string {
	return e.Address.String()
}

// WithdrawEvent is emitted after the external transfer-out completes.
type WithdrawEvent struct {
	Asset      uint64        `json:"asset"`
	Address    types.Address `json:"address"`
	Amount     string        `json:"amount"`
	NewBalance string        `json:"new_balance"`
}

func (e *WithdrawEvent) Type() string {
	return TypeWithdrawEvent
}

func (e *WithdrawEvent) AddressString() string {
	return e.Address.String()
}

// ConfigureAssetEvent records every change applied through the asset
// registry's configuration path.
type ConfigureAssetEvent struct {
	Asset         uint64        `json:"asset"`
	Supported     bool          `json:"supported"`
	IsNative      bool          `json:"is_native"`
	Decimals      uint64        `json:"decimals"`
	WithdrawLimit string        `json:"withdraw_limit,omitempty"`
	PriceFeed     types.Address `json:"price_feed,omitempty"`
}

func (e *ConfigureAssetEvent) Type() string {
	return TypeConfigureAssetEvent
}
