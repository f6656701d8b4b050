package types

// AppState is the full exportable state of the vault ledger.
type AppState struct {
	Assets          []Asset   `json:"assets"`
	Accounts        []Account `json:"accounts"`
	TotalCustodied  string    `json:"total_custodied"`
	CapacityCeiling string    `json:"capacity_ceiling"`
	DepositCount    uint64    `json:"deposit_count"`
	WithdrawCount   uint64    `json:"withdraw_count"`
}

type Asset struct {
	ID            uint64  `json:"id"`
	Supported     bool    `json:"supported"`
	IsNative      bool    `json:"is_native"`
	Decimals      uint64  `json:"decimals"`
	WithdrawLimit string  `json:"withdraw_limit,omitempty"`
	PriceFeed     Address `json:"price_feed,omitempty"`
}

type Account struct {
	Address Address   `json:"address"`
	Balance []Balance `json:"balance"`
}

type Balance struct {
	Asset uint64 `json:"asset"`
	Value string `json:"value"`
}
