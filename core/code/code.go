package code

import (
	"strconv"
)

// Codes for vault operation failures
const (
	// general
	OK               uint32 = 0
	ZeroAmount       uint32 = 101
	UnsupportedAsset uint32 = 102
	VaultBusy        uint32 = 103
	Unauthorized     uint32 = 104

	// capacity
	CapacityExceeded uint32 = 201

	// balances
	InsufficientBalance  uint32 = 301
	ExceedsWithdrawLimit uint32 = 302

	// exchange
	NoExchangeRoute uint32 = 401
	SwapFailed      uint32 = 402
	NothingReceived uint32 = 403

	// valuation
	PriceUnavailable uint32 = 501
	InvalidPrice     uint32 = 502
)

type coded interface {
	code() uint32
}

// CodeOf extracts the numeric failure code from an error produced by this
// package. Errors from other packages carry no code and map to 0.
func CodeOf(err error) uint32 {
	if err == nil {
		return OK
	}
	if c, ok := err.(coded); ok {
		return c.code()
	}
	return 0
}

type zeroAmount struct {
	Code string `json:"code,omitempty"`
}

func NewZeroAmount() *zeroAmount {
	return &zeroAmount{Code: strconv.Itoa(int(ZeroAmount))}
}

func (e *zeroAmount) code() uint32 { return ZeroAmount }
func (e *zeroAmount) Error() string {
	return "amount should be positive"
}

type unsupportedAsset struct {
	Code  string `json:"code,omitempty"`
	Asset string `json:"asset,omitempty"`
}

func NewUnsupportedAsset(asset string) *unsupportedAsset {
	return &unsupportedAsset{Code: strconv.Itoa(int(UnsupportedAsset)), Asset: asset}
}

func (e *unsupportedAsset) code() uint32 { return UnsupportedAsset }
func (e *unsupportedAsset) Error() string {
	return "asset " + e.Asset + " is not allowed here"
}

type vaultBusy struct {
	Code string `json:"code,omitempty"`
}

func NewVaultBusy() *vaultBusy {
	return &vaultBusy{Code: strconv.Itoa(int(VaultBusy))}
}

func (e *vaultBusy) code() uint32 { return VaultBusy }
func (e *vaultBusy) Error() string {
	return "another vault operation is in flight"
}

type unauthorized struct {
	Code   string `json:"code,omitempty"`
	Caller string `json:"caller,omitempty"`
}

func NewUnauthorized(caller string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Caller: caller}
}

func (e *unauthorized) code() uint32 { return Unauthorized }
func (e *unauthorized) Error() string {
	return "caller " + e.Caller + " is not a configurer"
}

type capacityExceeded struct {
	Code      string `json:"code,omitempty"`
	Attempted string `json:"attempted,omitempty"`
	Ceiling   string `json:"ceiling,omitempty"`
}

func NewCapacityExceeded(attempted, ceiling string) *capacityExceeded {
	return &capacityExceeded{Code: strconv.Itoa(int(CapacityExceeded)), Attempted: attempted, Ceiling: ceiling}
}

func (e *capacityExceeded) code() uint32 { return CapacityExceeded }
func (e *capacityExceeded) Error() string {
	return "capacity exceeded: attempted " + e.Attempted + ", ceiling " + e.Ceiling
}

type insufficientBalance struct {
	Code string `json:"code,omitempty"`
	Have string `json:"have,omitempty"`
	Want string `json:"want,omitempty"`
}

func NewInsufficientBalance(have, want string) *insufficientBalance {
	return &insufficientBalance{Code: strconv.Itoa(int(InsufficientBalance)), Have: have, Want: want}
}

func (e *insufficientBalance) code() uint32 { return InsufficientBalance }
func (e *insufficientBalance) Error() string {
	return "insufficient balance: have " + e.Have + ", want " + e.Want
}

type exceedsWithdrawLimit struct {
	Code   string `json:"code,omitempty"`
	Amount string `json:"amount,omitempty"`
	Limit  string `json:"limit,omitempty"`
}

func NewExceedsWithdrawLimit(amount, limit string) *exceedsWithdrawLimit {
	return &exceedsWithdrawLimit{Code: strconv.Itoa(int(ExceedsWithdrawLimit)), Amount: amount, Limit: limit}
}

func (e *exceedsWithdrawLimit) code() uint32 { return ExceedsWithdrawLimit }
func (e *exceedsWithdrawLimit) Error() string {
	return "withdrawal of " + e.Amount + " exceeds per-call limit " + e.Limit
}

type noExchangeRoute struct {
	Code     string `json:"code,omitempty"`
	AssetIn  string `json:"asset_in,omitempty"`
	AssetOut string `json:"asset_out,omitempty"`
}

func NewNoExchangeRoute(assetIn, assetOut string) *noExchangeRoute {
	return &noExchangeRoute{Code: strconv.Itoa(int(NoExchangeRoute)), AssetIn: assetIn, AssetOut: assetOut}
}

func (e *noExchangeRoute) code() uint32 { return NoExchangeRoute }
func (e *noExchangeRoute) Error() string {
	return "no exchange route from asset " + e.AssetIn + " to asset " + e.AssetOut
}

type swapFailed struct {
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewSwapFailed(reason string) *swapFailed {
	return &swapFailed{Code: strconv.Itoa(int(SwapFailed)), Reason: reason}
}

func (e *swapFailed) code() uint32 { return SwapFailed }
func (e *swapFailed) Error() string {
	return "exchange call failed: " + e.Reason
}

type nothingReceived struct {
	Code string `json:"code,omitempty"`
}

func NewNothingReceived() *nothingReceived {
	return &nothingReceived{Code: strconv.Itoa(int(NothingReceived))}
}

func (e *nothingReceived) code() uint32 { return NothingReceived }
func (e *nothingReceived) Error() string {
	return "exchange produced no settlement output"
}

type priceUnavailable struct {
	Code  string `json:"code,omitempty"`
	Asset string `json:"asset,omitempty"`
}

func NewPriceUnavailable(asset string) *priceUnavailable {
	return &priceUnavailable{Code: strconv.Itoa(int(PriceUnavailable)), Asset: asset}
}

func (e *priceUnavailable) code() uint32 { return PriceUnavailable }
func (e *priceUnavailable) Error() string {
	return "no price reference for asset " + e.Asset
}

type invalidPrice struct {
	Code  string `json:"code,omitempty"`
	Price string `json:"price,omitempty"`
}

func NewInvalidPrice(price string) *invalidPrice {
	return &invalidPrice{Code: strconv.Itoa(int(InvalidPrice)), Price: price}
}

func (e *invalidPrice) code() uint32 { return InvalidPrice }
func (e *invalidPrice) Error() string {
	return "price reference returned invalid price " + e.Price
}
