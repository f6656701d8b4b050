package vault

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/events"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/pkg/errors"
)

// DepositSettlement credits a direct settlement-asset deposit. The
// transfer-in is a pull against the depositor and runs after the internal
// credit; a failed pull unwinds the whole operation.
func (v *Vault) DepositSettlement(from types.Address, amount *big.Int) error {
	if err := v.lockGuard(); err != nil {
		return err
	}
	defer v.unlockGuard()

	if amount == nil || amount.Sign() != 1 {
		return code.NewZeroAmount()
	}

	settlement := v.state.Settlement()

	newTotal, err := v.state.Capacity.TryReserve(amount)
	if err != nil {
		return err
	}

	v.state.Balances.AddBalance(from, settlement, amount)
	v.state.Capacity.IncDepositCount()

	if err := v.transfer.PullFromCaller(settlement, from, amount); err != nil {
		v.state.Rollback()
		return errors.Wrap(err, "transfer-in failed")
	}

	newBalance := v.state.Balances.GetBalance(from, settlement)
	if err := v.commit(&events.DepositEvent{
		Asset:              uint64(settlement),
		Address:            from,
		AmountIn:           amount.String(),
		SettlementCredited: amount.String(),
		NewBalance:         newBalance.String(),
	}); err != nil {
		return err
	}

	v.stats.IncDeposit()
	v.logger.Info("deposit", "asset", settlement.String(), "address", from.String(),
		"credited", amount.String(), "total", newTotal.String())

	return nil
}

// DepositNative exchanges native value into the settlement asset and
// credits the measured settlement delta of the custody account. The
// exchange call is the only interaction before the state commit.
func (v *Vault) DepositNative(from types.Address, value, minOut *big.Int, deadline uint64) error {
	if err := v.lockGuard(); err != nil {
		return err
	}
	defer v.unlockGuard()

	if value == nil || value.Sign() != 1 {
		return code.NewZeroAmount()
	}

	settlement := v.state.Settlement()

	if v.exchange == nil {
		return code.NewNoExchangeRoute(types.AssetNative.String(), settlement.String())
	}

	received, err := v.swapAndMeasure(settlement, func() ([]*big.Int, error) {
		return v.exchange.SwapNativeForSettlement(value, minOut, v.address, deadline)
	})
	if err != nil {
		return err
	}

	newTotal, err := v.state.Capacity.TryReserve(received)
	if err != nil {
		// the swap already landed in the custody account; hand the
		// output back to the depositor
		v.refund(settlement, from, received)
		return err
	}

	v.state.Balances.AddBalance(from, settlement, received)
	v.state.Capacity.IncDepositCount()

	newBalance := v.state.Balances.GetBalance(from, settlement)
	if err := v.commit(&events.DepositEvent{
		Asset:              uint64(types.AssetNative),
		Address:            from,
		AmountIn:           value.String(),
		SettlementCredited: received.String(),
		NewBalance:         newBalance.String(),
	}); err != nil {
		return err
	}

	v.stats.IncDeposit()
	v.logger.Info("deposit", "asset", types.AssetNative.String(), "address", from.String(),
		"in", value.String(), "credited", received.String(), "total", newTotal.String())

	return nil
}

// DepositAsset pulls a non-settlement token, exchanges it through a
// direct route and credits the measured settlement delta. The settlement
// asset and the native sentinel must use their own entry points.
func (v *Vault) DepositAsset(from types.Address, asset types.AssetID, amount, minOut *big.Int, deadline uint64) error {
	if err := v.lockGuard(); err != nil {
		return err
	}
	defer v.unlockGuard()

	settlement := v.state.Settlement()

	if asset == settlement || asset.IsNative() {
		return code.NewUnsupportedAsset(asset.String())
	}
	if amount == nil || amount.Sign() != 1 {
		return code.NewZeroAmount()
	}
	if v.exchange == nil || !v.exchange.RouteExists(asset, settlement) {
		return code.NewNoExchangeRoute(asset.String(), settlement.String())
	}

	if err := v.transfer.PullFromCaller(asset, from, amount); err != nil {
		return errors.Wrap(err, "transfer-in failed")
	}

	if err := v.transfer.ApproveExchange(asset, amount); err != nil {
		v.refund(asset, from, amount)
		return errors.Wrap(err, "exchange allowance failed")
	}

	received, err := v.swapAndMeasure(settlement, func() ([]*big.Int, error) {
		return v.exchange.SwapAssetForSettlement(asset, amount, minOut, v.address, deadline)
	})
	if err != nil {
		v.refund(asset, from, amount)
		return err
	}

	newTotal, err := v.state.Capacity.TryReserve(received)
	if err != nil {
		v.refund(settlement, from, received)
		return err
	}

	v.state.Balances.AddBalance(from, settlement, received)
	v.state.Capacity.IncDepositCount()

	newBalance := v.state.Balances.GetBalance(from, settlement)
	if err := v.commit(&events.DepositEvent{
		Asset:              uint64(asset),
		Address:            from,
		AmountIn:           amount.String(),
		SettlementCredited: received.String(),
		NewBalance:         newBalance.String(),
	}); err != nil {
		return err
	}

	v.stats.IncDeposit()
	v.logger.Info("deposit", "asset", asset.String(), "address", from.String(),
		"in", amount.String(), "credited", received.String(), "total", newTotal.String())

	return nil
}

// swapAndMeasure runs the exchange call between two balance reads of the
// custody account and returns the measured settlement delta. The delta,
// not the reported output, is what gets credited.
func (v *Vault) swapAndMeasure(settlement types.AssetID, swap func() ([]*big.Int, error)) (*big.Int, error) {
	before, err := v.transfer.BalanceOf(settlement, v.address)
	if err != nil {
		return nil, errors.Wrap(err, "can't read custody balance")
	}

	amounts, err := swap()
	if err != nil {
		return nil, code.NewSwapFailed(err.Error())
	}

	after, err := v.transfer.BalanceOf(settlement, v.address)
	if err != nil {
		return nil, errors.Wrap(err, "can't read custody balance")
	}

	received := big.NewInt(0).Sub(after, before)
	if received.Sign() != 1 {
		return nil, code.NewNothingReceived()
	}

	if len(amounts) > 0 {
		if reported := amounts[len(amounts)-1]; reported != nil && reported.Cmp(received) != 0 {
			v.logger.Info("reported swap output differs from measured delta",
				"reported", reported.String(), "measured", received.String())
		}
	}

	return received, nil
}
