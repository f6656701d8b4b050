package vault

import (
	"math/big"

	"github.com/VaultTeam/vault-go-node/core/code"
	"github.com/VaultTeam/vault-go-node/core/events"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/pkg/errors"
)

// WithdrawSettlement debits the caller's settlement balance and pushes the
// amount out. Balance debit, capacity release and the counter all commit
// before the external transfer; a failed transfer unwinds everything.
func (v *Vault) WithdrawSettlement(caller types.Address, amount *big.Int) error {
	if err := v.lockGuard(); err != nil {
		return err
	}
	defer v.unlockGuard()

	if amount == nil || amount.Sign() != 1 {
		return code.NewZeroAmount()
	}

	settlement := v.state.Settlement()

	if cfg := v.state.Assets.GetAsset(settlement); cfg != nil {
		if limit := cfg.WithdrawLimit(); limit != nil && amount.Cmp(limit) == 1 {
			return code.NewExceedsWithdrawLimit(amount.String(), limit.String())
		}
	}

	have := v.state.Balances.GetBalance(caller, settlement)
	if have.Cmp(amount) == -1 {
		return code.NewInsufficientBalance(have.String(), amount.String())
	}

	v.state.Balances.SubBalance(caller, settlement, amount)

	released, clamped := v.state.Capacity.Release(amount)
	if clamped {
		v.logger.Error("capacity release clamped at zero floor",
			"requested", amount.String(), "released", released.String())
		v.stats.IncCapacityClamp()
	}

	v.state.Capacity.IncWithdrawCount()

	if err := v.transfer.PushToCaller(settlement, caller, amount); err != nil {
		v.state.Rollback()
		return errors.Wrap(err, "transfer-out failed")
	}

	newBalance := v.state.Balances.GetBalance(caller, settlement)
	if err := v.commit(&events.WithdrawEvent{
		Asset:      uint64(settlement),
		Address:    caller,
		Amount:     amount.String(),
		NewBalance: newBalance.String(),
	}); err != nil {
		return err
	}

	v.stats.IncWithdraw()
	v.logger.Info("withdraw", "asset", settlement.String(), "address", caller.String(),
		"amount", amount.String(), "balance", newBalance.String())

	return nil
}
