package checker

import (
	"math/big"
	"testing"

	"github.com/VaultTeam/vault-go-node/core/state/bus"
	"github.com/VaultTeam/vault-go-node/core/types"
)

func TestChecker_Conservation(t *testing.T) {
	newBus := bus.NewBus()
	checker := NewChecker(newBus)

	settlement := types.AssetID(1)

	checker.AddBalance(settlement, big.NewInt(100))
	checker.AddCustodied(big.NewInt(100))

	if err := checker.Check(settlement); err != nil {
		t.Fatal(err)
	}

	checker.AddCustodied(big.NewInt(1))
	if err := checker.Check(settlement); err == nil {
		t.Fatal("custody drift should fail the check")
	}
}

func TestChecker_ForeignAssetDelta(t *testing.T) {
	newBus := bus.NewBus()
	checker := NewChecker(newBus)

	checker.AddBalance(types.AssetID(7), big.NewInt(5))

	if err := checker.Check(types.AssetID(1)); err == nil {
		t.Fatal("non-settlement balance delta should fail the check")
	}
}

func TestChecker_Reset(t *testing.T) {
	newBus := bus.NewBus()
	checker := NewChecker(newBus)

	checker.AddBalance(types.AssetID(1), big.NewInt(5))
	checker.Reset()

	if err := checker.Check(types.AssetID(1)); err != nil {
		t.Fatal("reset checker should pass")
	}
}
