package state

import (
	"math/big"
	"testing"

	"github.com/VaultTeam/vault-go-node/core/types"
	db "github.com/tendermint/tm-db"
)

const testSettlement = types.AssetID(1)

func newTestState(t *testing.T, memDB db.DB) *State {
	t.Helper()

	state, err := NewState(0, memDB, 1024, 120, big.NewInt(1000000), testSettlement, 18)
	if err != nil {
		t.Fatal(err)
	}

	return state
}

func TestState_CommitAndReload(t *testing.T) {
	memDB := db.NewMemDB()
	state := newTestState(t, memDB)

	address := types.HexToAddress("0x0000000000000000000000000000000000000001")

	if _, err := state.Capacity.TryReserve(big.NewInt(500)); err != nil {
		t.Fatal(err)
	}
	state.Balances.AddBalance(address, testSettlement, big.NewInt(500))
	state.Capacity.IncDepositCount()

	if err := state.Check(); err != nil {
		t.Fatal(err)
	}

	_, version, err := state.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("version is %d, want 1", version)
	}

	reloaded := newTestState(t, memDB)
	if reloaded.Balances.GetBalance(address, testSettlement).Cmp(big.NewInt(500)) != 0 {
		t.Fatal("balance lost on reload")
	}
	if reloaded.Capacity.Total().Cmp(big.NewInt(500)) != 0 {
		t.Fatal("custodied total lost on reload")
	}
	if reloaded.Capacity.DepositCount() != 1 {
		t.Fatal("deposit count lost on reload")
	}
}

func TestState_Rollback(t *testing.T) {
	memDB := db.NewMemDB()
	state := newTestState(t, memDB)

	address := types.HexToAddress("0x0000000000000000000000000000000000000002")

	if _, err := state.Capacity.TryReserve(big.NewInt(100)); err != nil {
		t.Fatal(err)
	}
	state.Balances.AddBalance(address, testSettlement, big.NewInt(100))

	if _, _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	if _, err := state.Capacity.TryReserve(big.NewInt(9000)); err != nil {
		t.Fatal(err)
	}
	state.Balances.AddBalance(address, testSettlement, big.NewInt(9000))

	state.Rollback()

	if state.Balances.GetBalance(address, testSettlement).Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance is %s, want committed 100", state.Balances.GetBalance(address, testSettlement))
	}
	if state.Capacity.Total().Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("total is %s, want committed 100", state.Capacity.Total())
	}
	if err := state.Check(); err != nil {
		t.Fatal("rollback should reset the checker")
	}
}

func TestState_CheckFailsOnImbalance(t *testing.T) {
	memDB := db.NewMemDB()
	state := newTestState(t, memDB)

	address := types.HexToAddress("0x0000000000000000000000000000000000000003")

	// credit without a matching capacity reservation
	state.Balances.AddBalance(address, testSettlement, big.NewInt(10))

	if err := state.Check(); err == nil {
		t.Fatal("unmatched settlement credit should fail conservation")
	}
}

func TestState_SettlementCantBeNative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("native settlement should panic")
		}
	}()

	_, _ = NewState(0, db.NewMemDB(), 1024, 120, big.NewInt(1), types.AssetNative, 18)
}

func TestCheckState_Export(t *testing.T) {
	memDB := db.NewMemDB()
	state := newTestState(t, memDB)

	address := types.HexToAddress("0x0000000000000000000000000000000000000004")

	if _, err := state.Capacity.TryReserve(big.NewInt(77)); err != nil {
		t.Fatal(err)
	}
	state.Balances.AddBalance(address, testSettlement, big.NewInt(77))

	if _, _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	exported := NewCheckState(state).Export()
	if exported.TotalCustodied != "77" {
		t.Fatalf("exported total is %s, want 77", exported.TotalCustodied)
	}
	if len(exported.Accounts) != 1 {
		t.Fatalf("want 1 account, got %d", len(exported.Accounts))
	}
	if len(exported.Assets) < 2 {
		t.Fatal("seeded assets missing from export")
	}
}
