package assets

import (
	"math/big"
	"testing"

	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func TestAssets_Seed(t *testing.T) {
	assets := NewAssets(nil)
	assets.Seed(types.AssetID(1), 18)

	native := assets.GetAsset(types.AssetNative)
	if native == nil {
		t.Fatal("native asset not seeded")
	}
	if !native.IsNative() || native.Decimals() != 18 {
		t.Fatal("wrong native asset record")
	}

	settlement := assets.GetAsset(types.AssetID(1))
	if settlement == nil {
		t.Fatal("settlement asset not seeded")
	}
	if !settlement.IsSupported() || settlement.IsNative() {
		t.Fatal("wrong settlement asset record")
	}
}

func TestAssets_ConfigureNativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("configuring the native sentinel should panic")
		}
	}()

	assets := NewAssets(nil)
	assets.Configure(types.AssetNative, true, 18, nil, types.Address{})
}

func TestAssets_CommitAndLoad(t *testing.T) {
	memDB := db.NewMemDB()
	mTree, err := tree.NewMutableTree(0, memDB, 1024)
	if err != nil {
		t.Fatal(err)
	}

	assets := NewAssets(mTree.GetLastImmutable())
	assets.Seed(types.AssetID(1), 18)

	feed := types.HexToAddress("0x00000000000000000000000000000000000000fe")
	assets.Configure(types.AssetID(7), true, 6, big.NewInt(500), feed)

	if _, _, err := mTree.Commit(assets); err != nil {
		t.Fatal(err)
	}

	reloaded := NewAssets(mTree.GetLastImmutable())
	asset := reloaded.GetAsset(types.AssetID(7))
	if asset == nil {
		t.Fatal("asset 7 lost on reload")
	}
	if !asset.IsSupported() || asset.Decimals() != 6 {
		t.Fatal("wrong asset record after reload")
	}
	if asset.WithdrawLimit() == nil || asset.WithdrawLimit().Cmp(big.NewInt(500)) != 0 {
		t.Fatal("withdraw limit lost on reload")
	}
	if asset.PriceFeed() != feed {
		t.Fatal("price feed lost on reload")
	}

	if reloaded.GetAsset(types.AssetNative) == nil || reloaded.GetAsset(types.AssetID(1)) == nil {
		t.Fatal("seeded assets lost on reload")
	}
}

func TestAssets_ConfigureUpdates(t *testing.T) {
	assets := NewAssets(nil)
	assets.Seed(types.AssetID(1), 18)

	assets.Configure(types.AssetID(7), true, 6, big.NewInt(500), types.Address{})
	assets.Configure(types.AssetID(7), false, 6, nil, types.Address{})

	asset := assets.GetAsset(types.AssetID(7))
	if asset.IsSupported() {
		t.Fatal("asset should be unsupported after update")
	}
	if asset.WithdrawLimit() != nil {
		t.Fatal("withdraw limit should be cleared")
	}
}

func TestAssets_Export(t *testing.T) {
	memDB := db.NewMemDB()
	mTree, err := tree.NewMutableTree(0, memDB, 1024)
	if err != nil {
		t.Fatal(err)
	}

	assets := NewAssets(mTree.GetLastImmutable())
	assets.Seed(types.AssetID(1), 18)
	assets.Configure(types.AssetID(7), true, 6, nil, types.Address{})

	if _, _, err := mTree.Commit(assets); err != nil {
		t.Fatal(err)
	}

	state := new(types.AppState)
	NewAssets(mTree.GetLastImmutable()).Export(state)

	if len(state.Assets) != 3 {
		t.Fatalf("want 3 assets, got %d", len(state.Assets))
	}
	if state.Assets[0].ID != 0 || state.Assets[1].ID != 1 || state.Assets[2].ID != 7 {
		t.Fatal("assets not exported in id order")
	}
}
