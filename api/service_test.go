package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VaultTeam/vault-go-node/core/state"
	"github.com/VaultTeam/vault-go-node/core/types"
	"github.com/VaultTeam/vault-go-node/core/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

func newTestService(t *testing.T) (*Service, *state.State) {
	t.Helper()

	ledger, err := state.NewState(0, db.NewMemDB(), 1024, 120, big.NewInt(1000000), types.AssetID(1), 18)
	require.NoError(t, err)

	v := vault.NewVault(ledger, nil, nil, nil, nil, nil, types.Address{}, tmlog.NewNopLogger(), nil)

	return NewService(v, tmlog.NewNopLogger()), ledger
}

func get(t *testing.T, handler http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	handler.ServeHTTP(recorder, request)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return recorder.Code, body
}

func TestBalanceEndpoint(t *testing.T) {
	service, ledger := newTestService(t)
	handler := service.Handler(nil)

	address := types.HexToAddress("0x0000000000000000000000000000000000000011")

	if _, err := ledger.Capacity.TryReserve(big.NewInt(500)); err != nil {
		t.Fatal(err)
	}
	ledger.Balances.AddBalance(address, types.AssetID(1), big.NewInt(500))
	if _, _, err := ledger.Commit(); err != nil {
		t.Fatal(err)
	}

	status, body := get(t, handler, "/balance/1/"+address.String())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "500", body["balance"])
	assert.Equal(t, address.String(), body["address"])

	status, body = get(t, handler, "/balance/1/0x0000000000000000000000000000000000000022")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0", body["balance"])
}

func TestBalanceEndpoint_BadInput(t *testing.T) {
	service, _ := newTestService(t)
	handler := service.Handler(nil)

	status, _ := get(t, handler, "/balance/notanumber/0x0000000000000000000000000000000000000011")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, handler, "/balance/1/nonsense")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUSDBalanceEndpoint_SettlementPassThrough(t *testing.T) {
	service, ledger := newTestService(t)
	handler := service.Handler(nil)

	address := types.HexToAddress("0x0000000000000000000000000000000000000011")

	if _, err := ledger.Capacity.TryReserve(big.NewInt(123)); err != nil {
		t.Fatal(err)
	}
	ledger.Balances.AddBalance(address, types.AssetID(1), big.NewInt(123))
	if _, _, err := ledger.Commit(); err != nil {
		t.Fatal(err)
	}

	status, body := get(t, handler, "/usd_balance/1/"+address.String())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "123", body["usd_balance"])
}

func TestUSDBalanceEndpoint_UnknownAsset(t *testing.T) {
	service, _ := newTestService(t)
	handler := service.Handler(nil)

	status, body := get(t, handler, "/usd_balance/99/0x0000000000000000000000000000000000000011")
	assert.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body, "error")
}

func TestStatusEndpoint(t *testing.T) {
	service, ledger := newTestService(t)
	handler := service.Handler(nil)

	if _, err := ledger.Capacity.TryReserve(big.NewInt(42)); err != nil {
		t.Fatal(err)
	}
	ledger.Balances.AddBalance(types.HexToAddress("0x0000000000000000000000000000000000000011"),
		types.AssetID(1), big.NewInt(42))
	if _, _, err := ledger.Commit(); err != nil {
		t.Fatal(err)
	}

	status, body := get(t, handler, "/status")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "42", body["total_custodied"])
	assert.Equal(t, "1000000", body["ceiling"])
	assert.Equal(t, "1", body["settlement"])
}
