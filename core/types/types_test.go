package types

import (
	"encoding/json"
	"testing"
)

func TestHexToAddress(t *testing.T) {
	hex := "0x00000000000000000000000000000000000000ab"
	address := HexToAddress(hex)

	if address.String() != hex {
		t.Fatalf("got %s, want %s", address.String(), hex)
	}
	if address[19] != 0xab {
		t.Fatal("wrong last byte")
	}
}

func TestIsValidAddress(t *testing.T) {
	if !IsValidAddress("0x00000000000000000000000000000000000000ab") {
		t.Fatal("valid address rejected")
	}
	if IsValidAddress("00000000000000000000000000000000000000ab") {
		t.Fatal("missing 0x prefix accepted")
	}
	if IsValidAddress("0x00ab") {
		t.Fatal("short address accepted")
	}
	if IsValidAddress("0x00000000000000000000000000000000000000zz") {
		t.Fatal("non-hex address accepted")
	}
}

func TestAddressJSON(t *testing.T) {
	address := HexToAddress("0x00000000000000000000000000000000000000ab")

	data, err := json.Marshal(address)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"0x00000000000000000000000000000000000000ab"` {
		t.Fatalf("got %s", data)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != address {
		t.Fatal("round trip mismatch")
	}

	if err := json.Unmarshal([]byte(`"nonsense"`), &decoded); err == nil {
		t.Fatal("invalid address should not unmarshal")
	}
}

func TestAssetID(t *testing.T) {
	if !AssetNative.IsNative() {
		t.Fatal("sentinel should be native")
	}
	if AssetID(1).IsNative() {
		t.Fatal("asset 1 is not native")
	}
	if AssetID(7).String() != "7" {
		t.Fatal("wrong string form")
	}
	if AssetID(7).Uint32() != 7 {
		t.Fatal("wrong uint32 form")
	}
}

func TestBytesToAddress(t *testing.T) {
	long := make([]byte, 25)
	long[24] = 0x01

	address := BytesToAddress(long)
	if address[19] != 0x01 {
		t.Fatal("left-cropping lost the tail")
	}

	short := []byte{0x02}
	address = BytesToAddress(short)
	if address[19] != 0x02 || address[0] != 0 {
		t.Fatal("short input should right-align")
	}
}
