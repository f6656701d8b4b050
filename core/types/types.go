package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// AssetID is an identifier of an asset recognized by the vault.
type AssetID uint32

// Uint32 returns the id as uint32
func (id AssetID) Uint32() uint32 {
	return uint32(id)
}

func (id AssetID) String() string {
	return strconv.Itoa(int(id))
}

func (id AssetID) Bytes() []byte {
	return []byte(id.String())
}

// AssetNative is the reserved sentinel id of the chain-native pseudo-asset.
// It never corresponds to a token contract.
const AssetNative = AssetID(0)

// NativeDecimals is the fixed precision of the chain-native pseudo-asset.
const NativeDecimals = uint8(18)

// IsNative reports whether the id is the reserved native sentinel.
func (id AssetID) IsNative() bool {
	return id == AssetNative
}

const addressLength = 20

// Address represents a 20-byte account identifier.
type Address [addressLength]byte

// BytesToAddress converts b to an Address, left-truncating if necessary.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress parses a 0x-prefixed hex string into an Address.
func HexToAddress(s string) Address {
	s = strings.TrimPrefix(s, "0x")
	b, _ := hex.DecodeString(s)
	return BytesToAddress(b)
}

// IsValidAddress checks that the string is a parsable 0x-prefixed address.
func IsValidAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") {
		return false
	}
	b, err := hex.DecodeString(s[2:])
	return err == nil && len(b) == addressLength
}

// SetBytes sets the address to the value of b. If b is larger than
// addressLength it is cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-addressLength:]
	}
	copy(a[addressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Compare wraps bytes.Compare over the raw address bytes.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// IsZero reports whether the address is the zero value. A zero address
// stands for "absent" wherever an address is an optional handle.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalJSON renders the address as a 0x-prefixed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", a.String())), nil
}

// UnmarshalJSON parses an address from a 0x-prefixed hex string.
func (a *Address) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if !IsValidAddress(s) {
		return fmt.Errorf("invalid address %s", s)
	}
	*a = HexToAddress(s)
	return nil
}
