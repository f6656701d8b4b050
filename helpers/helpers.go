package helpers

import (
	"fmt"
	"math/big"
)

// Pow10 returns 10^exp as a big.Int.
func Pow10(exp uint8) *big.Int {
	p := big.NewInt(10)
	return p.Exp(p, big.NewInt(int64(exp)), nil)
}

// UnitToBase converts a whole settlement unit count into base precision
// (multiplies input by 1e18)
func UnitToBase(units *big.Int) *big.Int {
	p := big.NewInt(10)
	p.Exp(p, big.NewInt(18), nil)
	p.Mul(p, units)

	return p
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	if s == "" {
		panic("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		panic(fmt.Sprintf("Cannot decode %s into big.Int", s))
	}

	return b
}

func stringToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return nil, fmt.Errorf("cannot decode %s into big.Int", s)
	}

	return b, nil
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	if s == "" {
		return false
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return false
	}

	if b.Cmp(big.NewInt(0)) == -1 {
		return false
	}

	return true
}
