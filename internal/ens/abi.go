package ens

import (
	"fmt"
	"math/big"
)

const wordSize = 32

// selector returns the 4-byte function selector for a canonical signature.
func selector(signature string) []byte {
	return Keccak256([]byte(signature))[:4]
}

// Function selectors used against the ENS contracts.
var (
	selAvailable   = selector("available(string)")
	selRentPrice   = selector("rentPrice(string,uint256)")
	selNameExpires = selector("nameExpires(uint256)")
	selGracePeriod = selector("GRACE_PERIOD()")
)

// encodeUint256 left-pads v into one 32-byte word. v must be non-negative and fit.
func encodeUint256(v *big.Int) []byte {
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return word
}

// encodeString encodes the dynamic tail of a string argument: length word then padded bytes.
func encodeString(s string) []byte {
	data := []byte(s)
	padded := (len(data) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, wordSize+padded)
	big.NewInt(int64(len(data))).FillBytes(out[:wordSize])
	copy(out[wordSize:], data)
	return out
}

// packString encodes a call taking a single string.
func packString(sel []byte, s string) []byte {
	out := append([]byte{}, sel...)
	out = append(out, encodeUint256(big.NewInt(wordSize))...) // offset of the string tail
	return append(out, encodeString(s)...)
}

// packStringUint encodes a call taking (string, uint256).
func packStringUint(sel []byte, s string, v *big.Int) []byte {
	out := append([]byte{}, sel...)
	out = append(out, encodeUint256(big.NewInt(2*wordSize))...) // string tail follows both head words
	out = append(out, encodeUint256(v)...)
	return append(out, encodeString(s)...)
}

// packUint encodes a call taking a single uint256.
func packUint(sel []byte, v *big.Int) []byte {
	out := append([]byte{}, sel...)
	return append(out, encodeUint256(v)...)
}

// decodeBool decodes a single bool return value.
func decodeBool(data []byte) (bool, error) {
	if len(data) < wordSize {
		return false, fmt.Errorf("decode bool: short return data (%d bytes)", len(data))
	}
	v := new(big.Int).SetBytes(data[:wordSize])
	switch {
	case v.Sign() == 0:
		return false, nil
	case v.Cmp(big.NewInt(1)) == 0:
		return true, nil
	default:
		return false, fmt.Errorf("decode bool: invalid value %s", v)
	}
}

// decodeUint256 decodes a single uint256 return value.
func decodeUint256(data []byte) (*big.Int, error) {
	if len(data) < wordSize {
		return nil, fmt.Errorf("decode uint256: short return data (%d bytes)", len(data))
	}
	return new(big.Int).SetBytes(data[:wordSize]), nil
}

// decodeUint256Pair decodes a static (uint256, uint256) tuple.
func decodeUint256Pair(data []byte) (*big.Int, *big.Int, error) {
	if len(data) < 2*wordSize {
		return nil, nil, fmt.Errorf("decode (uint256,uint256): short return data (%d bytes)", len(data))
	}
	a := new(big.Int).SetBytes(data[:wordSize])
	b := new(big.Int).SetBytes(data[wordSize : 2*wordSize])
	return a, b, nil
}
