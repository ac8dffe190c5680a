package ethrpc

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// EncodeHex encodes bytes as 0x-prefixed hex.
func EncodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// DecodeHex decodes 0x-prefixed hex data. An odd number of digits is rejected.
func DecodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("hex string without 0x prefix: %q", s)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}

// DecodeQuantity decodes a 0x-prefixed hex quantity such as a chain id.
func DecodeQuantity(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") {
		return 0, fmt.Errorf("quantity without 0x prefix: %q", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("decode quantity: %w", err)
	}
	return v, nil
}
