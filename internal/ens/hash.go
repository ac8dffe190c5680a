package ens

import (
	"strings"

	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Labelhash returns keccak256 of a single label.
func Labelhash(label string) [32]byte {
	var out [32]byte
	copy(out[:], Keccak256([]byte(label)))
	return out
}

// Namehash computes the EIP-137 node of a normalized name.
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		lh := Labelhash(labels[i])
		copy(node[:], Keccak256(node[:], lh[:]))
	}
	return node
}
