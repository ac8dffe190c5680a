package ens

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(v int64) []byte {
	return encodeUint256(big.NewInt(v))
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, "aeb8ce9b", hex.EncodeToString(selAvailable))
	assert.Equal(t, "d6e4fa86", hex.EncodeToString(selNameExpires))
}

func TestPackString(t *testing.T) {
	data := packString(selAvailable, "abc")

	require.Len(t, data, 4+3*wordSize)
	assert.Equal(t, selAvailable, data[:4])
	assert.Equal(t, word(32), data[4:36])
	assert.Equal(t, word(3), data[36:68])
	assert.Equal(t, []byte("abc"), data[68:71])
	assert.Equal(t, make([]byte, 29), data[71:])
}

func TestPackString_ExactWord(t *testing.T) {
	label := "abcdefghijklmnopqrstuvwxyz012345" // 32 bytes, no padding needed
	data := packString(selAvailable, label)
	assert.Len(t, data, 4+3*wordSize)
}

func TestPackStringUint(t *testing.T) {
	data := packStringUint(selRentPrice, "abcd", big.NewInt(31557600))

	require.Len(t, data, 4+4*wordSize)
	assert.Equal(t, word(64), data[4:36])
	assert.Equal(t, word(31557600), data[36:68])
	assert.Equal(t, word(4), data[68:100])
	assert.Equal(t, []byte("abcd"), data[100:104])
}

func TestDecodeBool(t *testing.T) {
	v, err := decodeBool(word(1))
	require.NoError(t, err)
	assert.True(t, v)

	v, err = decodeBool(word(0))
	require.NoError(t, err)
	assert.False(t, v)

	_, err = decodeBool(word(2))
	assert.Error(t, err)

	_, err = decodeBool([]byte{0x01})
	assert.Error(t, err)
}

func TestDecodeUint256Pair(t *testing.T) {
	data := append(word(5), word(7)...)
	a, b, err := decodeUint256Pair(data)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.Int64())
	assert.Equal(t, int64(7), b.Int64())

	_, _, err = decodeUint256Pair(word(5))
	assert.Error(t, err)
}
