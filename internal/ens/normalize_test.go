package ens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foo.eth", "foo.eth"},
		{"Foo.ETH", "foo.eth"},
		{"ＡＢＣ.eth", "abc.eth"},
		{"_abc.eth", "_abc.eth"},
		{"__abc.eth", "__abc.eth"},
		{"a-b-c.eth", "a-b-c.eth"},
		{"123.eth", "123.eth"},
		{"héllo.eth", "héllo.eth"},
		{"👨\u200d👩\u200d👧.eth", "👨\u200d👩\u200d👧.eth"},
		{"٠٠٧.eth", "٠٠٧.eth"},
		{"١٢٣.eth", "١٢٣.eth"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []string{
		"",
		".eth",
		"abc..eth",
		"a_bc.eth",
		"ab--c.eth",
		"xn--abc.eth",
		"abc def.eth",
		"abc\t.eth",
		"abc\u0000.eth",
		"a@bc.eth",
		"a/bc.eth",
		"abc!.eth",
		"a+b=c.eth",
		"<abc>.eth",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			require.Error(t, err)

			var nerr *NormalizationError
			assert.True(t, errors.As(err, &nerr))
			assert.Equal(t, in, nerr.Input)
		})
	}
}

func TestNormalizeCandidate(t *testing.T) {
	name, err := NormalizeCandidate("Vitalik")
	require.NoError(t, err)
	assert.Equal(t, "vitalik.eth", name)

	_, err = NormalizeCandidate("sub.domain")
	var nerr *NormalizationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "sub.domain", nerr.Input)

	_, err = NormalizeCandidate("a_b")
	assert.Error(t, err)

	for _, word := range []string{"a@bc", "a/bc", "abc!", "<abc>"} {
		_, err := NormalizeCandidate(word)
		assert.Error(t, err, word)
	}

	name, err = NormalizeCandidate("١٢٣")
	require.NoError(t, err)
	assert.Equal(t, "١٢٣.eth", name)
}
