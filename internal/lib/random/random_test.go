package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessKey(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		key, err := AccessKey()
		require.NoError(t, err)
		assert.Len(t, key, AccessKeyLength)

		for _, r := range key {
			assert.True(t, strings.ContainsRune(mixedAlnum, r), "unexpected rune %q", r)
		}

		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestSlugSuffix(t *testing.T) {
	suffix, err := SlugSuffix()
	require.NoError(t, err)
	assert.Len(t, suffix, SlugSuffixLength)
	assert.Equal(t, strings.ToLower(suffix), suffix)
}
