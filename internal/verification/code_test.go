package verification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode_RangeAndFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.True(t, IsWellFormed(code), code)
		seen[code] = struct{}{}
	}
	// 500 draws from 900000 values collide rarely; a constant generator would not pass.
	require.Greater(t, len(seen), 400)
}

func TestIsWellFormed(t *testing.T) {
	require.True(t, IsWellFormed("100000"))
	require.True(t, IsWellFormed("999999"))
	require.False(t, IsWellFormed("099999"))
	require.False(t, IsWellFormed("12345"))
	require.False(t, IsWellFormed("12a456"))
}
