package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := NewToken(0)
		require.Error(t, err)
		_, err = NewToken(-1)
		require.Error(t, err)
	})

	t.Run("produces unique url-safe tokens", func(t *testing.T) {
		a, err := NewToken(InviteTokenBytes)
		require.NoError(t, err)
		b, err := NewToken(InviteTokenBytes)
		require.NoError(t, err)

		require.NotEqual(t, a, b)
		require.Len(t, a, 43) // 32 bytes -> 43 base64url chars
		require.NotContains(t, a, "+")
		require.NotContains(t, a, "/")
		require.NotContains(t, a, "=")
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	require.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	require.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	require.Len(t, Fingerprint("anything"), 43)
}
