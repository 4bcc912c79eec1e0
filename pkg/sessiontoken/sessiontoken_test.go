package sessiontoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner("rackdoc", time.Hour)
	require.NoError(t, err)

	raw, err := signer.Mint("01JTESTUSER", time.Now())
	require.NoError(t, err)

	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "01JTESTUSER", claims.Subject)
	require.Equal(t, "rackdoc", claims.Issuer)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner("rackdoc", time.Minute)
	require.NoError(t, err)

	raw, err := signer.Mint("01JTESTUSER", time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsForeignKeyAndGarbage(t *testing.T) {
	t.Parallel()

	a, err := NewSigner("rackdoc", time.Hour)
	require.NoError(t, err)
	b, err := NewSigner("rackdoc", time.Hour)
	require.NoError(t, err)

	raw, err := a.Mint("01JTESTUSER", time.Now())
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalid)

	_, err = a.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner("someone-else", time.Hour)
	require.NoError(t, err)
	raw, err := signer.Mint("01JTESTUSER", time.Now())
	require.NoError(t, err)

	other := NewSignerFromKey(signer.priv, signer.pub, "rackdoc", time.Hour)
	_, err = other.Verify(raw)
	require.ErrorIs(t, err, ErrInvalid)
}
