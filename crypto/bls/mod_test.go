package bls

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSigner_Sign(t *testing.T) {
	signer := NewSigner()

	sig, err := signer.Sign([]byte("hello"))
	require.NoError(t, err)

	pubkey := signer.GetPublicKey()

	err = pubkey.Verify([]byte("hello"), sig)
	require.NoError(t, err)

	err = pubkey.Verify([]byte("tampered"), sig)
	require.Error(t, err)

	other := NewSigner().GetPublicKey()

	err = other.Verify([]byte("hello"), sig)
	require.Error(t, err)
}

func TestSigner_MarshalBinary(t *testing.T) {
	signer := NewSigner()

	data, err := signer.MarshalBinary()
	require.NoError(t, err)

	restored, err := NewSignerFromBytes(data)
	require.NoError(t, err)
	require.True(t, restored.GetPublicKey().Equal(signer.GetPublicKey()))

	_, err = NewSignerFromBytes([]byte{0xff})
	require.Error(t, err)
}

func TestPublicKey_MarshalText(t *testing.T) {
	pubkey := NewSigner().GetPublicKey()

	text, err := pubkey.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "bls:"))

	// The text form is the canonical identity, so it round-trips.
	again, err := pubkey.MarshalText()
	require.NoError(t, err)
	require.Equal(t, text, again)
}

func TestPublicKey_Equal(t *testing.T) {
	signer := NewSigner()

	require.True(t, signer.GetPublicKey().Equal(signer.GetPublicKey()))
	require.False(t, signer.GetPublicKey().Equal(NewSigner().GetPublicKey()))
}

func TestPublicKey_Marshal(t *testing.T) {
	pubkey := NewSigner().GetPublicKey()

	data, err := pubkey.MarshalBinary()
	require.NoError(t, err)

	decoded, err := NewPublicKey(data)
	require.NoError(t, err)
	require.True(t, decoded.Equal(pubkey))

	_, err = NewPublicKey([]byte("not a point"))
	require.Error(t, err)
}

func TestPublicKey_String(t *testing.T) {
	str := NewSigner().GetPublicKey().(PublicKey).String()
	require.Len(t, str, 4+16)
	require.True(t, strings.HasPrefix(str, "bls:"))
}
