package anon

import (
	"testing"

	"github.com/chainkitchen/foodchain/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(5, fake.NewIdentity("alice"),
		WithArg("key", []byte("value")),
		WithValue(42))
	require.NoError(t, err)

	require.Equal(t, uint64(5), tx.GetNonce())
	require.Equal(t, uint64(42), tx.GetValue())
	require.Equal(t, []byte("value"), tx.GetArg("key"))
	require.Nil(t, tx.GetArg("unknown"))
	require.NotEmpty(t, tx.GetID())

	text, err := tx.GetIdentity().MarshalText()
	require.NoError(t, err)
	require.Equal(t, "fake:alice", string(text))

	_, err = NewTransaction(0, fake.NewBadIdentity())
	require.EqualError(t, err,
		fake.Err("couldn't fingerprint tx: couldn't marshal the identity"))
}

func TestTransaction_Deterministic(t *testing.T) {
	a, err := NewTransaction(1, fake.NewIdentity("alice"),
		WithArg("k1", []byte("v1")),
		WithArg("k2", []byte("v2")))
	require.NoError(t, err)

	// Same inputs in a different option order produce the same digest.
	b, err := NewTransaction(1, fake.NewIdentity("alice"),
		WithArg("k2", []byte("v2")),
		WithArg("k1", []byte("v1")))
	require.NoError(t, err)

	require.Equal(t, a.GetID(), b.GetID())

	c, err := NewTransaction(2, fake.NewIdentity("alice"),
		WithArg("k1", []byte("v1")),
		WithArg("k2", []byte("v2")))
	require.NoError(t, err)

	require.NotEqual(t, a.GetID(), c.GetID())

	d, err := NewTransaction(1, fake.NewIdentity("alice"),
		WithArg("k1", []byte("v1")),
		WithArg("k2", []byte("v2")),
		WithValue(1))
	require.NoError(t, err)

	require.NotEqual(t, a.GetID(), d.GetID())
}
