package prefixed

import (
	"testing"

	"github.com/chainkitchen/foodchain/core/store/mem"
	"github.com/stretchr/testify/require"
)

func TestNewPrefixedKey(t *testing.T) {
	key := NewPrefixedKey([]byte("ns"), []byte("key"))
	require.Equal(t, []byte("ns\x00key"), key)
}

func TestSnapshot_Isolation(t *testing.T) {
	base := mem.NewSnapshot()

	alpha := NewSnapshot("alpha", base)
	beta := NewSnapshot("beta", base)

	require.NoError(t, alpha.Set([]byte("key"), []byte{1}))
	require.NoError(t, beta.Set([]byte("key"), []byte{2}))

	value, err := alpha.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, value)

	value, err = beta.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte{2}, value)

	require.NoError(t, alpha.Delete([]byte("key")))

	value, err = alpha.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = beta.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte{2}, value)
}

func TestReadable(t *testing.T) {
	base := mem.NewSnapshot()
	require.NoError(t, base.Set([]byte("ns\x00key"), []byte{1}))

	value, err := NewReadable("ns", base).Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, value)
}
