package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInjector_Resolve(t *testing.T) {
	inj := NewInjector()

	var dep *fakeDependency

	err := inj.Resolve(&dep)
	require.EqualError(t, err,
		"couldn't find dependency for '*node.fakeDependency'")

	inj.Inject(&fakeDependency{value: 42})

	err = inj.Resolve(&dep)
	require.NoError(t, err)
	require.Equal(t, 42, dep.value)

	err = inj.Resolve(struct{}{})
	require.EqualError(t, err, "expect a pointer")
}

func TestInjector_ResolveInterface(t *testing.T) {
	inj := NewInjector()

	inj.Inject(&fakeDependency{value: 1})

	var iface interface{ Value() int }

	err := inj.Resolve(&iface)
	require.NoError(t, err)
	require.Equal(t, 1, iface.Value())
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeDependency struct {
	value int
}

func (d *fakeDependency) Value() int {
	return d.value
}
