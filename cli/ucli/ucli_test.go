package ucli

import (
	"testing"

	"github.com/chainkitchen/foodchain/cli"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	called := false

	builder := NewBuilder("test", nil, cli.StringFlag{
		Name:  "global",
		Value: "default",
	})

	cmd := builder.SetCommand("hello")
	cmd.SetDescription("say hello")
	cmd.SetFlags(
		cli.StringFlag{Name: "name", Value: "world"},
		cli.IntFlag{Name: "count", Value: 1},
		cli.BoolFlag{Name: "loud"},
	)
	cmd.SetAction(func(flags cli.Flags) error {
		called = true

		require.Equal(t, "bob", flags.String("name"))
		require.Equal(t, 3, flags.Int("count"))
		require.True(t, flags.Bool("loud"))

		return nil
	})

	app := builder.Build()

	err := app.Run([]string{"test", "hello",
		"--name", "bob", "--count", "3", "--loud"})
	require.NoError(t, err)
	require.True(t, called)
}

func TestBuilder_SubCommand(t *testing.T) {
	called := false

	builder := NewBuilder("test", nil)

	cmd := builder.SetCommand("parent")
	sub := cmd.SetSubCommand("child")
	sub.SetAction(func(cli.Flags) error {
		called = true
		return nil
	})

	err := builder.Build().Run([]string{"test", "parent", "child"})
	require.NoError(t, err)
	require.True(t, called)
}

func TestBuildFlags_Unsupported(t *testing.T) {
	require.PanicsWithValue(t, "flag type 'ucli.badFlag' not supported", func() {
		buildFlags([]cli.Flag{badFlag{}})
	})
}

// -----------------------------------------------------------------------------
// Utility functions

type badFlag struct{}

func (badFlag) Flag() {}
