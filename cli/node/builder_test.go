package node

import (
	"bytes"
	"os"
	"testing"

	"github.com/chainkitchen/foodchain/cli"
	"github.com/chainkitchen/foodchain/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

func TestCLIBuilder_Build(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	close(sigs)

	builder := NewBuilderWithCfg(sigs, nil, fakeInitializer{})

	app := builder.Build()

	err := app.Run([]string{"test", "--config", t.TempDir(), "start"})
	require.NoError(t, err)
}

func TestCLIBuilder_FailingController_Build(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	close(sigs)

	builder := NewBuilderWithCfg(sigs, nil, fakeInitializer{err: fake.GetError()})

	app := builder.Build()

	err := app.Run([]string{"test", "--config", t.TempDir(), "start"})
	require.EqualError(t, err, fake.Err("couldn't run the controller"))
}

func TestCLIBuilder_MakeAction(t *testing.T) {
	out := new(bytes.Buffer)

	builder := NewBuilderWithCfg(make(chan os.Signal, 1), out)
	builder.Injector().Inject(&fakeComponent{value: "hello"})

	action := builder.MakeAction(fakeAction{})

	err := action(FlagSet{})
	require.NoError(t, err)
	require.Equal(t, "hello\n", out.String())

	action = builder.MakeAction(fakeAction{err: fake.GetError()})

	err = action(FlagSet{})
	require.EqualError(t, err, fake.Err("command error"))
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeInitializer struct {
	err error
}

func (f fakeInitializer) SetCommands(builder Builder) {
	builder.SetStartFlags(cli.StringFlag{Name: "extra"})
}

func (f fakeInitializer) OnStart(flags cli.Flags, inj Injector) error {
	return f.err
}

func (f fakeInitializer) OnStop(inj Injector) error {
	return nil
}

type fakeComponent struct {
	value string
}

type fakeAction struct {
	err error
}

func (a fakeAction) Execute(ctx Context) error {
	if a.err != nil {
		return a.err
	}

	var component *fakeComponent

	err := ctx.Injector.Resolve(&component)
	if err != nil {
		return err
	}

	_, err = ctx.Out.Write([]byte(component.value + "\n"))

	return err
}
