// This file contains the implementation of a CLI builder that runs the
// node in the same process as the commands.

package node

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainkitchen/foodchain/cli"
	"github.com/chainkitchen/foodchain/cli/ucli"
	"golang.org/x/xerrors"
)

// CLIBuilder is an application builder that will build a CLI to start and
// control a node.
//
// - implements node.Builder
// - implements cli.Builder
type CLIBuilder struct {
	cli.Builder

	injector   Injector
	startFlags []cli.Flag
	inits      []Initializer
	writer     io.Writer

	// In production, the node is stopped via SIGTERM. In case of testing,
	// the channel is closed instead, because of instability.
	enableSignal bool
	sigs         chan os.Signal
}

// NewBuilder returns a new empty builder.
func NewBuilder(inits ...Initializer) *CLIBuilder {
	return NewBuilderWithCfg(nil, nil, inits...)
}

// NewBuilderWithCfg returns a new empty builder with specific
// configurations.
func NewBuilderWithCfg(sigs chan os.Signal, out io.Writer, inits ...Initializer) *CLIBuilder {
	if out == nil {
		out = os.Stdout
	}

	enabled := false

	if sigs == nil {
		sigs = make(chan os.Signal, 1)
		enabled = true
	}

	builder := ucli.NewBuilder("foodchain", nil, cli.StringFlag{
		Name:  "config",
		Usage: "path to the config folder",
		Value: ".foodchain",
	})

	return &CLIBuilder{
		Builder:      builder,
		injector:     NewInjector(),
		enableSignal: enabled,
		sigs:         sigs,
		inits:        inits,
		writer:       out,
	}
}

// SetStartFlags implements node.Builder. It appends the given flags to the
// list of flags that will be used to create the start command.
func (b *CLIBuilder) SetStartFlags(flags ...cli.Flag) {
	b.startFlags = append(b.startFlags, flags...)
}

// MakeAction implements node.Builder. It creates a CLI action that executes
// the template against the injector of the node.
func (b *CLIBuilder) MakeAction(tmpl ActionTemplate) cli.Action {
	return func(flags cli.Flags) error {
		ctx := Context{
			Injector: b.injector,
			Flags:    flags,
			Out:      b.writer,
		}

		err := tmpl.Execute(ctx)
		if err != nil {
			return xerrors.Errorf("command error: %v", err)
		}

		return nil
	}
}

// Injector returns the dependency injector of the node.
func (b *CLIBuilder) Injector() Injector {
	return b.injector
}

// Build implements node.Builder. It returns the application.
func (b *CLIBuilder) Build() cli.Application {
	for _, controller := range b.inits {
		controller.SetCommands(b)
	}

	cmd := b.SetCommand("start")
	cmd.SetDescription("start the node")
	cmd.SetFlags(b.startFlags...)
	cmd.SetAction(b.start)

	return b.Builder.Build()
}

func (b *CLIBuilder) start(flags cli.Flags) error {
	if b.enableSignal {
		signal.Notify(b.sigs, syscall.SIGINT, syscall.SIGTERM)

		defer signal.Stop(b.sigs)
	}

	dir := flags.Path("config")
	if dir != "" {
		err := os.MkdirAll(dir, 0700)
		if err != nil {
			return xerrors.Errorf("couldn't make path: %v", err)
		}
	}

	for _, controller := range b.inits {
		err := controller.OnStart(flags, b.injector)
		if err != nil {
			return xerrors.Errorf("couldn't run the controller: %v", err)
		}
	}

	<-b.sigs

	for _, controller := range b.inits {
		err := controller.OnStop(b.injector)
		if err != nil {
			return xerrors.Errorf("couldn't stop the controller: %v", err)
		}
	}

	return nil
}
