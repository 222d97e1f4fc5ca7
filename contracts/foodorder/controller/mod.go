// Package controller implements a controller for the food order contract.
//
// It opens the key/value store of the node, registers the contract to the
// native execution service and optionally applies a YAML genesis
// configuration with the initial fee rate and the accounts holding the
// manager role.
package controller

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/chainkitchen/foodchain/cli"
	"github.com/chainkitchen/foodchain/cli/node"
	"github.com/chainkitchen/foodchain/contracts/foodorder"
	"github.com/chainkitchen/foodchain/core/access"
	"github.com/chainkitchen/foodchain/core/access/rbac"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/execution/native"
	"github.com/chainkitchen/foodchain/core/store/kv"
	"github.com/chainkitchen/foodchain/core/store/prefixed"
	"github.com/chainkitchen/foodchain/core/txn/anon"
	"github.com/chainkitchen/foodchain/crypto"
	"github.com/chainkitchen/foodchain/crypto/bls"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// bucket is the key/value bucket holding the contract state.
var bucket = []byte("foodorder")

// genesis is the YAML configuration applied when the node starts.
type genesis struct {
	FeeRate  *uint64  `yaml:"fee_rate"`
	Managers []string `yaml:"managers"`
}

// miniController is an initializer with the commands and dependencies of
// the food order contract.
//
// - implements node.Initializer
type miniController struct {
	roles rbac.Service
}

// NewController returns a new controller initializer.
func NewController() node.Initializer {
	return miniController{
		roles: rbac.NewService(),
	}
}

// SetCommands implements node.Initializer. It registers the commands that
// inspect the contract state of a running node.
func (m miniController) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("foodorder")
	cmd.SetDescription("interact with the food order contract")

	sub := cmd.SetSubCommand("fee")
	sub.SetDescription("print the current platform fee rate in basis points")
	sub.SetAction(builder.MakeAction(feeAction{}))

	builder.SetStartFlags(cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the YAML genesis configuration",
	})
}

// OnStart implements node.Initializer. It opens the store, registers the
// contract and applies the genesis configuration.
func (m miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	cfg, err := loadGenesis(flags.Path("genesis"))
	if err != nil {
		return xerrors.Errorf("failed to load genesis: %v", err)
	}

	signer, err := loadSigner(filepath.Join(flags.Path("config"), "private.key"))
	if err != nil {
		return xerrors.Errorf("failed to load signer: %v", err)
	}

	db, err := kv.New(filepath.Join(flags.Path("config"), "foodchain.db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	opts := []foodorder.ContractOption{}
	if cfg.FeeRate != nil {
		opts = append(opts, foodorder.WithDefaultFeeRate(*cfg.FeeRate))
	}

	contract := foodorder.NewContract(m.roles, opts...)

	exec := native.NewExecution()
	foodorder.RegisterContract(exec, contract)

	err = m.applyGenesis(db, cfg)
	if err != nil {
		return xerrors.Errorf("failed to apply genesis: %v", err)
	}

	inj.Inject(signer)
	inj.Inject(db)
	inj.Inject(exec)

	return nil
}

// loadSigner reads the BLS key of the node, generating and saving a fresh
// one on the first start.
func loadSigner(path string) (bls.Signer, error) {
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		signer := bls.NewSigner()

		data, err = signer.MarshalBinary()
		if err != nil {
			return bls.Signer{}, xerrors.Errorf("failed to marshal key: %v", err)
		}

		err = ioutil.WriteFile(path, data, 0600)
		if err != nil {
			return bls.Signer{}, xerrors.Errorf("failed to write '%s': %v", path, err)
		}

		return signer, nil
	}

	if err != nil {
		return bls.Signer{}, xerrors.Errorf("failed to read '%s': %v", path, err)
	}

	signer, err := bls.NewSignerFromBytes(data)
	if err != nil {
		return bls.Signer{}, xerrors.Errorf("failed to restore key: %v", err)
	}

	return signer, nil
}

// OnStop implements node.Initializer. It closes the store.
func (m miniController) OnStop(inj node.Injector) error {
	var db kv.DB

	err := inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("failed to resolve db: %v", err)
	}

	err = db.Close()
	if err != nil {
		return xerrors.Errorf("failed to close db: %v", err)
	}

	return nil
}

// applyGenesis grants the manager role to the configured accounts.
func (m miniController) applyGenesis(db kv.DB, cfg genesis) error {
	if len(cfg.Managers) == 0 {
		return nil
	}

	return db.Update(bucket, func(b kv.Bucket) error {
		snap := prefixed.NewSnapshot(foodorder.ContractName, kv.NewSnapshot(b))

		for _, manager := range cfg.Managers {
			_, err := m.roles.Add(snap, foodorder.RoleManager, access.NewIdentity(manager))
			if err != nil {
				return xerrors.Errorf("failed to grant manager role: %v", err)
			}
		}

		return nil
	})
}

// loadGenesis reads the YAML configuration, returning the zero value when
// no path is set.
func loadGenesis(path string) (genesis, error) {
	if path == "" {
		return genesis{}, nil
	}

	buffer, err := ioutil.ReadFile(path)
	if err != nil {
		return genesis{}, xerrors.Errorf("failed to read '%s': %v", path, err)
	}

	var cfg genesis

	err = yaml.Unmarshal(buffer, &cfg)
	if err != nil {
		return genesis{}, xerrors.Errorf("failed to unmarshal '%s': %v", path, err)
	}

	return cfg, nil
}

// feeAction prints the current fee rate of the contract.
//
// - implements node.ActionTemplate
type feeAction struct{}

// Execute implements node.ActionTemplate. It runs the fee rate command of
// the contract against the store of the node.
func (a feeAction) Execute(ctx node.Context) error {
	var db kv.DB

	err := ctx.Injector.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("failed to resolve db: %v", err)
	}

	var exec *native.Service

	err = ctx.Injector.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve execution service: %v", err)
	}

	var signer crypto.Signer

	err = ctx.Injector.Resolve(&signer)
	if err != nil {
		return xerrors.Errorf("failed to resolve signer: %v", err)
	}

	tx, err := anon.NewTransaction(0, signer.GetPublicKey(),
		anon.WithArg(native.ContractArg, []byte(foodorder.ContractName)),
		anon.WithArg(foodorder.CmdArg, []byte(foodorder.CmdFeeRate)))
	if err != nil {
		return xerrors.Errorf("failed to make transaction: %v", err)
	}

	return db.Update(bucket, func(b kv.Bucket) error {
		res, err := exec.Execute(kv.NewSnapshot(b), execution.Step{Current: tx})
		if err != nil {
			return xerrors.Errorf("failed to execute: %v", err)
		}

		if !res.Accepted {
			return xerrors.Errorf("command rejected: %s", res.Message)
		}

		fmt.Fprintln(ctx.Out, string(res.Data))

		return nil
	})
}
