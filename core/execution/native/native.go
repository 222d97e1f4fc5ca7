// Package native implements an execution service to run native smart
// contracts.
//
// A native smart contract is written in Go and packaged with the
// application. The service runs each transaction against a staging child
// of the snapshot and discards every write when the contract fails, so a
// transaction either commits all its writes or none of them.
package native

import (
	foodchain "github.com/chainkitchen/foodchain"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
	"github.com/chainkitchen/foodchain/core/store/mem"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"
)

const (
	// ContractArg is the argument key in the transaction to look up a
	// contract.
	ContractArg = "github.com/chainkitchen/foodchain.ContractArg"
)

var (
	promTxs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodchain_native_transactions_total",
		Help: "total number of transactions executed per contract",
	}, []string{"contract", "accepted"})
)

func init() {
	foodchain.PromCollectors = append(foodchain.PromCollectors, promTxs)
}

// Contract is the interface to implement to register a smart contract that
// will be executed natively. A successful execution returns the payload of
// the operation.
type Contract interface {
	Execute(snap store.Snapshot, step execution.Step) ([]byte, error)

	UID() string
}

// Service is an execution service for packaged applications. Those
// applications have complete access to the snapshot and can directly
// update it.
//
// - implements execution.Service
type Service struct {
	contracts    map[string]Contract
	contractUIDs map[string]struct{}
}

// NewExecution returns a new native execution service.
func NewExecution() *Service {
	return &Service{
		contracts:    map[string]Contract{},
		contractUIDs: map[string]struct{}{},
	}
}

// Set stores the contract using the name as the key. A transaction can
// trigger this contract by using the same name as the contract argument.
func (ns *Service) Set(name string, contract Contract) {
	if _, ok := ns.contracts[name]; ok {
		panic(xerrors.Errorf("contract '%s' already registered", name))
	}

	uid := contract.UID()

	// UIDs are expected to be 4 bytes long, always.
	if len(uid) != 4 {
		panic(xerrors.Errorf("contract UID '%x' for '%s' is not 4 bytes long", uid, name))
	}

	if _, ok := ns.contractUIDs[uid]; ok {
		panic(xerrors.Errorf("contract UID '%x' for '%s' already registered", uid, name))
	}

	ns.contracts[name] = contract
	ns.contractUIDs[uid] = struct{}{}
}

// Execute implements execution.Service. It resolves the contract from the
// transaction arguments and processes the transaction atomically. A domain
// failure is returned as a rejected result, while an unknown contract is a
// transport-level error.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	contract := ns.contracts[name]
	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	staging := mem.NewStaging(snap)

	data, err := contract.Execute(staging, step)
	if err != nil {
		promTxs.WithLabelValues(name, "false").Inc()

		return execution.Result{
			Accepted: false,
			Message:  err.Error(),
		}, nil
	}

	err = staging.Commit()
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to commit: %v", err)
	}

	promTxs.WithLabelValues(name, "true").Inc()

	return execution.Result{
		Accepted: true,
		Data:     data,
	}, nil
}
