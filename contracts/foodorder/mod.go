// Package foodorder implements the native contract running the food
// delivery marketplace: customer, restaurant and courier profiles, food
// listings, the order/delivery workflow, the platform fee policy, and the
// ownership, role and upgrade governance of the contract itself.
//
// Every command authorizes the caller before mutating anything: profile
// and food commands require resource ownership, workflow transitions
// require the role the state machine expects, and the governance commands
// are gated by the contract owner or by the admin of the targeted role.
package foodorder

import (
	"encoding/json"

	foodchain "github.com/chainkitchen/foodchain"
	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/access/rbac"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/execution/native"
	"github.com/chainkitchen/foodchain/core/store"
	"github.com/chainkitchen/foodchain/core/store/prefixed"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

const (
	// ContractName is the name of the contract.
	ContractName = "github.com/chainkitchen/foodchain.FoodOrder"

	// ContractUID is the unique 4-byte identifier of the contract.
	ContractUID = "FOOD"

	// CmdArg is the argument's name to indicate the kind of command we
	// want to run on the contract. Should be one of the Command type.
	CmdArg = "foodorder:command"

	// ArgsArg is the argument's name in the transaction that contains the
	// JSON-encoded payload of the command.
	ArgsArg = "foodorder:args"
)

// RoleManager is the role allowed to adjust the platform fee rate.
const RoleManager rbac.Role = 0x4d414e47

// DefaultFeeRate is the fee rate in basis points applied until a manager
// changes it.
const DefaultFeeRate uint64 = 250

// MaxFeeRate bounds the fee rate to 100%.
const MaxFeeRate uint64 = 10000

// Command defines a type of command for the food order contract.
type Command string

// The commands of the contract, one per operation.
const (
	// CmdInit initializes the contract state: it records the caller as the
	// owner, grants it the manager role and sets the default fee rate. It
	// can only run once.
	CmdInit Command = "INIT"

	CmdCreateCourier     Command = "CREATE_COURIER"
	CmdReadCourier       Command = "READ_COURIER"
	CmdReadCourierFromID Command = "READ_COURIER_FROM_ID"
	CmdReadCourierAll    Command = "READ_COURIER_ALL"
	CmdUpdateCourier     Command = "UPDATE_COURIER"
	CmdDeleteCourier     Command = "DELETE_COURIER"

	CmdCreateCustomer     Command = "CREATE_CUSTOMER"
	CmdReadCustomer       Command = "READ_CUSTOMER"
	CmdReadCustomerFromID Command = "READ_CUSTOMER_FROM_ID"
	CmdReadCustomerAll    Command = "READ_CUSTOMER_ALL"
	CmdUpdateCustomer     Command = "UPDATE_CUSTOMER"
	CmdDeleteCustomer     Command = "DELETE_CUSTOMER"

	CmdCreateRestaurant     Command = "CREATE_RESTAURANT"
	CmdReadRestaurant       Command = "READ_RESTAURANT"
	CmdReadRestaurantFromID Command = "READ_RESTAURANT_FROM_ID"
	CmdReadRestaurantAll    Command = "READ_RESTAURANT_ALL"
	CmdUpdateRestaurant     Command = "UPDATE_RESTAURANT"
	CmdDeleteRestaurant     Command = "DELETE_RESTAURANT"

	CmdCreateFood             Command = "CREATE_FOOD"
	CmdReadFood               Command = "READ_FOOD"
	CmdReadFoodAll            Command = "READ_FOOD_ALL"
	CmdReadFoodFromRestaurant Command = "READ_FOOD_FROM_RESTAURANT"
	CmdUpdateFood             Command = "UPDATE_FOOD"
	CmdDeleteFood             Command = "DELETE_FOOD"

	CmdSubmitOrder     Command = "SUBMIT_ORDER"
	CmdConfirmOrder    Command = "CONFIRM_ORDER"
	CmdFinishCook      Command = "FINISH_COOK"
	CmdPickupDelivery  Command = "PICKUP_DELIVERY"
	CmdDeliverOrder    Command = "DELIVER_ORDER"
	CmdAcceptDelivery  Command = "ACCEPT_DELIVERY"
	CmdGetEta          Command = "GET_ETA"
	CmdReadOrderFromID Command = "READ_ORDER_FROM_ID"
	CmdReadOrderAll    Command = "READ_ORDER_ALL"

	CmdReadOrderFromCustomer      Command = "READ_ORDER_FROM_CUSTOMER"
	CmdReadOrderFromRestaurant    Command = "READ_ORDER_FROM_RESTAURANT"
	CmdReadDeliveryFromID         Command = "READ_DELIVERY_FROM_ID"
	CmdReadDeliveryFromCourier    Command = "READ_DELIVERY_FROM_COURIER"
	CmdReadDeliveryFromRestaurant Command = "READ_DELIVERY_FROM_RESTAURANT"
	CmdReadDeliveryFromCustomer   Command = "READ_DELIVERY_FROM_CUSTOMER"
	CmdReadDeliveryAll            Command = "READ_DELIVERY_ALL"

	CmdChangeFeeRate Command = "CHANGE_FEE_RATE"
	CmdFeeRate       Command = "FEE_RATE"

	CmdOwner             Command = "OWNER"
	CmdTransferOwnership Command = "TRANSFER_OWNERSHIP"
	CmdRenounceOwnership Command = "RENOUNCE_OWNERSHIP"

	CmdHasRole      Command = "HAS_ROLE"
	CmdGetRoleAdmin Command = "GET_ROLE_ADMIN"
	CmdGrantRole    Command = "GRANT_ROLE"
	CmdRevokeRole   Command = "REVOKE_ROLE"
	CmdRenounceRole Command = "RENOUNCE_ROLE"

	CmdSetCodeHash Command = "SET_CODE_HASH"
)

// commands defines the operations of the food order contract. This
// interface helps in testing the contract.
type commands interface {
	init(snap store.Snapshot, step execution.Step) error

	createCourier(snap store.Snapshot, step execution.Step) (uint64, error)
	readCourier(snap store.Snapshot, step execution.Step) (types.Courier, error)
	readCourierFromID(snap store.Snapshot, step execution.Step) (types.Courier, error)
	readCourierAll(snap store.Snapshot, step execution.Step) ([]types.Courier, error)
	updateCourier(snap store.Snapshot, step execution.Step) error
	deleteCourier(snap store.Snapshot, step execution.Step) error

	createCustomer(snap store.Snapshot, step execution.Step) (uint64, error)
	readCustomer(snap store.Snapshot, step execution.Step) (types.Customer, error)
	readCustomerFromID(snap store.Snapshot, step execution.Step) (types.Customer, error)
	readCustomerAll(snap store.Snapshot, step execution.Step) ([]types.Customer, error)
	updateCustomer(snap store.Snapshot, step execution.Step) error
	deleteCustomer(snap store.Snapshot, step execution.Step) error

	createRestaurant(snap store.Snapshot, step execution.Step) (uint64, error)
	readRestaurant(snap store.Snapshot, step execution.Step) (types.Restaurant, error)
	readRestaurantFromID(snap store.Snapshot, step execution.Step) (types.Restaurant, error)
	readRestaurantAll(snap store.Snapshot, step execution.Step) ([]types.Restaurant, error)
	updateRestaurant(snap store.Snapshot, step execution.Step) error
	deleteRestaurant(snap store.Snapshot, step execution.Step) error

	createFood(snap store.Snapshot, step execution.Step) (uint64, error)
	readFood(snap store.Snapshot, step execution.Step) (types.Food, error)
	readFoodAll(snap store.Snapshot, step execution.Step) ([]types.Food, error)
	readFoodFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Food, error)
	updateFood(snap store.Snapshot, step execution.Step) error
	deleteFood(snap store.Snapshot, step execution.Step) error

	submitOrder(snap store.Snapshot, step execution.Step) (uint64, error)
	confirmOrder(snap store.Snapshot, step execution.Step) (uint64, error)
	finishCook(snap store.Snapshot, step execution.Step) (uint64, error)
	pickupDelivery(snap store.Snapshot, step execution.Step) (uint64, error)
	deliverOrder(snap store.Snapshot, step execution.Step) (uint64, error)
	acceptDelivery(snap store.Snapshot, step execution.Step) (uint64, error)
	getEta(snap store.Snapshot, step execution.Step) (uint64, error)
	readOrderFromID(snap store.Snapshot, step execution.Step) (types.Order, error)
	readOrderAll(snap store.Snapshot, step execution.Step) ([]types.Order, error)
	readOrderFromCustomer(snap store.Snapshot, step execution.Step) ([]types.Order, error)
	readOrderFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Order, error)
	readDeliveryFromID(snap store.Snapshot, step execution.Step) (types.Delivery, error)
	readDeliveryFromCourier(snap store.Snapshot, step execution.Step) ([]types.Delivery, error)
	readDeliveryFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Delivery, error)
	readDeliveryFromCustomer(snap store.Snapshot, step execution.Step) ([]types.Delivery, error)
	readDeliveryAll(snap store.Snapshot, step execution.Step) ([]types.Delivery, error)

	changeFeeRate(snap store.Snapshot, step execution.Step) error
	feeRate(snap store.Snapshot) (uint64, error)

	owner(snap store.Snapshot) (string, error)
	transferOwnership(snap store.Snapshot, step execution.Step) error
	renounceOwnership(snap store.Snapshot, step execution.Step) error

	hasRole(snap store.Snapshot, step execution.Step) (bool, error)
	getRoleAdmin(snap store.Snapshot, step execution.Step) (uint32, error)
	grantRole(snap store.Snapshot, step execution.Step) error
	revokeRole(snap store.Snapshot, step execution.Step) error
	renounceRole(snap store.Snapshot, step execution.Step) error

	setCodeHash(snap store.Snapshot, step execution.Step) error
}

// Contract is the native contract of the marketplace.
//
// - implements native.Contract
type Contract struct {
	// roles is the access service holding role memberships and admin role
	// assignments.
	roles rbac.Service

	// defaultFee is the fee rate in basis points set at initialization.
	defaultFee uint64

	// cmd provides the commands executions.
	cmd commands

	logger zerolog.Logger
}

// ContractOption is the type of options to create the contract.
type ContractOption func(*Contract)

// WithDefaultFeeRate sets the fee rate installed when the contract state is
// initialized.
func WithDefaultFeeRate(rate uint64) ContractOption {
	return func(c *Contract) {
		c.defaultFee = rate
	}
}

// NewContract creates a new food order contract.
func NewContract(roles rbac.Service, opts ...ContractOption) Contract {
	contract := Contract{
		roles:      roles,
		defaultFee: DefaultFeeRate,
		logger:     foodchain.Logger.With().Str("contract", "foodorder").Logger(),
	}

	for _, opt := range opts {
		opt(&contract)
	}

	contract.cmd = foodOrderCommand{Contract: &contract}

	return contract
}

// RegisterContract registers the food order contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// UID implements native.Contract.
func (c Contract) UID() string {
	return ContractUID
}

// Execute implements native.Contract. It runs the appropriate command and
// returns its JSON-encoded payload.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) ([]byte, error) {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return nil, xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	// All the contract state, including the role tables, lives under the
	// contract's own namespace of the snapshot.
	snap = prefixed.NewSnapshot(ContractName, snap)

	switch Command(cmd) {
	case CmdInit:
		return c.run(Command(cmd), c.cmd.init(snap, step))

	case CmdCreateCourier:
		id, err := c.cmd.createCourier(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdReadCourier:
		courier, err := c.cmd.readCourier(snap, step)
		return c.payload(Command(cmd), courier, err)
	case CmdReadCourierFromID:
		courier, err := c.cmd.readCourierFromID(snap, step)
		return c.payload(Command(cmd), courier, err)
	case CmdReadCourierAll:
		couriers, err := c.cmd.readCourierAll(snap, step)
		return c.payload(Command(cmd), couriers, err)
	case CmdUpdateCourier:
		return c.run(Command(cmd), c.cmd.updateCourier(snap, step))
	case CmdDeleteCourier:
		return c.run(Command(cmd), c.cmd.deleteCourier(snap, step))

	case CmdCreateCustomer:
		id, err := c.cmd.createCustomer(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdReadCustomer:
		customer, err := c.cmd.readCustomer(snap, step)
		return c.payload(Command(cmd), customer, err)
	case CmdReadCustomerFromID:
		customer, err := c.cmd.readCustomerFromID(snap, step)
		return c.payload(Command(cmd), customer, err)
	case CmdReadCustomerAll:
		customers, err := c.cmd.readCustomerAll(snap, step)
		return c.payload(Command(cmd), customers, err)
	case CmdUpdateCustomer:
		return c.run(Command(cmd), c.cmd.updateCustomer(snap, step))
	case CmdDeleteCustomer:
		return c.run(Command(cmd), c.cmd.deleteCustomer(snap, step))

	case CmdCreateRestaurant:
		id, err := c.cmd.createRestaurant(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdReadRestaurant:
		restaurant, err := c.cmd.readRestaurant(snap, step)
		return c.payload(Command(cmd), restaurant, err)
	case CmdReadRestaurantFromID:
		restaurant, err := c.cmd.readRestaurantFromID(snap, step)
		return c.payload(Command(cmd), restaurant, err)
	case CmdReadRestaurantAll:
		restaurants, err := c.cmd.readRestaurantAll(snap, step)
		return c.payload(Command(cmd), restaurants, err)
	case CmdUpdateRestaurant:
		return c.run(Command(cmd), c.cmd.updateRestaurant(snap, step))
	case CmdDeleteRestaurant:
		return c.run(Command(cmd), c.cmd.deleteRestaurant(snap, step))

	case CmdCreateFood:
		id, err := c.cmd.createFood(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdReadFood:
		food, err := c.cmd.readFood(snap, step)
		return c.payload(Command(cmd), food, err)
	case CmdReadFoodAll:
		foods, err := c.cmd.readFoodAll(snap, step)
		return c.payload(Command(cmd), foods, err)
	case CmdReadFoodFromRestaurant:
		foods, err := c.cmd.readFoodFromRestaurant(snap, step)
		return c.payload(Command(cmd), foods, err)
	case CmdUpdateFood:
		return c.run(Command(cmd), c.cmd.updateFood(snap, step))
	case CmdDeleteFood:
		return c.run(Command(cmd), c.cmd.deleteFood(snap, step))

	case CmdSubmitOrder:
		id, err := c.cmd.submitOrder(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdConfirmOrder:
		id, err := c.cmd.confirmOrder(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdFinishCook:
		id, err := c.cmd.finishCook(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdPickupDelivery:
		id, err := c.cmd.pickupDelivery(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdDeliverOrder:
		id, err := c.cmd.deliverOrder(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdAcceptDelivery:
		id, err := c.cmd.acceptDelivery(snap, step)
		return c.payload(Command(cmd), id, err)
	case CmdGetEta:
		eta, err := c.cmd.getEta(snap, step)
		return c.payload(Command(cmd), eta, err)
	case CmdReadOrderFromID:
		order, err := c.cmd.readOrderFromID(snap, step)
		return c.payload(Command(cmd), order, err)
	case CmdReadOrderAll:
		orders, err := c.cmd.readOrderAll(snap, step)
		return c.payload(Command(cmd), orders, err)
	case CmdReadOrderFromCustomer:
		orders, err := c.cmd.readOrderFromCustomer(snap, step)
		return c.payload(Command(cmd), orders, err)
	case CmdReadOrderFromRestaurant:
		orders, err := c.cmd.readOrderFromRestaurant(snap, step)
		return c.payload(Command(cmd), orders, err)
	case CmdReadDeliveryFromID:
		delivery, err := c.cmd.readDeliveryFromID(snap, step)
		return c.payload(Command(cmd), delivery, err)
	case CmdReadDeliveryFromCourier:
		deliveries, err := c.cmd.readDeliveryFromCourier(snap, step)
		return c.payload(Command(cmd), deliveries, err)
	case CmdReadDeliveryFromRestaurant:
		deliveries, err := c.cmd.readDeliveryFromRestaurant(snap, step)
		return c.payload(Command(cmd), deliveries, err)
	case CmdReadDeliveryFromCustomer:
		deliveries, err := c.cmd.readDeliveryFromCustomer(snap, step)
		return c.payload(Command(cmd), deliveries, err)
	case CmdReadDeliveryAll:
		deliveries, err := c.cmd.readDeliveryAll(snap, step)
		return c.payload(Command(cmd), deliveries, err)

	case CmdChangeFeeRate:
		return c.run(Command(cmd), c.cmd.changeFeeRate(snap, step))
	case CmdFeeRate:
		rate, err := c.cmd.feeRate(snap)
		return c.payload(Command(cmd), rate, err)

	case CmdOwner:
		owner, err := c.cmd.owner(snap)
		return c.payload(Command(cmd), owner, err)
	case CmdTransferOwnership:
		return c.run(Command(cmd), c.cmd.transferOwnership(snap, step))
	case CmdRenounceOwnership:
		return c.run(Command(cmd), c.cmd.renounceOwnership(snap, step))

	case CmdHasRole:
		ok, err := c.cmd.hasRole(snap, step)
		return c.payload(Command(cmd), ok, err)
	case CmdGetRoleAdmin:
		admin, err := c.cmd.getRoleAdmin(snap, step)
		return c.payload(Command(cmd), admin, err)
	case CmdGrantRole:
		return c.run(Command(cmd), c.cmd.grantRole(snap, step))
	case CmdRevokeRole:
		return c.run(Command(cmd), c.cmd.revokeRole(snap, step))
	case CmdRenounceRole:
		return c.run(Command(cmd), c.cmd.renounceRole(snap, step))

	case CmdSetCodeHash:
		return c.run(Command(cmd), c.cmd.setCodeHash(snap, step))

	default:
		return nil, xerrors.Errorf("unknown command: %s", cmd)
	}
}

// run converts the outcome of a command without payload.
func (c Contract) run(cmd Command, err error) ([]byte, error) {
	if err != nil {
		return nil, xerrors.Errorf("failed to %s: %w", cmd, err)
	}

	return []byte("null"), nil
}

// payload converts the outcome of a command into its JSON payload.
func (c Contract) payload(cmd Command, value interface{}, err error) ([]byte, error) {
	if err != nil {
		return nil, xerrors.Errorf("failed to %s: %w", cmd, err)
	}

	buffer, err := json.Marshal(value)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal result of %s: %v", cmd, err)
	}

	return buffer, nil
}

// event returns a log event carrying the contract fields. Events are the
// observable trace of accepted operations.
func (c Contract) event(name string) *zerolog.Event {
	return c.logger.Info().Str("event", name).Str("event_id", xid.New().String())
}

// foodOrderCommand implements the commands of the food order contract.
//
// - implements commands
type foodOrderCommand struct {
	*Contract
}

// caller returns the canonical text of the identity that created the
// transaction.
func caller(step execution.Step) (string, error) {
	ident := step.Current.GetIdentity()
	if ident == nil {
		return "", xerrors.New("transaction has no identity")
	}

	text, err := ident.MarshalText()
	if err != nil {
		return "", xerrors.Errorf("failed to marshal identity: %v", err)
	}

	return string(text), nil
}

// decodeArgs decodes the JSON payload of the command.
func decodeArgs(step execution.Step, out interface{}) error {
	buffer := step.Current.GetArg(ArgsArg)
	if len(buffer) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", ArgsArg)
	}

	err := json.Unmarshal(buffer, out)
	if err != nil {
		return types.NewInvalidInput("malformed command arguments: %v", err)
	}

	return nil
}

// decodeOptionalArgs decodes the JSON payload when present and reports
// whether there was one. Read-all commands work without arguments.
func decodeOptionalArgs(step execution.Step, out interface{}) (bool, error) {
	if len(step.Current.GetArg(ArgsArg)) == 0 {
		return false, nil
	}

	return true, decodeArgs(step, out)
}
