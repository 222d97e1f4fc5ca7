package foodorder

import (
	"encoding/json"
	"testing"

	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/access"
	"github.com/chainkitchen/foodchain/core/access/rbac"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
	"github.com/chainkitchen/foodchain/core/store/prefixed"
	"github.com/chainkitchen/foodchain/core/txn/anon"
	"github.com/chainkitchen/foodchain/internal/testing/fake"
	"github.com/stretchr/testify/require"
)

func TestExecute_BadCommand(t *testing.T) {
	contract := NewContract(rbac.NewService())

	_, err := contract.Execute(fake.NewSnapshot(), makeStep(t, fake.NewIdentity("any"), "", nil, 0))
	require.EqualError(t, err, "'foodorder:command' not found in tx arg")

	_, err = contract.Execute(fake.NewSnapshot(), makeStep(t, fake.NewIdentity("any"), "fake", nil, 0))
	require.EqualError(t, err, "unknown command: fake")
}

func TestExecute_MissingArgs(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.customer, CmdCreateCustomer, nil, 0)
	require.EqualError(t, err,
		"failed to CREATE_CUSTOMER: 'foodorder:args' not found in tx arg")

	tx, err := anon.NewTransaction(0, env.customer,
		anon.WithArg(CmdArg, []byte(CmdCreateCustomer)),
		anon.WithArg(ArgsArg, []byte("not json")))
	require.NoError(t, err)

	_, err = env.contract.Execute(env.snap, execution.Step{Current: tx})
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestScenario_Workflow(t *testing.T) {
	env := newEnv(t)

	// The deployer initializes the contract and tunes the fee to 5%.
	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.owner, CmdChangeFeeRate, types.ChangeFeeRateArgs{Rate: 500}, 0)
	require.NoError(t, err)

	restaurantID := env.createProfile(t, env.restaurant, CmdCreateRestaurant, "Chez Bob")
	customerID := env.createProfile(t, env.customer, CmdCreateCustomer, "Alice")
	courierID := env.createProfile(t, env.courier, CmdCreateCourier, "Carol")

	foodID := env.uint64Result(t, env.restaurant, CmdCreateFood, types.CreateFoodArgs{
		Name:        "Pizza",
		Description: "Margherita",
		Price:       100,
		Eta:         30,
	}, 0)

	// Price 100 + fee 5, plus 1 as a tip.
	orderID := env.uint64Result(t, env.customer, CmdSubmitOrder, types.SubmitOrderArgs{
		FoodID:          foodID,
		DeliveryAddress: "1 Main St",
	}, 106)

	order := env.readOrder(t, orderID)
	require.Equal(t, types.OrderSubmitted, order.Status)
	require.Equal(t, uint64(100), order.Price)
	require.Equal(t, uint64(5), order.Fee)
	require.Equal(t, uint64(1), order.Tip)
	require.Equal(t, restaurantID, order.RestaurantID)
	require.Equal(t, customerID, order.CustomerID)

	_, err = env.execute(t, env.restaurant, CmdConfirmOrder,
		types.ConfirmOrderArgs{OrderID: orderID, Eta: 25}, 0)
	require.NoError(t, err)

	deliveryID := env.uint64Result(t, env.restaurant, CmdFinishCook,
		types.OrderIDArgs{OrderID: orderID}, 0)

	env.uint64Result(t, env.courier, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	order = env.readOrder(t, orderID)
	require.Equal(t, types.OrderPickedUp, order.Status)
	require.Equal(t, courierID, order.CourierID)
	require.Equal(t, deliveryID, order.DeliveryID)

	env.uint64Result(t, env.restaurant, CmdDeliverOrder,
		types.OrderIDArgs{OrderID: orderID}, 0)

	env.uint64Result(t, env.customer, CmdAcceptDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	order = env.readOrder(t, orderID)
	require.Equal(t, types.OrderAccepted, order.Status)

	// Settlement: 5 fee to the owner, 10 of the price plus the 1 tip to
	// the courier, the remaining 90 to the restaurant.
	require.Equal(t, uint64(5), env.creditOf(t, env.owner))
	require.Equal(t, uint64(11), env.creditOf(t, env.courier))
	require.Equal(t, uint64(90), env.creditOf(t, env.restaurant))
}

func TestCommand_CreateProfile(t *testing.T) {
	env := newEnv(t)

	args := types.ProfileArgs{Name: "Alice", Address: "2 Side St", Phone: "555"}

	_, err := env.execute(t, env.customer, CmdCreateCustomer, args, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdCreateCustomer, args, 0)
	require.ErrorIs(t, err, types.ErrAlreadyExists)

	// The same identity can still register the other kinds.
	_, err = env.execute(t, env.customer, CmdCreateCourier, args, 0)
	require.NoError(t, err)

	args.Phone = ""
	_, err = env.execute(t, env.restaurant, CmdCreateRestaurant, args, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestCommand_ReadProfile(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.customer, CmdReadCustomer, nil, 0)
	require.ErrorIs(t, err, types.ErrNotFound)

	id := env.createProfile(t, env.customer, CmdCreateCustomer, "Alice")

	buffer, err := env.execute(t, env.customer, CmdReadCustomer, nil, 0)
	require.NoError(t, err)

	var profile types.Customer
	require.NoError(t, json.Unmarshal(buffer, &profile))
	require.Equal(t, id, profile.ID)
	require.Equal(t, "Alice", profile.Name)

	_, err = env.execute(t, env.courier, CmdReadCustomerFromID,
		types.ReadFromIDArgs{ID: 42}, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_ReadProfileAll(t *testing.T) {
	env := newEnv(t)

	env.createProfile(t, fake.NewIdentity("c1"), CmdCreateCustomer, "One")
	env.createProfile(t, fake.NewIdentity("c2"), CmdCreateCustomer, "Two")
	env.createProfile(t, fake.NewIdentity("c3"), CmdCreateCustomer, "Three")

	buffer, err := env.execute(t, env.customer, CmdReadCustomerAll, nil, 0)
	require.NoError(t, err)

	var customers []types.Customer
	require.NoError(t, json.Unmarshal(buffer, &customers))
	require.Len(t, customers, 3)

	buffer, err = env.execute(t, env.customer, CmdReadCustomerAll,
		types.ReadAllArgs{From: 2, To: 3}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &customers))
	require.Len(t, customers, 1)
	require.Equal(t, "Two", customers[0].Name)

	// An out-of-range window is empty, not an error.
	buffer, err = env.execute(t, env.customer, CmdReadCustomerAll,
		types.ReadAllArgs{From: 10, To: 20}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &customers))
	require.Empty(t, customers)

	// An explicit upper bound at or below the lower bound selects nothing,
	// unlike the omitted bounds of the first read.
	buffer, err = env.execute(t, env.customer, CmdReadCustomerAll,
		types.ReadAllArgs{From: 1, To: 0}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &customers))
	require.Empty(t, customers)

	buffer, err = env.execute(t, env.customer, CmdReadCustomerAll,
		types.ReadAllArgs{From: 2, To: 2}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &customers))
	require.Empty(t, customers)
}

func TestCommand_UpdateProfile(t *testing.T) {
	env := newEnv(t)

	args := types.ProfileArgs{Name: "Bob", Address: "3 High St", Phone: "556"}

	_, err := env.execute(t, env.restaurant, CmdUpdateRestaurant, args, 0)
	require.ErrorIs(t, err, types.ErrNotFound)

	id := env.createProfile(t, env.restaurant, CmdCreateRestaurant, "Chez Bob")

	_, err = env.execute(t, env.restaurant, CmdUpdateRestaurant, args, 0)
	require.NoError(t, err)

	buffer, err := env.execute(t, env.restaurant, CmdReadRestaurant, nil, 0)
	require.NoError(t, err)

	var profile types.Restaurant
	require.NoError(t, json.Unmarshal(buffer, &profile))
	require.Equal(t, id, profile.ID)
	require.Equal(t, "Bob", profile.Name)
}

func TestCommand_DeleteProfile(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.customer, CmdDeleteCustomer, nil, 0)
	require.ErrorIs(t, err, types.ErrNotFound)

	env.createProfile(t, env.customer, CmdCreateCustomer, "Alice")

	_, err = env.execute(t, env.customer, CmdDeleteCustomer, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdReadCustomer, nil, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_DeleteGuards(t *testing.T) {
	env := newEnv(t)

	orderID, deliveryID := env.submitAndCook(t)

	// The customer and the restaurant are locked in by the open order.
	_, err := env.execute(t, env.customer, CmdDeleteCustomer, nil, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = env.execute(t, env.restaurant, CmdDeleteRestaurant, nil, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	env.uint64Result(t, env.courier, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	// The courier is locked in by the active assignment.
	_, err = env.execute(t, env.courier, CmdDeleteCourier, nil, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	env.uint64Result(t, env.restaurant, CmdDeliverOrder,
		types.OrderIDArgs{OrderID: orderID}, 0)

	_, err = env.execute(t, env.courier, CmdDeleteCourier, nil, 0)
	require.NoError(t, err)

	env.uint64Result(t, env.customer, CmdAcceptDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	_, err = env.execute(t, env.customer, CmdDeleteCustomer, nil, 0)
	require.NoError(t, err)

	// Deleting the restaurant removes its listings as well.
	_, err = env.execute(t, env.restaurant, CmdDeleteRestaurant, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdReadFood, types.FoodIDArgs{FoodID: 1}, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_Food(t *testing.T) {
	env := newEnv(t)

	args := types.CreateFoodArgs{Name: "Pizza", Description: "Margherita", Price: 100, Eta: 30}

	_, err := env.execute(t, env.customer, CmdCreateFood, args, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	env.createProfile(t, env.restaurant, CmdCreateRestaurant, "Chez Bob")

	args.Eta = 0
	_, err = env.execute(t, env.restaurant, CmdCreateFood, args, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	args.Eta = 30
	foodID := env.uint64Result(t, env.restaurant, CmdCreateFood, args, 0)

	// Another restaurant cannot touch the listing.
	other := fake.NewIdentity("other")
	env.createProfile(t, other, CmdCreateRestaurant, "Chez Eve")

	_, err = env.execute(t, other, CmdUpdateFood, types.UpdateFoodArgs{
		FoodID: foodID, Name: "Pasta", Description: "Carbonara", Price: 80, Eta: 20,
	}, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = env.execute(t, env.restaurant, CmdUpdateFood, types.UpdateFoodArgs{
		FoodID: foodID, Name: "Pasta", Description: "Carbonara", Price: 80, Eta: 20,
	}, 0)
	require.NoError(t, err)

	buffer, err := env.execute(t, env.customer, CmdReadFood, types.FoodIDArgs{FoodID: foodID}, 0)
	require.NoError(t, err)

	var food types.Food
	require.NoError(t, json.Unmarshal(buffer, &food))
	require.Equal(t, "Pasta", food.Name)
	require.Equal(t, uint64(80), food.Price)

	_, err = env.execute(t, other, CmdDeleteFood, types.FoodIDArgs{FoodID: foodID}, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = env.execute(t, env.restaurant, CmdDeleteFood, types.FoodIDArgs{FoodID: foodID}, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdReadFood, types.FoodIDArgs{FoodID: foodID}, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_FoodFromRestaurant(t *testing.T) {
	env := newEnv(t)

	restaurantID := env.createProfile(t, env.restaurant, CmdCreateRestaurant, "Chez Bob")

	pizzaID := env.uint64Result(t, env.restaurant, CmdCreateFood, types.CreateFoodArgs{
		Name: "Pizza", Description: "Margherita", Price: 100, Eta: 30,
	}, 0)
	pastaID := env.uint64Result(t, env.restaurant, CmdCreateFood, types.CreateFoodArgs{
		Name: "Pasta", Description: "Carbonara", Price: 80, Eta: 20,
	}, 0)

	buffer, err := env.execute(t, env.customer, CmdReadFoodFromRestaurant,
		types.ReadFromIDArgs{ID: restaurantID}, 0)
	require.NoError(t, err)

	var foods []types.Food
	require.NoError(t, json.Unmarshal(buffer, &foods))
	require.Len(t, foods, 2)
	require.Equal(t, pizzaID, foods[0].ID)
	require.Equal(t, pastaID, foods[1].ID)

	// A deleted listing leaves the menu.
	_, err = env.execute(t, env.restaurant, CmdDeleteFood, types.FoodIDArgs{FoodID: pizzaID}, 0)
	require.NoError(t, err)

	buffer, err = env.execute(t, env.customer, CmdReadFoodFromRestaurant,
		types.ReadFromIDArgs{ID: restaurantID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &foods))
	require.Len(t, foods, 1)
	require.Equal(t, pastaID, foods[0].ID)

	_, err = env.execute(t, env.customer, CmdReadFoodFromRestaurant,
		types.ReadFromIDArgs{ID: 42}, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_SubmitOrder(t *testing.T) {
	env := newEnv(t)

	args := types.SubmitOrderArgs{FoodID: 1, DeliveryAddress: "1 Main St"}

	_, err := env.execute(t, env.customer, CmdSubmitOrder, args, 200)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	env.createProfile(t, env.customer, CmdCreateCustomer, "Alice")

	_, err = env.execute(t, env.customer, CmdSubmitOrder, args, 200)
	require.ErrorIs(t, err, types.ErrNotFound)

	env.createProfile(t, env.restaurant, CmdCreateRestaurant, "Chez Bob")
	foodID := env.uint64Result(t, env.restaurant, CmdCreateFood, types.CreateFoodArgs{
		Name: "Pizza", Description: "Margherita", Price: 100, Eta: 30,
	}, 0)

	args.FoodID = foodID

	// Default rate is 250 bp, so 100 requires 102.
	_, err = env.execute(t, env.customer, CmdSubmitOrder, args, 101)
	require.ErrorIs(t, err, types.ErrInsufficientValue)

	args.DeliveryAddress = ""
	_, err = env.execute(t, env.customer, CmdSubmitOrder, args, 102)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	args.DeliveryAddress = "1 Main St"
	orderID := env.uint64Result(t, env.customer, CmdSubmitOrder, args, 102)

	order := env.readOrder(t, orderID)
	require.Equal(t, uint64(2), order.Fee)
	require.Equal(t, uint64(0), order.Tip)
}

func TestCommand_WorkflowTransitions(t *testing.T) {
	env := newEnv(t)

	orderID, deliveryID := env.submitAndCook(t)

	// Only submitted orders can be confirmed.
	_, err := env.execute(t, env.restaurant, CmdConfirmOrder,
		types.ConfirmOrderArgs{OrderID: orderID, Eta: 25}, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	// Another restaurant has no business with this order.
	other := fake.NewIdentity("other")
	env.createProfile(t, other, CmdCreateRestaurant, "Chez Eve")

	_, err = env.execute(t, other, CmdDeliverOrder, types.OrderIDArgs{OrderID: orderID}, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// Delivering before pickup is out of order.
	_, err = env.execute(t, env.restaurant, CmdDeliverOrder,
		types.OrderIDArgs{OrderID: orderID}, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = env.execute(t, env.restaurant, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	env.uint64Result(t, env.courier, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	// One active delivery per courier.
	otherOrder := env.uint64Result(t, env.customer, CmdSubmitOrder, types.SubmitOrderArgs{
		FoodID: 1, DeliveryAddress: "1 Main St",
	}, 200)

	_, err = env.execute(t, env.restaurant, CmdConfirmOrder,
		types.ConfirmOrderArgs{OrderID: otherOrder, Eta: 10}, 0)
	require.NoError(t, err)

	otherDelivery := env.uint64Result(t, env.restaurant, CmdFinishCook,
		types.OrderIDArgs{OrderID: otherOrder}, 0)

	_, err = env.execute(t, env.courier, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: otherDelivery}, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	// Accepting is for the order's customer, after delivery.
	_, err = env.execute(t, env.customer, CmdAcceptDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	env.uint64Result(t, env.restaurant, CmdDeliverOrder,
		types.OrderIDArgs{OrderID: orderID}, 0)

	stranger := fake.NewIdentity("stranger")
	env.createProfile(t, stranger, CmdCreateCustomer, "Mallory")

	_, err = env.execute(t, stranger, CmdAcceptDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	env.uint64Result(t, env.customer, CmdAcceptDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)
}

func TestCommand_OrderReads(t *testing.T) {
	env := newEnv(t)

	orderID, deliveryID := env.submitAndCook(t)

	buffer, err := env.execute(t, env.customer, CmdReadOrderAll, nil, 0)
	require.NoError(t, err)

	var orders []types.Order
	require.NoError(t, json.Unmarshal(buffer, &orders))
	require.Len(t, orders, 1)

	order := env.readOrder(t, orderID)

	buffer, err = env.execute(t, env.customer, CmdReadOrderFromCustomer,
		types.ReadFromIDArgs{ID: order.CustomerID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &orders))
	require.Len(t, orders, 1)
	require.Equal(t, orderID, orders[0].ID)

	buffer, err = env.execute(t, env.customer, CmdReadOrderFromRestaurant,
		types.ReadFromIDArgs{ID: order.RestaurantID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &orders))
	require.Len(t, orders, 1)

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryFromID,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)
	require.NoError(t, err)

	var delivery types.Delivery
	require.NoError(t, json.Unmarshal(buffer, &delivery))
	require.Equal(t, orderID, delivery.OrderID)
	require.Equal(t, types.DeliveryWaiting, delivery.Status)

	buffer, err = env.execute(t, env.customer, CmdGetEta,
		types.OrderIDArgs{OrderID: orderID}, 0)
	require.NoError(t, err)
	require.Equal(t, "25", string(buffer))

	_, err = env.execute(t, env.customer, CmdReadOrderFromID,
		types.OrderIDArgs{OrderID: 42}, 0)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCommand_DeliveryReads(t *testing.T) {
	env := newEnv(t)

	_, deliveryID := env.submitAndCook(t)

	buffer, err := env.execute(t, env.courier, CmdReadCourier, nil, 0)
	require.NoError(t, err)

	var courier types.Courier
	require.NoError(t, json.Unmarshal(buffer, &courier))
	courierID := courier.ID

	// The delivery is still waiting, so no courier carries it.
	buffer, err = env.execute(t, env.customer, CmdReadDeliveryFromCourier,
		types.ReadFromIDArgs{ID: courierID}, 0)
	require.NoError(t, err)

	var deliveries []types.Delivery
	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Empty(t, deliveries)

	env.uint64Result(t, env.courier, CmdPickupDelivery,
		types.DeliveryIDArgs{DeliveryID: deliveryID}, 0)

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryFromCourier,
		types.ReadFromIDArgs{ID: courierID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Len(t, deliveries, 1)
	require.Equal(t, deliveryID, deliveries[0].ID)

	delivery := deliveries[0]

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryFromRestaurant,
		types.ReadFromIDArgs{ID: delivery.RestaurantID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Len(t, deliveries, 1)

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryFromCustomer,
		types.ReadFromIDArgs{ID: delivery.CustomerID}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Len(t, deliveries, 1)

	_, err = env.execute(t, env.customer, CmdReadDeliveryFromCustomer,
		types.ReadFromIDArgs{}, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryAll, nil, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Len(t, deliveries, 1)

	buffer, err = env.execute(t, env.customer, CmdReadDeliveryAll,
		types.ReadAllArgs{From: 1, To: 0}, 0)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(buffer, &deliveries))
	require.Empty(t, deliveries)
}

func TestCommand_Init(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.owner, CmdInit, nil, 0)
	require.ErrorIs(t, err, types.ErrAlreadyExists)

	buffer, err := env.execute(t, env.customer, CmdOwner, nil, 0)
	require.NoError(t, err)
	require.Equal(t, `"fake:owner"`, string(buffer))

	buffer, err = env.execute(t, env.customer, CmdFeeRate, nil, 0)
	require.NoError(t, err)
	require.Equal(t, "250", string(buffer))
}

func TestCommand_Ownership(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdTransferOwnership,
		types.TransferOwnershipArgs{NewOwner: "fake:customer"}, 0)
	require.ErrorIs(t, err, types.ErrCallerNotOwner)

	_, err = env.execute(t, env.owner, CmdTransferOwnership,
		types.TransferOwnershipArgs{NewOwner: ""}, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = env.execute(t, env.owner, CmdTransferOwnership,
		types.TransferOwnershipArgs{NewOwner: "fake:customer"}, 0)
	require.NoError(t, err)

	// The previous owner lost the gate.
	_, err = env.execute(t, env.owner, CmdRenounceOwnership, nil, 0)
	require.ErrorIs(t, err, types.ErrCallerNotOwner)

	_, err = env.execute(t, env.customer, CmdRenounceOwnership, nil, 0)
	require.NoError(t, err)

	buffer, err := env.execute(t, env.customer, CmdOwner, nil, 0)
	require.NoError(t, err)
	require.Equal(t, `""`, string(buffer))

	// Owner-gated commands are unreachable once renounced.
	_, err = env.execute(t, env.customer, CmdTransferOwnership,
		types.TransferOwnershipArgs{NewOwner: "fake:customer"}, 0)
	require.ErrorIs(t, err, types.ErrCallerNotOwner)
}

func TestCommand_Roles(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	role := uint32(RoleManager)

	buffer, err := env.execute(t, env.owner, CmdHasRole, types.RoleArgs{Role: role}, 0)
	require.NoError(t, err)
	require.Equal(t, "true", string(buffer))

	buffer, err = env.execute(t, env.customer, CmdHasRole, types.RoleArgs{Role: role}, 0)
	require.NoError(t, err)
	require.Equal(t, "false", string(buffer))

	buffer, err = env.execute(t, env.customer, CmdGetRoleAdmin, types.RoleArgs{Role: role}, 0)
	require.NoError(t, err)
	require.Equal(t, "0", string(buffer))

	grant := types.RoleArgs{Role: role, Account: "fake:customer"}

	_, err = env.execute(t, env.customer, CmdGrantRole, grant, 0)
	require.ErrorIs(t, err, types.ErrMissingRole)

	_, err = env.execute(t, env.owner, CmdGrantRole, grant, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.owner, CmdGrantRole, grant, 0)
	require.ErrorIs(t, err, types.ErrRoleRedundant)

	_, err = env.execute(t, env.owner, CmdRevokeRole, grant, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.owner, CmdRevokeRole, grant, 0)
	require.ErrorIs(t, err, types.ErrRoleRedundant)

	// Renouncing is for the caller itself only.
	_, err = env.execute(t, env.customer, CmdRenounceRole,
		types.RoleArgs{Role: role, Account: "fake:owner"}, 0)
	require.ErrorIs(t, err, types.ErrInvalidCaller)

	_, err = env.execute(t, env.owner, CmdRenounceRole, types.RoleArgs{Role: role}, 0)
	require.NoError(t, err)

	buffer, err = env.execute(t, env.owner, CmdHasRole, types.RoleArgs{Role: role}, 0)
	require.NoError(t, err)
	require.Equal(t, "false", string(buffer))
}

func TestCommand_SetCodeHash(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	hash := "a2e348279e76b10eee8cb9aca9ff41eac8a04cce62d7c706fe1ab426e4b83d1c"

	_, err = env.execute(t, env.customer, CmdSetCodeHash,
		types.SetCodeHashArgs{CodeHash: hash}, 0)
	require.ErrorIs(t, err, types.ErrCallerNotOwner)

	_, err = env.execute(t, env.owner, CmdSetCodeHash,
		types.SetCodeHashArgs{CodeHash: "zzzz"}, 0)
	require.ErrorIs(t, err, types.ErrInvalidCodeHash)

	_, err = env.execute(t, env.owner, CmdSetCodeHash,
		types.SetCodeHashArgs{CodeHash: "abcd"}, 0)
	require.ErrorIs(t, err, types.ErrInvalidCodeHash)

	_, err = env.execute(t, env.owner, CmdSetCodeHash,
		types.SetCodeHashArgs{CodeHash: hash}, 0)
	require.NoError(t, err)
}

func TestCommand_ChangeFeeRate(t *testing.T) {
	env := newEnv(t)

	_, err := env.execute(t, env.owner, CmdInit, nil, 0)
	require.NoError(t, err)

	_, err = env.execute(t, env.customer, CmdChangeFeeRate,
		types.ChangeFeeRateArgs{Rate: 100}, 0)
	require.ErrorIs(t, err, types.ErrMissingRole)

	_, err = env.execute(t, env.owner, CmdChangeFeeRate,
		types.ChangeFeeRateArgs{Rate: 10001}, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = env.execute(t, env.owner, CmdChangeFeeRate,
		types.ChangeFeeRateArgs{Rate: 100}, 0)
	require.NoError(t, err)

	buffer, err := env.execute(t, env.customer, CmdFeeRate, nil, 0)
	require.NoError(t, err)
	require.Equal(t, "100", string(buffer))
}

// -----------------------------------------------------------------------------
// Utility functions

type env struct {
	snap     store.Snapshot
	contract Contract

	owner      fake.PublicKey
	customer   fake.PublicKey
	restaurant fake.PublicKey
	courier    fake.PublicKey
}

func newEnv(t *testing.T) *env {
	return &env{
		snap:       fake.NewSnapshot(),
		contract:   NewContract(rbac.NewService()),
		owner:      fake.NewIdentity("owner"),
		customer:   fake.NewIdentity("customer"),
		restaurant: fake.NewIdentity("restaurant"),
		courier:    fake.NewIdentity("courier"),
	}
}

func makeStep(t *testing.T, ident access.Identity, cmd string,
	args interface{}, value uint64) execution.Step {

	opts := []anon.TransactionOption{anon.WithValue(value)}

	if cmd != "" {
		opts = append(opts, anon.WithArg(CmdArg, []byte(cmd)))
	}

	if args != nil {
		buffer, err := json.Marshal(args)
		require.NoError(t, err)

		opts = append(opts, anon.WithArg(ArgsArg, buffer))
	}

	tx, err := anon.NewTransaction(0, ident, opts...)
	require.NoError(t, err)

	return execution.Step{Current: tx}
}

func (e *env) execute(t *testing.T, ident access.Identity, cmd Command,
	args interface{}, value uint64) ([]byte, error) {

	return e.contract.Execute(e.snap, makeStep(t, ident, string(cmd), args, value))
}

func (e *env) uint64Result(t *testing.T, ident access.Identity, cmd Command,
	args interface{}, value uint64) uint64 {

	buffer, err := e.execute(t, ident, cmd, args, value)
	require.NoError(t, err)

	var id uint64
	require.NoError(t, json.Unmarshal(buffer, &id))

	return id
}

func (e *env) createProfile(t *testing.T, ident access.Identity,
	cmd Command, name string) uint64 {

	return e.uint64Result(t, ident, cmd, types.ProfileArgs{
		Name:    name,
		Address: "1 Test Ave",
		Phone:   "555-0100",
	}, 0)
}

func (e *env) readOrder(t *testing.T, id uint64) types.Order {
	buffer, err := e.execute(t, e.customer, CmdReadOrderFromID,
		types.OrderIDArgs{OrderID: id}, 0)
	require.NoError(t, err)

	var order types.Order
	require.NoError(t, json.Unmarshal(buffer, &order))

	return order
}

// submitAndCook drives a fresh environment to a cooked order waiting for a
// courier: profiles, a food at price 100 with the default fee, an order
// confirmed with eta 25 and its delivery.
func (e *env) submitAndCook(t *testing.T) (uint64, uint64) {
	e.createProfile(t, e.customer, CmdCreateCustomer, "Alice")
	e.createProfile(t, e.restaurant, CmdCreateRestaurant, "Chez Bob")
	e.createProfile(t, e.courier, CmdCreateCourier, "Carol")

	foodID := e.uint64Result(t, e.restaurant, CmdCreateFood, types.CreateFoodArgs{
		Name: "Pizza", Description: "Margherita", Price: 100, Eta: 30,
	}, 0)

	orderID := e.uint64Result(t, e.customer, CmdSubmitOrder, types.SubmitOrderArgs{
		FoodID: foodID, DeliveryAddress: "1 Main St",
	}, 200)

	_, err := e.execute(t, e.restaurant, CmdConfirmOrder,
		types.ConfirmOrderArgs{OrderID: orderID, Eta: 25}, 0)
	require.NoError(t, err)

	deliveryID := e.uint64Result(t, e.restaurant, CmdFinishCook,
		types.OrderIDArgs{OrderID: orderID}, 0)

	return orderID, deliveryID
}

func (e *env) creditOf(t *testing.T, ident access.Identity) uint64 {
	text, err := ident.MarshalText()
	require.NoError(t, err)

	st := newState(prefixed.NewSnapshot(ContractName, e.snap))

	balance, err := st.getU64(creditKey(string(text)))
	require.NoError(t, err)

	return balance
}
