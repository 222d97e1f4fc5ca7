package foodorder

import (
	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
)

// courierShareBP is the share of the order price credited to the courier
// at delivery, in basis points. The restaurant receives the remainder.
const courierShareBP = 1000

// submitOrder creates an order for the caller's customer profile. The
// transaction value must cover the food price plus the platform fee; any
// excess is escrowed as a tip for the courier.
func (e foodOrderCommand) submitOrder(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return 0, err
	}

	customerID, found, err := st.getAccountID(kindCustomer, acct)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, types.NewUnauthorized("caller is not a customer")
	}

	var args types.SubmitOrderArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	if args.DeliveryAddress == "" {
		return 0, types.NewInvalidInput("delivery address is empty")
	}

	food, err := e.getFood(st, args.FoodID)
	if err != nil {
		return 0, err
	}

	rate, err := e.currentFeeRate(st)
	if err != nil {
		return 0, err
	}

	fee := food.Price * rate / 10000

	value := step.Current.GetValue()
	if value < food.Price+fee {
		return 0, types.NewInsufficientValue("order requires %d, got %d",
			food.Price+fee, value)
	}

	id, err := st.nextID(kindOrder)
	if err != nil {
		return 0, err
	}

	order := types.Order{
		ID:              id,
		FoodID:          food.ID,
		RestaurantID:    food.RestaurantID,
		CustomerID:      customerID,
		DeliveryAddress: args.DeliveryAddress,
		Status:          types.OrderSubmitted,
		Price:           food.Price,
		Fee:             fee,
		Tip:             value - food.Price - fee,
		Eta:             food.Eta,
	}

	err = st.putRecord(kindOrder, id, order)
	if err != nil {
		return 0, err
	}

	err = st.appendIDList(listKey(kindCustomer, customerID, "orders"), id)
	if err != nil {
		return 0, err
	}

	err = st.appendIDList(listKey(kindRestaurant, food.RestaurantID, "orders"), id)
	if err != nil {
		return 0, err
	}

	err = e.addOpen(st, order, 1)
	if err != nil {
		return 0, err
	}

	e.event("orderSubmitted").
		Uint64("order_id", id).
		Uint64("food_id", food.ID).
		Uint64("customer_id", customerID).
		Uint64("restaurant_id", food.RestaurantID).
		Uint64("price", order.Price).
		Uint64("fee", order.Fee).
		Uint64("tip", order.Tip).
		Msg("order submitted")

	return id, nil
}

// confirmOrder accepts a submitted order and fixes its preparation eta.
func (e foodOrderCommand) confirmOrder(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	var args types.ConfirmOrderArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	if args.Eta == 0 {
		return 0, types.NewInvalidInput("eta is zero")
	}

	order, err := e.restaurantOrder(st, step, args.OrderID)
	if err != nil {
		return 0, err
	}

	if order.Status != types.OrderSubmitted {
		return 0, types.NewInvalidState("order %d is %s, expected %s",
			order.ID, order.Status, types.OrderSubmitted)
	}

	order.Status = types.OrderConfirmed
	order.Eta = args.Eta

	err = st.putRecord(kindOrder, order.ID, order)
	if err != nil {
		return 0, err
	}

	e.event("orderConfirmed").
		Uint64("order_id", order.ID).
		Uint64("eta", order.Eta).
		Msg("order confirmed")

	return order.ID, nil
}

// finishCook marks the order as cooked and opens the delivery that a
// courier can pick up.
func (e foodOrderCommand) finishCook(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	var args types.OrderIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	order, err := e.restaurantOrder(st, step, args.OrderID)
	if err != nil {
		return 0, err
	}

	if order.Status != types.OrderConfirmed {
		return 0, types.NewInvalidState("order %d is %s, expected %s",
			order.ID, order.Status, types.OrderConfirmed)
	}

	deliveryID, err := st.nextID(kindDelivery)
	if err != nil {
		return 0, err
	}

	delivery := types.Delivery{
		ID:              deliveryID,
		OrderID:         order.ID,
		RestaurantID:    order.RestaurantID,
		CustomerID:      order.CustomerID,
		DeliveryAddress: order.DeliveryAddress,
		Status:          types.DeliveryWaiting,
	}

	err = st.putRecord(kindDelivery, deliveryID, delivery)
	if err != nil {
		return 0, err
	}

	order.Status = types.OrderCooked
	order.DeliveryID = deliveryID

	err = st.putRecord(kindOrder, order.ID, order)
	if err != nil {
		return 0, err
	}

	e.event("foodCooked").
		Uint64("order_id", order.ID).
		Uint64("delivery_id", deliveryID).
		Msg("food cooked")

	return deliveryID, nil
}

// pickupDelivery assigns the caller's courier profile to a waiting
// delivery. A courier carries at most one delivery at a time.
func (e foodOrderCommand) pickupDelivery(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return 0, err
	}

	courierID, found, err := st.getAccountID(kindCourier, acct)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, types.NewUnauthorized("caller is not a courier")
	}

	active, err := st.getU64(activeKey(courierID))
	if err != nil {
		return 0, err
	}

	if active != 0 {
		return 0, types.NewInvalidState("courier %d already carries delivery %d",
			courierID, active)
	}

	var args types.DeliveryIDArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	delivery, err := e.getDelivery(st, args.DeliveryID)
	if err != nil {
		return 0, err
	}

	if delivery.Status != types.DeliveryWaiting {
		return 0, types.NewInvalidState("delivery %d is %s, expected %s",
			delivery.ID, delivery.Status, types.DeliveryWaiting)
	}

	order, err := e.getOrder(st, delivery.OrderID)
	if err != nil {
		return 0, err
	}

	delivery.CourierID = courierID
	delivery.Status = types.DeliveryPickedUp

	err = st.putRecord(kindDelivery, delivery.ID, delivery)
	if err != nil {
		return 0, err
	}

	order.CourierID = courierID
	order.Status = types.OrderPickedUp

	err = st.putRecord(kindOrder, order.ID, order)
	if err != nil {
		return 0, err
	}

	err = st.setU64(activeKey(courierID), delivery.ID)
	if err != nil {
		return 0, err
	}

	e.event("deliveryPickedUp").
		Uint64("delivery_id", delivery.ID).
		Uint64("order_id", order.ID).
		Uint64("courier_id", courierID).
		Msg("delivery picked up")

	return delivery.ID, nil
}

// deliverOrder records the hand-off to the customer and settles the
// escrowed payment: the platform fee goes to the owner, a share of the
// price to the courier and the remainder to the restaurant.
func (e foodOrderCommand) deliverOrder(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	var args types.OrderIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	order, err := e.restaurantOrder(st, step, args.OrderID)
	if err != nil {
		return 0, err
	}

	if order.Status != types.OrderPickedUp {
		return 0, types.NewInvalidState("order %d is %s, expected %s",
			order.ID, order.Status, types.OrderPickedUp)
	}

	delivery, err := e.getDelivery(st, order.DeliveryID)
	if err != nil {
		return 0, err
	}

	delivery.Status = types.DeliveryDelivered

	err = st.putRecord(kindDelivery, delivery.ID, delivery)
	if err != nil {
		return 0, err
	}

	order.Status = types.OrderDelivered

	err = st.putRecord(kindOrder, order.ID, order)
	if err != nil {
		return 0, err
	}

	err = e.settle(st, order)
	if err != nil {
		return 0, err
	}

	// The courier is free for the next pickup, even before the customer
	// acknowledges the delivery.
	err = st.snap.Delete(activeKey(order.CourierID))
	if err != nil {
		return 0, err
	}

	e.event("orderDelivered").
		Uint64("order_id", order.ID).
		Uint64("delivery_id", delivery.ID).
		Msg("order delivered")

	return order.ID, nil
}

// acceptDelivery is the customer's acknowledgement and the terminal state
// of the workflow. The escrowed tip, if any, goes to the courier.
func (e foodOrderCommand) acceptDelivery(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return 0, err
	}

	customerID, found, err := st.getAccountID(kindCustomer, acct)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, types.NewUnauthorized("caller is not a customer")
	}

	var args types.DeliveryIDArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	delivery, err := e.getDelivery(st, args.DeliveryID)
	if err != nil {
		return 0, err
	}

	if delivery.CustomerID != customerID {
		return 0, types.NewUnauthorized("delivery %d belongs to customer %d",
			delivery.ID, delivery.CustomerID)
	}

	order, err := e.getOrder(st, delivery.OrderID)
	if err != nil {
		return 0, err
	}

	if order.Status != types.OrderDelivered {
		return 0, types.NewInvalidState("order %d is %s, expected %s",
			order.ID, order.Status, types.OrderDelivered)
	}

	delivery.Status = types.DeliveryAccepted

	err = st.putRecord(kindDelivery, delivery.ID, delivery)
	if err != nil {
		return 0, err
	}

	order.Status = types.OrderAccepted

	err = st.putRecord(kindOrder, order.ID, order)
	if err != nil {
		return 0, err
	}

	if order.Tip > 0 {
		err = e.creditCourierTip(st, order)
		if err != nil {
			return 0, err
		}
	}

	err = e.addOpen(st, order, -1)
	if err != nil {
		return 0, err
	}

	e.event("deliveryAccepted").
		Uint64("delivery_id", delivery.ID).
		Uint64("order_id", order.ID).
		Uint64("tip", order.Tip).
		Msg("delivery accepted")

	return delivery.ID, nil
}

// getEta returns the preparation eta of the order in minutes, or zero once
// the order has been delivered.
func (e foodOrderCommand) getEta(snap store.Snapshot, step execution.Step) (uint64, error) {
	var args types.OrderIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	order, err := e.getOrder(newState(snap), args.OrderID)
	if err != nil {
		return 0, err
	}

	if order.Status >= types.OrderDelivered {
		return 0, nil
	}

	return order.Eta, nil
}

func (e foodOrderCommand) readOrderFromID(snap store.Snapshot, step execution.Step) (types.Order, error) {
	var args types.OrderIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return types.Order{}, err
	}

	return e.getOrder(newState(snap), args.OrderID)
}

func (e foodOrderCommand) readOrderAll(snap store.Snapshot, step execution.Step) ([]types.Order, error) {
	st := newState(snap)

	var args types.ReadAllArgs

	bounded, err := decodeOptionalArgs(step, &args)
	if err != nil {
		return nil, err
	}

	from, to, err := resolveRange(st, kindOrder, args, bounded)
	if err != nil {
		return nil, err
	}

	orders := []types.Order{}

	for id := from; id < to; id++ {
		var order types.Order

		found, err := st.getRecord(kindOrder, id, &order)
		if err != nil {
			return nil, err
		}

		if found {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

func (e foodOrderCommand) readOrderFromCustomer(snap store.Snapshot, step execution.Step) ([]types.Order, error) {
	return e.readOrderIndex(snap, step, kindCustomer)
}

func (e foodOrderCommand) readOrderFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Order, error) {
	return e.readOrderIndex(snap, step, kindRestaurant)
}

func (e foodOrderCommand) readDeliveryFromID(snap store.Snapshot, step execution.Step) (types.Delivery, error) {
	var args types.DeliveryIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return types.Delivery{}, err
	}

	return e.getDelivery(newState(snap), args.DeliveryID)
}

func (e foodOrderCommand) readDeliveryFromCourier(snap store.Snapshot, step execution.Step) ([]types.Delivery, error) {
	return e.readDeliveryIndex(snap, step, func(d types.Delivery) uint64 {
		return d.CourierID
	})
}

func (e foodOrderCommand) readDeliveryFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Delivery, error) {
	return e.readDeliveryIndex(snap, step, func(d types.Delivery) uint64 {
		return d.RestaurantID
	})
}

func (e foodOrderCommand) readDeliveryFromCustomer(snap store.Snapshot, step execution.Step) ([]types.Delivery, error) {
	return e.readDeliveryIndex(snap, step, func(d types.Delivery) uint64 {
		return d.CustomerID
	})
}

func (e foodOrderCommand) readDeliveryAll(snap store.Snapshot, step execution.Step) ([]types.Delivery, error) {
	st := newState(snap)

	var args types.ReadAllArgs

	bounded, err := decodeOptionalArgs(step, &args)
	if err != nil {
		return nil, err
	}

	from, to, err := resolveRange(st, kindDelivery, args, bounded)
	if err != nil {
		return nil, err
	}

	deliveries := []types.Delivery{}

	for id := from; id < to; id++ {
		var delivery types.Delivery

		found, err := st.getRecord(kindDelivery, id, &delivery)
		if err != nil {
			return nil, err
		}

		if found {
			deliveries = append(deliveries, delivery)
		}
	}

	return deliveries, nil
}

// readDeliveryIndex scans the deliveries and keeps those whose selected
// participant matches the requested id. A pickup fills the courier field,
// so a waiting delivery never matches a courier selection.
func (e foodOrderCommand) readDeliveryIndex(snap store.Snapshot,
	step execution.Step, selector func(types.Delivery) uint64) ([]types.Delivery, error) {

	st := newState(snap)

	var args types.ReadFromIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return nil, err
	}

	if args.ID == 0 {
		return nil, types.NewInvalidInput("id is zero")
	}

	next, err := st.peekID(kindDelivery)
	if err != nil {
		return nil, err
	}

	deliveries := []types.Delivery{}

	for id := uint64(1); id < next; id++ {
		var delivery types.Delivery

		found, err := st.getRecord(kindDelivery, id, &delivery)
		if err != nil {
			return nil, err
		}

		if found && selector(delivery) == args.ID {
			deliveries = append(deliveries, delivery)
		}
	}

	return deliveries, nil
}

// readOrderIndex returns the orders referenced by the per-participant
// index of the kind.
func (e foodOrderCommand) readOrderIndex(snap store.Snapshot,
	step execution.Step, kind string) ([]types.Order, error) {

	st := newState(snap)

	var args types.ReadFromIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return nil, err
	}

	ids, err := st.getIDList(listKey(kind, args.ID, "orders"))
	if err != nil {
		return nil, err
	}

	orders := make([]types.Order, 0, len(ids))

	for _, id := range ids {
		order, err := e.getOrder(st, id)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func (e foodOrderCommand) getOrder(st state, id uint64) (types.Order, error) {
	var order types.Order

	found, err := st.getRecord(kindOrder, id, &order)
	if err != nil {
		return types.Order{}, err
	}

	if !found {
		return types.Order{}, types.NewNotFound("order %d not found", id)
	}

	return order, nil
}

func (e foodOrderCommand) getDelivery(st state, id uint64) (types.Delivery, error) {
	var delivery types.Delivery

	found, err := st.getRecord(kindDelivery, id, &delivery)
	if err != nil {
		return types.Delivery{}, err
	}

	if !found {
		return types.Delivery{}, types.NewNotFound("delivery %d not found", id)
	}

	return delivery, nil
}

// restaurantOrder loads the order and checks that the caller owns the
// restaurant it was placed with.
func (e foodOrderCommand) restaurantOrder(st state, step execution.Step,
	orderID uint64) (types.Order, error) {

	restaurantID, err := e.callerRestaurant(st, step)
	if err != nil {
		return types.Order{}, err
	}

	order, err := e.getOrder(st, orderID)
	if err != nil {
		return types.Order{}, err
	}

	if order.RestaurantID != restaurantID {
		return types.Order{}, types.NewUnauthorized("order %d belongs to restaurant %d",
			order.ID, order.RestaurantID)
	}

	return order, nil
}

// settle writes the credit entries of a delivered order. The fee goes to
// the platform owner, a fixed share of the price to the courier and the
// remainder to the restaurant.
func (e foodOrderCommand) settle(st state, order types.Order) error {
	owner, err := e.readOwner(st)
	if err != nil {
		return err
	}

	// An ownerless contract keeps no fee; the amount stays locked.
	if owner != "" && order.Fee > 0 {
		err = st.credit(owner, order.Fee)
		if err != nil {
			return err
		}
	}

	courierShare := order.Price * courierShareBP / 10000

	courier, err := e.getProfile(st, kindCourier, order.CourierID)
	if err != nil {
		return err
	}

	err = st.credit(courier.Account, courierShare)
	if err != nil {
		return err
	}

	restaurant, err := e.getProfile(st, kindRestaurant, order.RestaurantID)
	if err != nil {
		return err
	}

	return st.credit(restaurant.Account, order.Price-courierShare)
}

// creditCourierTip pays the escrowed tip out. A courier that left the
// marketplace before the acknowledgement forfeits it to the owner.
func (e foodOrderCommand) creditCourierTip(st state, order types.Order) error {
	var courier types.Courier

	found, err := st.getRecord(kindCourier, order.CourierID, &courier)
	if err != nil {
		return err
	}

	if found {
		return st.credit(courier.Account, order.Tip)
	}

	owner, err := e.readOwner(st)
	if err != nil {
		return err
	}

	if owner == "" {
		return nil
	}

	return st.credit(owner, order.Tip)
}

// addOpen adjusts the in-flight order counters of the customer and the
// restaurant. Deletion of either profile is blocked while its counter is
// not zero.
func (e foodOrderCommand) addOpen(st state, order types.Order, delta int64) error {
	for _, ref := range []struct {
		kind string
		id   uint64
	}{
		{kindCustomer, order.CustomerID},
		{kindRestaurant, order.RestaurantID},
	} {
		key := listKey(ref.kind, ref.id, "open")

		count, err := st.getU64(key)
		if err != nil {
			return err
		}

		err = st.setU64(key, uint64(int64(count)+delta))
		if err != nil {
			return err
		}
	}

	return nil
}
