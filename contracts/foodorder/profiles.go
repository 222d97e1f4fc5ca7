package foodorder

import (
	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
)

// The courier, customer and restaurant profiles share the same record
// shape and the same lifecycle, so the commands below delegate to a single
// implementation parameterized by the entity kind. Only deletion differs:
// each kind guards against removing a participant that the workflow still
// needs.

func (e foodOrderCommand) createCourier(snap store.Snapshot, step execution.Step) (uint64, error) {
	return e.createProfile(snap, step, kindCourier)
}

func (e foodOrderCommand) readCourier(snap store.Snapshot, step execution.Step) (types.Courier, error) {
	return e.readProfile(snap, step, kindCourier)
}

func (e foodOrderCommand) readCourierFromID(snap store.Snapshot, step execution.Step) (types.Courier, error) {
	return e.readProfileFromID(snap, step, kindCourier)
}

func (e foodOrderCommand) readCourierAll(snap store.Snapshot, step execution.Step) ([]types.Courier, error) {
	return e.readProfileAll(snap, step, kindCourier)
}

func (e foodOrderCommand) updateCourier(snap store.Snapshot, step execution.Step) error {
	return e.updateProfile(snap, step, kindCourier)
}

// deleteCourier removes the caller's courier profile. A courier carrying
// an active delivery cannot leave the marketplace.
func (e foodOrderCommand) deleteCourier(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return err
	}

	id, found, err := st.getAccountID(kindCourier, acct)
	if err != nil {
		return err
	}

	if !found {
		return types.NewNotFound("no courier profile for caller")
	}

	active, err := st.getU64(activeKey(id))
	if err != nil {
		return err
	}

	if active != 0 {
		return types.NewInvalidState("courier %d has delivery %d in progress", id, active)
	}

	err = e.removeProfile(st, kindCourier, acct, id)
	if err != nil {
		return err
	}

	e.event(kindCourier + "Deleted").Uint64("courier_id", id).Msg("courier deleted")

	return nil
}

func (e foodOrderCommand) createCustomer(snap store.Snapshot, step execution.Step) (uint64, error) {
	return e.createProfile(snap, step, kindCustomer)
}

func (e foodOrderCommand) readCustomer(snap store.Snapshot, step execution.Step) (types.Customer, error) {
	return e.readProfile(snap, step, kindCustomer)
}

func (e foodOrderCommand) readCustomerFromID(snap store.Snapshot, step execution.Step) (types.Customer, error) {
	return e.readProfileFromID(snap, step, kindCustomer)
}

func (e foodOrderCommand) readCustomerAll(snap store.Snapshot, step execution.Step) ([]types.Customer, error) {
	return e.readProfileAll(snap, step, kindCustomer)
}

func (e foodOrderCommand) updateCustomer(snap store.Snapshot, step execution.Step) error {
	return e.updateProfile(snap, step, kindCustomer)
}

// deleteCustomer removes the caller's customer profile once none of their
// orders is still in flight.
func (e foodOrderCommand) deleteCustomer(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return err
	}

	id, found, err := st.getAccountID(kindCustomer, acct)
	if err != nil {
		return err
	}

	if !found {
		return types.NewNotFound("no customer profile for caller")
	}

	open, err := st.getU64(listKey(kindCustomer, id, "open"))
	if err != nil {
		return err
	}

	if open != 0 {
		return types.NewInvalidState("customer %d has %d order(s) in progress", id, open)
	}

	err = e.removeProfile(st, kindCustomer, acct, id)
	if err != nil {
		return err
	}

	e.event(kindCustomer + "Deleted").Uint64("customer_id", id).Msg("customer deleted")

	return nil
}

func (e foodOrderCommand) createRestaurant(snap store.Snapshot, step execution.Step) (uint64, error) {
	return e.createProfile(snap, step, kindRestaurant)
}

func (e foodOrderCommand) readRestaurant(snap store.Snapshot, step execution.Step) (types.Restaurant, error) {
	return e.readProfile(snap, step, kindRestaurant)
}

func (e foodOrderCommand) readRestaurantFromID(snap store.Snapshot, step execution.Step) (types.Restaurant, error) {
	return e.readProfileFromID(snap, step, kindRestaurant)
}

func (e foodOrderCommand) readRestaurantAll(snap store.Snapshot, step execution.Step) ([]types.Restaurant, error) {
	return e.readProfileAll(snap, step, kindRestaurant)
}

func (e foodOrderCommand) updateRestaurant(snap store.Snapshot, step execution.Step) error {
	return e.updateProfile(snap, step, kindRestaurant)
}

// deleteRestaurant removes the caller's restaurant profile and its food
// listings. It is rejected while the restaurant has orders in flight.
func (e foodOrderCommand) deleteRestaurant(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return err
	}

	id, found, err := st.getAccountID(kindRestaurant, acct)
	if err != nil {
		return err
	}

	if !found {
		return types.NewNotFound("no restaurant profile for caller")
	}

	open, err := st.getU64(listKey(kindRestaurant, id, "open"))
	if err != nil {
		return err
	}

	if open != 0 {
		return types.NewInvalidState("restaurant %d has %d order(s) in progress", id, open)
	}

	foods, err := st.getIDList(listKey(kindRestaurant, id, "foods"))
	if err != nil {
		return err
	}

	for _, foodID := range foods {
		err = st.deleteRecord(kindFood, foodID)
		if err != nil {
			return err
		}
	}

	err = st.snap.Delete(listKey(kindRestaurant, id, "foods"))
	if err != nil {
		return err
	}

	err = e.removeProfile(st, kindRestaurant, acct, id)
	if err != nil {
		return err
	}

	e.event(kindRestaurant + "Deleted").
		Uint64("restaurant_id", id).
		Int("foods", len(foods)).
		Msg("restaurant deleted")

	return nil
}

// createProfile registers the caller as a new participant of the kind. An
// account owns at most one profile per kind.
func (e foodOrderCommand) createProfile(snap store.Snapshot,
	step execution.Step, kind string) (uint64, error) {

	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return 0, err
	}

	_, found, err := st.getAccountID(kind, acct)
	if err != nil {
		return 0, err
	}

	if found {
		return 0, types.NewAlreadyExists("caller already has a %s profile", kind)
	}

	var args types.ProfileArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	err = validateProfile(kind, args)
	if err != nil {
		return 0, err
	}

	id, err := st.nextID(kind)
	if err != nil {
		return 0, err
	}

	profile := types.Profile{
		ID:      id,
		Account: acct,
		Name:    args.Name,
		Address: args.Address,
		Phone:   args.Phone,
	}

	err = st.putRecord(kind, id, profile)
	if err != nil {
		return 0, err
	}

	err = st.setAccountID(kind, acct, id)
	if err != nil {
		return 0, err
	}

	e.event(kind + "Created").
		Uint64("id", id).
		Str("account", acct).
		Str("name", args.Name).
		Msg("profile created")

	return id, nil
}

// readProfile returns the caller's own profile of the kind.
func (e foodOrderCommand) readProfile(snap store.Snapshot,
	step execution.Step, kind string) (types.Profile, error) {

	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return types.Profile{}, err
	}

	id, found, err := st.getAccountID(kind, acct)
	if err != nil {
		return types.Profile{}, err
	}

	if !found {
		return types.Profile{}, types.NewNotFound("no %s profile for caller", kind)
	}

	return e.getProfile(st, kind, id)
}

func (e foodOrderCommand) readProfileFromID(snap store.Snapshot,
	step execution.Step, kind string) (types.Profile, error) {

	var args types.ReadFromIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return types.Profile{}, err
	}

	return e.getProfile(newState(snap), kind, args.ID)
}

// readProfileAll returns the profiles with ids in [From, To). A zero To
// means up to the last allocated id.
func (e foodOrderCommand) readProfileAll(snap store.Snapshot,
	step execution.Step, kind string) ([]types.Profile, error) {

	st := newState(snap)

	var args types.ReadAllArgs

	bounded, err := decodeOptionalArgs(step, &args)
	if err != nil {
		return nil, err
	}

	from, to, err := resolveRange(st, kind, args, bounded)
	if err != nil {
		return nil, err
	}

	profiles := []types.Profile{}

	for id := from; id < to; id++ {
		var profile types.Profile

		found, err := st.getRecord(kind, id, &profile)
		if err != nil {
			return nil, err
		}

		// Deleted profiles leave holes in the id sequence.
		if found {
			profiles = append(profiles, profile)
		}
	}

	return profiles, nil
}

func (e foodOrderCommand) updateProfile(snap store.Snapshot,
	step execution.Step, kind string) error {

	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return err
	}

	id, found, err := st.getAccountID(kind, acct)
	if err != nil {
		return err
	}

	if !found {
		return types.NewNotFound("no %s profile for caller", kind)
	}

	var args types.ProfileArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	err = validateProfile(kind, args)
	if err != nil {
		return err
	}

	profile, err := e.getProfile(st, kind, id)
	if err != nil {
		return err
	}

	profile.Name = args.Name
	profile.Address = args.Address
	profile.Phone = args.Phone

	err = st.putRecord(kind, id, profile)
	if err != nil {
		return err
	}

	e.event(kind + "Updated").Uint64("id", id).Msg("profile updated")

	return nil
}

func (e foodOrderCommand) getProfile(st state, kind string, id uint64) (types.Profile, error) {
	var profile types.Profile

	found, err := st.getRecord(kind, id, &profile)
	if err != nil {
		return types.Profile{}, err
	}

	if !found {
		return types.Profile{}, types.NewNotFound("%s %d not found", kind, id)
	}

	return profile, nil
}

func (e foodOrderCommand) removeProfile(st state, kind string, acct string, id uint64) error {
	err := st.deleteRecord(kind, id)
	if err != nil {
		return err
	}

	return st.deleteAccountID(kind, acct)
}

func validateProfile(kind string, args types.ProfileArgs) error {
	if args.Name == "" {
		return types.NewInvalidInput("%s name is empty", kind)
	}

	if args.Address == "" {
		return types.NewInvalidInput("%s address is empty", kind)
	}

	if args.Phone == "" {
		return types.NewInvalidInput("%s phone number is empty", kind)
	}

	return nil
}

// resolveRange bounds a read-all selection to the allocated id space. When
// no bounds were supplied the whole space is selected; an explicit upper
// bound at or below the lower bound selects nothing.
func resolveRange(st state, kind string, args types.ReadAllArgs, bounded bool) (uint64, uint64, error) {
	next, err := st.peekID(kind)
	if err != nil {
		return 0, 0, err
	}

	from := args.From
	if from == 0 {
		from = 1
	}

	to := next
	if bounded && args.To < next {
		to = args.To
	}

	return from, to, nil
}
