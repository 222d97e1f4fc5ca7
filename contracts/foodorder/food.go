package foodorder

import (
	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
)

// createFood posts a new listing for the caller's restaurant.
func (e foodOrderCommand) createFood(snap store.Snapshot, step execution.Step) (uint64, error) {
	st := newState(snap)

	restaurantID, err := e.callerRestaurant(st, step)
	if err != nil {
		return 0, err
	}

	var args types.CreateFoodArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	err = validateFood(args.Name, args.Description, args.Price, args.Eta)
	if err != nil {
		return 0, err
	}

	id, err := st.nextID(kindFood)
	if err != nil {
		return 0, err
	}

	food := types.Food{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         args.Name,
		Description:  args.Description,
		Price:        args.Price,
		Eta:          args.Eta,
	}

	err = st.putRecord(kindFood, id, food)
	if err != nil {
		return 0, err
	}

	err = st.appendIDList(listKey(kindRestaurant, restaurantID, "foods"), id)
	if err != nil {
		return 0, err
	}

	e.event("foodCreated").
		Uint64("food_id", id).
		Uint64("restaurant_id", restaurantID).
		Uint64("price", args.Price).
		Msg("food created")

	return id, nil
}

func (e foodOrderCommand) readFood(snap store.Snapshot, step execution.Step) (types.Food, error) {
	var args types.FoodIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return types.Food{}, err
	}

	return e.getFood(newState(snap), args.FoodID)
}

func (e foodOrderCommand) readFoodAll(snap store.Snapshot, step execution.Step) ([]types.Food, error) {
	st := newState(snap)

	var args types.ReadAllArgs

	bounded, err := decodeOptionalArgs(step, &args)
	if err != nil {
		return nil, err
	}

	from, to, err := resolveRange(st, kindFood, args, bounded)
	if err != nil {
		return nil, err
	}

	foods := []types.Food{}

	for id := from; id < to; id++ {
		var food types.Food

		found, err := st.getRecord(kindFood, id, &food)
		if err != nil {
			return nil, err
		}

		if found {
			foods = append(foods, food)
		}
	}

	return foods, nil
}

// readFoodFromRestaurant returns the listings of the restaurant, in the
// order they were posted.
func (e foodOrderCommand) readFoodFromRestaurant(snap store.Snapshot, step execution.Step) ([]types.Food, error) {
	st := newState(snap)

	var args types.ReadFromIDArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return nil, err
	}

	_, err = e.getProfile(st, kindRestaurant, args.ID)
	if err != nil {
		return nil, err
	}

	ids, err := st.getIDList(listKey(kindRestaurant, args.ID, "foods"))
	if err != nil {
		return nil, err
	}

	foods := make([]types.Food, 0, len(ids))

	for _, id := range ids {
		food, err := e.getFood(st, id)
		if err != nil {
			return nil, err
		}

		foods = append(foods, food)
	}

	return foods, nil
}

// updateFood replaces the mutable fields of a listing. Orders already
// submitted keep the price they were submitted at.
func (e foodOrderCommand) updateFood(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	restaurantID, err := e.callerRestaurant(st, step)
	if err != nil {
		return err
	}

	var args types.UpdateFoodArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	err = validateFood(args.Name, args.Description, args.Price, args.Eta)
	if err != nil {
		return err
	}

	food, err := e.getFood(st, args.FoodID)
	if err != nil {
		return err
	}

	if food.RestaurantID != restaurantID {
		return types.NewUnauthorized("food %d belongs to restaurant %d",
			food.ID, food.RestaurantID)
	}

	food.Name = args.Name
	food.Description = args.Description
	food.Price = args.Price
	food.Eta = args.Eta

	err = st.putRecord(kindFood, food.ID, food)
	if err != nil {
		return err
	}

	e.event("foodUpdated").Uint64("food_id", food.ID).Msg("food updated")

	return nil
}

func (e foodOrderCommand) deleteFood(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	restaurantID, err := e.callerRestaurant(st, step)
	if err != nil {
		return err
	}

	var args types.FoodIDArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	food, err := e.getFood(st, args.FoodID)
	if err != nil {
		return err
	}

	if food.RestaurantID != restaurantID {
		return types.NewUnauthorized("food %d belongs to restaurant %d",
			food.ID, food.RestaurantID)
	}

	err = st.deleteRecord(kindFood, food.ID)
	if err != nil {
		return err
	}

	err = st.removeIDList(listKey(kindRestaurant, restaurantID, "foods"), food.ID)
	if err != nil {
		return err
	}

	e.event("foodDeleted").Uint64("food_id", food.ID).Msg("food deleted")

	return nil
}

func validateFood(name, description string, price, eta uint64) error {
	if name == "" {
		return types.NewInvalidInput("food name is empty")
	}

	if description == "" {
		return types.NewInvalidInput("food description is empty")
	}

	if price == 0 {
		return types.NewInvalidInput("food price is zero")
	}

	if eta == 0 {
		return types.NewInvalidInput("food eta is zero")
	}

	return nil
}

func (e foodOrderCommand) getFood(st state, id uint64) (types.Food, error) {
	var food types.Food

	found, err := st.getRecord(kindFood, id, &food)
	if err != nil {
		return types.Food{}, err
	}

	if !found {
		return types.Food{}, types.NewNotFound("food %d not found", id)
	}

	return food, nil
}

// callerRestaurant resolves the restaurant profile of the caller.
func (e foodOrderCommand) callerRestaurant(st state, step execution.Step) (uint64, error) {
	acct, err := caller(step)
	if err != nil {
		return 0, err
	}

	id, found, err := st.getAccountID(kindRestaurant, acct)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, types.NewUnauthorized("caller is not a restaurant")
	}

	return id, nil
}
