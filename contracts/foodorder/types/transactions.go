package types

// ProfileArgs carries the mutable fields of a courier, customer or
// restaurant profile for the create and update commands.
type ProfileArgs struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone_number"`
}

// ReadFromIDArgs selects a record by id.
type ReadFromIDArgs struct {
	ID uint64 `json:"id"`
}

// ReadAllArgs selects the records with ids in [From, To).
type ReadAllArgs struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// CreateFoodArgs carries the fields of a new food listing.
type CreateFoodArgs struct {
	Name        string `json:"food_name"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Eta         uint64 `json:"eta"`
}

// UpdateFoodArgs carries the mutable fields of a food listing.
type UpdateFoodArgs struct {
	FoodID      uint64 `json:"food_id"`
	Name        string `json:"food_name"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Eta         uint64 `json:"eta"`
}

// FoodIDArgs selects a food listing.
type FoodIDArgs struct {
	FoodID uint64 `json:"food_id"`
}

// SubmitOrderArgs carries the input of a new order. The payment is the
// value attached to the transaction, not an argument.
type SubmitOrderArgs struct {
	FoodID          uint64 `json:"food_id"`
	DeliveryAddress string `json:"delivery_address"`
}

// ConfirmOrderArgs confirms an order with the preparation eta in minutes.
type ConfirmOrderArgs struct {
	OrderID uint64 `json:"order_id"`
	Eta     uint64 `json:"eta"`
}

// OrderIDArgs selects an order.
type OrderIDArgs struct {
	OrderID uint64 `json:"order_id"`
}

// DeliveryIDArgs selects a delivery.
type DeliveryIDArgs struct {
	DeliveryID uint64 `json:"delivery_id"`
}

// RoleArgs selects a role and optionally an account. An empty account
// refers to the caller.
type RoleArgs struct {
	Role    uint32 `json:"role"`
	Account string `json:"account,omitempty"`
}

// TransferOwnershipArgs carries the account of the new owner.
type TransferOwnershipArgs struct {
	NewOwner string `json:"new_owner"`
}

// SetCodeHashArgs carries the hex-encoded hash of the new code.
type SetCodeHashArgs struct {
	CodeHash string `json:"code_hash"`
}

// ChangeFeeRateArgs carries the new platform fee rate in basis points.
type ChangeFeeRateArgs struct {
	Rate uint64 `json:"rate"`
}
