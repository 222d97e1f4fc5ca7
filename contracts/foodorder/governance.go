package foodorder

import (
	"encoding/hex"

	"github.com/chainkitchen/foodchain/contracts/foodorder/types"
	"github.com/chainkitchen/foodchain/core/access"
	"github.com/chainkitchen/foodchain/core/access/rbac"
	"github.com/chainkitchen/foodchain/core/execution"
	"github.com/chainkitchen/foodchain/core/store"
)

// The governance keys of the contract state.
var (
	keyOwner    = []byte("owner")
	keyCodeHash = []byte("codehash")
	keyFeeRate  = []byte("fee")
	keyInit     = []byte("init")
)

// init initializes the contract state: the caller becomes the owner of the
// contract, receives the manager role and the default fee rate is written.
// It runs exactly once.
func (e foodOrderCommand) init(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	done, err := st.snap.Get(keyInit)
	if err != nil {
		return err
	}

	if len(done) > 0 {
		return types.NewAlreadyExists("contract is already initialized")
	}

	acct, err := caller(step)
	if err != nil {
		return err
	}

	err = st.snap.Set(keyOwner, []byte(acct))
	if err != nil {
		return err
	}

	// The deployer administers the roles and manages the fee until it
	// delegates either.
	_, err = e.roles.Add(snap, rbac.DefaultAdmin, access.NewIdentity(acct))
	if err != nil {
		return err
	}

	_, err = e.roles.Add(snap, RoleManager, access.NewIdentity(acct))
	if err != nil {
		return err
	}

	err = st.setU64(keyFeeRate, e.defaultFee)
	if err != nil {
		return err
	}

	err = st.snap.Set(keyInit, []byte{1})
	if err != nil {
		return err
	}

	e.event("initialized").
		Str("owner", acct).
		Uint64("fee_rate", e.defaultFee).
		Msg("contract initialized")

	return nil
}

// owner returns the canonical text of the current owner, or an empty
// string once the ownership has been renounced.
func (e foodOrderCommand) owner(snap store.Snapshot) (string, error) {
	return e.readOwner(newState(snap))
}

func (e foodOrderCommand) transferOwnership(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := e.requireOwner(st, step)
	if err != nil {
		return err
	}

	var args types.TransferOwnershipArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	if args.NewOwner == "" {
		return types.NewInvalidInput("new owner is empty")
	}

	err = st.snap.Set(keyOwner, []byte(args.NewOwner))
	if err != nil {
		return err
	}

	e.event("ownershipTransferred").
		Str("previous_owner", acct).
		Str("new_owner", args.NewOwner).
		Msg("ownership transferred")

	return nil
}

// renounceOwnership clears the owner permanently. Owner-gated commands are
// unreachable afterwards.
func (e foodOrderCommand) renounceOwnership(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := e.requireOwner(st, step)
	if err != nil {
		return err
	}

	err = st.snap.Delete(keyOwner)
	if err != nil {
		return err
	}

	e.event("ownershipTransferred").
		Str("previous_owner", acct).
		Str("new_owner", "").
		Msg("ownership renounced")

	return nil
}

// hasRole reports whether the account, or the caller when the account is
// empty, holds the role.
func (e foodOrderCommand) hasRole(snap store.Snapshot, step execution.Step) (bool, error) {
	var args types.RoleArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return false, err
	}

	acct := args.Account
	if acct == "" {
		acct, err = caller(step)
		if err != nil {
			return false, err
		}
	}

	return e.roles.Has(snap, rbac.Role(args.Role), access.NewIdentity(acct))
}

func (e foodOrderCommand) getRoleAdmin(snap store.Snapshot, step execution.Step) (uint32, error) {
	var args types.RoleArgs

	err := decodeArgs(step, &args)
	if err != nil {
		return 0, err
	}

	admin, err := e.roles.AdminOf(snap, rbac.Role(args.Role))
	if err != nil {
		return 0, err
	}

	return uint32(admin), nil
}

// grantRole adds the account as a member of the role. The caller must hold
// the admin role of the role.
func (e foodOrderCommand) grantRole(snap store.Snapshot, step execution.Step) error {
	args, err := e.roleAdminArgs(snap, step)
	if err != nil {
		return err
	}

	changed, err := e.roles.Add(snap, rbac.Role(args.Role), access.NewIdentity(args.Account))
	if err != nil {
		return err
	}

	if !changed {
		return types.NewRoleRedundant("account '%s' already holds %s",
			args.Account, rbac.Role(args.Role))
	}

	e.event("roleGranted").
		Uint32("role", args.Role).
		Str("account", args.Account).
		Msg("role granted")

	return nil
}

// revokeRole removes the account from the role. The caller must hold the
// admin role of the role.
func (e foodOrderCommand) revokeRole(snap store.Snapshot, step execution.Step) error {
	args, err := e.roleAdminArgs(snap, step)
	if err != nil {
		return err
	}

	changed, err := e.roles.Remove(snap, rbac.Role(args.Role), access.NewIdentity(args.Account))
	if err != nil {
		return err
	}

	if !changed {
		return types.NewRoleRedundant("account '%s' does not hold %s",
			args.Account, rbac.Role(args.Role))
	}

	e.event("roleRevoked").
		Uint32("role", args.Role).
		Str("account", args.Account).
		Msg("role revoked")

	return nil
}

// renounceRole removes the caller's own membership. The account argument
// must match the caller, which rules out replayed third-party renounces.
func (e foodOrderCommand) renounceRole(snap store.Snapshot, step execution.Step) error {
	acct, err := caller(step)
	if err != nil {
		return err
	}

	var args types.RoleArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	if args.Account != "" && args.Account != acct {
		return types.NewInvalidCaller("can only renounce roles for self")
	}

	changed, err := e.roles.Remove(snap, rbac.Role(args.Role), access.NewIdentity(acct))
	if err != nil {
		return err
	}

	if !changed {
		return types.NewRoleRedundant("account '%s' does not hold %s",
			acct, rbac.Role(args.Role))
	}

	e.event("roleRevoked").
		Uint32("role", args.Role).
		Str("account", acct).
		Msg("role renounced")

	return nil
}

// setCodeHash records the hash of the code the contract should upgrade to.
// The upgrade itself happens out of band when the node operators roll out
// the matching binary.
func (e foodOrderCommand) setCodeHash(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	_, err := e.requireOwner(st, step)
	if err != nil {
		return err
	}

	var args types.SetCodeHashArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	hash, err := hex.DecodeString(args.CodeHash)
	if err != nil {
		return types.NewInvalidCodeHash("code hash is not hex: %v", err)
	}

	if len(hash) != 32 {
		return types.NewInvalidCodeHash("code hash is %d bytes, expected 32", len(hash))
	}

	err = st.snap.Set(keyCodeHash, hash)
	if err != nil {
		return err
	}

	e.event("codeHashSet").Str("code_hash", args.CodeHash).Msg("code hash set")

	return nil
}

// changeFeeRate updates the platform fee rate. Orders already submitted
// keep the fee captured at submission.
func (e foodOrderCommand) changeFeeRate(snap store.Snapshot, step execution.Step) error {
	st := newState(snap)

	acct, err := caller(step)
	if err != nil {
		return err
	}

	ok, err := e.roles.Has(snap, RoleManager, access.NewIdentity(acct))
	if err != nil {
		return err
	}

	if !ok {
		return types.NewMissingRole("account '%s' is missing %s", acct, RoleManager)
	}

	var args types.ChangeFeeRateArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return err
	}

	if args.Rate > MaxFeeRate {
		return types.NewInvalidInput("fee rate %d is above %d", args.Rate, MaxFeeRate)
	}

	err = st.setU64(keyFeeRate, args.Rate)
	if err != nil {
		return err
	}

	e.event("feeRateChanged").Uint64("rate", args.Rate).Msg("fee rate changed")

	return nil
}

func (e foodOrderCommand) feeRate(snap store.Snapshot) (uint64, error) {
	return e.currentFeeRate(newState(snap))
}

// currentFeeRate returns the stored fee rate, falling back to the default
// when the state has not been initialized.
func (e foodOrderCommand) currentFeeRate(st state) (uint64, error) {
	value, err := st.snap.Get(keyFeeRate)
	if err != nil {
		return 0, err
	}

	if len(value) == 0 {
		return e.defaultFee, nil
	}

	return st.getU64(keyFeeRate)
}

func (e foodOrderCommand) readOwner(st state) (string, error) {
	value, err := st.snap.Get(keyOwner)
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// requireOwner returns the caller's account after checking that it is the
// current owner.
func (e foodOrderCommand) requireOwner(st state, step execution.Step) (string, error) {
	acct, err := caller(step)
	if err != nil {
		return "", err
	}

	owner, err := e.readOwner(st)
	if err != nil {
		return "", err
	}

	if owner == "" || owner != acct {
		return "", types.NewCallerNotOwner("caller '%s' is not the owner", acct)
	}

	return acct, nil
}

// roleAdminArgs decodes the role arguments and checks that the caller
// holds the admin role of the targeted role.
func (e foodOrderCommand) roleAdminArgs(snap store.Snapshot,
	step execution.Step) (types.RoleArgs, error) {

	acct, err := caller(step)
	if err != nil {
		return types.RoleArgs{}, err
	}

	var args types.RoleArgs

	err = decodeArgs(step, &args)
	if err != nil {
		return types.RoleArgs{}, err
	}

	if args.Account == "" {
		return types.RoleArgs{}, types.NewInvalidInput("account is empty")
	}

	admin, err := e.roles.AdminOf(snap, rbac.Role(args.Role))
	if err != nil {
		return types.RoleArgs{}, err
	}

	ok, err := e.roles.Has(snap, admin, access.NewIdentity(acct))
	if err != nil {
		return types.RoleArgs{}, err
	}

	if !ok {
		return types.RoleArgs{}, types.NewMissingRole("account '%s' is missing %s",
			acct, admin)
	}

	return args, nil
}
