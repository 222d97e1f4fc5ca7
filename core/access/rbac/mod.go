// Package rbac implements a role-based access service.
//
// Membership is a many-to-many relation between roles and identities, and
// every role has an admin role whose members administrate it. Both
// relations are stored in the snapshot the service is given, so access
// rights follow the same transactional rules as the rest of the contract
// state.
package rbac

import (
	"encoding/binary"
	"fmt"

	"github.com/chainkitchen/foodchain/core/access"
	"github.com/chainkitchen/foodchain/core/store"
	"github.com/chainkitchen/foodchain/core/store/prefixed"
	"golang.org/x/xerrors"
)

// Role is the identifier of a permission group.
type Role uint32

// DefaultAdmin is the role that administrates any role without an explicit
// admin assignment. It is its own admin.
const DefaultAdmin Role = 0

// String implements fmt.Stringer.
func (r Role) String() string {
	return fmt.Sprintf("role:%#x", uint32(r))
}

const (
	memberPrefix = "rbac:member"
	adminPrefix  = "rbac:admin"
)

var memberFlag = []byte{1}

// Service is a role-based access service. The zero value is usable.
//
// - implements access.Service
type Service struct{}

// NewService creates a new role-based access service.
func NewService() Service {
	return Service{}
}

// Has returns whether the identity is a member of the role.
func (srvc Service) Has(snap store.Readable, role Role, ident access.Identity) (bool, error) {
	key, err := memberKey(role, ident)
	if err != nil {
		return false, err
	}

	value, err := snap.Get(key)
	if err != nil {
		return false, xerrors.Errorf("failed to read membership: %v", err)
	}

	return len(value) > 0, nil
}

// Add makes the identity a member of the role. It returns false when the
// identity was already a member, in which case the state is unchanged.
func (srvc Service) Add(snap store.Snapshot, role Role, ident access.Identity) (bool, error) {
	key, err := memberKey(role, ident)
	if err != nil {
		return false, err
	}

	value, err := snap.Get(key)
	if err != nil {
		return false, xerrors.Errorf("failed to read membership: %v", err)
	}

	if len(value) > 0 {
		return false, nil
	}

	err = snap.Set(key, memberFlag)
	if err != nil {
		return false, xerrors.Errorf("failed to write membership: %v", err)
	}

	return true, nil
}

// Remove revokes the membership of the identity for the role. It returns
// false when the identity was not a member.
func (srvc Service) Remove(snap store.Snapshot, role Role, ident access.Identity) (bool, error) {
	key, err := memberKey(role, ident)
	if err != nil {
		return false, err
	}

	value, err := snap.Get(key)
	if err != nil {
		return false, xerrors.Errorf("failed to read membership: %v", err)
	}

	if len(value) == 0 {
		return false, nil
	}

	err = snap.Delete(key)
	if err != nil {
		return false, xerrors.Errorf("failed to delete membership: %v", err)
	}

	return true, nil
}

// AdminOf returns the admin role of the given role.
func (srvc Service) AdminOf(snap store.Readable, role Role) (Role, error) {
	value, err := prefixed.NewReadable(adminPrefix, snap).Get(roleKey(role))
	if err != nil {
		return DefaultAdmin, xerrors.Errorf("failed to read admin role: %v", err)
	}

	if len(value) != 4 {
		return DefaultAdmin, nil
	}

	return Role(binary.BigEndian.Uint32(value)), nil
}

// SetAdmin reassigns the admin role of the given role.
func (srvc Service) SetAdmin(snap store.Snapshot, role Role, admin Role) error {
	err := prefixed.NewSnapshot(adminPrefix, snap).Set(roleKey(role), roleKey(admin))
	if err != nil {
		return xerrors.Errorf("failed to write admin role: %v", err)
	}

	return nil
}

// Match implements access.Service. It returns nil when all the identities
// are members of the role encoded in the credential.
func (srvc Service) Match(snap store.Readable, creds access.Credential, idents ...access.Identity) error {
	role, err := roleOf(creds)
	if err != nil {
		return err
	}

	for _, ident := range idents {
		ok, err := srvc.Has(snap, role, ident)
		if err != nil {
			return err
		}

		if !ok {
			text, _ := ident.MarshalText()
			return xerrors.Errorf("%v is missing %v", string(text), role)
		}
	}

	return nil
}

// Grant implements access.Service. It makes the identities members of the
// role encoded in the credential.
func (srvc Service) Grant(snap store.Snapshot, creds access.Credential, idents ...access.Identity) error {
	role, err := roleOf(creds)
	if err != nil {
		return err
	}

	for _, ident := range idents {
		_, err := srvc.Add(snap, role, ident)
		if err != nil {
			return err
		}
	}

	return nil
}

// NewRoleCreds creates the credential matched by the members of a role.
func NewRoleCreds(role Role) access.Credential {
	return access.NewContractCreds(roleKey(role), "rbac", role.String())
}

func roleOf(creds access.Credential) (Role, error) {
	id := creds.GetID()
	if len(id) != 4 {
		return DefaultAdmin, xerrors.Errorf("invalid role credential '%x'", id)
	}

	return Role(binary.BigEndian.Uint32(id)), nil
}

func roleKey(role Role) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(role))

	return key
}

func memberKey(role Role, ident access.Identity) ([]byte, error) {
	text, err := ident.MarshalText()
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal identity: %v", err)
	}

	key := append(roleKey(role), text...)

	return prefixed.NewPrefixedKey([]byte(memberPrefix), key), nil
}
