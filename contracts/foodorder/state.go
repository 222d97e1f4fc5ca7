package foodorder

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/chainkitchen/foodchain/core/store"
	"golang.org/x/xerrors"
)

// The entity kinds stored by the contract. The kind names both the record
// keyspace and the sequence counter of an entity.
const (
	kindCourier    = "courier"
	kindCustomer   = "customer"
	kindRestaurant = "restaurant"
	kindFood       = "food"
	kindOrder      = "order"
	kindDelivery   = "delivery"
)

// state wraps a snapshot with the key layout of the contract. Every helper
// returns storage failures wrapped, and reports a missing record with a
// boolean instead of an error so that the commands decide which failures
// are domain errors.
type state struct {
	snap store.Snapshot
}

func newState(snap store.Snapshot) state {
	return state{snap: snap}
}

func seqKey(kind string) []byte {
	return []byte("seq:" + kind)
}

func recordKey(kind string, id uint64) []byte {
	return append([]byte(kind+":"), encodeID(id)...)
}

func acctKey(kind string, acct string) []byte {
	return []byte(kind + ":acct:" + acct)
}

func listKey(kind string, id uint64, what string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s", kind, id, what))
}

func activeKey(courierID uint64) []byte {
	return []byte(fmt.Sprintf("courier:active:%d", courierID))
}

func creditKey(acct string) []byte {
	return []byte("credit:" + acct)
}

func encodeID(id uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, id)

	return buffer
}

// nextID allocates the next sequential id of the kind. Identifiers start
// at 1 so that zero always means "not assigned".
func (s state) nextID(kind string) (uint64, error) {
	id, err := s.peekID(kind)
	if err != nil {
		return 0, err
	}

	err = s.snap.Set(seqKey(kind), encodeID(id+1))
	if err != nil {
		return 0, xerrors.Errorf("failed to write sequence of '%s': %v", kind, err)
	}

	return id, nil
}

// peekID returns the id the next allocation of the kind will get.
func (s state) peekID(kind string) (uint64, error) {
	value, err := s.snap.Get(seqKey(kind))
	if err != nil {
		return 0, xerrors.Errorf("failed to read sequence of '%s': %v", kind, err)
	}

	if len(value) != 8 {
		return 1, nil
	}

	return binary.BigEndian.Uint64(value), nil
}

func (s state) putRecord(kind string, id uint64, record interface{}) error {
	buffer, err := json.Marshal(record)
	if err != nil {
		return xerrors.Errorf("failed to marshal %s: %v", kind, err)
	}

	err = s.snap.Set(recordKey(kind, id), buffer)
	if err != nil {
		return xerrors.Errorf("failed to write %s: %v", kind, err)
	}

	return nil
}

func (s state) getRecord(kind string, id uint64, record interface{}) (bool, error) {
	value, err := s.snap.Get(recordKey(kind, id))
	if err != nil {
		return false, xerrors.Errorf("failed to read %s: %v", kind, err)
	}

	if len(value) == 0 {
		return false, nil
	}

	err = json.Unmarshal(value, record)
	if err != nil {
		return false, xerrors.Errorf("failed to unmarshal %s: %v", kind, err)
	}

	return true, nil
}

func (s state) deleteRecord(kind string, id uint64) error {
	err := s.snap.Delete(recordKey(kind, id))
	if err != nil {
		return xerrors.Errorf("failed to delete %s: %v", kind, err)
	}

	return nil
}

// setAccountID indexes the profile id owned by the account.
func (s state) setAccountID(kind string, acct string, id uint64) error {
	err := s.snap.Set(acctKey(kind, acct), encodeID(id))
	if err != nil {
		return xerrors.Errorf("failed to index %s account: %v", kind, err)
	}

	return nil
}

// getAccountID returns the profile id owned by the account, if any.
func (s state) getAccountID(kind string, acct string) (uint64, bool, error) {
	value, err := s.snap.Get(acctKey(kind, acct))
	if err != nil {
		return 0, false, xerrors.Errorf("failed to read %s account: %v", kind, err)
	}

	if len(value) != 8 {
		return 0, false, nil
	}

	return binary.BigEndian.Uint64(value), true, nil
}

func (s state) deleteAccountID(kind string, acct string) error {
	err := s.snap.Delete(acctKey(kind, acct))
	if err != nil {
		return xerrors.Errorf("failed to delete %s account: %v", kind, err)
	}

	return nil
}

// getIDList returns the id list stored under the key, or an empty list.
func (s state) getIDList(key []byte) ([]uint64, error) {
	value, err := s.snap.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("failed to read id list: %v", err)
	}

	if len(value) == 0 {
		return nil, nil
	}

	var ids []uint64

	err = json.Unmarshal(value, &ids)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal id list: %v", err)
	}

	return ids, nil
}

func (s state) appendIDList(key []byte, id uint64) error {
	ids, err := s.getIDList(key)
	if err != nil {
		return err
	}

	buffer, err := json.Marshal(append(ids, id))
	if err != nil {
		return xerrors.Errorf("failed to marshal id list: %v", err)
	}

	err = s.snap.Set(key, buffer)
	if err != nil {
		return xerrors.Errorf("failed to write id list: %v", err)
	}

	return nil
}

// removeIDList takes the id out of the list stored under the key. The key
// is deleted once the list is empty.
func (s state) removeIDList(key []byte, id uint64) error {
	ids, err := s.getIDList(key)
	if err != nil {
		return err
	}

	kept := ids[:0]

	for _, entry := range ids {
		if entry != id {
			kept = append(kept, entry)
		}
	}

	if len(kept) == 0 {
		err = s.snap.Delete(key)
		if err != nil {
			return xerrors.Errorf("failed to delete id list: %v", err)
		}

		return nil
	}

	buffer, err := json.Marshal(kept)
	if err != nil {
		return xerrors.Errorf("failed to marshal id list: %v", err)
	}

	err = s.snap.Set(key, buffer)
	if err != nil {
		return xerrors.Errorf("failed to write id list: %v", err)
	}

	return nil
}

// getU64 reads a big-endian counter, zero when absent.
func (s state) getU64(key []byte) (uint64, error) {
	value, err := s.snap.Get(key)
	if err != nil {
		return 0, xerrors.Errorf("failed to read counter: %v", err)
	}

	if len(value) != 8 {
		return 0, nil
	}

	return binary.BigEndian.Uint64(value), nil
}

func (s state) setU64(key []byte, value uint64) error {
	err := s.snap.Set(key, encodeID(value))
	if err != nil {
		return xerrors.Errorf("failed to write counter: %v", err)
	}

	return nil
}

// credit adds the amount to the settlement balance of the account. The
// balance records what the platform owes until the funds leave the chain,
// which is outside the contract.
func (s state) credit(acct string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	balance, err := s.getU64(creditKey(acct))
	if err != nil {
		return err
	}

	return s.setU64(creditKey(acct), balance+amount)
}
