// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

// Account is the plain state of an account.
type Account struct {
	Nonce    uint64
	Balance  common.Balance
	CodeHash common.Hash
}

type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

type Receipt struct {
	Success bool
	GasUsed uint64
	Logs    []Log
}

// AccountChange is the post-execution state of a modified account. A nil Info
// marks a destroyed account.
type AccountChange struct {
	Address      common.Address
	Info         *Account `rlp:"nil"`
	StorageWiped bool
}

// StorageChange is the post-execution value of a storage slot. The zero value
// marks a cleared slot.
type StorageChange struct {
	Address common.Address
	Key     common.Key
	Value   common.Value
}

// ExecutionOutcome is the state diff and the receipts produced by executing
// a block.
type ExecutionOutcome struct {
	Accounts []AccountChange
	Storage  []StorageChange
	Receipts []Receipt
}

func (o *ExecutionOutcome) Clone() *ExecutionOutcome {
	if o == nil {
		return nil
	}
	res := &ExecutionOutcome{
		Accounts: slices.Clone(o.Accounts),
		Storage:  slices.Clone(o.Storage),
	}
	for i, change := range res.Accounts {
		if change.Info != nil {
			info := *change.Info
			res.Accounts[i].Info = &info
		}
	}
	if o.Receipts != nil {
		res.Receipts = make([]Receipt, len(o.Receipts))
		for i, receipt := range o.Receipts {
			res.Receipts[i] = Receipt{Success: receipt.Success, GasUsed: receipt.GasUsed}
			if receipt.Logs != nil {
				res.Receipts[i].Logs = make([]Log, len(receipt.Logs))
				for j, log := range receipt.Logs {
					res.Receipts[i].Logs[j] = Log{
						Address: log.Address,
						Topics:  slices.Clone(log.Topics),
						Data:    slices.Clone(log.Data),
					}
				}
			}
		}
	}
	return res
}

// HashedAccount is the post-execution state of an account addressed by its
// hashed address. A nil Info marks a destroyed account.
type HashedAccount struct {
	Hash common.Hash
	Info *Account `rlp:"nil"`
}

type HashedSlot struct {
	Slot  common.Hash
	Value common.Value
}

// HashedStorage lists the modified slots of an account addressed by its
// hashed address. If Wiped is set, all prior slots are cleared first.
type HashedStorage struct {
	Hash  common.Hash
	Wiped bool
	Slots []HashedSlot
}

// HashedPostState is the state diff of a block in hashed form, the input of
// trie computations.
type HashedPostState struct {
	Accounts []HashedAccount
	Storages []HashedStorage
}

// HashState derives the hashed post state of the given outcome.
func HashState(outcome *ExecutionOutcome) *HashedPostState {
	res := &HashedPostState{}
	storages := map[common.Address]int{}
	storageOf := func(addr common.Address) *HashedStorage {
		pos, found := storages[addr]
		if !found {
			pos = len(res.Storages)
			storages[addr] = pos
			res.Storages = append(res.Storages, HashedStorage{Hash: common.Keccak256ForAddress(addr)})
		}
		return &res.Storages[pos]
	}
	for _, change := range outcome.Accounts {
		account := HashedAccount{Hash: common.Keccak256ForAddress(change.Address)}
		if change.Info != nil {
			info := *change.Info
			account.Info = &info
		}
		res.Accounts = append(res.Accounts, account)
		if change.StorageWiped || change.Info == nil {
			storageOf(change.Address).Wiped = true
		}
	}
	for _, change := range outcome.Storage {
		storage := storageOf(change.Address)
		storage.Slots = append(storage.Slots, HashedSlot{
			Slot:  common.Keccak256ForKey(change.Key),
			Value: change.Value,
		})
	}
	return res
}

func (s *HashedPostState) Clone() *HashedPostState {
	if s == nil {
		return nil
	}
	res := &HashedPostState{Accounts: slices.Clone(s.Accounts)}
	for i, account := range res.Accounts {
		if account.Info != nil {
			info := *account.Info
			res.Accounts[i].Info = &info
		}
	}
	if s.Storages != nil {
		res.Storages = make([]HashedStorage, len(s.Storages))
		for i, storage := range s.Storages {
			res.Storages[i] = HashedStorage{
				Hash:  storage.Hash,
				Wiped: storage.Wiped,
				Slots: slices.Clone(storage.Slots),
			}
		}
	}
	return res
}
