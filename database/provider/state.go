// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package provider

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/ethereum/go-ethereum/rlp"
)

// WriteExecutionOutcome stores the outcome of the given block and applies its
// state diff to the plain state, recording the prior values in the block's
// change sets.
func (p *ProviderRW) WriteExecutionOutcome(number uint64, outcome *chain.ExecutionOutcome) error {
	if err := p.putBlockRecord(ldb.OutcomeKey, number, outcome); err != nil {
		return err
	}
	accounts := p.plainAccounts(number)
	storage := p.plainStorage(number)
	for _, change := range outcome.Accounts {
		if change.Info == nil || change.StorageWiped {
			if err := storage.deletePrefix(change.Address[:]); err != nil {
				return err
			}
		}
		if err := accounts.putAccount(change.Address[:], change.Info); err != nil {
			return err
		}
	}
	for _, change := range outcome.Storage {
		if err := storage.putValue(ldb.PlainStorageSlotKey(change.Address, change.Key)[1:], change.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteHashedState stores the hashed post state of the given block and
// applies it to the hashed state, recording the prior values in the block's
// hashed change sets.
func (p *ProviderRW) WriteHashedState(number uint64, state *chain.HashedPostState) error {
	if err := p.putBlockRecord(ldb.HashedStateKey, number, state); err != nil {
		return err
	}
	accounts := p.hashedAccounts(number)
	storage := p.hashedStorage(number)
	for _, account := range state.Accounts {
		if err := accounts.putAccount(account.Hash[:], account.Info); err != nil {
			return err
		}
	}
	for _, entry := range state.Storages {
		if entry.Wiped {
			if err := storage.deletePrefix(entry.Hash[:]); err != nil {
				return err
			}
		}
		for _, slot := range entry.Slots {
			if err := storage.putValue(ldb.HashedStorageSlotKey(entry.Hash, slot.Slot)[1:], slot.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *ProviderRW) putBlockRecord(table ldb.TableSpace, number uint64, record any) error {
	key := ldb.BlockNumberKey(table, number)
	if exists, err := p.tx.Has(key); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: %v of block %d", ErrDuplicateChangeSet, table, number)
	}
	data, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("failed to encode %v of block %d: %w", table, number, err)
	}
	return p.tx.Put(key, data)
}

// revertState restores the plain and hashed state to the values before the
// given block and removes the block's change sets.
func (p *ProviderRW) revertState(number uint64) error {
	for _, tracker := range p.changeTrackers(number) {
		if err := tracker.revert(); err != nil {
			return fmt.Errorf("failed to revert %v of block %d: %w", tracker.changes, number, err)
		}
	}
	return nil
}

func (p *ProviderRW) plainAccounts(number uint64) changeTracker {
	return changeTracker{p.tx, ldb.PlainAccountKey, ldb.AccountChangeSetKey, number}
}

func (p *ProviderRW) plainStorage(number uint64) changeTracker {
	return changeTracker{p.tx, ldb.PlainStorageKey, ldb.StorageChangeSetKey, number}
}

func (p *ProviderRW) hashedAccounts(number uint64) changeTracker {
	return changeTracker{p.tx, ldb.HashedAccountKey, ldb.HashedAccountChangeSetKey, number}
}

func (p *ProviderRW) hashedStorage(number uint64) changeTracker {
	return changeTracker{p.tx, ldb.HashedStorageKey, ldb.HashedStorageChangeSetKey, number}
}

func (p *ProviderRW) changeTrackers(number uint64) []changeTracker {
	return []changeTracker{
		p.plainAccounts(number),
		p.plainStorage(number),
		p.hashedAccounts(number),
		p.hashedStorage(number),
	}
}

// changeTracker applies writes to a state table and records the value before
// the block in the block's change set. An empty prior value marks an absent
// entry. Only the first prior value of a key within a block is recorded.
type changeTracker struct {
	tx      *ldb.RwTx
	state   ldb.TableSpace
	changes ldb.TableSpace
	number  uint64
}

func (c changeTracker) changeSetPrefix() []byte {
	return ldb.BlockNumberKey(c.changes, c.number)
}

func (c changeTracker) recordPrior(key []byte) error {
	changeKey := append(c.changeSetPrefix(), key...)
	if exists, err := c.tx.Has(changeKey); err != nil || exists {
		return err
	}
	prior, _, err := c.tx.Get(ldb.ToDBKey(c.state, key))
	if err != nil {
		return err
	}
	return c.tx.Put(changeKey, prior)
}

func (c changeTracker) put(key, value []byte) error {
	if err := c.recordPrior(key); err != nil {
		return err
	}
	return c.tx.Put(ldb.ToDBKey(c.state, key), value)
}

func (c changeTracker) delete(key []byte) error {
	if err := c.recordPrior(key); err != nil {
		return err
	}
	return c.tx.Delete(ldb.ToDBKey(c.state, key))
}

// putAccount stores the given account, or deletes it if nil.
func (c changeTracker) putAccount(key []byte, account *chain.Account) error {
	if account == nil {
		return c.delete(key)
	}
	data, err := rlp.EncodeToBytes(account)
	if err != nil {
		return err
	}
	return c.put(key, data)
}

// putValue stores the given value, or deletes the slot if it is zero.
func (c changeTracker) putValue(key []byte, value common.Value) error {
	if value == (common.Value{}) {
		return c.delete(key)
	}
	return c.put(key, value[:])
}

// deletePrefix deletes all state entries whose key starts with the given prefix.
func (c changeTracker) deletePrefix(prefix []byte) error {
	keys, err := collectKeys(c.tx, ldb.ToDBKey(c.state, prefix), 1)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.delete(key); err != nil {
			return err
		}
	}
	return nil
}

// modifiedKeys lists the state keys changed by the block.
func (c changeTracker) modifiedKeys() ([][]byte, error) {
	return collectKeys(c.tx, c.changeSetPrefix(), len(c.changeSetPrefix()))
}

func (c changeTracker) revert() error {
	prefix := c.changeSetPrefix()
	it := c.tx.NewIterator(prefix)
	type change struct{ key, prior []byte }
	var changes []change
	for it.Next() {
		changes = append(changes, change{
			key:   slices.Clone(it.Key()[len(prefix):]),
			prior: slices.Clone(it.Value()),
		})
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}
	for _, change := range changes {
		var err error
		if len(change.prior) == 0 {
			err = c.tx.Delete(ldb.ToDBKey(c.state, change.key))
		} else {
			err = c.tx.Put(ldb.ToDBKey(c.state, change.key), change.prior)
		}
		if err != nil {
			return err
		}
	}
	return c.tx.DeletePrefix(prefix)
}

// collectKeys lists all keys with the given prefix, stripping the first skip bytes.
func collectKeys(r ldb.Reader, prefix []byte, skip int) ([][]byte, error) {
	it := r.NewIterator(prefix)
	defer it.Release()
	var res [][]byte
	for it.Next() {
		res = append(res, slices.Clone(it.Key()[skip:]))
	}
	return res, it.Error()
}
