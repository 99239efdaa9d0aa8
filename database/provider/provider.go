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

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	ErrNonContiguousBlock = common.ConstError("block is not the successor of the last stored block")
	ErrParentMismatch     = common.ConstError("parent hash does not match the last stored block")
	ErrDuplicateBlock     = common.ConstError("block is already stored")
	ErrDuplicateChangeSet = common.ConstError("changes of block are already stored")
	ErrMissingRecord      = common.ConstError("missing record in database")
)

// Factory creates providers, transactional views on the database.
type Factory struct {
	db *ldb.Database
}

func NewFactory(db *ldb.Database) *Factory {
	return &Factory{db: db}
}

// ProviderRW opens a read-write provider. Only one is open at any time;
// further calls block until it is committed or rolled back.
func (f *Factory) ProviderRW() (*ProviderRW, error) {
	tx, err := f.db.BeginRw()
	if err != nil {
		return nil, err
	}
	return &ProviderRW{reader: reader{tx}, tx: tx}, nil
}

// ProviderRO opens a read-only provider on a snapshot of the committed state.
func (f *Factory) ProviderRO() (*ProviderRO, error) {
	tx, err := f.db.BeginRo()
	if err != nil {
		return nil, err
	}
	return &ProviderRO{reader: reader{tx}, tx: tx}, nil
}

// ProviderRO provides read access to a consistent snapshot of the database.
type ProviderRO struct {
	reader
	tx *ldb.RoTx
}

// Close releases the snapshot. Cursors obtained from the provider must be
// closed before.
func (p *ProviderRO) Close() {
	p.tx.Rollback()
}

// ProviderRW provides write access to the database. All writes become
// visible atomically on Commit, or are discarded on Rollback.
type ProviderRW struct {
	reader
	tx *ldb.RwTx
}

func (p *ProviderRW) Commit() error {
	return p.tx.Commit()
}

// Rollback discards all writes. It is a no-op after Commit.
func (p *ProviderRW) Rollback() {
	p.tx.Rollback()
}

// reader implements the read operations shared by both provider kinds.
type reader struct {
	db ldb.Reader
}

// blockRecord is the stored form of a block with its senders.
type blockRecord struct {
	Block   chain.Block
	Senders []common.Address
}

func (r reader) getRecord(key []byte, record any) (bool, error) {
	data, found, err := r.db.Get(key)
	if err != nil || !found {
		return false, err
	}
	if err := rlp.DecodeBytes(data, record); err != nil {
		return false, fmt.Errorf("%w: invalid record %x: %v", ldb.ErrInvalidData, key, err)
	}
	return true, nil
}

// LastBlock returns the number and hash of the highest stored block.
func (r reader) LastBlock() (uint64, common.Hash, bool, error) {
	it := r.db.NewIterator(ldb.ToDBKey(ldb.BlockKey))
	defer it.Release()
	if !it.Last() {
		return 0, common.Hash{}, false, it.Error()
	}
	var record blockRecord
	if err := rlp.DecodeBytes(it.Value(), &record); err != nil {
		return 0, common.Hash{}, false, fmt.Errorf("%w: invalid block record: %v", ldb.ErrInvalidData, err)
	}
	return record.Block.Number(), record.Block.Header.Hash(), true, nil
}

// FirstBlock returns the number of the lowest stored block.
func (r reader) FirstBlock() (uint64, bool, error) {
	prefix := ldb.ToDBKey(ldb.BlockKey)
	it := r.db.NewIterator(prefix)
	defer it.Release()
	if !it.First() {
		return 0, false, it.Error()
	}
	if len(it.Key()) != len(prefix)+len(ldb.BlockNumberBytes(0)) {
		return 0, false, fmt.Errorf("%w: invalid block key %x", ldb.ErrInvalidData, it.Key())
	}
	return ldb.ParseBlockNumber(it.Key()[len(prefix):]), true, nil
}

// BlockByNumber returns the stored block with the given number, if any.
func (r reader) BlockByNumber(number uint64) (*chain.SealedBlockWithSenders, bool, error) {
	var record blockRecord
	found, err := r.getRecord(ldb.BlockNumberKey(ldb.BlockKey, number), &record)
	if err != nil || !found {
		return nil, false, err
	}
	return &chain.SealedBlockWithSenders{
		SealedBlock: chain.Seal(record.Block),
		Senders:     record.Senders,
	}, true, nil
}

// BlockNumber returns the number of the stored block with the given hash, if any.
func (r reader) BlockNumber(hash common.Hash) (uint64, bool, error) {
	data, found, err := r.db.Get(ldb.ToDBKey(ldb.BlockHashKey, hash[:]))
	if err != nil || !found {
		return 0, false, err
	}
	return ldb.ParseBlockNumber(data), true, nil
}

// ExecutionOutcome returns the stored outcome of the given block, if any.
func (r reader) ExecutionOutcome(number uint64) (*chain.ExecutionOutcome, bool, error) {
	res := &chain.ExecutionOutcome{}
	found, err := r.getRecord(ldb.BlockNumberKey(ldb.OutcomeKey, number), res)
	if err != nil || !found {
		return nil, false, err
	}
	return res, true, nil
}

// HashedPostState returns the stored hashed post state of the given block, if any.
func (r reader) HashedPostState(number uint64) (*chain.HashedPostState, bool, error) {
	res := &chain.HashedPostState{}
	found, err := r.getRecord(ldb.BlockNumberKey(ldb.HashedStateKey, number), res)
	if err != nil || !found {
		return nil, false, err
	}
	return res, true, nil
}

// PlainAccount returns the current state of the given account, nil if it
// does not exist.
func (r reader) PlainAccount(addr common.Address) (*chain.Account, error) {
	return r.account(ldb.ToDBKey(ldb.PlainAccountKey, addr[:]))
}

func (r reader) PlainStorage(addr common.Address, key common.Key) (common.Value, error) {
	return r.value(ldb.PlainStorageSlotKey(addr, key))
}

// HashedAccount returns the current state of the account with the given
// hashed address, nil if it does not exist.
func (r reader) HashedAccount(hash common.Hash) (*chain.Account, error) {
	return r.account(ldb.ToDBKey(ldb.HashedAccountKey, hash[:]))
}

func (r reader) HashedStorage(hash common.Hash, slot common.Hash) (common.Value, error) {
	return r.value(ldb.HashedStorageSlotKey(hash, slot))
}

func (r reader) account(key []byte) (*chain.Account, error) {
	res := &chain.Account{}
	found, err := r.getRecord(key, res)
	if err != nil || !found {
		return nil, err
	}
	return res, nil
}

func (r reader) value(key []byte) (common.Value, error) {
	var res common.Value
	data, found, err := r.db.Get(key)
	if err != nil || !found {
		return res, err
	}
	if len(data) != len(res) {
		return res, fmt.Errorf("%w: invalid value size %d for %x", ldb.ErrInvalidData, len(data), key)
	}
	copy(res[:], data)
	return res, nil
}

// TrieCursorFactory creates cursors over the durable account and storage
// tries. Cursors must be closed before the provider is finished.
func (r reader) TrieCursorFactory() trie.CursorFactory {
	return ldb.NewTrieCursorFactory(r.db)
}
