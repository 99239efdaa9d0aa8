// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	ErrClosed      = common.ConstError("database is closed")
	ErrTxFinished  = common.ConstError("transaction already committed or rolled back")
	ErrInvalidData = common.ConstError("invalid data in database")
)

// levelDB contains methods common for the LevelDB instance, its snapshots and
// its transactions.
type levelDB interface {
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)
	Has(key []byte, ro *opt.ReadOptions) (bool, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// Reader is the read capability shared by read-only and read-write transactions.
type Reader interface {
	// Get returns the value of the given key, or false if there is none.
	Get(key []byte) ([]byte, bool, error)
	Has(key []byte) (bool, error)
	// NewIterator iterates all entries with the given key prefix in key
	// order. The iterator must be released after use.
	NewIterator(prefix []byte) iterator.Iterator
}

// Database is a LevelDB instance holding all tables of the persistence layer.
// At most one read-write transaction is open at any time; additional calls to
// BeginRw block until the open transaction is finished. Read-only
// transactions run on snapshots and never block.
type Database struct {
	db     *leveldb.DB
	mu     sync.Mutex
	closed bool
}

// Open opens or creates the database in the given directory.
func Open(directory string) (*Database, error) {
	db, err := leveldb.OpenFile(directory, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database in %s: %w", directory, err)
	}
	return &Database{db: db}, nil
}

// OpenInMemory creates an empty database backed by memory only.
func OpenInMemory() (*Database, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// BeginRw starts a read-write transaction. Its writes become visible
// atomically on Commit.
func (d *Database) BeginRw() (*RwTx, error) {
	if d.isClosed() {
		return nil, ErrClosed
	}
	tx, err := d.db.OpenTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction: %w", err)
	}
	return &RwTx{reader: reader{tx}, tx: tx}, nil
}

// BeginRo starts a read-only transaction on a snapshot of the committed state.
func (d *Database) BeginRo() (*RoTx, error) {
	if d.isClosed() {
		return nil, ErrClosed
	}
	snapshot, err := d.db.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &RoTx{reader: reader{snapshot}, snapshot: snapshot}, nil
}

func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

type reader struct {
	db levelDB
}

func (r reader) Get(key []byte) ([]byte, bool, error) {
	value, err := r.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r reader) Has(key []byte) (bool, error) {
	return r.db.Has(key, nil)
}

func (r reader) NewIterator(prefix []byte) iterator.Iterator {
	return r.db.NewIterator(util.BytesPrefix(prefix), nil)
}

// Count returns the number of entries with the given key prefix.
func (r reader) Count(prefix []byte) (int, error) {
	it := r.NewIterator(prefix)
	defer it.Release()
	count := 0
	for it.Next() {
		count++
	}
	return count, it.Error()
}

// RoTx is a read-only transaction on a consistent snapshot of the database.
type RoTx struct {
	reader
	snapshot *leveldb.Snapshot
}

// Rollback releases the underlying snapshot. It is safe to call it more than once.
func (t *RoTx) Rollback() {
	t.snapshot.Release()
}

// RwTx is a read-write transaction. Reads observe the transaction's own writes.
type RwTx struct {
	reader
	tx       *leveldb.Transaction
	finished bool
}

func (t *RwTx) Put(key, value []byte) error {
	if t.finished {
		return ErrTxFinished
	}
	return t.tx.Put(key, value, nil)
}

func (t *RwTx) Delete(key []byte) error {
	if t.finished {
		return ErrTxFinished
	}
	return t.tx.Delete(key, nil)
}

// DeletePrefix removes all entries with the given key prefix.
func (t *RwTx) DeletePrefix(prefix []byte) error {
	if t.finished {
		return ErrTxFinished
	}
	var keys [][]byte
	it := t.NewIterator(prefix)
	for it.Next() {
		keys = append(keys, append([]byte(nil), it.Key()...))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}
	for _, key := range keys {
		if err := t.tx.Delete(key, nil); err != nil {
			return err
		}
	}
	return nil
}

// Commit makes all writes of the transaction durable and visible.
func (t *RwTx) Commit() error {
	if t.finished {
		return ErrTxFinished
	}
	t.finished = true
	if err := t.tx.Commit(); err != nil {
		t.tx.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards all writes of the transaction. It is a no-op after Commit.
func (t *RwTx) Rollback() {
	if t.finished {
		return
	}
	t.finished = true
	t.tx.Discard()
}
