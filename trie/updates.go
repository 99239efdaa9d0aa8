// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import (
	"fmt"
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"golang.org/x/exp/maps"
)

// ErrStorageTrieUpdate is reported for updates targeting a complete storage
// trie. Storage tries can only be deleted as a whole.
const ErrStorageTrieUpdate = common.ConstError("storage tries can only be deleted as a whole")

// TrieUpdates aggregates the node-level changes produced by recomputing the
// trie after executing one block or a range of blocks. There is at most one
// pending operation per key; later operations replace earlier ones.
//
// A typical life cycle looks like this:
//
//	// Collect the changes of a trie computation.
//	updates := TrieUpdates{}
//	updates.FinalizeStorageUpdates(account, deleted, storageNodes)
//	updates.FinalizeStateUpdates(deleted, accountNodes, destroyed)
//	// Either overlay the changes over the durable trie ...
//	factory := NewInMemoryCursorFactory(durable, updates.Sorted())
//	// ... or write them to the durable trie.
//	err := updates.Flush(writer)
//
// The zero value is an empty set of updates ready to use. TrieUpdates are
// not safe for concurrent use; the sorted snapshot is.
type TrieUpdates struct {
	operations map[TrieKey]TrieOp
}

// NewTrieUpdates creates a set of updates from the given entries, applied in order.
func NewTrieUpdates(entries ...TrieEntry) *TrieUpdates {
	res := &TrieUpdates{}
	res.Extend(entries...)
	return res
}

func (u *TrieUpdates) Len() int {
	if u == nil {
		return 0
	}
	return len(u.operations)
}

func (u *TrieUpdates) IsEmpty() bool {
	return u.Len() == 0
}

// Get returns the pending operation for the given key, if any.
func (u *TrieUpdates) Get(key TrieKey) (TrieOp, bool) {
	if u == nil {
		return TrieOp{}, false
	}
	op, found := u.operations[key]
	return op, found
}

// Extend merges the given entries into this set of updates, later entries
// overriding earlier ones for the same key. A deletion of a complete storage
// trie additionally supersedes all pending node operations of that storage
// trie, since the removal clears them in any case.
func (u *TrieUpdates) Extend(entries ...TrieEntry) {
	if len(entries) == 0 {
		return
	}
	if u.operations == nil {
		u.operations = make(map[TrieKey]TrieOp, len(entries))
	}
	for _, entry := range entries {
		if entry.Key.kind == StorageTrieKind && entry.Op.IsDelete() {
			u.dropStorageNodes(entry.Key.account)
		}
		u.operations[entry.Key] = entry.Op
	}
}

func (u *TrieUpdates) dropStorageNodes(account common.Hash) {
	for key := range u.operations {
		if key.kind == StorageNodeKind && key.account == account {
			delete(u.operations, key)
		}
	}
}

// Merge adds all updates of the given set to this set, as if the operations
// of other had been performed after the operations of this set.
func (u *TrieUpdates) Merge(other *TrieUpdates) {
	if other == nil {
		return
	}
	// Sorted order places storage trie removals before storage nodes, which
	// keeps nodes of re-created storage tries alive.
	u.Extend(other.Sorted().trieOperations...)
}

// ExtendWithAccountUpdates adds the given account trie nodes as updates.
func (u *TrieUpdates) ExtendWithAccountUpdates(nodes map[Nibbles]BranchNodeCompact) {
	entries := make([]TrieEntry, 0, len(nodes))
	for path, node := range nodes {
		entries = append(entries, TrieEntry{AccountNode(path), UpdateOp(node)})
	}
	u.Extend(entries...)
}

// FinalizeStateUpdates merges the results of a state trie computation: the
// keys deleted while walking the existing trie, the nodes emitted by the
// hash builder, and the storage tries of destroyed accounts, in this order.
func (u *TrieUpdates) FinalizeStateUpdates(
	walkerDeleted []TrieKey,
	hashBuilderUpdates map[Nibbles]BranchNodeCompact,
	destroyedAccounts []common.Hash,
) {
	u.extendWithDeletions(walkerDeleted)
	u.ExtendWithAccountUpdates(hashBuilderUpdates)
	entries := make([]TrieEntry, 0, len(destroyedAccounts))
	for _, account := range destroyedAccounts {
		entries = append(entries, TrieEntry{StorageTrie(account), DeleteOp()})
	}
	u.Extend(entries...)
}

// FinalizeStorageUpdates merges the results of the storage trie computation
// of a single account.
func (u *TrieUpdates) FinalizeStorageUpdates(
	account common.Hash,
	walkerDeleted []TrieKey,
	hashBuilderUpdates map[Nibbles]BranchNodeCompact,
) {
	u.extendWithDeletions(walkerDeleted)
	entries := make([]TrieEntry, 0, len(hashBuilderUpdates))
	for path, node := range hashBuilderUpdates {
		entries = append(entries, TrieEntry{StorageNode(account, path), UpdateOp(node)})
	}
	u.Extend(entries...)
}

func (u *TrieUpdates) extendWithDeletions(keys []TrieKey) {
	entries := make([]TrieEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, TrieEntry{key, DeleteOp()})
	}
	u.Extend(entries...)
}

// Check verifies that all pending operations can be flushed.
func (u *TrieUpdates) Check() error {
	if u == nil {
		return nil
	}
	for key, op := range u.operations {
		if key.kind == StorageTrieKind && op.IsUpdate() {
			return fmt.Errorf("%w: %v", ErrStorageTrieUpdate, key)
		}
	}
	return nil
}

// Clone creates an independent copy of this set. Nodes are shared, which is
// fine as long as nobody modifies them.
func (u *TrieUpdates) Clone() *TrieUpdates {
	if u == nil {
		return nil
	}
	return &TrieUpdates{operations: maps.Clone(u.operations)}
}

// Sorted creates a sorted snapshot of the current updates. The receiver
// remains unchanged.
func (u *TrieUpdates) Sorted() *TrieUpdatesSorted {
	if u == nil {
		return &TrieUpdatesSorted{}
	}
	return newTrieUpdatesSorted(u.operations)
}

// IntoSorted converts the updates into a sorted snapshot, leaving the
// receiver empty.
func (u *TrieUpdates) IntoSorted() *TrieUpdatesSorted {
	res := newTrieUpdatesSorted(u.operations)
	u.operations = nil
	return res
}

// Flush writes all updates to the given writer, in key order.
func (u *TrieUpdates) Flush(writer Writer) error {
	if u.IsEmpty() {
		return nil
	}
	return u.Sorted().Flush(writer)
}

func (u *TrieUpdates) String() string {
	return fmt.Sprintf("TrieUpdates(%d)", u.Len())
}

// TrieUpdatesSorted is an immutable snapshot of trie updates sorted by key.
// It may be shared by any number of concurrently used cursors.
type TrieUpdatesSorted struct {
	trieOperations []TrieEntry
}

func newTrieUpdatesSorted(operations map[TrieKey]TrieOp) *TrieUpdatesSorted {
	keys := maps.Keys(operations)
	slices.SortFunc(keys, TrieKey.Compare)
	entries := make([]TrieEntry, len(keys))
	for i, key := range keys {
		entries[i] = TrieEntry{key, operations[key]}
	}
	return &TrieUpdatesSorted{trieOperations: entries}
}

func (s *TrieUpdatesSorted) Len() int {
	if s == nil {
		return 0
	}
	return len(s.trieOperations)
}

func (s *TrieUpdatesSorted) At(i int) TrieEntry {
	return s.trieOperations[i]
}

// Entries returns a copy of the sorted entries.
func (s *TrieUpdatesSorted) Entries() []TrieEntry {
	if s == nil {
		return nil
	}
	return slices.Clone(s.trieOperations)
}

// lowerBound returns the index of the first entry with a key >= key.
func (s *TrieUpdatesSorted) lowerBound(key TrieKey) int {
	if s == nil {
		return 0
	}
	pos, _ := slices.BinarySearchFunc(s.trieOperations, key, func(entry TrieEntry, key TrieKey) int {
		return entry.Key.Compare(key)
	})
	return pos
}

func (s *TrieUpdatesSorted) find(key TrieKey) (TrieOp, bool) {
	pos := s.lowerBound(key)
	if pos < s.Len() && s.trieOperations[pos].Key == key {
		return s.trieOperations[pos].Op, true
	}
	return TrieOp{}, false
}

// FindAccountNode looks up the pending operation of an account trie node.
func (s *TrieUpdatesSorted) FindAccountNode(path Nibbles) (TrieOp, bool) {
	return s.find(AccountNode(path))
}

// FindStorageNode looks up the pending operation of a storage trie node.
func (s *TrieUpdatesSorted) FindStorageNode(account common.Hash, path Nibbles) (TrieOp, bool) {
	return s.find(StorageNode(account, path))
}

// IsStorageTrieWiped is true if the complete storage trie of the given
// account is pending deletion.
func (s *TrieUpdatesSorted) IsStorageTrieWiped(account common.Hash) bool {
	op, found := s.find(StorageTrie(account))
	return found && op.IsDelete()
}

// Flush writes all updates to the given writer, in key order. It stops at
// the first error; the caller is expected to discard the enclosing
// transaction in that case. Updates of root nodes are not written since
// root nodes are never stored. Updates on complete storage tries are
// programming errors and cause a panic; use TrieUpdates.Check to detect
// them upfront.
func (s *TrieUpdatesSorted) Flush(writer Writer) error {
	for _, entry := range s.trieOperations {
		if err := flushEntry(writer, entry); err != nil {
			return fmt.Errorf("failed to flush %v: %w", entry.Key, err)
		}
	}
	return nil
}

func flushEntry(writer Writer, entry TrieEntry) error {
	key, op := entry.Key, entry.Op
	switch key.kind {
	case AccountNodeKind:
		if op.IsDelete() {
			return writer.DeleteAccountNode(key.path)
		}
		if key.path.IsEmpty() {
			return nil
		}
		return writer.PutAccountNode(key.path, *op.node)
	case StorageTrieKind:
		if op.IsUpdate() {
			panic(fmt.Sprintf("cannot update full storage trie %v", key.account))
		}
		return writer.DeleteStorageTrie(key.account)
	case StorageNodeKind:
		if key.path.IsEmpty() {
			return nil
		}
		if op.IsDelete() {
			return writer.DeleteStorageNode(key.account, key.path)
		}
		return writer.PutStorageNode(key.account, key.path, *op.node)
	}
	panic(fmt.Sprintf("unknown trie key kind %v", key.kind))
}
