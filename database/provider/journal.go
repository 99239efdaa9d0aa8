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

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
	"github.com/ethereum/go-ethereum/rlp"
)

type journalOp uint8

const (
	journalPutAccountNode journalOp = iota
	journalDeleteAccountNode
	journalPutStorageNode
	journalDeleteStorageNode
	journalDeleteStorageTrie
)

// journalEntry records one trie write of a block together with the entries
// it replaced, so the write can be undone and re-applied later.
type journalEntry struct {
	Op      journalOp
	Account common.Hash
	Path    []byte // unpacked nibbles
	Node    []byte // encoded node of put operations
	Prior   []journalNode
}

type journalNode struct {
	Path []byte
	Node []byte
}

// TrieWriter returns a writer storing trie nodes in the durable tries and
// journaling every write as part of the given block.
func (p *ProviderRW) TrieWriter(number uint64) (trie.Writer, error) {
	count, err := p.tx.Count(ldb.BlockNumberKey(ldb.TrieJournalKey, number))
	if err != nil {
		return nil, err
	}
	return &journalingWriter{
		tx:     p.tx,
		writer: ldb.NewTrieWriter(p.tx),
		number: number,
		seq:    uint32(count),
	}, nil
}

type journalingWriter struct {
	tx     *ldb.RwTx
	writer trie.Writer
	number uint64
	seq    uint32
}

func (w *journalingWriter) DeleteAccountNode(path trie.Nibbles) error {
	if err := w.journalNode(journalDeleteAccountNode, common.Hash{}, path, nil, ldb.AccountTrieNodeKey(path)); err != nil {
		return err
	}
	return w.writer.DeleteAccountNode(path)
}

func (w *journalingWriter) PutAccountNode(path trie.Nibbles, node trie.BranchNodeCompact) error {
	if err := w.journalNode(journalPutAccountNode, common.Hash{}, path, node.Encode(), ldb.AccountTrieNodeKey(path)); err != nil {
		return err
	}
	return w.writer.PutAccountNode(path, node)
}

func (w *journalingWriter) DeleteStorageNode(account common.Hash, path trie.Nibbles) error {
	if err := w.journalNode(journalDeleteStorageNode, account, path, nil, ldb.StorageTrieNodeKey(account, path)); err != nil {
		return err
	}
	return w.writer.DeleteStorageNode(account, path)
}

func (w *journalingWriter) PutStorageNode(account common.Hash, path trie.Nibbles, node trie.BranchNodeCompact) error {
	if err := w.journalNode(journalPutStorageNode, account, path, node.Encode(), ldb.StorageTrieNodeKey(account, path)); err != nil {
		return err
	}
	return w.writer.PutStorageNode(account, path, node)
}

func (w *journalingWriter) DeleteStorageTrie(account common.Hash) error {
	prefix := ldb.StorageTriePrefix(account)
	it := w.tx.NewIterator(prefix)
	var prior []journalNode
	for it.Next() {
		prior = append(prior, journalNode{
			Path: append([]byte(nil), it.Key()[len(prefix):]...),
			Node: append([]byte(nil), it.Value()...),
		})
	}
	it.Release()
	if err := it.Error(); err != nil {
		return err
	}
	if err := w.append(journalEntry{Op: journalDeleteStorageTrie, Account: account, Prior: prior}); err != nil {
		return err
	}
	return w.writer.DeleteStorageTrie(account)
}

func (w *journalingWriter) journalNode(op journalOp, account common.Hash, path trie.Nibbles, node []byte, key []byte) error {
	entry := journalEntry{Op: op, Account: account, Path: path.Bytes(), Node: node}
	prior, found, err := w.tx.Get(key)
	if err != nil {
		return err
	}
	if found {
		entry.Prior = []journalNode{{Path: path.Bytes(), Node: prior}}
	}
	return w.append(entry)
}

func (w *journalingWriter) append(entry journalEntry) error {
	data, err := rlp.EncodeToBytes(&entry)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	if err := w.tx.Put(ldb.TrieJournalEntryKey(w.number, w.seq), data); err != nil {
		return err
	}
	w.seq++
	return nil
}

// revertTrie undoes the trie writes of the given block in reverse order and
// removes its journal. It returns the trie updates the block had applied,
// except for root nodes, which are never stored.
func (p *ProviderRW) revertTrie(number uint64) (*trie.TrieUpdates, error) {
	prefix := ldb.BlockNumberKey(ldb.TrieJournalKey, number)
	it := p.tx.NewIterator(prefix)
	var entries []journalEntry
	for it.Next() {
		var entry journalEntry
		if err := rlp.DecodeBytes(it.Value(), &entry); err != nil {
			it.Release()
			return nil, fmt.Errorf("%w: invalid journal entry %x: %v", ldb.ErrInvalidData, it.Key(), err)
		}
		entries = append(entries, entry)
	}
	it.Release()
	if err := it.Error(); err != nil {
		return nil, err
	}

	updates := &trie.TrieUpdates{}
	for _, entry := range entries {
		forward, err := entry.forward()
		if err != nil {
			return nil, err
		}
		updates.Extend(forward)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if err := p.undo(&entries[i]); err != nil {
			return nil, err
		}
	}
	if err := p.tx.DeletePrefix(prefix); err != nil {
		return nil, err
	}
	return updates, nil
}

// forward reconstructs the trie update of the journaled write.
func (e *journalEntry) forward() (trie.TrieEntry, error) {
	path, valid := trie.NibblesFromUnpacked(e.Path)
	if !valid {
		return trie.TrieEntry{}, fmt.Errorf("%w: invalid journal path %x", ldb.ErrInvalidData, e.Path)
	}
	op := trie.DeleteOp()
	if e.Op == journalPutAccountNode || e.Op == journalPutStorageNode {
		node, err := trie.DecodeBranchNodeCompact(e.Node)
		if err != nil {
			return trie.TrieEntry{}, fmt.Errorf("%w: invalid journal node: %v", ldb.ErrInvalidData, err)
		}
		op = trie.UpdateOp(node)
	}
	switch e.Op {
	case journalPutAccountNode, journalDeleteAccountNode:
		return trie.TrieEntry{Key: trie.AccountNode(path), Op: op}, nil
	case journalPutStorageNode, journalDeleteStorageNode:
		return trie.TrieEntry{Key: trie.StorageNode(e.Account, path), Op: op}, nil
	case journalDeleteStorageTrie:
		return trie.TrieEntry{Key: trie.StorageTrie(e.Account), Op: op}, nil
	}
	return trie.TrieEntry{}, fmt.Errorf("%w: unknown journal operation %d", ldb.ErrInvalidData, e.Op)
}

func (p *ProviderRW) undo(e *journalEntry) error {
	key := func(path []byte) []byte {
		if e.Op == journalPutAccountNode || e.Op == journalDeleteAccountNode {
			return ldb.ToDBKey(ldb.AccountTrieKey, path)
		}
		return ldb.ToDBKey(ldb.StorageTrieKey, e.Account[:], path)
	}
	if e.Op != journalDeleteStorageTrie {
		if err := p.tx.Delete(key(e.Path)); err != nil {
			return err
		}
	}
	for _, prior := range e.Prior {
		if err := p.tx.Put(key(prior.Path), prior.Node); err != nil {
			return err
		}
	}
	return nil
}
