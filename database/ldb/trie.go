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
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// NewTrieCursorFactory creates cursors over the tries stored in the given
// transaction. Cursors must be closed before the transaction is finished.
func NewTrieCursorFactory(r Reader) trie.CursorFactory {
	return &trieCursorFactory{r}
}

type trieCursorFactory struct {
	reader Reader
}

func (f *trieCursorFactory) AccountTrieCursor() (trie.Cursor, error) {
	prefix := ToDBKey(AccountTrieKey)
	return &trieCursor{
		it:     f.reader.NewIterator(prefix),
		prefix: prefix,
		toKey:  trie.AccountNode,
	}, nil
}

func (f *trieCursorFactory) StorageTrieCursor(account common.Hash) (trie.Cursor, error) {
	return &trieCursor{
		it:     f.reader.NewIterator(StorageTriePrefix(account)),
		prefix: StorageTriePrefix(account),
		toKey:  func(path trie.Nibbles) trie.TrieKey { return trie.StorageNode(account, path) },
	}, nil
}

// trieCursor walks the nodes of one trie using a LevelDB iterator bounded to
// the trie's key prefix. Keys hold unpacked paths, so key order is path order.
type trieCursor struct {
	it     iterator.Iterator
	prefix []byte
	toKey  func(trie.Nibbles) trie.TrieKey

	current    trie.Nibbles
	positioned bool
	exhausted  bool
}

func (c *trieCursor) SeekExact(path trie.Nibbles) (trie.Nibbles, *trie.BranchNodeCompact, error) {
	key := append(bytes.Clone(c.prefix), path.Bytes()...)
	if !c.it.Seek(key) || !bytes.Equal(c.it.Key(), key) {
		return c.reset()
	}
	return c.position()
}

func (c *trieCursor) Seek(path trie.Nibbles) (trie.Nibbles, *trie.BranchNodeCompact, error) {
	key := append(bytes.Clone(c.prefix), path.Bytes()...)
	if !c.it.Seek(key) {
		return c.reset()
	}
	return c.position()
}

func (c *trieCursor) Next() (trie.Nibbles, *trie.BranchNodeCompact, error) {
	if c.exhausted {
		return "", nil, nil
	}
	var found bool
	if c.positioned {
		found = c.it.Next()
	} else {
		found = c.it.First()
	}
	if !found {
		return c.reset()
	}
	return c.position()
}

func (c *trieCursor) Current() (trie.TrieKey, bool, error) {
	if !c.positioned {
		return trie.TrieKey{}, false, nil
	}
	return c.toKey(c.current), true, nil
}

func (c *trieCursor) Close() {
	c.it.Release()
}

// position makes the iterator's entry the current node.
func (c *trieCursor) position() (trie.Nibbles, *trie.BranchNodeCompact, error) {
	path, found := trie.NibblesFromUnpacked(c.it.Key()[len(c.prefix):])
	if !found {
		return "", nil, fmt.Errorf("%w: invalid trie node key %x", ErrInvalidData, c.it.Key())
	}
	node, err := trie.DecodeBranchNodeCompact(c.it.Value())
	if err != nil {
		return "", nil, fmt.Errorf("%w: node %v: %v", ErrInvalidData, c.toKey(path), err)
	}
	c.current, c.positioned, c.exhausted = path, true, false
	return path, &node, nil
}

func (c *trieCursor) reset() (trie.Nibbles, *trie.BranchNodeCompact, error) {
	c.current, c.positioned, c.exhausted = "", false, true
	return "", nil, c.it.Error()
}

// NewTrieWriter creates a writer storing trie nodes in the given transaction.
func NewTrieWriter(tx *RwTx) trie.Writer {
	return &trieWriter{tx}
}

type trieWriter struct {
	tx *RwTx
}

func (w *trieWriter) DeleteAccountNode(path trie.Nibbles) error {
	return w.tx.Delete(AccountTrieNodeKey(path))
}

func (w *trieWriter) PutAccountNode(path trie.Nibbles, node trie.BranchNodeCompact) error {
	return w.tx.Put(AccountTrieNodeKey(path), node.Encode())
}

func (w *trieWriter) DeleteStorageNode(account common.Hash, path trie.Nibbles) error {
	return w.tx.Delete(StorageTrieNodeKey(account, path))
}

func (w *trieWriter) PutStorageNode(account common.Hash, path trie.Nibbles, node trie.BranchNodeCompact) error {
	return w.tx.Put(StorageTrieNodeKey(account, path), node.Encode())
}

func (w *trieWriter) DeleteStorageTrie(account common.Hash) error {
	return w.tx.DeletePrefix(StorageTriePrefix(account))
}
