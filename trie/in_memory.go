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

import "github.com/Fantom-foundation/Carmen-Persistence/common"

// InMemoryCursorFactory creates cursors presenting the durable trie as if
// the given pending updates had already been flushed. Updates are only
// read, so a single sorted snapshot may back any number of factories and
// cursors used concurrently.
type InMemoryCursorFactory struct {
	factory CursorFactory
	updates *TrieUpdatesSorted
}

func NewInMemoryCursorFactory(factory CursorFactory, updates *TrieUpdatesSorted) *InMemoryCursorFactory {
	return &InMemoryCursorFactory{factory: factory, updates: updates}
}

func (f *InMemoryCursorFactory) AccountTrieCursor() (Cursor, error) {
	cursor, err := f.factory.AccountTrieCursor()
	if err != nil {
		return nil, err
	}
	return &InMemoryAccountTrieCursor{
		overlayCursor: overlayCursor{
			durable: cursor,
			updates: f.updates,
			scope:   AccountNode(""),
		},
	}, nil
}

func (f *InMemoryCursorFactory) StorageTrieCursor(account common.Hash) (Cursor, error) {
	cursor, err := f.factory.StorageTrieCursor(account)
	if err != nil {
		return nil, err
	}
	return &InMemoryStorageTrieCursor{
		overlayCursor: overlayCursor{
			durable:       cursor,
			updates:       f.updates,
			scope:         StorageNode(account, ""),
			durableHidden: f.updates.IsStorageTrieWiped(account),
		},
	}, nil
}

// InMemoryAccountTrieCursor iterates the account trie, giving pending
// updates precedence over durable entries.
type InMemoryAccountTrieCursor struct {
	overlayCursor
}

// InMemoryStorageTrieCursor iterates the storage trie of a single account,
// giving pending updates precedence over durable entries. If the complete
// storage trie is pending deletion, durable entries are not visible at all.
type InMemoryStorageTrieCursor struct {
	overlayCursor
}

type cursorSource byte

const (
	fromNone cursorSource = iota
	fromPending
	fromDurable
)

// overlayCursor merges the pending entries of one trie, a contiguous range
// of the sorted updates, with a durable cursor over the same trie. Every
// lookup locates its range position by binary search, so no scan position
// is carried between calls and seek targets may move in any direction.
type overlayCursor struct {
	durable       Cursor
	updates       *TrieUpdatesSorted
	scope         TrieKey // key of the trie's root; defines kind and account
	durableHidden bool

	source    cursorSource
	last      Nibbles
	exhausted bool
}

func (c *overlayCursor) key(path Nibbles) TrieKey {
	return TrieKey{kind: c.scope.kind, account: c.scope.account, path: path}
}

// pendingAt returns the entry at the given position if it belongs to the trie.
func (c *overlayCursor) pendingAt(pos int) (TrieEntry, bool) {
	if pos >= c.updates.Len() {
		return TrieEntry{}, false
	}
	entry := c.updates.At(pos)
	if entry.Key.kind != c.scope.kind || entry.Key.account != c.scope.account {
		return TrieEntry{}, false
	}
	return entry, true
}

func (c *overlayCursor) SeekExact(path Nibbles) (Nibbles, *BranchNodeCompact, error) {
	if op, found := c.updates.find(c.key(path)); found {
		if op.IsDelete() {
			return c.miss()
		}
		return c.hit(fromPending, path, op.node)
	}
	if c.durableHidden {
		return c.miss()
	}
	found, node, err := c.durable.SeekExact(path)
	if err != nil {
		return "", nil, err
	}
	if node == nil {
		return c.miss()
	}
	return c.hit(fromDurable, found, node)
}

func (c *overlayCursor) Seek(path Nibbles) (Nibbles, *BranchNodeCompact, error) {
	durablePath, durableNode, err := c.seekDurable(path)
	if err != nil {
		return "", nil, err
	}
	for pos := c.updates.lowerBound(c.key(path)); ; pos++ {
		entry, found := c.pendingAt(pos)
		if !found || (durableNode != nil && durablePath.Compare(entry.Key.path) < 0) {
			break
		}
		if entry.Op.IsUpdate() {
			return c.hit(fromPending, entry.Key.path, entry.Op.node)
		}
		// A tombstone; skip it together with the durable entry it hides.
		if durableNode != nil && durablePath == entry.Key.path {
			durablePath, durableNode, err = c.seekDurable(entry.Key.path.successor())
			if err != nil {
				return "", nil, err
			}
		}
	}
	if durableNode == nil {
		return c.miss()
	}
	return c.hit(fromDurable, durablePath, durableNode)
}

func (c *overlayCursor) Next() (Nibbles, *BranchNodeCompact, error) {
	if c.exhausted {
		return "", nil, nil
	}
	if c.source == fromNone {
		return c.Seek("")
	}
	return c.Seek(c.last.successor())
}

func (c *overlayCursor) Current() (TrieKey, bool, error) {
	switch c.source {
	case fromPending:
		return c.key(c.last), true, nil
	case fromDurable:
		return c.durable.Current()
	}
	return TrieKey{}, false, nil
}

func (c *overlayCursor) Close() {
	c.durable.Close()
}

func (c *overlayCursor) seekDurable(path Nibbles) (Nibbles, *BranchNodeCompact, error) {
	if c.durableHidden {
		return "", nil, nil
	}
	return c.durable.Seek(path)
}

func (c *overlayCursor) hit(source cursorSource, path Nibbles, node *BranchNodeCompact) (Nibbles, *BranchNodeCompact, error) {
	c.source = source
	c.last = path
	c.exhausted = false
	return path, node, nil
}

func (c *overlayCursor) miss() (Nibbles, *BranchNodeCompact, error) {
	c.source = fromNone
	c.last = ""
	c.exhausted = true
	return "", nil, nil
}
