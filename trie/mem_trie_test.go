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
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"golang.org/x/exp/maps"
)

// memTrieDB is a simple durable trie used as reference in tests. It
// implements Writer and CursorFactory.
type memTrieDB struct {
	accounts map[Nibbles]BranchNodeCompact
	storages map[common.Hash]map[Nibbles]BranchNodeCompact
}

func newMemTrieDB() *memTrieDB {
	return &memTrieDB{
		accounts: map[Nibbles]BranchNodeCompact{},
		storages: map[common.Hash]map[Nibbles]BranchNodeCompact{},
	}
}

func (db *memTrieDB) DeleteAccountNode(path Nibbles) error {
	delete(db.accounts, path)
	return nil
}

func (db *memTrieDB) PutAccountNode(path Nibbles, node BranchNodeCompact) error {
	db.accounts[path] = node
	return nil
}

func (db *memTrieDB) DeleteStorageNode(account common.Hash, path Nibbles) error {
	delete(db.storages[account], path)
	return nil
}

func (db *memTrieDB) PutStorageNode(account common.Hash, path Nibbles, node BranchNodeCompact) error {
	nodes, found := db.storages[account]
	if !found {
		nodes = map[Nibbles]BranchNodeCompact{}
		db.storages[account] = nodes
	}
	nodes[path] = node
	return nil
}

func (db *memTrieDB) DeleteStorageTrie(account common.Hash) error {
	delete(db.storages, account)
	return nil
}

func (db *memTrieDB) AccountTrieCursor() (Cursor, error) {
	return &memCursor{nodes: db.accounts, scope: AccountNode("")}, nil
}

func (db *memTrieDB) StorageTrieCursor(account common.Hash) (Cursor, error) {
	return &memCursor{nodes: db.storages[account], scope: StorageNode(account, "")}, nil
}

// clone creates a deep copy for comparing states.
func (db *memTrieDB) clone() *memTrieDB {
	res := newMemTrieDB()
	res.accounts = maps.Clone(db.accounts)
	for account, nodes := range db.storages {
		res.storages[account] = maps.Clone(nodes)
	}
	return res
}

func (db *memTrieDB) equal(other *memTrieDB) bool {
	equalNodes := func(a, b BranchNodeCompact) bool { return a.Equal(&b) }
	if !maps.EqualFunc(db.accounts, other.accounts, equalNodes) {
		return false
	}
	nonEmpty := func(m map[common.Hash]map[Nibbles]BranchNodeCompact) int {
		count := 0
		for _, nodes := range m {
			if len(nodes) > 0 {
				count++
			}
		}
		return count
	}
	if nonEmpty(db.storages) != nonEmpty(other.storages) {
		return false
	}
	for account, nodes := range db.storages {
		if len(nodes) == 0 {
			continue
		}
		if !maps.EqualFunc(nodes, other.storages[account], equalNodes) {
			return false
		}
	}
	return true
}

type memCursor struct {
	nodes       map[Nibbles]BranchNodeCompact
	scope       TrieKey
	current     Nibbles
	positioned  bool
	exhausted   bool
	closeCalled bool
}

func (c *memCursor) sortedPaths() []Nibbles {
	paths := maps.Keys(c.nodes)
	slices.Sort(paths)
	return paths
}

func (c *memCursor) position(path Nibbles, node BranchNodeCompact) (Nibbles, *BranchNodeCompact, error) {
	c.current, c.positioned, c.exhausted = path, true, false
	return path, &node, nil
}

func (c *memCursor) reset() (Nibbles, *BranchNodeCompact, error) {
	c.current, c.positioned, c.exhausted = "", false, true
	return "", nil, nil
}

func (c *memCursor) SeekExact(path Nibbles) (Nibbles, *BranchNodeCompact, error) {
	if node, found := c.nodes[path]; found {
		return c.position(path, node)
	}
	return c.reset()
}

func (c *memCursor) Seek(path Nibbles) (Nibbles, *BranchNodeCompact, error) {
	for _, cur := range c.sortedPaths() {
		if cur >= path {
			return c.position(cur, c.nodes[cur])
		}
	}
	return c.reset()
}

func (c *memCursor) Next() (Nibbles, *BranchNodeCompact, error) {
	if c.exhausted {
		return "", nil, nil
	}
	if !c.positioned {
		return c.Seek("")
	}
	return c.Seek(c.current.successor())
}

func (c *memCursor) Current() (TrieKey, bool, error) {
	if !c.positioned {
		return TrieKey{}, false, nil
	}
	return TrieKey{kind: c.scope.kind, account: c.scope.account, path: c.current}, true, nil
}

func (c *memCursor) Close() {
	c.closeCalled = true
}

// testNode creates a distinguishable node for tests.
func testNode(id byte) BranchNodeCompact {
	node, err := NewBranchNodeCompact(0b11, 0b01, 0b10, []common.Hash{{id}}, nil)
	if err != nil {
		panic(err)
	}
	return node
}
