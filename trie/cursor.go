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

//go:generate mockgen -source cursor.go -destination cursor_mocks.go -package trie

import "github.com/Fantom-foundation/Carmen-Persistence/common"

// Cursor is an ordered read cursor over the nodes of a single trie, either
// the account trie or the storage trie of one account. Lookups report
// missing entries through a nil node.
type Cursor interface {
	// SeekExact positions the cursor at the node with the given path.
	SeekExact(path Nibbles) (Nibbles, *BranchNodeCompact, error)
	// Seek positions the cursor at the first node with a path >= the given
	// path.
	Seek(path Nibbles) (Nibbles, *BranchNodeCompact, error)
	// Next positions the cursor at the first node following the current
	// one. Before any lookup it starts at the first node, after a failed
	// lookup it keeps reporting no node.
	Next() (Nibbles, *BranchNodeCompact, error)
	// Current returns the key of the node the cursor is positioned at.
	Current() (TrieKey, bool, error)
	// Close releases resources held by the cursor.
	Close()
}

// CursorFactory creates cursors over the account trie and the storage
// tries of individual accounts.
type CursorFactory interface {
	AccountTrieCursor() (Cursor, error)
	StorageTrieCursor(account common.Hash) (Cursor, error)
}

// Writer is the write access to the durable account and storage trie
// tables. Deletions of non-existing entries are no-ops.
type Writer interface {
	DeleteAccountNode(path Nibbles) error
	PutAccountNode(path Nibbles, node BranchNodeCompact) error
	DeleteStorageNode(account common.Hash, path Nibbles) error
	PutStorageNode(account common.Hash, path Nibbles, node BranchNodeCompact) error
	// DeleteStorageTrie removes all nodes of the storage trie of the given account.
	DeleteStorageTrie(account common.Hash) error
}
