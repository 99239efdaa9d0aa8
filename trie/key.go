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

	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

// TrieKeyKind is the discriminant of a TrieKey. Its numeric value defines
// the first criteria of the total order of keys and thus the order in which
// operations are flushed: account nodes first, then whole storage trie
// removals, then individual storage nodes.
type TrieKeyKind byte

const (
	AccountNodeKind TrieKeyKind = iota
	StorageTrieKind
	StorageNodeKind
)

func (k TrieKeyKind) String() string {
	switch k {
	case AccountNodeKind:
		return "AccountNode"
	case StorageTrieKind:
		return "StorageTrie"
	case StorageNodeKind:
		return "StorageNode"
	}
	return fmt.Sprintf("TrieKeyKind(%d)", byte(k))
}

// TrieKey identifies a node in the account trie, a node in the storage trie
// of an account, or the complete storage trie of an account. Keys are
// comparable and may be used as map keys.
type TrieKey struct {
	kind    TrieKeyKind
	account common.Hash
	path    Nibbles
}

// AccountNode is the key of the account trie node at the given path.
func AccountNode(path Nibbles) TrieKey {
	return TrieKey{kind: AccountNodeKind, path: path}
}

// StorageNode is the key of the node at the given path in the storage trie
// of the given hashed account.
func StorageNode(account common.Hash, path Nibbles) TrieKey {
	return TrieKey{kind: StorageNodeKind, account: account, path: path}
}

// StorageTrie is the key of the complete storage trie of an account.
func StorageTrie(account common.Hash) TrieKey {
	return TrieKey{kind: StorageTrieKind, account: account}
}

func (k TrieKey) Kind() TrieKeyKind {
	return k.kind
}

// Account is the hashed account of storage keys, zero for account nodes.
func (k TrieKey) Account() common.Hash {
	return k.account
}

// Path is the node path of node keys, empty for storage trie keys.
func (k TrieKey) Path() Nibbles {
	return k.path
}

// Compare defines the total order of keys: kind, then account, then path.
func (k TrieKey) Compare(other TrieKey) int {
	if k.kind != other.kind {
		if k.kind < other.kind {
			return -1
		}
		return 1
	}
	if res := k.account.Compare(&other.account); res != 0 {
		return res
	}
	return k.path.Compare(other.path)
}

func (k TrieKey) String() string {
	switch k.kind {
	case AccountNodeKind:
		return fmt.Sprintf("AccountNode(%v)", k.path)
	case StorageNodeKind:
		return fmt.Sprintf("StorageNode(%v, %v)", k.account, k.path)
	case StorageTrieKind:
		return fmt.Sprintf("StorageTrie(%v)", k.account)
	}
	return fmt.Sprintf("TrieKey(%d, %v, %v)", byte(k.kind), k.account, k.path)
}

// TrieOp is the pending operation on a trie key, either a deletion or an
// update to a new node.
type TrieOp struct {
	node *BranchNodeCompact
}

// DeleteOp removes the node entry.
func DeleteOp() TrieOp {
	return TrieOp{}
}

// UpdateOp replaces the node entry by the given node.
func UpdateOp(node BranchNodeCompact) TrieOp {
	return TrieOp{node: &node}
}

func (o TrieOp) IsUpdate() bool {
	return o.node != nil
}

func (o TrieOp) IsDelete() bool {
	return o.node == nil
}

// Node returns the updated node, or nil for a deletion.
func (o TrieOp) Node() *BranchNodeCompact {
	return o.node
}

func (o TrieOp) Equal(other TrieOp) bool {
	return o.node.Equal(other.node)
}

func (o TrieOp) String() string {
	if o.node == nil {
		return "Delete"
	}
	return fmt.Sprintf("Update(%v)", *o.node)
}

// TrieEntry is a key with its pending operation.
type TrieEntry struct {
	Key TrieKey
	Op  TrieOp
}
