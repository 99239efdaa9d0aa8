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
	"math/bits"
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

// TrieMask is a bitmap over the 16 children of a branch node.
type TrieMask uint16

func (m TrieMask) IsSet(n Nibble) bool {
	return m&(1<<n) != 0
}

func (m TrieMask) Set(n Nibble) TrieMask {
	return m | (1 << n)
}

func (m TrieMask) Count() int {
	return bits.OnesCount16(uint16(m))
}

func (m TrieMask) IsSubsetOf(other TrieMask) bool {
	return m&^other == 0
}

func (m TrieMask) String() string {
	return fmt.Sprintf("%016b", uint16(m))
}

// BranchNodeCompact is the compact form of a trie branch node stored in the
// trie tables. The state mask lists present children, the tree mask children
// that are branch nodes stored in the database themselves, and the hash mask
// children whose hashes are retained in Hashes, in nibble order.
type BranchNodeCompact struct {
	StateMask TrieMask
	TreeMask  TrieMask
	HashMask  TrieMask
	Hashes    []common.Hash
	RootHash  *common.Hash // optional, hash of the node itself
}

const branchNodeMaskBytes = 6

// NewBranchNodeCompact creates a node after checking its internal consistency.
func NewBranchNodeCompact(stateMask, treeMask, hashMask TrieMask, hashes []common.Hash, rootHash *common.Hash) (BranchNodeCompact, error) {
	if !treeMask.IsSubsetOf(stateMask) {
		return BranchNodeCompact{}, fmt.Errorf("tree mask %v is not a subset of state mask %v", treeMask, stateMask)
	}
	if !hashMask.IsSubsetOf(stateMask) {
		return BranchNodeCompact{}, fmt.Errorf("hash mask %v is not a subset of state mask %v", hashMask, stateMask)
	}
	if got, want := len(hashes), hashMask.Count(); got != want {
		return BranchNodeCompact{}, fmt.Errorf("invalid number of hashes, wanted %d, got %d", want, got)
	}
	return BranchNodeCompact{
		StateMask: stateMask,
		TreeMask:  treeMask,
		HashMask:  hashMask,
		Hashes:    hashes,
		RootHash:  rootHash,
	}, nil
}

// Encode produces the compact table encoding: state, tree, and hash masks
// (big-endian, two bytes each), the root hash if present, then the hashes.
func (n *BranchNodeCompact) Encode() []byte {
	size := branchNodeMaskBytes + len(n.Hashes)*common.HashSize
	if n.RootHash != nil {
		size += common.HashSize
	}
	res := make([]byte, 0, size)
	res = append(res, byte(n.StateMask>>8), byte(n.StateMask))
	res = append(res, byte(n.TreeMask>>8), byte(n.TreeMask))
	res = append(res, byte(n.HashMask>>8), byte(n.HashMask))
	if n.RootHash != nil {
		res = append(res, n.RootHash[:]...)
	}
	for _, hash := range n.Hashes {
		res = append(res, hash[:]...)
	}
	return res
}

// DecodeBranchNodeCompact is the inverse of Encode.
func DecodeBranchNodeCompact(data []byte) (BranchNodeCompact, error) {
	if len(data) < branchNodeMaskBytes {
		return BranchNodeCompact{}, fmt.Errorf("invalid node encoding, too few bytes: %d", len(data))
	}
	stateMask := TrieMask(data[0])<<8 | TrieMask(data[1])
	treeMask := TrieMask(data[2])<<8 | TrieMask(data[3])
	hashMask := TrieMask(data[4])<<8 | TrieMask(data[5])
	data = data[branchNodeMaskBytes:]
	if len(data)%common.HashSize != 0 {
		return BranchNodeCompact{}, fmt.Errorf("invalid node encoding, truncated hash list")
	}

	numHashes := len(data) / common.HashSize
	var rootHash *common.Hash
	switch numHashes - hashMask.Count() {
	case 0:
	case 1:
		rootHash = new(common.Hash)
		copy(rootHash[:], data)
		data = data[common.HashSize:]
		numHashes--
	default:
		return BranchNodeCompact{}, fmt.Errorf("invalid node encoding, hash mask %v does not match %d hashes", hashMask, numHashes)
	}

	var hashes []common.Hash
	if numHashes > 0 {
		hashes = make([]common.Hash, numHashes)
		for i := range hashes {
			copy(hashes[i][:], data[i*common.HashSize:])
		}
	}
	return NewBranchNodeCompact(stateMask, treeMask, hashMask, hashes, rootHash)
}

func (n *BranchNodeCompact) Equal(other *BranchNodeCompact) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.StateMask != other.StateMask || n.TreeMask != other.TreeMask || n.HashMask != other.HashMask {
		return false
	}
	if (n.RootHash == nil) != (other.RootHash == nil) {
		return false
	}
	if n.RootHash != nil && *n.RootHash != *other.RootHash {
		return false
	}
	return slices.Equal(n.Hashes, other.Hashes)
}

// Clone creates a deep copy of this node.
func (n *BranchNodeCompact) Clone() BranchNodeCompact {
	res := *n
	res.Hashes = slices.Clone(n.Hashes)
	if n.RootHash != nil {
		root := *n.RootHash
		res.RootHash = &root
	}
	return res
}

func (n BranchNodeCompact) String() string {
	return fmt.Sprintf("Branch{state=%v, tree=%v, hash=%v, hashes=%d, root=%t}", n.StateMask, n.TreeMask, n.HashMask, len(n.Hashes), n.RootHash != nil)
}
