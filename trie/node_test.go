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
	"testing"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

func TestTrieMask_Operations(t *testing.T) {
	mask := TrieMask(0).Set(0).Set(5).Set(15)
	if mask.Count() != 3 {
		t.Errorf("unexpected number of set bits: %d", mask.Count())
	}
	for _, n := range []Nibble{0, 5, 15} {
		if !mask.IsSet(n) {
			t.Errorf("nibble %v should be set in %v", n, mask)
		}
	}
	if mask.IsSet(1) {
		t.Errorf("nibble 1 should not be set in %v", mask)
	}
	if !TrieMask(0).Set(5).IsSubsetOf(mask) || mask.IsSubsetOf(TrieMask(0).Set(5)) {
		t.Errorf("unexpected subset relation")
	}
}

func TestBranchNodeCompact_EncodingCanBeDecoded(t *testing.T) {
	root := common.Hash{0xff}
	tests := map[string]struct {
		state, tree, hash TrieMask
		hashes            []common.Hash
		root              *common.Hash
	}{
		"no hashes":   {0b1010, 0b0010, 0, nil, nil},
		"with hashes": {0b1011, 0b0001, 0b1010, []common.Hash{{1}, {2}}, nil},
		"with root":   {0b1011, 0b0001, 0b0010, []common.Hash{{1}}, &root},
		"only root":   {0b0011, 0, 0, nil, &root},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			node, err := NewBranchNodeCompact(test.state, test.tree, test.hash, test.hashes, test.root)
			if err != nil {
				t.Fatalf("failed to create node: %v", err)
			}
			decoded, err := DecodeBranchNodeCompact(node.Encode())
			if err != nil {
				t.Fatalf("failed to decode node: %v", err)
			}
			if !node.Equal(&decoded) {
				t.Errorf("decoded node differs, wanted %v, got %v", node, decoded)
			}
		})
	}
}

func TestBranchNodeCompact_InconsistentMasksAreRejected(t *testing.T) {
	if _, err := NewBranchNodeCompact(0b01, 0b10, 0, nil, nil); err == nil {
		t.Errorf("tree mask exceeding state mask should be rejected")
	}
	if _, err := NewBranchNodeCompact(0b01, 0, 0b10, []common.Hash{{}}, nil); err == nil {
		t.Errorf("hash mask exceeding state mask should be rejected")
	}
	if _, err := NewBranchNodeCompact(0b11, 0, 0b11, []common.Hash{{}}, nil); err == nil {
		t.Errorf("missing hashes should be rejected")
	}
}

func TestBranchNodeCompact_InvalidEncodingsAreRejected(t *testing.T) {
	tests := map[string][]byte{
		"too short":       {0, 1},
		"truncated hash":  append([]byte{0, 3, 0, 0, 0, 1}, make([]byte, 31)...),
		"too many hashes": append([]byte{0, 3, 0, 0, 0, 1}, make([]byte, 3*32)...),
		"too few hashes":  append([]byte{0, 3, 0, 0, 0, 3}, make([]byte, 32)...),
		"invalid masks":   {0, 1, 0, 2, 0, 0},
	}
	for name, data := range tests {
		if _, err := DecodeBranchNodeCompact(data); err == nil {
			t.Errorf("%s: expected decoding error", name)
		}
	}
}

func TestBranchNodeCompact_CloneIsIndependent(t *testing.T) {
	root := common.Hash{7}
	node, _ := NewBranchNodeCompact(0b1, 0, 0b1, []common.Hash{{1}}, &root)
	clone := node.Clone()
	clone.Hashes[0] = common.Hash{2}
	*clone.RootHash = common.Hash{8}
	if node.Hashes[0] != (common.Hash{1}) || *node.RootHash != root {
		t.Errorf("modifying the clone changed the original")
	}
	if node.Equal(&clone) {
		t.Errorf("modified clone should differ from original")
	}
}

func TestBranchNodeCompact_EqualHandlesNil(t *testing.T) {
	node := testNode(1)
	var nilNode *BranchNodeCompact
	if !nilNode.Equal(nil) {
		t.Errorf("nil nodes should be equal")
	}
	if nilNode.Equal(&node) || node.Equal(nil) {
		t.Errorf("nil and non-nil nodes should differ")
	}
}
