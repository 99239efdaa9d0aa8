// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"fmt"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
)

// ExecutedBlock is an executed and hashed block that is not yet durable. It
// carries everything needed to persist the block: the block with its senders,
// the execution outcome, the hashed post state, and the trie nodes changed by
// the block.
type ExecutedBlock struct {
	Block       *SealedBlockWithSenders
	Outcome     *ExecutionOutcome
	HashedState *HashedPostState
	TrieUpdates *trie.TrieUpdates
}

// NewExecutedBlock assembles an executed block from the given header
// with an empty transaction list, deriving the hashed post state from the outcome.
func NewExecutedBlock(header Header, outcome *ExecutionOutcome, updates *trie.TrieUpdates) *ExecutedBlock {
	if outcome == nil {
		outcome = &ExecutionOutcome{}
	}
	if updates == nil {
		updates = &trie.TrieUpdates{}
	}
	return &ExecutedBlock{
		Block:       &SealedBlockWithSenders{SealedBlock: Seal(Block{Header: header})},
		Outcome:     outcome,
		HashedState: HashState(outcome),
		TrieUpdates: updates,
	}
}

func (b *ExecutedBlock) Number() uint64 {
	return b.Block.Number()
}

func (b *ExecutedBlock) Hash() common.Hash {
	return b.Block.Hash()
}

// Clone creates a deep copy of the block sharing no mutable state with the
// original, so one copy may be handed off while the other is still read.
func (b *ExecutedBlock) Clone() *ExecutedBlock {
	if b == nil {
		return nil
	}
	res := &ExecutedBlock{
		Outcome:     b.Outcome.Clone(),
		HashedState: b.HashedState.Clone(),
		TrieUpdates: b.TrieUpdates.Clone(),
	}
	if b.Block != nil {
		res.Block = b.Block.clone()
	}
	return res
}

func (b *ExecutedBlock) String() string {
	return fmt.Sprintf("ExecutedBlock(%d, %v)", b.Number(), b.Hash())
}
