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
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
)

// TakeBlocksAbove removes all stored blocks with a number greater than the
// given one, newest first, undoing their effects on the state, the tries and
// the history indices. If any block is removed, stage checkpoints are reset
// to the given number; otherwise they are left untouched. The removed blocks
// are returned in ascending order, ready to be re-applied.
func (p *ProviderRW) TakeBlocksAbove(number uint64) ([]*chain.ExecutedBlock, error) {
	last, _, found, err := p.LastBlock()
	if err != nil || !found || last <= number {
		return nil, err
	}
	first, _, err := p.FirstBlock()
	if err != nil {
		return nil, err
	}
	// blocks below the first stored block were never stored
	lowest := max(number+1, first)

	var res []*chain.ExecutedBlock
	for current := last; current >= lowest; current-- {
		block, err := p.takeBlock(current)
		if err != nil {
			return nil, fmt.Errorf("failed to remove block %d: %w", current, err)
		}
		res = append(res, block)
	}
	slices.Reverse(res)
	if err := p.UpdatePipelineStages(number); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *ProviderRW) takeBlock(number uint64) (*chain.ExecutedBlock, error) {
	block, found, err := p.BlockByNumber(number)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: block %d", ErrMissingRecord, number)
	}
	outcome, found, err := p.ExecutionOutcome(number)
	if err != nil {
		return nil, err
	}
	if !found {
		outcome = &chain.ExecutionOutcome{}
	}
	hashedState, found, err := p.HashedPostState(number)
	if err != nil {
		return nil, err
	}
	if !found {
		hashedState = &chain.HashedPostState{}
	}

	updates, err := p.revertTrie(number)
	if err != nil {
		return nil, err
	}
	if err := p.removeHistory(number); err != nil {
		return nil, err
	}
	if err := p.revertState(number); err != nil {
		return nil, err
	}
	if err := p.removeBlock(block); err != nil {
		return nil, err
	}
	return &chain.ExecutedBlock{
		Block:       block,
		Outcome:     outcome,
		HashedState: hashedState,
		TrieUpdates: updates,
	}, nil
}
