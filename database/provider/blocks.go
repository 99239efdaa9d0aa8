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

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/ethereum/go-ethereum/rlp"
)

// InsertBlock stores the given block as the new highest block. If blocks are
// stored already, the block must be the successor of the highest of them.
func (p *ProviderRW) InsertBlock(block *chain.SealedBlockWithSenders) error {
	number := block.Number()
	key := ldb.BlockNumberKey(ldb.BlockKey, number)
	if exists, err := p.tx.Has(key); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%w: %v", ErrDuplicateBlock, block)
	}

	last, lastHash, found, err := p.LastBlock()
	if err != nil {
		return err
	}
	if found {
		if number != last+1 {
			return fmt.Errorf("%w: %v, last block %d", ErrNonContiguousBlock, block, last)
		}
		if block.Header.ParentHash != lastHash {
			return fmt.Errorf("%w: %v has parent %v, last block is %v", ErrParentMismatch, block, block.Header.ParentHash, lastHash)
		}
	}

	data, err := rlp.EncodeToBytes(&blockRecord{Block: block.Block, Senders: block.Senders})
	if err != nil {
		return fmt.Errorf("failed to encode %v: %w", block, err)
	}
	if err := p.tx.Put(key, data); err != nil {
		return err
	}
	hash := block.Hash()
	return p.tx.Put(ldb.ToDBKey(ldb.BlockHashKey, hash[:]), ldb.BlockNumberBytes(number))
}

// removeBlock deletes the given block and all per-block records except
// change sets and the trie journal.
func (p *ProviderRW) removeBlock(block *chain.SealedBlockWithSenders) error {
	hash := block.Hash()
	number := block.Number()
	for _, key := range [][]byte{
		ldb.BlockNumberKey(ldb.BlockKey, number),
		ldb.ToDBKey(ldb.BlockHashKey, hash[:]),
		ldb.BlockNumberKey(ldb.OutcomeKey, number),
		ldb.BlockNumberKey(ldb.HashedStateKey, number),
	} {
		if err := p.tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
