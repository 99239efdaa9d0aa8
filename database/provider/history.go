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
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/RoaringBitmap/roaring/roaring64"
)

// Stage names a step of block processing whose progress is checkpointed.
type Stage string

const (
	StageHeaders   Stage = "Headers"
	StageBodies    Stage = "Bodies"
	StageSenders   Stage = "Senders"
	StageExecution Stage = "Execution"
	StageHashState Stage = "HashState"
	StageMerkle    Stage = "Merkle"
	StageHistory   Stage = "History"
	StageFinish    Stage = "Finish"
)

// Stages lists all checkpointed stages in processing order.
var Stages = []Stage{
	StageHeaders, StageBodies, StageSenders, StageExecution,
	StageHashState, StageMerkle, StageHistory, StageFinish,
}

// UpdatePipelineStages sets the checkpoint of every stage to the given block.
func (p *ProviderRW) UpdatePipelineStages(number uint64) error {
	for _, stage := range Stages {
		if err := p.tx.Put(ldb.ToDBKey(ldb.StageCheckpointKey, []byte(stage)), ldb.BlockNumberBytes(number)); err != nil {
			return err
		}
	}
	return nil
}

// StageCheckpoint returns the last block processed by the given stage, if any.
func (r reader) StageCheckpoint(stage Stage) (uint64, bool, error) {
	data, found, err := r.db.Get(ldb.ToDBKey(ldb.StageCheckpointKey, []byte(stage)))
	if err != nil || !found {
		return 0, false, err
	}
	return ldb.ParseBlockNumber(data), true, nil
}

// UpdateHistoryIndices adds the blocks of the given inclusive range to the
// history of every account and storage slot they modified.
func (p *ProviderRW) UpdateHistoryIndices(from, to uint64) error {
	for number := from; number <= to; number++ {
		if err := p.updateHistory(number, func(bitmap *roaring64.Bitmap) { bitmap.Add(number) }); err != nil {
			return fmt.Errorf("failed to index history of block %d: %w", number, err)
		}
		if number == to {
			break // avoid overflow at the end of the number range
		}
	}
	return nil
}

// removeHistory removes the given block from the history of every account
// and storage slot it modified.
func (p *ProviderRW) removeHistory(number uint64) error {
	return p.updateHistory(number, func(bitmap *roaring64.Bitmap) { bitmap.Remove(number) })
}

func (p *ProviderRW) updateHistory(number uint64, update func(*roaring64.Bitmap)) error {
	indices := []struct {
		changes changeTracker
		history ldb.TableSpace
	}{
		{p.plainAccounts(number), ldb.AccountHistoryKey},
		{p.plainStorage(number), ldb.StorageHistoryKey},
	}
	for _, index := range indices {
		keys, err := index.changes.modifiedKeys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := p.updateBitmap(ldb.ToDBKey(index.history, key), update); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *ProviderRW) updateBitmap(key []byte, update func(*roaring64.Bitmap)) error {
	bitmap, err := p.bitmap(key)
	if err != nil {
		return err
	}
	update(bitmap)
	if bitmap.IsEmpty() {
		return p.tx.Delete(key)
	}
	var buffer bytes.Buffer
	if _, err := bitmap.WriteTo(&buffer); err != nil {
		return err
	}
	return p.tx.Put(key, buffer.Bytes())
}

func (r reader) bitmap(key []byte) (*roaring64.Bitmap, error) {
	bitmap := roaring64.New()
	data, found, err := r.db.Get(key)
	if err != nil || !found {
		return bitmap, err
	}
	if _, err := bitmap.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: invalid history bitmap %x: %v", ldb.ErrInvalidData, key, err)
	}
	return bitmap, nil
}

// AccountHistory lists the stored blocks modifying the given account in
// ascending order.
func (r reader) AccountHistory(addr common.Address) ([]uint64, error) {
	bitmap, err := r.bitmap(ldb.ToDBKey(ldb.AccountHistoryKey, addr[:]))
	if err != nil {
		return nil, err
	}
	return bitmap.ToArray(), nil
}

// StorageHistory lists the stored blocks modifying the given storage slot in
// ascending order.
func (r reader) StorageHistory(addr common.Address, key common.Key) ([]uint64, error) {
	bitmap, err := r.bitmap(ldb.ToDBKey(ldb.StorageHistoryKey, addr[:], key[:]))
	if err != nil {
		return nil, err
	}
	return bitmap.ToArray(), nil
}
