// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package persistence commits executed blocks and their trie updates to the
// database on a dedicated goroutine, off the block execution path.
package persistence

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"go.uber.org/zap"
)

// Spawn starts a persistence actor writing through the given factory and
// returns the first handle to it. The actor terminates once all handles
// derived from the result have been closed and all queued requests are
// processed.
func Spawn(factory ProviderFactory, config Config) *Handle {
	config = config.withDefaults()
	queue := make(chan Action, config.QueueSize)
	done := make(chan struct{})

	a := &actor{
		factory: factory,
		log:     config.Logger,
		metrics: newMetrics(config.Registerer),
	}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)
		a.log.Debug("persistence actor started")
		for action := range queue {
			a.handle(action)
		}
		a.log.Debug("persistence actor stopped")
	}()

	return newHandle(queue, done)
}

type actor struct {
	factory ProviderFactory
	log     *zap.Logger
	metrics *metrics
}

// handle processes a single request and delivers its result. Failures never
// terminate the actor.
func (a *actor) handle(action Action) {
	start := time.Now()
	var err error
	switch action := action.(type) {
	case SaveBlocks:
		var hash common.Hash
		hash, err = a.saveBlocks(action.Blocks)
		reply(action.Reply, Result[common.Hash]{hash, err})
	case RemoveBlocksAbove:
		var blocks []*chain.ExecutedBlock
		blocks, err = a.removeBlocksAbove(action.Number)
		reply(action.Reply, Result[[]*chain.ExecutedBlock]{blocks, err})
	default:
		panic(fmt.Sprintf("unsupported action type %T", action))
	}

	name := action.name()
	a.metrics.requests.WithLabelValues(name).Inc()
	a.metrics.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.failures.WithLabelValues(name).Inc()
		a.log.Warn("persistence request failed", zap.Stringer("action", action), zap.Error(err))
	}
}

// reply delivers a result without blocking; callers provide single-use
// buffered channels or none at all.
func reply[T any](ch chan<- Result[T], res Result[T]) {
	if ch == nil {
		return
	}
	select {
	case ch <- res:
	default:
	}
}

func (a *actor) saveBlocks(blocks []*chain.ExecutedBlock) (hash common.Hash, err error) {
	if err := checkBatch(blocks); err != nil {
		return common.Hash{}, err
	}
	first, last := blocks[0].Number(), blocks[len(blocks)-1].Number()

	err = a.update(func(tx ProviderRW) error {
		for _, block := range blocks {
			if err := saveBlock(tx, block); err != nil {
				return fmt.Errorf("failed to save block %d: %w", block.Number(), err)
			}
		}
		if err := tx.UpdateHistoryIndices(first, last); err != nil {
			return err
		}
		return tx.UpdatePipelineStages(last)
	})
	if err != nil {
		return common.Hash{}, err
	}

	a.metrics.savedBlocks.Add(float64(len(blocks)))
	a.metrics.lastBlock.Set(float64(last))
	a.log.Debug("appended blocks", zap.Uint64("first", first), zap.Uint64("last", last))
	return blocks[len(blocks)-1].Hash(), nil
}

// checkBatch validates a batch of blocks before any I/O is done.
func checkBatch(blocks []*chain.ExecutedBlock) error {
	if len(blocks) == 0 {
		return errors.Join(ErrContractViolation, ErrEmptyBatch)
	}
	for i, block := range blocks {
		if block == nil || block.Block == nil {
			return fmt.Errorf("%w: block %d of batch is missing", ErrContractViolation, i)
		}
		if i > 0 && block.Number() != blocks[i-1].Number()+1 {
			return errors.Join(ErrContractViolation, fmt.Errorf(
				"%w: block %d follows block %d", ErrUnorderedBatch, block.Number(), blocks[i-1].Number(),
			))
		}
		if err := block.TrieUpdates.Check(); err != nil {
			return fmt.Errorf("%w: block %d: %w", ErrContractViolation, block.Number(), err)
		}
	}
	return nil
}

func saveBlock(tx ProviderRW, block *chain.ExecutedBlock) error {
	number := block.Number()
	if err := tx.InsertBlock(block.Block); err != nil {
		return err
	}
	if err := tx.WriteExecutionOutcome(number, block.Outcome); err != nil {
		return err
	}
	if err := tx.WriteHashedState(number, block.HashedState); err != nil {
		return err
	}
	writer, err := tx.TrieWriter(number)
	if err != nil {
		return err
	}
	return block.TrieUpdates.Flush(writer)
}

func (a *actor) removeBlocksAbove(number uint64) (blocks []*chain.ExecutedBlock, err error) {
	err = a.update(func(tx ProviderRW) error {
		blocks, err = tx.TakeBlocksAbove(number)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		a.metrics.removedBlocks.Add(float64(len(blocks)))
		// removed blocks are consecutive and end at the former tip
		tip := blocks[0].Number()
		if tip > 0 {
			tip--
		}
		a.metrics.lastBlock.Set(float64(tip))
		a.log.Debug("removed blocks",
			zap.Uint64("first", blocks[0].Number()),
			zap.Uint64("last", blocks[len(blocks)-1].Number()),
		)
	}
	return blocks, nil
}

// update runs the given function within a fresh read-write transaction. The
// transaction is committed if the function succeeds and rolled back
// otherwise, including if it panics.
func (a *actor) update(run func(ProviderRW) error) (err error) {
	tx, err := a.factory.ProviderRW()
	if err != nil {
		return fmt.Errorf("failed to open provider: %w", err)
	}
	committed := false
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrContractViolation, r)
		}
		if !committed {
			tx.Rollback()
		}
	}()

	if err := run(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	committed = true
	return nil
}
