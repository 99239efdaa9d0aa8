// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package persistence

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

// Handle is a client side reference to a persistence actor. Handles are
// cheap to clone, and clones may be used concurrently. Requests of all
// clones are processed in the order they are enqueued. The actor stops
// once every handle has been closed.
type Handle struct {
	shared *channel
	closed atomic.Bool
}

// channel is the request queue shared by all clones of a handle.
type channel struct {
	mu     sync.RWMutex
	queue  chan<- Action
	done   <-chan struct{}
	refs   int
	closed bool
}

func newHandle(queue chan<- Action, done <-chan struct{}) *Handle {
	return &Handle{shared: &channel{queue: queue, done: done, refs: 1}}
}

// SaveBlocks requests the given blocks to be committed and waits for the
// result. On success, the hash of the last block is returned.
func (h *Handle) SaveBlocks(ctx context.Context, blocks []*chain.ExecutedBlock) (common.Hash, error) {
	reply := make(chan Result[common.Hash], 1)
	if err := h.send(ctx, SaveBlocks{Blocks: blocks, Reply: reply}); err != nil {
		return common.Hash{}, err
	}
	return await(ctx, h.shared.done, reply)
}

// RemoveBlocksAbove requests all blocks with a number greater than the given
// one to be removed and returns them in ascending order.
func (h *Handle) RemoveBlocksAbove(ctx context.Context, number uint64) ([]*chain.ExecutedBlock, error) {
	reply := make(chan Result[[]*chain.ExecutedBlock], 1)
	if err := h.send(ctx, RemoveBlocksAbove{Number: number, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h.shared.done, reply)
}

// Clone creates a new handle to the same actor. The clone has to be closed
// independently. Cloning a closed handle yields a closed handle.
func (h *Handle) Clone() *Handle {
	res := &Handle{shared: h.shared}
	if h.closed.Load() {
		res.closed.Store(true)
		return res
	}
	h.shared.mu.Lock()
	defer h.shared.mu.Unlock()
	if h.shared.closed {
		res.closed.Store(true)
		return res
	}
	h.shared.refs++
	return res
}

// Close releases this handle. Closing the last open handle lets the actor
// terminate after it processed all queued requests. Close is idempotent.
func (h *Handle) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.shared.mu.Lock()
	defer h.shared.mu.Unlock()
	h.shared.refs--
	if h.shared.refs == 0 && !h.shared.closed {
		h.shared.closed = true
		close(h.shared.queue)
	}
}

// Done returns a channel closed once the actor has terminated.
func (h *Handle) Done() <-chan struct{} {
	return h.shared.done
}

func (h *Handle) send(ctx context.Context, action Action) error {
	if h.closed.Load() {
		return ErrUnavailable
	}
	h.shared.mu.RLock()
	defer h.shared.mu.RUnlock()
	if h.shared.closed {
		return ErrUnavailable
	}
	select {
	case h.shared.queue <- action:
		return nil
	case <-h.shared.done:
		return ErrUnavailable
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx context.Context, done <-chan struct{}, reply <-chan Result[T]) (T, error) {
	var zero T
	select {
	case res := <-reply:
		return res.Value, res.Err
	case <-done:
		// The actor may have replied right before terminating.
		select {
		case res := <-reply:
			return res.Value, res.Err
		default:
			return zero, ErrUnavailable
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
