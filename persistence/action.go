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
	"fmt"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
)

// Action is a request to the persistence actor. It is implemented by
// SaveBlocks and RemoveBlocksAbove only.
type Action interface {
	fmt.Stringer
	name() string
}

// Result is the reply to a request, either a value or an error.
type Result[T any] struct {
	Value T
	Err   error
}

// SaveBlocks requests to durably store the given consecutive blocks in one
// transaction. The reply carries the hash of the last block.
type SaveBlocks struct {
	Blocks []*chain.ExecutedBlock
	Reply  chan<- Result[common.Hash]
}

func (SaveBlocks) name() string {
	return "save_blocks"
}

func (a SaveBlocks) String() string {
	if len(a.Blocks) == 0 {
		return "SaveBlocks()"
	}
	first, last := a.Blocks[0], a.Blocks[len(a.Blocks)-1]
	if first == nil || last == nil || first.Block == nil || last.Block == nil {
		return fmt.Sprintf("SaveBlocks(%d blocks)", len(a.Blocks))
	}
	return fmt.Sprintf("SaveBlocks(%d-%d)", first.Number(), last.Number())
}

// RemoveBlocksAbove requests to remove all stored blocks with a number
// greater than Number. The reply carries the removed blocks in ascending order.
type RemoveBlocksAbove struct {
	Number uint64
	Reply  chan<- Result[[]*chain.ExecutedBlock]
}

func (RemoveBlocksAbove) name() string {
	return "remove_blocks_above"
}

func (a RemoveBlocksAbove) String() string {
	return fmt.Sprintf("RemoveBlocksAbove(%d)", a.Number)
}
