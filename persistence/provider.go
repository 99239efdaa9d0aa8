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

//go:generate mockgen -source provider.go -destination provider_mocks.go -package persistence

import (
	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/database/provider"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
)

// ProviderFactory opens write transactions on the database.
type ProviderFactory interface {
	ProviderRW() (ProviderRW, error)
}

// ProviderRW is the transactional write access to the database used by the
// persistence actor.
type ProviderRW interface {
	InsertBlock(block *chain.SealedBlockWithSenders) error
	WriteExecutionOutcome(number uint64, outcome *chain.ExecutionOutcome) error
	WriteHashedState(number uint64, state *chain.HashedPostState) error
	TrieWriter(number uint64) (trie.Writer, error)
	UpdateHistoryIndices(from, to uint64) error
	UpdatePipelineStages(number uint64) error
	TakeBlocksAbove(number uint64) ([]*chain.ExecutedBlock, error)
	Commit() error
	Rollback()
}

// NewProviderFactory adapts the database's provider factory for the actor.
func NewProviderFactory(factory *provider.Factory) ProviderFactory {
	return &databaseProviderFactory{factory}
}

type databaseProviderFactory struct {
	factory *provider.Factory
}

func (f *databaseProviderFactory) ProviderRW() (ProviderRW, error) {
	p, err := f.factory.ProviderRW()
	if err != nil {
		return nil, err
	}
	return p, nil
}
