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
	"slices"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Header is the consensus relevant summary of a block.
type Header struct {
	ParentHash common.Hash
	Number     uint64
	StateRoot  common.Hash
	Timestamp  uint64
	GasUsed    uint64
	Extra      []byte
}

// Hash computes the block hash, the keccak256 digest of the RLP encoded header.
func (h *Header) Hash() common.Hash {
	data, err := rlp.EncodeToBytes(h)
	if err != nil {
		panic(fmt.Sprintf("failed to encode header: %v", err))
	}
	return common.Keccak256(data)
}

func (h *Header) clone() Header {
	res := *h
	res.Extra = slices.Clone(h.Extra)
	return res
}

type Transaction struct {
	Nonce uint64
	To    *common.Address `rlp:"nil"` // nil for contract creations
	Value common.Balance
	Gas   uint64
	Data  []byte
}

func (t *Transaction) clone() Transaction {
	res := *t
	if t.To != nil {
		to := *t.To
		res.To = &to
	}
	res.Data = slices.Clone(t.Data)
	return res
}

type Block struct {
	Header       Header
	Transactions []Transaction
}

func (b *Block) Number() uint64 {
	return b.Header.Number
}

func (b *Block) clone() Block {
	res := Block{Header: b.Header.clone()}
	if b.Transactions != nil {
		res.Transactions = make([]Transaction, len(b.Transactions))
		for i := range b.Transactions {
			res.Transactions[i] = b.Transactions[i].clone()
		}
	}
	return res
}

// SealedBlock is a block with its hash computed once.
type SealedBlock struct {
	Block
	hash common.Hash
}

// Seal computes the hash of the given block.
func Seal(block Block) *SealedBlock {
	return &SealedBlock{Block: block, hash: block.Header.Hash()}
}

func (b *SealedBlock) Hash() common.Hash {
	return b.hash
}

func (b *SealedBlock) String() string {
	return fmt.Sprintf("Block(%d, %v)", b.Number(), b.hash)
}

// SealedBlockWithSenders is a sealed block with the recovered senders of its
// transactions, one per transaction.
type SealedBlockWithSenders struct {
	*SealedBlock
	Senders []common.Address
}

func NewSealedBlockWithSenders(block *SealedBlock, senders []common.Address) (*SealedBlockWithSenders, error) {
	if got, want := len(senders), len(block.Transactions); got != want {
		return nil, fmt.Errorf("invalid number of senders for %v, wanted %d, got %d", block, want, got)
	}
	return &SealedBlockWithSenders{SealedBlock: block, Senders: senders}, nil
}

func (b *SealedBlockWithSenders) clone() *SealedBlockWithSenders {
	return &SealedBlockWithSenders{
		SealedBlock: &SealedBlock{Block: b.Block.clone(), hash: b.hash},
		Senders:     slices.Clone(b.Senders),
	}
}
