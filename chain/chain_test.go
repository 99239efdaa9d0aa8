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
	"reflect"
	"testing"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
	"github.com/ethereum/go-ethereum/rlp"
)

func TestHeader_HashDependsOnAllFields(t *testing.T) {
	base := Header{ParentHash: common.Hash{1}, Number: 2, StateRoot: common.Hash{3}, Timestamp: 4, GasUsed: 5, Extra: []byte{6}}
	modified := []Header{base, base, base, base, base, base}
	modified[0].ParentHash = common.Hash{7}
	modified[1].Number = 7
	modified[2].StateRoot = common.Hash{7}
	modified[3].Timestamp = 7
	modified[4].GasUsed = 7
	modified[5].Extra = []byte{7}

	hash := base.Hash()
	if hash != base.Hash() {
		t.Fatalf("hash is not deterministic")
	}
	for i, header := range modified {
		if header.Hash() == hash {
			t.Errorf("modification %d did not change the hash", i)
		}
	}
}

func TestSeal_HashIsHeaderHash(t *testing.T) {
	block := Block{Header: Header{Number: 12}}
	sealed := Seal(block)
	if want, got := block.Header.Hash(), sealed.Hash(); want != got {
		t.Errorf("unexpected hash, wanted %v, got %v", want, got)
	}
	if sealed.Number() != 12 {
		t.Errorf("unexpected number %d", sealed.Number())
	}
}

func TestBlock_EncodingPreservesOptionalFields(t *testing.T) {
	to := common.Address{1}
	block := Block{
		Header: Header{Number: 1, Extra: []byte{1, 2}},
		Transactions: []Transaction{
			{Nonce: 1, To: &to, Data: []byte{3}},
			{Nonce: 2, To: nil},
		},
	}
	data, err := rlp.EncodeToBytes(&block)
	if err != nil {
		t.Fatalf("failed to encode block: %v", err)
	}
	var restored Block
	if err := rlp.DecodeBytes(data, &restored); err != nil {
		t.Fatalf("failed to decode block: %v", err)
	}
	if restored.Transactions[1].To != nil {
		t.Errorf("contract creation target should be restored as nil")
	}
	if restored.Transactions[0].To == nil || *restored.Transactions[0].To != to {
		t.Errorf("transaction target not restored")
	}
	if Seal(restored).Hash() != Seal(block).Hash() {
		t.Errorf("restored block has different hash")
	}
}

func TestExecutionOutcome_EncodingPreservesDestroyedAccounts(t *testing.T) {
	outcome := ExecutionOutcome{
		Accounts: []AccountChange{
			{Address: common.Address{1}, Info: &Account{Nonce: 1}},
			{Address: common.Address{2}, Info: nil, StorageWiped: true},
		},
		Storage:  []StorageChange{{Address: common.Address{1}, Key: common.Key{2}, Value: common.Value{3}}},
		Receipts: []Receipt{{Success: true, GasUsed: 21000, Logs: []Log{{Address: common.Address{1}, Topics: []common.Hash{{4}}}}}},
	}
	data, err := rlp.EncodeToBytes(&outcome)
	if err != nil {
		t.Fatalf("failed to encode outcome: %v", err)
	}
	var restored ExecutionOutcome
	if err := rlp.DecodeBytes(data, &restored); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if restored.Accounts[1].Info != nil || !restored.Accounts[1].StorageWiped {
		t.Errorf("destroyed account not restored, got %+v", restored.Accounts[1])
	}
	if restored.Accounts[0].Info == nil || restored.Accounts[0].Info.Nonce != 1 {
		t.Errorf("account info not restored, got %+v", restored.Accounts[0])
	}
	if restored.Receipts[0].Logs[0].Topics[0] != (common.Hash{4}) {
		t.Errorf("receipt logs not restored")
	}
}

func TestHashState_HashesAddressesAndKeys(t *testing.T) {
	addr1, addr2 := common.Address{1}, common.Address{2}
	outcome := &ExecutionOutcome{
		Accounts: []AccountChange{
			{Address: addr1, Info: &Account{Nonce: 1}},
			{Address: addr2, Info: nil},
		},
		Storage: []StorageChange{
			{Address: addr1, Key: common.Key{1}, Value: common.Value{1}},
			{Address: addr1, Key: common.Key{2}, Value: common.Value{2}},
		},
	}
	state := HashState(outcome)
	want := &HashedPostState{
		Accounts: []HashedAccount{
			{Hash: common.Keccak256ForAddress(addr1), Info: &Account{Nonce: 1}},
			{Hash: common.Keccak256ForAddress(addr2)},
		},
		Storages: []HashedStorage{
			{Hash: common.Keccak256ForAddress(addr2), Wiped: true},
			{Hash: common.Keccak256ForAddress(addr1), Slots: []HashedSlot{
				{Slot: common.Keccak256ForKey(common.Key{1}), Value: common.Value{1}},
				{Slot: common.Keccak256ForKey(common.Key{2}), Value: common.Value{2}},
			}},
		},
	}
	if !reflect.DeepEqual(want, state) {
		t.Errorf("unexpected hashed state\nwanted %+v\n   got %+v", want, state)
	}
}

func TestNewSealedBlockWithSenders_RequiresOneSenderPerTransaction(t *testing.T) {
	block := Seal(Block{Transactions: []Transaction{{}, {}}})
	if _, err := NewSealedBlockWithSenders(block, []common.Address{{1}}); err == nil {
		t.Errorf("missing sender should be detected")
	}
	res, err := NewSealedBlockWithSenders(block, []common.Address{{1}, {2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hash() != block.Hash() {
		t.Errorf("unexpected hash")
	}
}

func TestExecutedBlock_CloneIsIndependent(t *testing.T) {
	to := common.Address{9}
	node, _ := trie.NewBranchNodeCompact(1, 0, 0, nil, nil)
	header := Header{Number: 5, Extra: []byte{1}}
	block := &ExecutedBlock{
		Block: &SealedBlockWithSenders{
			SealedBlock: Seal(Block{Header: header, Transactions: []Transaction{{To: &to, Data: []byte{1}}}}),
			Senders:     []common.Address{{1}},
		},
		Outcome: &ExecutionOutcome{
			Accounts: []AccountChange{{Address: common.Address{1}, Info: &Account{Nonce: 1}}},
			Receipts: []Receipt{{Logs: []Log{{Data: []byte{1}}}}},
		},
		HashedState: &HashedPostState{Accounts: []HashedAccount{{Info: &Account{Nonce: 1}}}},
		TrieUpdates: trie.NewTrieUpdates(trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(1)), Op: trie.UpdateOp(node)}),
	}
	clone := block.Clone()
	if !reflect.DeepEqual(block, clone) {
		t.Fatalf("clone differs from original")
	}

	clone.Block.Header.Extra[0] = 2
	clone.Block.Transactions[0].Data[0] = 2
	*clone.Block.Transactions[0].To = common.Address{8}
	clone.Block.Senders[0] = common.Address{2}
	clone.Outcome.Accounts[0].Info.Nonce = 2
	clone.Outcome.Receipts[0].Logs[0].Data[0] = 2
	clone.HashedState.Accounts[0].Info.Nonce = 2
	clone.TrieUpdates.Extend(trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(2)), Op: trie.DeleteOp()})

	if block.Block.Header.Extra[0] != 1 ||
		block.Block.Transactions[0].Data[0] != 1 ||
		*block.Block.Transactions[0].To != to ||
		block.Block.Senders[0] != (common.Address{1}) ||
		block.Outcome.Accounts[0].Info.Nonce != 1 ||
		block.Outcome.Receipts[0].Logs[0].Data[0] != 1 ||
		block.HashedState.Accounts[0].Info.Nonce != 1 ||
		block.TrieUpdates.Len() != 1 {
		t.Errorf("modifying the clone changed the original")
	}
	if clone.Hash() != block.Hash() || clone.Number() != 5 {
		t.Errorf("clone has different identity")
	}
}

func TestNewExecutedBlock_DerivesHashedState(t *testing.T) {
	outcome := &ExecutionOutcome{Accounts: []AccountChange{{Address: common.Address{1}, Info: &Account{}}}}
	block := NewExecutedBlock(Header{Number: 3}, outcome, nil)
	if block.Number() != 3 || block.TrieUpdates == nil {
		t.Errorf("unexpected block %v", block)
	}
	if len(block.HashedState.Accounts) != 1 || block.HashedState.Accounts[0].Hash != common.Keccak256ForAddress(common.Address{1}) {
		t.Errorf("unexpected hashed state %+v", block.HashedState)
	}
}
