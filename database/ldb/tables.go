// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"encoding/binary"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
)

// TableSpace is the one-byte prefix separating the tables of the database.
type TableSpace byte

const (
	// AccountTrieKey is a tablespace for account trie nodes by path
	AccountTrieKey TableSpace = 'A'
	// StorageTrieKey is a tablespace for storage trie nodes by hashed account and path
	StorageTrieKey TableSpace = 'S'
	// BlockKey is a tablespace for blocks and their senders by number
	BlockKey TableSpace = 'B'
	// BlockHashKey is a tablespace mapping block hashes to block numbers
	BlockHashKey TableSpace = 'H'
	// OutcomeKey is a tablespace for execution outcomes by block number
	OutcomeKey TableSpace = 'O'
	// HashedStateKey is a tablespace for hashed post states by block number
	HashedStateKey TableSpace = 'Q'
	// PlainAccountKey is a tablespace for current accounts by address
	PlainAccountKey TableSpace = 'P'
	// PlainStorageKey is a tablespace for current storage values by address and key
	PlainStorageKey TableSpace = 'p'
	// AccountChangeSetKey is a tablespace for prior accounts by block number and address
	AccountChangeSetKey TableSpace = 'C'
	// StorageChangeSetKey is a tablespace for prior storage values by block number, address and key
	StorageChangeSetKey TableSpace = 'c'
	// HashedAccountKey is a tablespace for current accounts by hashed address
	HashedAccountKey TableSpace = 'X'
	// HashedStorageKey is a tablespace for current storage values by hashed address and slot
	HashedStorageKey TableSpace = 'x'
	// HashedAccountChangeSetKey is a tablespace for prior hashed accounts by block number
	HashedAccountChangeSetKey TableSpace = 'Y'
	// HashedStorageChangeSetKey is a tablespace for prior hashed storage values by block number
	HashedStorageChangeSetKey TableSpace = 'y'
	// TrieJournalKey is a tablespace for the trie node changes of each block
	TrieJournalKey TableSpace = 'T'
	// AccountHistoryKey is a tablespace for the blocks modifying an account
	AccountHistoryKey TableSpace = 'I'
	// StorageHistoryKey is a tablespace for the blocks modifying a storage slot
	StorageHistoryKey TableSpace = 'i'
	// StageCheckpointKey is a tablespace for the last block processed by each stage
	StageCheckpointKey TableSpace = 'K'
)

// TableSpaces lists all tablespaces of the database.
var TableSpaces = []TableSpace{
	AccountTrieKey, StorageTrieKey, BlockKey, BlockHashKey, OutcomeKey, HashedStateKey,
	PlainAccountKey, PlainStorageKey, AccountChangeSetKey, StorageChangeSetKey,
	HashedAccountKey, HashedStorageKey, HashedAccountChangeSetKey, HashedStorageChangeSetKey,
	TrieJournalKey, AccountHistoryKey, StorageHistoryKey, StageCheckpointKey,
}

func (t TableSpace) String() string {
	switch t {
	case AccountTrieKey:
		return "AccountTrie"
	case StorageTrieKey:
		return "StorageTrie"
	case BlockKey:
		return "Blocks"
	case BlockHashKey:
		return "BlockHashes"
	case OutcomeKey:
		return "Outcomes"
	case HashedStateKey:
		return "HashedStates"
	case PlainAccountKey:
		return "PlainAccounts"
	case PlainStorageKey:
		return "PlainStorage"
	case AccountChangeSetKey:
		return "AccountChangeSets"
	case StorageChangeSetKey:
		return "StorageChangeSets"
	case HashedAccountKey:
		return "HashedAccounts"
	case HashedStorageKey:
		return "HashedStorage"
	case HashedAccountChangeSetKey:
		return "HashedAccountChangeSets"
	case HashedStorageChangeSetKey:
		return "HashedStorageChangeSets"
	case TrieJournalKey:
		return "TrieJournal"
	case AccountHistoryKey:
		return "AccountHistory"
	case StorageHistoryKey:
		return "StorageHistory"
	case StageCheckpointKey:
		return "StageCheckpoints"
	}
	return string([]byte{byte(t)})
}

const blockSize = 8 // block number size (uint64)

// ToDBKey concatenates the tablespace prefix and the given key parts.
func ToDBKey(t TableSpace, parts ...[]byte) []byte {
	size := 1
	for _, part := range parts {
		size += len(part)
	}
	res := make([]byte, 1, size)
	res[0] = byte(t)
	for _, part := range parts {
		res = append(res, part...)
	}
	return res
}

// BlockNumberBytes encodes a block number such that byte order matches numeric order.
func BlockNumberBytes(number uint64) []byte {
	var res [blockSize]byte
	binary.BigEndian.PutUint64(res[:], number)
	return res[:]
}

// ParseBlockNumber decodes a block number encoded by BlockNumberBytes.
func ParseBlockNumber(data []byte) uint64 {
	return binary.BigEndian.Uint64(data[:blockSize])
}

func AccountTrieNodeKey(path trie.Nibbles) []byte {
	return ToDBKey(AccountTrieKey, path.Bytes())
}

func StorageTriePrefix(account common.Hash) []byte {
	return ToDBKey(StorageTrieKey, account[:])
}

func StorageTrieNodeKey(account common.Hash, path trie.Nibbles) []byte {
	return ToDBKey(StorageTrieKey, account[:], path.Bytes())
}

func BlockNumberKey(table TableSpace, number uint64) []byte {
	return ToDBKey(table, BlockNumberBytes(number))
}

func PlainStoragePrefix(addr common.Address) []byte {
	return ToDBKey(PlainStorageKey, addr[:])
}

func PlainStorageSlotKey(addr common.Address, key common.Key) []byte {
	return ToDBKey(PlainStorageKey, addr[:], key[:])
}

func HashedStoragePrefix(account common.Hash) []byte {
	return ToDBKey(HashedStorageKey, account[:])
}

func HashedStorageSlotKey(account common.Hash, slot common.Hash) []byte {
	return ToDBKey(HashedStorageKey, account[:], slot[:])
}

// TrieJournalEntryKey addresses the seq-th trie change of the given block.
func TrieJournalEntryKey(number uint64, seq uint32) []byte {
	var s [4]byte
	binary.BigEndian.PutUint32(s[:], seq)
	return ToDBKey(TrieJournalKey, BlockNumberBytes(number), s[:])
}
