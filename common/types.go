// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	// HashSize is the size of a Hash in bytes.
	HashSize = 32
	// AddressSize is the size of an Address in bytes.
	AddressSize = 20
	// KeySize is the size of a storage Key in bytes.
	KeySize = 32
	// ValueSize is the size of a storage Value in bytes.
	ValueSize = 32
	// BalanceSize is the size of a Balance in bytes.
	BalanceSize = 32
)

// Hash is a 32-byte keccak digest. It is used for block hashes and as the
// hashed form of account addresses and storage keys.
type Hash [HashSize]byte

// Address identifies an account.
type Address [AddressSize]byte

// Key identifies a storage slot of an account.
type Key [KeySize]byte

// Value is the content of a storage slot.
type Value [ValueSize]byte

// Balance is a big-endian encoded 256-bit unsigned integer.
type Balance [BalanceSize]byte

func (h *Hash) Compare(other *Hash) int {
	return bytes.Compare(h[:], other[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(h[:]))
}

func (a *Address) Compare(other *Address) int {
	return bytes.Compare(a[:], other[:])
}

func (a Address) String() string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(a[:]))
}

func (k *Key) Compare(other *Key) int {
	return bytes.Compare(k[:], other[:])
}

func (k Key) String() string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(k[:]))
}

func (v Value) String() string {
	return fmt.Sprintf("0x%s", hex.EncodeToString(v[:]))
}

var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 8*BalanceSize), big.NewInt(1))

// ToBalance converts the given non-negative integer into a Balance.
func ToBalance(value *big.Int) (Balance, error) {
	var res Balance
	if value.Sign() < 0 {
		return res, fmt.Errorf("balances must be non-negative, got %v", value)
	}
	if value.Cmp(maxBalance) > 0 {
		return res, fmt.Errorf("balance %v exceeds maximum value", value)
	}
	value.FillBytes(res[:])
	return res, nil
}

// ToBigInt converts the balance into a big integer.
func (b *Balance) ToBigInt() *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// HashFromHex parses a hex string, with or without 0x prefix, into a Hash.
func HashFromHex(s string) (Hash, error) {
	var res Hash
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return res, err
	}
	if len(data) != HashSize {
		return res, fmt.Errorf("invalid hash length, wanted %d bytes, got %d", HashSize, len(data))
	}
	copy(res[:], data)
	return res, nil
}
