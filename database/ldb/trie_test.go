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
	"errors"
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
)

func testNode(id byte) trie.BranchNodeCompact {
	node, err := trie.NewBranchNodeCompact(0b11, 0b01, 0b10, []common.Hash{{id}}, nil)
	if err != nil {
		panic(err)
	}
	return node
}

func flush(t *testing.T, db *Database, updates *trie.TrieUpdates) {
	t.Helper()
	tx, err := db.BeginRw()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	if err := updates.Flush(NewTrieWriter(tx)); err != nil {
		t.Fatalf("failed to flush updates: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

type nodeAt struct {
	path trie.Nibbles
	id   byte
}

func collect(t *testing.T, cursor trie.Cursor) []nodeAt {
	t.Helper()
	defer cursor.Close()
	var res []nodeAt
	for {
		path, node, err := cursor.Next()
		if err != nil {
			t.Fatalf("failed to iterate: %v", err)
		}
		if node == nil {
			return res
		}
		res = append(res, nodeAt{path, node.Hashes[0][0]})
	}
}

func checkNodes(t *testing.T, want, got []nodeAt) {
	t.Helper()
	if fmt.Sprint(want) != fmt.Sprint(got) {
		t.Errorf("unexpected nodes, wanted %v, got %v", want, got)
	}
}

func TestTrieCursor_IteratesNodesInPathOrder(t *testing.T) {
	db := openTestDatabase(t)
	a, b := common.Hash{1}, common.Hash{2}
	flush(t, db, trie.NewTrieUpdates(
		trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(2)), Op: trie.UpdateOp(testNode(2))},
		trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(1, 0)), Op: trie.UpdateOp(testNode(3))},
		trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(1)), Op: trie.UpdateOp(testNode(1))},
		trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(5)), Op: trie.UpdateOp(testNode(4))},
		trie.TrieEntry{Key: trie.StorageNode(b, trie.NewNibbles(0)), Op: trie.UpdateOp(testNode(5))},
	))

	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	factory := NewTrieCursorFactory(tx)

	accounts, _ := factory.AccountTrieCursor()
	checkNodes(t, []nodeAt{{trie.NewNibbles(1), 1}, {trie.NewNibbles(1, 0), 3}, {trie.NewNibbles(2), 2}}, collect(t, accounts))
	storage, _ := factory.StorageTrieCursor(a)
	checkNodes(t, []nodeAt{{trie.NewNibbles(5), 4}}, collect(t, storage))
	storage, _ = factory.StorageTrieCursor(common.Hash{3})
	checkNodes(t, nil, collect(t, storage))
}

func TestTrieCursor_SeekAndSeekExact(t *testing.T) {
	db := openTestDatabase(t)
	account := common.Hash{1}
	flush(t, db, trie.NewTrieUpdates(
		trie.TrieEntry{Key: trie.StorageNode(account, trie.NewNibbles(1)), Op: trie.UpdateOp(testNode(1))},
		trie.TrieEntry{Key: trie.StorageNode(account, trie.NewNibbles(3)), Op: trie.UpdateOp(testNode(3))},
	))
	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	cursor, _ := NewTrieCursorFactory(tx).StorageTrieCursor(account)
	defer cursor.Close()

	if path, node, err := cursor.SeekExact(trie.NewNibbles(2)); err != nil || node != nil {
		t.Errorf("unexpected result of exact seek %v, %v, %v", path, node, err)
	}
	if current, ok, _ := cursor.Current(); ok {
		t.Errorf("cursor should not be positioned after a miss, got %v", current)
	}
	if _, node, _ := cursor.Next(); node != nil {
		t.Errorf("next after a miss should report nothing")
	}
	if path, node, err := cursor.Seek(trie.NewNibbles(2)); err != nil || path != trie.NewNibbles(3) || node == nil {
		t.Errorf("unexpected result of seek %v, %v, %v", path, node, err)
	}
	if current, ok, _ := cursor.Current(); !ok || current != trie.StorageNode(account, trie.NewNibbles(3)) {
		t.Errorf("unexpected current position %v", current)
	}
	if path, node, err := cursor.SeekExact(trie.NewNibbles(1)); err != nil || path != trie.NewNibbles(1) || node == nil {
		t.Errorf("unexpected result of exact seek %v, %v, %v", path, node, err)
	}
	if path, _, _ := cursor.Next(); path != trie.NewNibbles(3) {
		t.Errorf("unexpected next path %v", path)
	}
	if _, node, _ := cursor.Seek(trie.NewNibbles(3, 0)); node != nil {
		t.Errorf("seek past the end should report nothing")
	}
}

func TestTrieWriter_DeleteStorageTrieRemovesAllNodesOfAccount(t *testing.T) {
	db := openTestDatabase(t)
	a, b := common.Hash{1}, common.Hash{1, 1}
	flush(t, db, trie.NewTrieUpdates(
		trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(1)), Op: trie.UpdateOp(testNode(1))},
		trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(2)), Op: trie.UpdateOp(testNode(2))},
		trie.TrieEntry{Key: trie.StorageNode(b, trie.NewNibbles(1)), Op: trie.UpdateOp(testNode(3))},
	))
	flush(t, db, trie.NewTrieUpdates(
		trie.TrieEntry{Key: trie.StorageTrie(a), Op: trie.DeleteOp()},
		trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(3)), Op: trie.UpdateOp(testNode(4))},
	))

	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	factory := NewTrieCursorFactory(tx)
	cursor, _ := factory.StorageTrieCursor(a)
	checkNodes(t, []nodeAt{{trie.NewNibbles(3), 4}}, collect(t, cursor))
	cursor, _ = factory.StorageTrieCursor(b)
	checkNodes(t, []nodeAt{{trie.NewNibbles(1), 3}}, collect(t, cursor))
}

func TestTrieWriter_RootNodesAreNotStored(t *testing.T) {
	db := openTestDatabase(t)
	flush(t, db, trie.NewTrieUpdates(
		trie.TrieEntry{Key: trie.AccountNode(""), Op: trie.UpdateOp(testNode(1))},
	))
	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	if count, err := tx.Count(ToDBKey(AccountTrieKey)); err != nil || count != 0 {
		t.Errorf("root node should not be stored, got %d entries, %v", count, err)
	}
}

func TestTrieCursor_OverlayMatchesFlushedState(t *testing.T) {
	db := openTestDatabase(t)
	a, b := common.Hash{1}, common.Hash{2}
	base := &trie.TrieUpdates{}
	for i := byte(0); i < 10; i++ {
		base.Extend(
			trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(trie.Nibble(i))), Op: trie.UpdateOp(testNode(i))},
			trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(trie.Nibble(i))), Op: trie.UpdateOp(testNode(0x10 + i))},
			trie.TrieEntry{Key: trie.StorageNode(b, trie.NewNibbles(trie.Nibble(i), 1)), Op: trie.UpdateOp(testNode(0x20 + i))},
		)
	}
	flush(t, db, base)

	pending := &trie.TrieUpdates{}
	for i := byte(0); i < 16; i += 3 {
		pending.Extend(
			trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(trie.Nibble(i))), Op: trie.DeleteOp()},
			trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(trie.Nibble(i), 2)), Op: trie.UpdateOp(testNode(0x30 + i))},
			trie.TrieEntry{Key: trie.StorageNode(b, trie.NewNibbles(trie.Nibble(i), 1)), Op: trie.UpdateOp(testNode(0x40 + i))},
		)
	}
	pending.FinalizeStateUpdates(nil, nil, []common.Hash{a})
	pending.Extend(trie.TrieEntry{Key: trie.StorageNode(a, trie.NewNibbles(7, 7)), Op: trie.UpdateOp(testNode(0x50))})

	type cursors func(trie.CursorFactory) (trie.Cursor, error)
	tries := map[string]cursors{
		"account":  func(f trie.CursorFactory) (trie.Cursor, error) { return f.AccountTrieCursor() },
		"storageA": func(f trie.CursorFactory) (trie.Cursor, error) { return f.StorageTrieCursor(a) },
		"storageB": func(f trie.CursorFactory) (trie.Cursor, error) { return f.StorageTrieCursor(b) },
	}

	views := map[string][]nodeAt{}
	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	overlay := trie.NewInMemoryCursorFactory(NewTrieCursorFactory(tx), pending.Sorted())
	for name, open := range tries {
		cursor, err := open(overlay)
		if err != nil {
			t.Fatalf("failed to open cursor: %v", err)
		}
		views[name] = collect(t, cursor)
	}
	tx.Rollback()

	flush(t, db, pending)
	tx, err = db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	for name, open := range tries {
		cursor, err := open(NewTrieCursorFactory(tx))
		if err != nil {
			t.Fatalf("failed to open cursor: %v", err)
		}
		checkNodes(t, views[name], collect(t, cursor))
	}
	if len(views["storageA"]) != 1 {
		t.Errorf("wiped storage trie should only contain the re-created node, got %v", views["storageA"])
	}
}

func TestTrieCursor_CorruptedNodesAreReported(t *testing.T) {
	db := openTestDatabase(t)
	put(t, db, AccountTrieNodeKey(trie.NewNibbles(1)), []byte{1, 2, 3})
	node := testNode(1)
	put(t, db, ToDBKey(AccountTrieKey, []byte{0x20}), node.Encode())

	tx, err := db.BeginRo()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()
	cursor, _ := NewTrieCursorFactory(tx).AccountTrieCursor()
	defer cursor.Close()
	if _, _, err := cursor.SeekExact(trie.NewNibbles(1)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected %v, got %v", ErrInvalidData, err)
	}
	if _, _, err := cursor.Seek(trie.NewNibbles(2)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("expected %v, got %v", ErrInvalidData, err)
	}
}
