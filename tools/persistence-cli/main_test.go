// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Carmen-Persistence/chain"
	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/Fantom-foundation/Carmen-Persistence/database/provider"
	"github.com/Fantom-foundation/Carmen-Persistence/persistence"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
)

var account = common.Keccak256ForAddress(common.Address{1})

func testNode(id byte) trie.BranchNodeCompact {
	node, err := trie.NewBranchNodeCompact(0b11, 0b01, 0b10, []common.Hash{{id}}, nil)
	if err != nil {
		panic(err)
	}
	return node
}

// createDatabase creates a database holding blocks 1 to 3.
func createDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db, err := ldb.Open(dir)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var blocks []*chain.ExecutedBlock
	var parent common.Hash
	for i := byte(1); i <= 3; i++ {
		outcome := &chain.ExecutionOutcome{
			Accounts: []chain.AccountChange{{Address: common.Address{1}, Info: &chain.Account{Nonce: uint64(i)}}},
		}
		updates := trie.NewTrieUpdates(
			trie.TrieEntry{Key: trie.AccountNode(trie.NewNibbles(trie.Nibble(i))), Op: trie.UpdateOp(testNode(i))},
			trie.TrieEntry{Key: trie.StorageNode(account, trie.NewNibbles(trie.Nibble(i))), Op: trie.UpdateOp(testNode(i))},
		)
		block := chain.NewExecutedBlock(chain.Header{ParentHash: parent, Number: uint64(i)}, outcome, updates)
		parent = block.Hash()
		blocks = append(blocks, block)
	}

	handle := persistence.Spawn(persistence.NewProviderFactory(provider.NewFactory(db)), persistence.DefaultConfig())
	defer func() {
		handle.Close()
		<-handle.Done()
	}()
	if _, err := handle.SaveBlocks(context.Background(), blocks); err != nil {
		t.Fatalf("failed to save blocks: %v", err)
	}
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run(append([]string{"persistence"}, args...)); err != nil {
		t.Fatalf("failed to run %v: %v", args, err)
	}
	return out.String()
}

func TestInfo_ReportsTablesAndStages(t *testing.T) {
	dir := createDatabase(t)
	out := run(t, "info", "--dir", dir)

	for _, want := range []string{"Last block: 3", "AccountTrie", "TrieJournal", string(provider.StageFinish)} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestDumpTrie_ListsStoredNodes(t *testing.T) {
	dir := createDatabase(t)

	if out := run(t, "trie", "--dir", dir); !strings.Contains(out, "3 nodes") {
		t.Errorf("unexpected account trie dump:\n%s", out)
	}
	hex := account.String()
	if out := run(t, "trie", "--dir", dir, "--account", hex); !strings.Contains(out, "3 nodes") {
		t.Errorf("unexpected storage trie dump:\n%s", out)
	}
	unknown := common.Hash{2}
	if out := run(t, "trie", "--dir", dir, "--account", unknown.String()); !strings.Contains(out, "0 nodes") {
		t.Errorf("unexpected dump of empty storage trie:\n%s", out)
	}
}

func TestDumpTrie_RejectsInvalidAccounts(t *testing.T) {
	dir := createDatabase(t)
	app := newApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"persistence", "trie", "--dir", dir, "--account", "0x0102"}); err == nil {
		t.Errorf("short account hash should be rejected")
	}
}

func TestUnwind_RemovesBlocksAboveTarget(t *testing.T) {
	dir := createDatabase(t)

	if out := run(t, "unwind", "--dir", dir, "--block", "1"); !strings.Contains(out, "2 blocks removed") {
		t.Errorf("unexpected unwind output:\n%s", out)
	}
	if out := run(t, "info", "--dir", dir); !strings.Contains(out, "Last block: 1 ") {
		t.Errorf("unexpected info after unwind:\n%s", out)
	}
	if out := run(t, "trie", "--dir", dir); !strings.Contains(out, "1 nodes") {
		t.Errorf("unexpected account trie after unwind:\n%s", out)
	}
}

func TestUnwind_BelowFirstBlockRemovesAllBlocks(t *testing.T) {
	dir := createDatabase(t)

	if out := run(t, "unwind", "--dir", dir, "--block", "0"); !strings.Contains(out, "3 blocks removed") {
		t.Errorf("unexpected unwind output:\n%s", out)
	}
	if out := run(t, "info", "--dir", dir); !strings.Contains(out, "Last block: none") {
		t.Errorf("unexpected info after unwind:\n%s", out)
	}
}
