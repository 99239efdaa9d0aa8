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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Carmen-Persistence/common"
	"github.com/Fantom-foundation/Carmen-Persistence/database/provider"
	"github.com/Fantom-foundation/Carmen-Persistence/trie"
	"github.com/urfave/cli/v2"
)

var (
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "the hex encoded hashed address of the account whose storage trie is dumped",
	}
)

var dumpTrieCommand = cli.Command{
	Action: dumpTrie,
	Name:   "trie",
	Usage:  "lists the stored nodes of the account trie or of a storage trie",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&accountFlag,
		&verboseFlag,
	},
}

func dumpTrie(ctx *cli.Context) (err error) {
	log, err := newLogger(ctx)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, closeDb, err := open(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeDb())
	}()

	ro, err := provider.NewFactory(db).ProviderRO()
	if err != nil {
		return err
	}
	defer ro.Close()

	var cursor trie.Cursor
	if account := ctx.String(accountFlag.Name); account != "" {
		hash, err := common.HashFromHex(account)
		if err != nil {
			return fmt.Errorf("invalid account %q: %w", account, err)
		}
		cursor, err = ro.TrieCursorFactory().StorageTrieCursor(hash)
		if err != nil {
			return err
		}
	} else {
		cursor, err = ro.TrieCursorFactory().AccountTrieCursor()
		if err != nil {
			return err
		}
	}
	defer cursor.Close()

	out := ctx.App.Writer
	count := 0
	for path, node, err := cursor.Seek(""); node != nil || err != nil; path, node, err = cursor.Next() {
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-16v %v\n", fmt.Sprintf("[%v]", path), node)
		count++
	}
	fmt.Fprintf(out, "%d nodes\n", count)
	return nil
}
