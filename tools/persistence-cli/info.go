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

	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/Fantom-foundation/Carmen-Persistence/database/provider"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var getInfoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints summary information about a persistence DB directory",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&verboseFlag,
	},
}

func getInfo(ctx *cli.Context) (err error) {
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

	tx, err := db.BeginRo()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// tables are counted in parallel on the same snapshot
	counts := make([]int, len(ldb.TableSpaces))
	var group errgroup.Group
	group.SetLimit(4)
	for i, table := range ldb.TableSpaces {
		i, table := i, table
		group.Go(func() error {
			count, err := tx.Count([]byte{byte(table)})
			if err != nil {
				return fmt.Errorf("failed to count %v: %w", table, err)
			}
			counts[i] = count
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "Tables:\n")
	for i, table := range ldb.TableSpaces {
		fmt.Fprintf(out, "\t%-24v %d\n", table, counts[i])
	}

	ro, err := provider.NewFactory(db).ProviderRO()
	if err != nil {
		return err
	}
	defer ro.Close()

	number, hash, found, err := ro.LastBlock()
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(out, "Last block: %d (%v)\n", number, hash)
	} else {
		fmt.Fprintf(out, "Last block: none\n")
	}

	fmt.Fprintf(out, "Stages:\n")
	for _, stage := range provider.Stages {
		checkpoint, found, err := ro.StageCheckpoint(stage)
		if err != nil {
			return err
		}
		if found {
			fmt.Fprintf(out, "\t%-24v %d\n", stage, checkpoint)
		} else {
			fmt.Fprintf(out, "\t%-24v -\n", stage)
		}
	}
	return nil
}
