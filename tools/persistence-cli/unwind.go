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

	"github.com/Fantom-foundation/Carmen-Persistence/database/provider"
	"github.com/Fantom-foundation/Carmen-Persistence/persistence"
	"github.com/urfave/cli/v2"
)

var (
	targetBlockFlag = cli.Uint64Flag{
		Name:     "block",
		Usage:    "the block to unwind to; all blocks above it are removed",
		Required: true,
	}
)

var unwindCommand = cli.Command{
	Action: unwind,
	Name:   "unwind",
	Usage:  "removes all blocks above the given block and reverts their state",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&targetBlockFlag,
		&cpuProfileFlag,
		&verboseFlag,
	},
}

func unwind(ctx *cli.Context) (err error) {
	if profile := ctx.String(cpuProfileFlag.Name); profile != "" {
		if err := StartCPUProfile(profile); err != nil {
			return err
		}
		defer StopCPUProfile()
	}

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

	config := persistence.DefaultConfig()
	config.Logger = log
	handle := persistence.Spawn(persistence.NewProviderFactory(provider.NewFactory(db)), config)
	defer func() {
		handle.Close()
		<-handle.Done()
	}()

	target := ctx.Uint64(targetBlockFlag.Name)
	removed, err := handle.RemoveBlocksAbove(ctx.Context, target)
	if err != nil {
		return fmt.Errorf("failed to unwind to block %d: %w", target, err)
	}

	out := ctx.App.Writer
	for _, block := range removed {
		fmt.Fprintf(out, "removed %v\n", block)
	}
	fmt.Fprintf(out, "%d blocks removed\n", len(removed))
	return nil
}
