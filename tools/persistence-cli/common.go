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
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/Fantom-foundation/Carmen-Persistence/database/ldb"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the targeted directory",
		Required: true,
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "enables debug logging",
	}
	cpuProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "the file to write a CPU profile to",
	}
)

// open opens the database in the directory named by the dir flag. The
// returned function closes it again.
func open(ctx *cli.Context, log *zap.Logger) (*ldb.Database, func() error, error) {
	dir := ctx.String(dbDirectoryFlag.Name)
	log.Debug("opening database", zap.String("dir", dir))
	db, err := ldb.Open(dir)
	if err != nil {
		return nil, nil, err
	}
	return db, func() error {
		log.Debug("closing database", zap.String("dir", dir))
		return db.Close()
	}, nil
}

func newLogger(ctx *cli.Context) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !ctx.Bool(verboseFlag.Name) {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}

func StartCPUProfile(profileName string) error {
	f, err := os.Create(profileName)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %s", err)
	}
	return nil
}

func StopCPUProfile() {
	pprof.StopCPUProfile()
}
