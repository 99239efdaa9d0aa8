// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package persistence

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config contains the parameters of the persistence actor.
type Config struct {
	// QueueSize is the number of requests that can be queued before senders
	// have to wait for the actor.
	QueueSize int
	// Logger receives the actor's log output.
	Logger *zap.Logger
	// Registerer is used to register the actor's metrics, nil to not export them.
	Registerer prometheus.Registerer
}

func DefaultConfig() Config {
	return Config{
		QueueSize: 16,
		Logger:    zap.NewNop(),
	}
}

func (c Config) withDefaults() Config {
	if c.QueueSize < 0 {
		c.QueueSize = 0
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
