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

import "github.com/Fantom-foundation/Carmen-Persistence/common"

const (
	// ErrUnavailable is reported if the persistence actor has terminated or
	// the handle used to reach it was closed.
	ErrUnavailable = common.ConstError("persistence service unavailable")
	// ErrContractViolation is reported for malformed requests. Requests
	// failing with it have not modified the database.
	ErrContractViolation = common.ConstError("persistence contract violation")
	// ErrEmptyBatch is reported for requests saving no blocks.
	ErrEmptyBatch = common.ConstError("empty block batch")
	// ErrUnorderedBatch is reported if the blocks of a request are not
	// consecutive and in ascending order.
	ErrUnorderedBatch = common.ConstError("block batch is not consecutive")
)
