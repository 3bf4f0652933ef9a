// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package node

import "github.com/btcsuite/btclog"

// log is this subsystem's logger, the standard btcsuite/btcd convention
// of a package-level logger swapped in via UseLogger.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger btclog.Logger) {
	log = logger
}
