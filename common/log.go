// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

// Logger is the package-level leveled logger shared by every package in
// this module. Callers that want different verbosity should call
// logging.SetLogLevel("paillier", level) themselves; this package never
// changes the level on its own.
var Logger = logging.Logger("paillier")
