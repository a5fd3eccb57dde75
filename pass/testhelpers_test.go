// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package pass

import (
	"github.com/QuTech-Delft/OpenQL-sub006/options"
	"github.com/rs/zerolog"
)

func testOptions() *options.Set { return options.NewSet() }

func testDebugOption() options.Option {
	return options.NewEnum("debug", "debug output level", "no", []string{"no", "yes", "stats", "qasm", "both"})
}

func testLogger() zerolog.Logger { return zerolog.Nop() }
