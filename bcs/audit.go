// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcs

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// WriteAudit saves the effective parameter set of one boundary-condition
// application as a one-row csv file, for post-hoc inspection of what a case
// actually ran with
func WriteAudit(dirout, fnkey string, p Params, strategy string, displacement float64) {
	var buf bytes.Buffer
	io.Ff(&buf, "mech,mode,strategy,percentdisp,displacement\n")
	io.Ff(&buf, "%s,%s,%s,%g,%g\n", p.Mech, p.Mode, strategy, p.PercentDisp, displacement)
	io.WriteFileD(dirout, fnkey+".csv", &buf)
}
