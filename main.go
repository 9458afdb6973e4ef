// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"strings"
	"time"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/inp"
	"github.com/compmech/stiffsweep/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	modelPath, fnkey := io.ArgToFilename(0, "", ".csv", true)
	mech := io.ArgToString(1, "PET")
	modeName := io.ArgToString(2, "compression")
	percent := io.ArgToFloat(3, 1.0)
	timeoutS := io.ArgToFloat(4, 1800.0)
	envfile := io.ArgToString(5, ".env")

	// message
	io.PfWhite("\nStiffsweep -- compliant mechanism stiffness driver\n")
	io.Pf("Copyright 2024 The Stiffsweep Authors. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n")
	io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
		"member table path", "modelPath", modelPath,
		"mechanism family", "mech", mech,
		"loading mode", "modeName", modeName,
		"percent displacement", "percent", percent,
		"case timeout [s]", "timeoutS", timeoutS,
		"solver settings file", "envfile", envfile,
	))

	// solver settings
	set, err := inp.ReadEngineSettings(envfile)
	if err != nil {
		chk.Panic("cannot configure solver:\n%v", err)
	}

	// case parameters
	mode, err := bcs.ParseMode(modeName)
	if err != nil {
		chk.Panic("%v", err)
	}
	p := &sim.CaseParams{
		ModelPath:   modelPath,
		Name:        fnkey + "_" + modeName,
		Mech:        inp.MechType(mech),
		Mode:        mode,
		PercentDisp: percent,
		FixedDisp:   math.NaN(),
		NodeBC:      strings.HasSuffix(modeName, "_kres"),
	}

	// run case
	rec, err := sim.RunCaseWithTimeout(sim.ClientFactory(set), p, time.Duration(timeoutS*float64(time.Second)))
	if err != nil {
		chk.Panic("case failed:\n%v", err)
	}
	io.Pf("\nrecord: d=%g F=(%g,%g,%g) M=(%g,%g,%g) L=%g\n",
		rec.Displacement, rec.Fx, rec.Fy, rec.Fz, rec.Mx, rec.My, rec.Mz, rec.L)
}
