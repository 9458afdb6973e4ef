// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Sweep runs every case of folders x models x loading modes sequentially,
// each on its own time-bounded engine from the factory. A failed or
// timed-out case is reported and skipped; the sweep always proceeds to the
// next queued case. Model files whose name contains "mass" hold mass
// tallies, not member tables, and are ignored.
func Sweep(factory EngineFactory, sd *inp.SweepData) (nrun, nfail int, err error) {

	// optional sweep store
	var store *Store
	if sd.StorePath != "" {
		store, err = OpenStore(sd.StorePath)
		if err != nil {
			return
		}
		defer store.Close()
	}
	timeout := time.Duration(sd.TimeoutS * float64(time.Second))

	for i, folder := range sd.Folders {
		mech := inp.MechType(sd.MechTypes[i])
		models, gerr := filepath.Glob(filepath.Join(folder, "*.csv"))
		if gerr != nil {
			return nrun, nfail, chk.Err("cannot list model folder %q: %v", folder, gerr)
		}
		if len(models) == 0 {
			io.Pforan("model folder %q has no member tables\n", folder)
			continue
		}

		for _, modelPath := range models {
			if strings.Contains(strings.ToLower(filepath.Base(modelPath)), "mass") {
				continue
			}
			for _, modeName := range sd.Modes {
				mode, perr := bcs.ParseMode(modeName)
				if perr != nil {
					return nrun, nfail, perr
				}
				nodeBC := strings.HasSuffix(modeName, "_kres")
				p := CaseFromSweep(sd, mech, mode, nodeBC, modelPath)
				p.Name = io.FnKey(modelPath) + "_" + modeName

				io.Pf("\n>>> %s (%s, %s)\n", p.Name, mech, modeName)
				rec, cerr := RunCaseWithTimeout(factory, p, timeout)
				if cerr != nil {
					io.PfRed("case %s failed: %v\n", p.Name, cerr)
					nfail++
					continue
				}
				nrun++
				if store != nil {
					serr := store.Save(p.Name, mech, mode, rec)
					if serr != nil {
						io.PfRed("%v\n", serr)
					}
				}
			}
		}
	}
	io.Pf("\nsweep finished: %d ok, %d failed\n", nrun, nfail)
	return
}
