// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"strconv"
	"time"

	"github.com/compmech/stiffsweep/eng"
	"github.com/cpmech/gosl/chk"
	"github.com/joho/godotenv"
)

// environment keys for the solver launcher
const (
	envExec    = "STIFFSWEEP_SOLVER_EXE"
	envNproc   = "STIFFSWEEP_SOLVER_NPROC"
	envLicense = "STIFFSWEEP_SOLVER_LICENSE"
	envStartTO = "STIFFSWEEP_SOLVER_START_TIMEOUT"
)

// ReadEngineSettings loads the external solver launch settings from the
// environment, optionally seeded from a .env file (missing .env is fine;
// already-exported variables win over file entries).
func ReadEngineSettings(envfile string) (set eng.Settings, err error) {
	if envfile != "" {
		if _, serr := os.Stat(envfile); serr == nil {
			err = godotenv.Load(envfile)
			if err != nil {
				return set, chk.Err("cannot load %q: %v", envfile, err)
			}
		}
	}
	set.Exec = os.Getenv(envExec)
	if set.Exec == "" {
		return set, chk.Err("%s is not set; cannot locate the solver executable", envExec)
	}
	set.Nproc = 12
	if s := os.Getenv(envNproc); s != "" {
		set.Nproc, err = strconv.Atoi(s)
		if err != nil {
			return set, chk.Err("%s must be an integer: %v", envNproc, err)
		}
	}
	set.License = os.Getenv(envLicense)
	set.StartTimeout = 600 * time.Second
	if s := os.Getenv(envStartTO); s != "" {
		secs, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return set, chk.Err("%s must be a number of seconds: %v", envStartTO, perr)
		}
		set.StartTimeout = time.Duration(secs * float64(time.Second))
	}
	return
}
