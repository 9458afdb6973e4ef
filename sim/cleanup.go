// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/io"
)

// Purge removes the engine's scratch files from a case directory, keeping
// only the run log, the results archive and the geometry archive. Failures
// are reported but never abort the case: a leftover scratch file costs disk
// space, not correctness.
func Purge(caseDir string) {
	entries, err := os.ReadDir(caseDir)
	if err != nil {
		io.Pforan("cannot list case directory %q: %v\n", caseDir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || keepFile(entry.Name()) {
			continue
		}
		err = os.Remove(filepath.Join(caseDir, entry.Name()))
		if err != nil {
			io.Pforan("cannot remove %q: %v\n", entry.Name(), err)
		}
	}
}

// keepFile tells whether a case-directory file survives the purge
func keepFile(name string) bool {
	if name == "run.log" || name == "file.rst" {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".cdb")
}
