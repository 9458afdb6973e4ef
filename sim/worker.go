// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"time"

	"github.com/compmech/stiffsweep/eng"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// DefaultTimeout is the per-case wall clock limit used when none is given
const DefaultTimeout = 1800 * time.Second

// caseResult crosses the worker boundary exactly once
type caseResult struct {
	rec *Record
	err error
}

// RunCaseWithTimeout runs one case like RunCase but bounds it by a wall
// clock limit. The case body runs in a worker goroutine against a dedicated
// engine; if the deadline passes first, the engine is killed and no record
// is persisted. The abandoned worker unblocks once the kill tears down the
// engine and is then collected.
func RunCaseWithTimeout(factory EngineFactory, p *CaseParams, timeout time.Duration) (rec *Record, err error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	err = p.check()
	if err != nil {
		return
	}
	p.setDefaults()
	caseDir := NewCaseDir(p.DirOut, p.Name)
	e, err := factory(caseDir)
	if err != nil {
		return
	}
	return runBounded(e, p, caseDir, timeout)
}

// runBounded runs the case body on an already-launched engine, bounded by
// the deadline
func runBounded(e eng.Engine, p *CaseParams, caseDir string, timeout time.Duration) (rec *Record, err error) {

	done := make(chan caseResult, 1)
	go func() {
		r, rerr := runOn(e, p, caseDir)
		done <- caseResult{r, rerr}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {

	case res := <-done:
		cerr := e.Close()
		if res.err != nil {
			return nil, res.err
		}
		if cerr != nil {
			io.Pforan("case %s: engine shutdown: %v\n", p.Name, cerr)
		}
		res.rec.Write(p.DirOut, p.Name)
		Purge(caseDir)
		return res.rec, nil

	case <-timer.C:
		e.Kill()
		io.Pforan("case %s: %v after %v\n", p.Name, StatTimedOut, timeout)
		return nil, chk.Err("case %q timed out after %v", p.Name, timeout)
	}
}
