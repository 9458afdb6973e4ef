// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/compmech/stiffsweep/model"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
)

// equilibrium iteration cap of the nonlinear solve
const neqit = 1000

// Status is the lifecycle state of one simulation case
type Status int

// case states
const (
	StatCreated Status = iota
	StatGeometryLoaded
	StatConstrained
	StatSolving
	StatConverged
	StatNonConverged
	StatTimedOut
)

var statusNames = []string{"created", "geometry-loaded", "constrained", "solving", "converged", "non-converged", "timed-out"}

// String returns the state name
func (o Status) String() string { return statusNames[o] }

// NewCaseDir creates the working directory of one case under dirout/cases,
// named by the case key, a timestamp and a short unique id so that repeated
// runs of the same case never collide
func NewCaseDir(dirout, fnkey string) string {
	stamp := time.Now().Format("20060102_150405")
	id := uuid.NewString()[:8]
	caseDir := filepath.Join(dirout, "cases", io.Sf("%s_%s_%s", fnkey, stamp, id))
	err := os.MkdirAll(caseDir, 0777)
	if err != nil {
		chk.Panic("cannot create case directory %q: %v", caseDir, err)
	}
	return caseDir
}

// EngineFactory launches one engine for a case working directory. Every
// case gets its own engine; the factory is the seam that lets tests run
// cases against the in-memory emulator.
type EngineFactory func(caseDir string) (eng.Engine, error)

// ClientFactory returns a factory launching the external solver configured
// by set
func ClientFactory(set eng.Settings) EngineFactory {
	return func(caseDir string) (eng.Engine, error) {
		return eng.NewClient(set, caseDir)
	}
}

// RunCase runs one simulation case on a fresh engine, without a wall-clock
// limit. The record is persisted as DirOut/Name.csv; the engine working
// files stay in the case directory, purged down to the run log and geometry
// archive.
func RunCase(factory EngineFactory, p *CaseParams) (rec *Record, err error) {
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
	rec, err = runOn(e, p, caseDir)
	cerr := e.Close()
	if err != nil {
		return
	}
	if cerr != nil {
		io.Pforan("case %s: engine shutdown: %v\n", p.Name, cerr)
	}
	rec.Write(p.DirOut, p.Name)
	Purge(caseDir)
	return
}

// runOn drives the full case sequence on an already-launched engine
func runOn(e eng.Engine, p *CaseParams, caseDir string) (rec *Record, err error) {

	stat := StatCreated
	io.Pf("case %s: %v\n", p.Name, stat)

	// material and geometry
	err = e.Prep7()
	if err != nil {
		return
	}
	for _, mp := range []struct {
		key string
		val float64
	}{{"EX", p.E}, {"NUXY", poisson}, {"DENS", density}} {
		err = e.MatProp(mp.key, 1, mp.val)
		if err != nil {
			return
		}
	}
	tab, err := inp.ReadMemberTable(p.ModelPath)
	if err != nil {
		return
	}
	err = model.BuildBeamModel(e, tab, &model.BuildParams{
		Mech:          p.Mech,
		ElemType:      p.ElemType,
		Ndiv:          p.NumElements,
		NumCrossElems: p.NumCrossElems,
		Scale:         p.Scale,
		CrossScale:    p.CrossScale,
		Warp:          p.Warp,
	})
	if err != nil {
		return
	}
	stat = StatGeometryLoaded
	io.Pf("case %s: %v\n", p.Name, stat)

	// boundary conditions; an explicit override (even zero) is used verbatim
	bp := bcs.NewParams(p.Mech, p.Mode, p.PercentDisp)
	bp.FixedDisp = p.FixedDisp
	var d float64
	strategy := "area"
	if p.NodeBC {
		strategy = "node"
		d, err = bcs.ApplyToNodes(e, bp)
	} else {
		d, err = bcs.ApplyToAreas(e, bp)
	}
	if err != nil {
		return
	}
	bcs.WriteAudit(caseDir, "bc_params", bp, strategy, d)
	stat = StatConstrained
	io.Pf("case %s: %v  d=%g\n", p.Name, stat, d)

	// nonlinear static solve
	err = e.LargeDeflection(true)
	if err != nil {
		return
	}
	err = e.Substeps(p.Substeps, p.Substeps, 10*p.Substeps)
	if err != nil {
		return
	}
	err = e.EquilibriumIters(neqit)
	if err != nil {
		return
	}
	err = e.OutputLast()
	if err != nil {
		return
	}
	stat = StatSolving
	io.Pf("case %s: %v\n", p.Name, stat)
	err = e.Solve()
	if err != nil {
		return
	}
	conv, err := e.Converged()
	if err != nil {
		return
	}

	// characteristic length from fresh bounds; keypoints do not move
	err = e.SelectAll()
	if err != nil {
		return
	}
	b, err := model.FindBounds(e)
	if err != nil {
		return
	}
	length := b.InnerSpan()
	if p.Mech.FullSpan() {
		length = b.FullSpan()
	}

	if !conv {
		stat = StatNonConverged
		io.Pforan("case %s: %v\n", p.Name, stat)
		return NewSentinelRecord(d, length), nil
	}

	// reactions at the driven group
	err = e.Post1()
	if err != nil {
		return
	}
	err = e.LastSet()
	if err != nil {
		return
	}
	err = e.SelectComponent(bcs.DrivenComp)
	if err != nil {
		return
	}
	r, err := e.SumReactions()
	if err != nil {
		return
	}
	if math.IsNaN(r.Fx) {
		// engine published garbage; keep the record honest
		stat = StatNonConverged
		io.Pforan("case %s: %v (reactions undefined)\n", p.Name, stat)
		return NewSentinelRecord(d, length), nil
	}
	stat = StatConverged
	io.Pf("case %s: %v  F=(%g,%g,%g) M=(%g,%g,%g)\n", p.Name, stat, r.Fx, r.Fy, r.Fz, r.Mx, r.My, r.Mz)
	return NewRecord(d, r, length), nil
}
