// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// case parameters of the two-member scissor scenario
func scissorCase(dirout string) *CaseParams {
	return &CaseParams{
		ModelPath:   "data/scissor2.csv",
		Name:        "scissor2_cant_x",
		Mech:        inp.Scissor,
		Mode:        bcs.CantileverX,
		PercentDisp: 1.0,
		FixedDisp:   math.NaN(),
		NumElements: 4,
		Scale:       5.0,
		CrossScale:  0.6,
		DirOut:      dirout,
	}
}

func Test_record01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("record01. sentinel round trip")

	dirout := "/tmp/stiffsweep/record01"
	rec := NewSentinelRecord(0.5, 50.0)
	if rec.Converged() {
		tst.Errorf("sentinel record must not report convergence")
		return
	}
	rec.Write(dirout, "case01")

	back, err := ReadRecord(filepath.Join(dirout, "case01.csv"))
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "displacement", 1e-15, back.Displacement, 0.5)
	chk.Scalar(tst, "length", 1e-15, back.L, 50.0)
	if !math.IsNaN(back.Fx) || !math.IsNaN(back.Mz) {
		tst.Errorf("sentinels must survive the round trip: %+v", back)
	}
}

func Test_case01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("case01. two-member scissor under cantilever-X")

	caseDir := "/tmp/stiffsweep/case01"
	os.MkdirAll(caseDir, 0777)
	e := eng.NewEmulator()
	e.Reaction = eng.Reactions{Fx: -12.5, Fy: 0.2, Fz: 0.05, Mx: 0, My: 0, Mz: 1.3}
	p := scissorCase("/tmp/stiffsweep/case01_out")
	p.setDefaults()

	rec, err := runOn(e, p, caseDir)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("rec = %+v\n", rec)

	// one percent of the 50-unit inner span, and the span itself
	chk.Scalar(tst, "displacement", 1e-14, rec.Displacement, 0.5)
	chk.Scalar(tst, "L", 1e-14, rec.L, 50.0)
	chk.Scalar(tst, "fx", 1e-15, rec.Fx, -12.5)
	if !rec.Converged() {
		tst.Errorf("record must report convergence")
		return
	}

	// solver controls and material
	if !e.LargeDefl || !e.Solved {
		tst.Errorf("nonlinear solve controls not applied")
		return
	}
	if e.NsubstN != 10 || e.NsubstMin != 10 || e.NsubstMax != 100 {
		tst.Errorf("wrong substeps: %d %d %d", e.NsubstN, e.NsubstMin, e.NsubstMax)
		return
	}
	if e.Neqit != 1000 {
		tst.Errorf("wrong equilibrium iteration cap: %d", e.Neqit)
		return
	}
	chk.Scalar(tst, "EX", 1e-15, e.MatProps["EX"], 962.8)
	chk.Scalar(tst, "NUXY", 1e-15, e.MatProps["NUXY"], 0.3)
	chk.Scalar(tst, "DENS", 1e-15, e.MatProps["DENS"], 7800)

	// the audit file records the effective parameters
	if _, serr := os.Stat(filepath.Join(caseDir, "bc_params.csv")); serr != nil {
		tst.Errorf("audit file missing: %v", serr)
	}
}

func Test_case02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("case02. non-convergence keeps the length")

	caseDir := "/tmp/stiffsweep/case02"
	os.MkdirAll(caseDir, 0777)
	e := eng.NewEmulator()
	e.ConvergedFlag = false
	p := scissorCase("/tmp/stiffsweep/case02_out")
	p.setDefaults()

	rec, err := runOn(e, p, caseDir)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if rec.Converged() {
		tst.Errorf("record must carry sentinels")
		return
	}
	if !math.IsNaN(rec.Fx) || !math.IsNaN(rec.My) {
		tst.Errorf("reactions must be sentinels: %+v", rec)
		return
	}
	chk.Scalar(tst, "L", 1e-14, rec.L, 50.0)
	chk.Scalar(tst, "displacement", 1e-14, rec.Displacement, 0.5)
}

func Test_case03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("case03. explicit displacement overrides are verbatim")

	caseDir := "/tmp/stiffsweep/case03"
	os.MkdirAll(caseDir, 0777)
	e := eng.NewEmulator()
	p := scissorCase("/tmp/stiffsweep/case03_out")
	p.FixedDisp = 0 // zero is a legitimate override, not "unset"
	p.setDefaults()

	rec, err := runOn(e, p, caseDir)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "displacement", 1e-15, rec.Displacement, 0)
	chk.Scalar(tst, "L", 1e-14, rec.L, 50.0)
	driven := e.ComponentConstraints(bcs.DrivenComp)
	chk.Scalar(tst, "driven ux", 1e-15, driven[eng.Ux], 0)
}

func Test_worker01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("worker01. timeout kills the case without a record")

	dirout := "/tmp/stiffsweep/worker01_out"
	caseDir := "/tmp/stiffsweep/worker01"
	os.MkdirAll(caseDir, 0777)
	os.RemoveAll(dirout)
	e := eng.NewEmulator()
	e.HangOnSolve = true
	p := scissorCase(dirout)
	p.setDefaults()

	rec, err := runBounded(e, p, caseDir, 50*time.Millisecond)
	if err == nil {
		tst.Errorf("timed-out case must fail")
		return
	}
	io.Pforan("err = %v\n", err)
	if rec != nil {
		tst.Errorf("timed-out case must yield no record")
		return
	}
	if _, serr := os.Stat(filepath.Join(dirout, p.Name+".csv")); serr == nil {
		tst.Errorf("timed-out case must persist no record file")
	}
}

func Test_sweep01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sweep01. failed cases do not stop the sweep")

	dir := "/tmp/stiffsweep/sweep01"
	os.RemoveAll(dir)
	models := filepath.Join(dir, "models")
	os.MkdirAll(models, 0777)
	good, err := os.ReadFile("data/scissor2.csv")
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	os.WriteFile(filepath.Join(models, "good.csv"), good, 0666)
	os.WriteFile(filepath.Join(models, "hanging.csv"), good, 0666)
	os.WriteFile(filepath.Join(models, "broken.csv"), []byte("not,a,member,table\n1,2\n"), 0666)
	os.WriteFile(filepath.Join(models, "mass_table.csv"), []byte("filename,mass\n"), 0666)

	sd := &inp.SweepData{
		Folders:     []string{models},
		MechTypes:   []string{"SCISSOR"},
		Modes:       []string{"compression"},
		NumElements: 4,
		Scale:       5.0,
		CrossScale:  0.6,
		DirOut:      filepath.Join(dir, "results"),
		StorePath:   filepath.Join(dir, "sweep.db"),
		TimeoutS:    0.05,
	}

	// one engine per case; the hanging model never finishes its solve
	factory := func(caseDir string) (eng.Engine, error) {
		e := eng.NewEmulator()
		e.Reaction = eng.Reactions{Fy: -25}
		if strings.Contains(caseDir, "hanging") {
			e.HangOnSolve = true
		}
		return e, nil
	}

	nrun, nfail, err := Sweep(factory, sd)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("nrun=%d nfail=%d\n", nrun, nfail)
	if nrun != 1 || nfail != 2 {
		tst.Errorf("wrong sweep tally: %d ok, %d failed", nrun, nfail)
		return
	}

	// only the good case persists a record
	if _, serr := os.Stat(filepath.Join(sd.DirOut, "good_compression.csv")); serr != nil {
		tst.Errorf("good case record missing: %v", serr)
		return
	}
	for _, name := range []string{"hanging_compression.csv", "broken_compression.csv"} {
		if _, serr := os.Stat(filepath.Join(sd.DirOut, name)); serr == nil {
			tst.Errorf("failed case %s must persist no record", name)
			return
		}
	}

	// the store holds the good case only
	store, err := OpenStore(sd.StorePath)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	defer store.Close()
	n, err := store.Count()
	if err != nil || n != 1 {
		tst.Errorf("wrong store row count: %d (%v)", n, err)
	}
}

func Test_store01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("store01. sweep store round trip")

	dir := "/tmp/stiffsweep/store01"
	os.MkdirAll(dir, 0777)
	path := filepath.Join(dir, "sweep.db")
	os.Remove(path)

	store, err := OpenStore(path)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	defer store.Close()

	err = store.Save("scissor2_cant_x", inp.Scissor, bcs.CantileverX, NewRecord(0.5, eng.Reactions{Fx: -12.5}, 50))
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	err = store.Save("scissor2_torsion", inp.Scissor, bcs.Torsion, NewSentinelRecord(0.0628, 50))
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	n, err := store.Count()
	if err != nil || n != 2 {
		tst.Errorf("wrong row count: %d (%v)", n, err)
		return
	}

	cases, err := store.All()
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if len(cases) != 2 {
		tst.Errorf("wrong number of cases: %d", len(cases))
		return
	}
	var conv, sent *StoredCase
	for i := range cases {
		if cases[i].Converged {
			conv = &cases[i]
		} else {
			sent = &cases[i]
		}
	}
	if conv == nil || sent == nil {
		tst.Errorf("store lost the convergence flags")
		return
	}
	chk.Scalar(tst, "fx", 1e-15, conv.Rec.Fx, -12.5)
	if !math.IsNaN(sent.Rec.Fx) {
		tst.Errorf("NULL reactions must read back as sentinels")
		return
	}
	chk.Scalar(tst, "sent L", 1e-15, sent.Rec.L, 50)
}

func Test_cleanup01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cleanup01. purge keeps the audit files")

	dir := "/tmp/stiffsweep/cleanup01"
	os.RemoveAll(dir)
	os.MkdirAll(dir, 0777)
	for _, name := range []string{"run.log", "file.rst", "model.cdb", "scratch.tmp", "_stsw_query.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0666)
	}

	Purge(dir)
	for _, name := range []string{"run.log", "file.rst", "model.cdb"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			tst.Errorf("%s must survive the purge", name)
			return
		}
	}
	for _, name := range []string{"scratch.tmp", "_stsw_query.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			tst.Errorf("%s must be purged", name)
			return
		}
	}
}
