// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_members01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("members01. member table and profiles")

	tab, err := ReadMemberTable("data/members01.csv")
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if len(tab.Members) != 3 {
		tst.Errorf("wrong number of members: %d", len(tab.Members))
		return
	}
	chk.Scalar(tst, "m0.y2", 1e-15, tab.Members[0].Y2, 10)
	chk.Scalar(tst, "m2.width", 1e-15, tab.Members[2].Width, 2)

	// one profile per distinct (width,height) pair, first-seen order
	tab.DeriveProfiles()
	if len(tab.Profiles) != 2 {
		tst.Errorf("wrong number of profiles: %d", len(tab.Profiles))
		return
	}
	chk.Ints(tst, "profidx", tab.ProfIdx, []int{0, 0, 1})
	chk.Scalar(tst, "prof0.width", 1e-15, tab.Profiles[0].Width, 3)
	chk.Scalar(tst, "prof1.width", 1e-15, tab.Profiles[1].Width, 2)

	// scaling touches endpoints and cross-sections independently
	tab.Scale(2.0, 0.5)
	chk.Scalar(tst, "scaled y2", 1e-15, tab.Members[0].Y2, 20)
	chk.Scalar(tst, "scaled width", 1e-15, tab.Members[0].Width, 1.5)
}

func Test_members02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("members02. missing table")

	_, err := ReadMemberTable("data/__nonexistent__.csv")
	if err == nil {
		tst.Errorf("reading a missing member table must fail")
	}
}

func Test_sweep01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sweep01. sweep config and defaults")

	sd, err := ReadSweep("data/sweep01.json")
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("sweep = %+v\n", sd)
	if len(sd.Folders) != 2 || sd.MechTypes[1] != "KRESLING" {
		tst.Errorf("wrong folders/mechtypes")
		return
	}
	chk.Scalar(tst, "percentdisp", 1e-15, sd.PercentDisp, 2.5)
	chk.Scalar(tst, "torsiondisp", 1e-15, sd.TorsionDisp, 0.0628)

	// defaults fill the unset values
	if sd.Substeps != 10 || sd.NumElements != 10 || sd.NumCrossElems != 3 {
		tst.Errorf("wrong discretisation defaults: %d %d %d", sd.Substeps, sd.NumElements, sd.NumCrossElems)
		return
	}
	if sd.ElemType != "BEAM188" || sd.DirOut != "data/results" {
		tst.Errorf("wrong string defaults: %q %q", sd.ElemType, sd.DirOut)
		return
	}
	chk.Scalar(tst, "E", 1e-15, sd.E, 962.8)
	chk.Scalar(tst, "timeouts", 1e-15, sd.TimeoutS, 1800)
}

func Test_mech01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mech01. mechanism families")

	if !PET.Valid() || !HERDS.Valid() || MechType("BOGUS").Valid() {
		tst.Errorf("family validity is wrong")
		return
	}
	if PET.FullSpan() || Scissor.FullSpan() {
		tst.Errorf("PET/scissor reference length must be the inner span")
		return
	}
	if !Kresling.FullSpan() || !HERDS.FullSpan() {
		tst.Errorf("Kresling/HERDS reference length must be the full span")
	}
}
