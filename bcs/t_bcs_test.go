// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcs

import (
	"testing"

	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/compmech/stiffsweep/model"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// builds one scissor cell with end blocks inside an emulator; the structure
// spans y in [-25,25] and the blocks extend it to [-28,28]
func scissorModel(tst *testing.T) *eng.Emulator {
	e := eng.NewEmulator()
	tab := &inp.MemberTable{Members: []inp.Member{
		{X1: 0, Y1: -5, Z1: 0, X2: 4, Y2: 5, Z2: 0, Width: 3, Height: 1},
		{X1: 4, Y1: -5, Z1: 0, X2: 0, Y2: 5, Z2: 0, Width: 3, Height: 1},
	}}
	err := model.BuildBeamModel(e, tab, &model.BuildParams{
		Mech:       inp.Scissor,
		Ndiv:       4,
		Scale:      5.0,
		CrossScale: 0.6,
	})
	if err != nil {
		tst.Errorf("cannot build model:\n%v", err)
		return nil
	}
	return e
}

func Test_mode01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mode01. mode names")

	for name, mode := range map[string]Mode{
		"compression": Compression,
		"tension":     Tension,
		"cant_x":      CantileverX,
		"cant_z":      CantileverZ,
		"torsion":     Torsion,
	} {
		m, err := ParseMode(name)
		if err != nil {
			tst.Errorf("test failed:\n%v", err)
			return
		}
		if m != mode || m.String() != name {
			tst.Errorf("mode %q does not round-trip", name)
			return
		}
	}

	// the node-strategy suffix is stripped
	m, err := ParseMode("compression_kres")
	if err != nil || m != Compression {
		tst.Errorf("suffixed mode name failed: %v %v", m, err)
		return
	}
	_, err = ParseMode("sideways")
	if err == nil {
		tst.Errorf("unknown mode name must fail")
	}
}

func Test_bcs01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bcs01. compression vs tension symmetry")

	for _, mode := range []Mode{Compression, Tension} {
		e := scissorModel(tst)
		if e == nil {
			return
		}
		d, err := ApplyToNodes(e, NewParams(inp.Scissor, mode, 1.0))
		if err != nil {
			tst.Errorf("test failed:\n%v", err)
			return
		}
		chk.Scalar(tst, "d", 1e-14, d, 0.5)

		driven := e.ComponentConstraints(DrivenComp)
		fixed := e.ComponentConstraints(FixedComp)
		io.Pforan("%v: driven=%v fixed=%v\n", mode, driven, fixed)
		uy := driven[eng.Uy]
		if mode == Compression {
			chk.Scalar(tst, "driven uy", 1e-14, uy, -0.5)
		} else {
			chk.Scalar(tst, "driven uy", 1e-14, uy, +0.5)
		}
		chk.Scalar(tst, "driven ux", 1e-15, driven[eng.Ux], 0)
		chk.Scalar(tst, "fixed uy", 1e-15, fixed[eng.Uy], 0)
		if len(e.Component(FixedComp)) == 0 || len(e.Component(DrivenComp)) == 0 {
			tst.Errorf("empty component")
			return
		}
	}
}

func Test_bcs02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bcs02. cantilever-X with area strategy")

	e := scissorModel(tst)
	if e == nil {
		return
	}
	d, err := ApplyToAreas(e, NewParams(inp.Scissor, CantileverX, 1.0))
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}

	// one percent of the 50-unit inner span
	chk.Scalar(tst, "d", 1e-14, d, 0.5)

	// the free-end corner is driven along -X and held in Z
	driven := e.ComponentConstraints(DrivenComp)
	chk.Scalar(tst, "driven ux", 1e-14, driven[eng.Ux], -0.5)
	chk.Scalar(tst, "driven uz", 1e-15, driven[eng.Uz], 0)
	if _, ok := driven[eng.Uy]; ok {
		tst.Errorf("cantilever driven group must leave uy free")
		return
	}

	// the fixed face holds all translations
	fixed := e.ComponentConstraints(FixedComp)
	chk.Scalar(tst, "fixed ux", 1e-15, fixed[eng.Ux], 0)
	chk.Scalar(tst, "fixed uy", 1e-15, fixed[eng.Uy], 0)
	chk.Scalar(tst, "fixed uz", 1e-15, fixed[eng.Uz], 0)
}

func Test_bcs03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bcs03. torsion and fixed displacement")

	e := scissorModel(tst)
	if e == nil {
		return
	}
	p := NewParams(inp.Scissor, Torsion, 1.0)
	p.FixedDisp = 0.0628 // used verbatim, percent ignored
	d, err := ApplyToNodes(e, p)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "d", 1e-15, d, 0.0628)

	driven := e.ComponentConstraints(DrivenComp)
	chk.Scalar(tst, "driven roty", 1e-15, driven[eng.RotY], 0.0628)
	chk.Scalar(tst, "driven ux", 1e-15, driven[eng.Ux], 0)

	// torsion clamps all six dofs of the fixed group
	fixed := e.ComponentConstraints(FixedComp)
	if len(fixed) != 6 {
		tst.Errorf("torsion fixed group has %d constraints", len(fixed))
	}
}

func Test_bcs04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bcs04. empty selection is a hard error")

	// keypoints exist (bounds are computable) but nothing was meshed, so
	// node selections come up empty
	e := eng.NewEmulator()
	e.Keypoint(1, 0, -5, 0)
	e.Keypoint(2, 0, 5, 0)
	e.Keypoint(3, 1, -4, 0)
	_, err := ApplyToNodes(e, NewParams(inp.Scissor, Compression, 1.0))
	if err == nil {
		tst.Errorf("empty selection must be a hard error")
		return
	}
	io.Pforan("err = %v\n", err)

	// unknown family is rejected before touching the engine
	_, err = ApplyToNodes(e, NewParams(inp.MechType("BOGUS"), Compression, 1.0))
	if err == nil {
		tst.Errorf("unknown family must be rejected")
	}
}
