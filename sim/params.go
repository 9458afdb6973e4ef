// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim orchestrates simulation cases: for one member table and one
// loading mode it sequences load, mesh, constrain, solve and extraction on a
// dedicated engine process, bounded by a wall-clock limit, and persists the
// resulting reaction record
package sim

import (
	"math"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// fixed material constants; the modulus is the only material input that
// varies between studies
const (
	poisson = 0.3
	density = 7800.0
)

// CaseParams holds the input of one simulation case
type CaseParams struct {

	// model and loading
	ModelPath   string       // member-table csv path
	Name        string       // case file key; "" => model stem + "_" + mode
	Mech        inp.MechType // mechanism family
	Mode        bcs.Mode     // loading mode
	PercentDisp float64      // percent of reference length to displace; 0 => 1
	FixedDisp   float64      // explicit displacement override, used verbatim; NaN => percent-based
	NodeBC      bool         // node-based constraint strategy instead of area-based

	// discretisation
	Substeps      int    // solver substeps; 0 => 10
	NumElements   int    // line mesh divisions; 0 => 10
	NumCrossElems int    // cross-section mesh cells; 0 => 3
	ElemType      string // line element type name; "" => BEAM188
	Warp          bool   // enable cross-section warping

	// geometry and material
	Scale      float64 // geometry scale factor; 0 => 1
	CrossScale float64 // cross-section scale factor; 0 => 1
	E          float64 // Young's modulus; 0 => 962.8

	// output
	DirOut string // directory for the case record and working directory
}

func (o *CaseParams) setDefaults() {
	if o.Name == "" {
		o.Name = io.FnKey(o.ModelPath) + "_" + o.Mode.String()
	}
	if o.PercentDisp == 0 {
		o.PercentDisp = 1.0
	}
	if o.Substeps == 0 {
		o.Substeps = 10
	}
	if o.NumElements == 0 {
		o.NumElements = 10
	}
	if o.NumCrossElems == 0 {
		o.NumCrossElems = 3
	}
	if o.ElemType == "" {
		o.ElemType = "BEAM188"
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.CrossScale == 0 {
		o.CrossScale = 1.0
	}
	if o.E == 0 {
		o.E = 962.8
	}
	if o.DirOut == "" {
		o.DirOut = "data/results"
	}
}

func (o *CaseParams) check() error {
	if o.ModelPath == "" {
		return chk.Err("case has no model path")
	}
	if !o.Mech.Valid() {
		return chk.Err("unknown mechanism family %q", o.Mech)
	}
	return nil
}

// CaseFromSweep builds the parameters of one case of a sweep
func CaseFromSweep(sd *inp.SweepData, mech inp.MechType, mode bcs.Mode, nodeBC bool, modelPath string) *CaseParams {
	p := &CaseParams{
		ModelPath:     modelPath,
		Mech:          mech,
		Mode:          mode,
		PercentDisp:   sd.PercentDisp,
		FixedDisp:     math.NaN(),
		NodeBC:        nodeBC,
		Substeps:      sd.Substeps,
		NumElements:   sd.NumElements,
		NumCrossElems: sd.NumCrossElems,
		ElemType:      sd.ElemType,
		Warp:          sd.Warp,
		Scale:         sd.Scale,
		CrossScale:    sd.CrossScale,
		E:             sd.E,
		DirOut:        sd.DirOut,
	}
	if mode == bcs.Torsion && sd.TorsionDisp > 0 {
		p.FixedDisp = sd.TorsionDisp
	}
	return p
}
