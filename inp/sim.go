// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// MechType is the structural family of a mechanism. It determines meshing
// of synthetic end blocks and which Y span counts as the mechanical length.
type MechType string

// mechanism families
const (
	PET      MechType = "PET"      // cellular sheet
	Scissor  MechType = "SCISSOR"  // scissor linkage
	Kresling MechType = "KRESLING" // Kresling origami unit
	HERDS    MechType = "HERDS"    // HERDS cellular structure
)

// Valid tells whether the mechanism family is known
func (o MechType) Valid() bool {
	switch o {
	case PET, Scissor, Kresling, HERDS:
		return true
	}
	return false
}

// FullSpan tells whether the reference length of this family is the full
// Y span (Kresling/HERDS) instead of the inner span between end blocks
func (o MechType) FullSpan() bool {
	return o == Kresling || o == HERDS
}

// SweepData holds the input data of one parameter sweep (.json file)
type SweepData struct {

	// models and loading
	Folders     []string `json:"folders"`     // one folder of member tables per mechanism family
	MechTypes   []string `json:"mechtypes"`   // mechanism family per folder
	Modes       []string `json:"modes"`       // loading mode names; e.g. ["cant_x", "compression"]
	PercentDisp float64  `json:"percentdisp"` // percent of reference length to displace
	TorsionDisp float64  `json:"torsiondisp"` // fixed rotation applied by torsion cases; 0 means percent-based

	// discretisation
	Substeps      int    `json:"substeps"`      // solver substeps
	NumElements   int    `json:"numelements"`   // line mesh divisions
	NumCrossElems int    `json:"numcrosselems"` // cross-section mesh cells
	ElemType      string `json:"elemtype"`      // line element type name
	Warp          bool   `json:"warp"`          // enable cross-section warping

	// geometry and material
	Scale      float64 `json:"scale"`      // geometry scale factor
	CrossScale float64 `json:"crossscale"` // cross-section scale factor
	E          float64 `json:"E"`          // Young's modulus

	// output
	DirOut    string  `json:"dirout"`    // directory for case results
	StorePath string  `json:"storepath"` // sweep database path; empty disables the store
	TimeoutS  float64 `json:"timeouts"`  // per-case wall clock limit in seconds
}

// ReadSweep reads sweep data from a JSON file and fills in defaults
func ReadSweep(path string) (o *SweepData, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read sweep file: %v", err)
	}
	o = new(SweepData)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot parse sweep file %q: %v", path, err)
	}
	if len(o.Folders) != len(o.MechTypes) {
		return nil, chk.Err("sweep file %q: %d folders but %d mechtypes", path, len(o.Folders), len(o.MechTypes))
	}
	for _, m := range o.MechTypes {
		if !MechType(m).Valid() {
			return nil, chk.Err("sweep file %q: unknown mechanism family %q", path, m)
		}
	}
	o.setDefaults()
	return
}

func (o *SweepData) setDefaults() {
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
	if o.TimeoutS == 0 {
		o.TimeoutS = 1800
	}
}
