// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bcs implements boundary-condition dispatch: for a mechanism
// family and loading mode it selects the fixed and driven groups by spatial
// range and applies zero or prescribed-displacement constraints
package bcs

import (
	"github.com/compmech/stiffsweep/eng"
	"github.com/cpmech/gosl/chk"
)

// Mode is a loading mode. Using an enumerated type (instead of dispatch by
// name string) makes illegal modes unrepresentable.
type Mode int

// loading modes
const (
	Compression Mode = iota
	Tension
	CantileverX
	CantileverZ
	Torsion
)

// mode names as used in result filenames and sweep configs
var modeNames = map[Mode]string{
	Compression: "compression",
	Tension:     "tension",
	CantileverX: "cant_x",
	CantileverZ: "cant_z",
	Torsion:     "torsion",
}

// String returns the mode name
func (o Mode) String() string { return modeNames[o] }

// ParseMode converts a mode name to a Mode. The "_kres" suffix used by
// sweep scripts for node-strategy variants is accepted and stripped.
func ParseMode(name string) (mode Mode, err error) {
	if n := len(name); n > 5 && name[n-5:] == "_kres" {
		name = name[:n-5]
	}
	for m, s := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return 0, chk.Err("unknown loading mode %q", name)
}

// canonical constraint application order
var dofOrder = []eng.Dof{eng.Ux, eng.Uy, eng.Uz, eng.RotX, eng.RotY, eng.RotZ}

// drivenConstraints returns the constraint map of the driven group as a
// function of the displacement magnitude d
func (o Mode) drivenConstraints(d float64) map[eng.Dof]float64 {
	switch o {
	case Compression:
		return map[eng.Dof]float64{eng.Ux: 0, eng.Uy: -d, eng.Uz: 0}
	case Tension:
		return map[eng.Dof]float64{eng.Ux: 0, eng.Uy: d, eng.Uz: 0}
	case CantileverX:
		return map[eng.Dof]float64{eng.Ux: -d, eng.Uz: 0}
	case CantileverZ:
		return map[eng.Dof]float64{eng.Uz: -d, eng.Ux: 0}
	case Torsion:
		return map[eng.Dof]float64{
			eng.Ux: 0, eng.Uy: 0, eng.Uz: 0,
			eng.RotX: 0, eng.RotY: d, eng.RotZ: 0,
		}
	}
	chk.Panic("mode %d has no driven constraints", o)
	return nil
}

// fixedConstraints returns the constraint map of the fixed group: zero
// translation, or all six degrees of freedom for torsion
func (o Mode) fixedConstraints() map[eng.Dof]float64 {
	if o == Torsion {
		return map[eng.Dof]float64{
			eng.Ux: 0, eng.Uy: 0, eng.Uz: 0,
			eng.RotX: 0, eng.RotY: 0, eng.RotZ: 0,
		}
	}
	return map[eng.Dof]float64{eng.Ux: 0, eng.Uy: 0, eng.Uz: 0}
}
