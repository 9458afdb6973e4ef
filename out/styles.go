// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/plt"
)

// figure palette
const (
	ColPET      = "#69DFE8"
	ColKresling = "#EBAD4B"
	ColHERDS    = "#963800"
	ColSolid    = "#6A4E72"
)

// familyStyle returns the marker style of one family's scatter series
func familyStyle(fam Family) *plt.A {
	switch fam {
	case FamPET:
		return &plt.A{C: ColPET, M: "o", Ms: 7, Ls: "none", L: "PET"}
	case FamKresling:
		return &plt.A{C: ColKresling, M: "o", Ms: 7, Ls: "none", L: "KRES"}
	case FamHERDS:
		return &plt.A{C: ColHERDS, M: "o", Ms: 7, Ls: "none", L: "HERDS"}
	}
	return &plt.A{C: "k", M: "o", Ms: 7, Ls: "none"}
}

// curveStyle returns the line style of one deployment curve
func curveStyle(color, label string) *plt.A {
	return &plt.A{C: color, Ls: "-", Lw: 4, L: label}
}

// solidBeamStyle returns the style of the solid-beam reference line
func solidBeamStyle() *plt.A {
	return &plt.A{C: ColSolid, Ls: "--", Lw: 2, L: "Solid Beam"}
}
