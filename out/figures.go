// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"strings"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// axis labels of the per-mode stiffness figures
var stiffnessLabels = map[bcs.Mode]string{
	bcs.CantileverX: "Flexural Modulus (EI)",
	bcs.CantileverZ: "Flexural Modulus (EI)",
	bcs.Compression: "Compressive Stiffness",
	bcs.Tension:     "Tensile Stiffness",
	bcs.Torsion:     "Torsional Stiffness",
}

// PlotExtensionRatio draws the per-family stiffness versus extension ratio
// scatter of one loading mode and saves it as dirout/fnkey.eps. With a
// non-nil mass table, stiffness is divided by mechanism mass and cases
// without a mass entry are dropped. The vertical axis is log10 because the
// families span several decades.
func PlotExtensionRatio(cases []*Case, mode bcs.Mode, modeName string, masses map[string]float64, dirout, fnkey string) (err error) {
	curves := map[Family]*Curve{
		FamPET:      new(Curve),
		FamKresling: new(Curve),
		FamHERDS:    new(Curve),
	}
	for _, c := range cases {
		k := Stiffness(mode, c.Rec)
		if masses != nil {
			mass, ok := c.Mass(massModeName(c.Family, modeName), masses)
			if !ok {
				continue
			}
			k /= mass
		}
		if k <= 0 {
			continue
		}
		curves[c.Family].Append(c.ExtensionRatio(), math.Log10(k))
	}

	plt.Reset(false, nil)
	for _, fam := range []Family{FamPET, FamKresling, FamHERDS} {
		cu := curves[fam]
		if len(cu.X) == 0 {
			continue
		}
		cu.Sort()
		plt.Plot(cu.X, cu.Y, familyStyle(fam))
	}
	ylabel := io.Sf("$\\log_{10}$ %s", stiffnessLabels[mode])
	if masses != nil {
		ylabel += " per Mass"
	}
	plt.Gll("Extension Ratio", ylabel, nil)
	plt.SetTicksNormal()
	plt.Save(dirout, fnkey+".eps")
	return
}

// DeploymentCategory classifies the cantilever cases of the deployment
// comparison figure
type DeploymentCategory int

// deployment categories
const (
	DepPET DeploymentCategory = iota
	DepShortScissor
	DepLongScissor
	DepOther
)

// alpha windows separating the short- and long-link scissor series
const (
	shortAlphaLo = 1.07
	shortAlphaHi = 2.97
	longAlphaHi  = 2.96
)

// ClassifyDeployment assigns one cantilever case to a deployment series:
// l1-sweep files are the PET series, six-cell models within the short alpha
// window are short-link scissors, the rest of the low-alpha models are
// long-link scissors
func ClassifyDeployment(c *Case) DeploymentCategory {
	lower := strings.ToLower(c.Path)
	switch {
	case strings.Contains(lower, "l1"):
		return DepPET
	case c.Cells == 6 && c.Alpha >= shortAlphaLo && c.Alpha <= shortAlphaHi:
		return DepShortScissor
	case c.Alpha <= longAlphaHi:
		return DepLongScissor
	}
	return DepOther
}

// PlotDeployment draws the normalized flexural modulus of the PET and
// scissor series against their normalized deployed length, with the solid
// reference beam at 1.0, and saves it as dirout/fnkey.eps
func PlotDeployment(cases []*Case, dirout, fnkey string) (err error) {
	series := map[DeploymentCategory]*Curve{
		DepPET:          new(Curve),
		DepShortScissor: new(Curve),
		DepLongScissor:  new(Curve),
	}
	for _, c := range cases {
		cat := ClassifyDeployment(c)
		if cat == DepOther {
			continue
		}
		series[cat].Append(c.Rec.L/1000.0, FlexuralEI(c.Rec)/flexuralScale)
	}
	for _, cu := range series {
		if len(cu.X) == 0 {
			return chk.Err("deployment figure needs all three series; one is empty")
		}
		cu.Sort()
		cu.NormalizeX()
		cu.ScaleY(1.0 / SolidBeamEI)
	}

	plt.Reset(false, nil)
	plt.Plot(series[DepPET].X, series[DepPET].Y, curveStyle(ColPET, "PET"))
	plt.Plot(series[DepShortScissor].X, series[DepShortScissor].Y, curveStyle(ColKresling, "Short-Link Scissor"))
	plt.Plot(series[DepLongScissor].X, series[DepLongScissor].Y, curveStyle(ColHERDS, "Long-Link Scissor"))
	pet := series[DepPET]
	plt.Plot([]float64{pet.X[0], pet.X[len(pet.X)-1]}, []float64{1, 1}, solidBeamStyle())
	plt.Gll("Extension Ratio", "Normalized Flexural Modulus", nil)
	plt.Save(dirout, fnkey+".eps")
	return
}

// member geometry constants of the aspect-ratio study: the l1 member of the
// reference short-link scissor is 34.32 long and 1.8 wide before scaling
const (
	refMemberLen   = 34.32
	refMemberWidth = 1.8
)

// PlotAspectRatio draws the normalized flexural modulus of the l1-sweep
// cantilever cases against the member aspect ratio and saves it as
// dirout/fnkey.eps
func PlotAspectRatio(cases []*Case, dirout, fnkey string) (err error) {
	cu := new(Curve)
	for _, c := range cases {
		if !strings.Contains(strings.ToLower(c.Path), "l1") {
			continue
		}
		aspect := refMemberLen * c.MemScale / refMemberWidth
		cu.Append(aspect, FlexuralEI(c.Rec)/flexuralScale/SolidBeamEI)
	}
	if len(cu.X) == 0 {
		return chk.Err("no l1-sweep cases found for the aspect-ratio figure")
	}
	cu.Sort()

	plt.Reset(false, nil)
	plt.Plot(cu.X, cu.Y, curveStyle(ColPET, "PET"))
	plt.Plot([]float64{cu.X[0], cu.X[len(cu.X)-1]}, []float64{1, 1}, solidBeamStyle())
	plt.Gll("Short-Link Scissor Member Aspect Ratio", "Normalized Flexural Modulus", nil)
	plt.Save(dirout, fnkey+".eps")
	return
}

// massModeName maps a family to the mode key its mass table uses; Kresling
// and HERDS sweeps store masses under the node-strategy mode name
func massModeName(fam Family, modeName string) string {
	if fam == FamKresling || fam == FamHERDS {
		if !strings.HasSuffix(modeName, "_kres") {
			return modeName + "_kres"
		}
	}
	return modeName
}
