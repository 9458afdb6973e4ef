// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"sort"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/sim"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// SolidBeamEI is the flexural modulus of the reference solid beam that all
// deployment figures normalize against: a square section of side
// 4.40908153701 at the default modulus, converted to N*m^2
const SolidBeamEI = 962.8 / 12.0 * 4.40908153701 * 4.40908153701 * 4.40908153701 * 4.40908153701 / (1000.0 * 1000.0)

// force/moment unit conversion of the cantilever reduction (mm^2 -> m^2)
const flexuralScale = 1000.0 * 1000.0

// PeakForce returns the largest reaction force magnitude of a record; the
// NaN sentinel of non-converged cases maps to zero so that such cases sink
// to the bottom of log-stiffness plots instead of poisoning them
func PeakForce(rec *sim.Record) float64 {
	return nanToZero(floats.Max([]float64{nanAbs(rec.Fx), nanAbs(rec.Fy), nanAbs(rec.Fz)}))
}

// PeakMoment returns the largest reaction moment magnitude of a record
func PeakMoment(rec *sim.Record) float64 {
	return nanToZero(floats.Max([]float64{nanAbs(rec.Mx), nanAbs(rec.My), nanAbs(rec.Mz)}))
}

// Stiffness reduces one record to the scalar stiffness of its loading mode:
//
//	cantilever:          EI = L^3 F / (3 d), in N*m^2
//	compression/tension: k  = F / (d/1000)
//	torsion:             k  = M / d
func Stiffness(mode bcs.Mode, rec *sim.Record) float64 {
	switch mode {
	case bcs.CantileverX, bcs.CantileverZ:
		f := PeakForce(rec)
		return rec.L * rec.L * rec.L * f / (3.0 * rec.Displacement) / flexuralScale
	case bcs.Compression, bcs.Tension:
		return PeakForce(rec) / (rec.Displacement / 1000.0)
	case bcs.Torsion:
		return PeakMoment(rec) / rec.Displacement
	}
	chk.Panic("mode %v has no stiffness reduction", mode)
	return 0
}

// FlexuralEI is the cantilever reduction without unit conversion, for
// normalization against SolidBeamEI
func FlexuralEI(rec *sim.Record) float64 {
	return rec.L * rec.L * rec.L * PeakForce(rec) / (3.0 * rec.Displacement)
}

// Curve reduces a set of cases to an (x, y) series sorted by x
type Curve struct {
	X, Y []float64
}

// Append adds one point
func (o *Curve) Append(x, y float64) {
	o.X = append(o.X, x)
	o.Y = append(o.Y, y)
}

// Sort orders the series by x, keeping pairs together
func (o *Curve) Sort() {
	idx := make([]int, len(o.X))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return o.X[idx[a]] < o.X[idx[b]] })
	x := make([]float64, len(o.X))
	y := make([]float64, len(o.Y))
	for i, j := range idx {
		x[i], y[i] = o.X[j], o.Y[j]
	}
	o.X, o.Y = x, y
}

// NormalizeX divides all x by the first (smallest) x; call after Sort
func (o *Curve) NormalizeX() {
	if len(o.X) == 0 || o.X[0] == 0 {
		return
	}
	floats.Scale(1.0/o.X[0], o.X)
}

// ScaleY multiplies all y by a constant
func (o *Curve) ScaleY(s float64) {
	floats.Scale(s, o.Y)
}

// auxiliary ///////////////////////////////////////////////////////////////

func nanAbs(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Abs(v)
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
