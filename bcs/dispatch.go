// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bcs

import (
	"math"

	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/compmech/stiffsweep/model"
	"github.com/cpmech/gosl/chk"
)

// component names created in the engine; re-applying a boundary condition
// simply reassigns their membership
const (
	FixedComp  = "fixed"
	DrivenComp = "driven"
)

// node selection tolerance; tight, because a loose tolerance lets the
// engine grab nodes from neighbouring members by accident
const nodeSelTol = 1e-8

// Params holds the input of one boundary-condition application
type Params struct {
	Mech        inp.MechType // mechanism family
	Mode        Mode         // loading mode
	PercentDisp float64      // percent of reference length to displace
	FixedDisp   float64      // explicit displacement override; NaN => use percent
}

// NewParams returns Params with the percent-based displacement enabled
func NewParams(mech inp.MechType, mode Mode, percentDisp float64) Params {
	return Params{mech, mode, percentDisp, math.NaN()}
}

// Displacement computes the prescribed displacement magnitude from the
// model's own extent: percent/100 of the full Y span for Kresling/HERDS
// families, or of the inner span for the others
func Displacement(e eng.Engine, mech inp.MechType, percentDisp float64) (d float64, err error) {
	err = e.SelectAll()
	if err != nil {
		return
	}
	b, err := model.FindBounds(e)
	if err != nil {
		return
	}
	if mech.FullSpan() {
		return b.FullSpan() * percentDisp / 100.0, nil
	}
	return b.InnerSpan() * percentDisp / 100.0, nil
}

// displacement resolves the effective displacement: the explicit override
// if supplied, otherwise percent-based
func (o Params) displacement(e eng.Engine) (float64, error) {
	if !math.IsNaN(o.FixedDisp) {
		return o.FixedDisp, nil
	}
	return Displacement(e, o.Mech, o.PercentDisp)
}

// ApplyToNodes applies the loading mode using node-based selections (exact
// coordinate match within a tolerance) and returns the effective prescribed
// displacement. This is the entry point for line/beam-meshed assemblies
// without solid end faces.
func ApplyToNodes(e eng.Engine, p Params) (d float64, err error) {
	d, b, err := prepare(e, p)
	if err != nil {
		return
	}
	fixed := p.Mode.fixedConstraints()
	driven := p.Mode.drivenConstraints(d)
	switch p.Mode {
	case Compression, Tension:
		err = constrainNodes(e, FixedComp, b.Ymin, b.Ymin, nil, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymax, b.Ymax, nil, driven)
	case CantileverX:
		err = constrainNodes(e, FixedComp, b.Ymax, b.Ymax, nil, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymin, b.Ymin, &b.Xmax, driven)
	case CantileverZ:
		err = constrainNodes(e, FixedComp, b.Ymax, b.Ymax, nil, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymax, b.Ymax, &b.Xmax, driven)
	case Torsion:
		err = constrainNodes(e, FixedComp, b.Ymin, b.Ymin, nil, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymax, b.Ymax, nil, driven)
	}
	if err != nil {
		return
	}
	return d, e.SelectAll()
}

// ApplyToAreas applies the loading mode using area-based selections (range
// match against the second Y bounds) and returns the effective prescribed
// displacement. This is the entry point for assemblies with solid end caps
// or end blocks; the driven group of cantilever and torsion modes remains
// node-based at the free end.
func ApplyToAreas(e eng.Engine, p Params) (d float64, err error) {
	d, b, err := prepare(e, p)
	if err != nil {
		return
	}
	fixed := p.Mode.fixedConstraints()
	driven := p.Mode.drivenConstraints(d)
	switch p.Mode {
	case Compression, Tension:
		err = constrainAreas(e, FixedComp, b.Ymin, b.Ymin2nd, fixed)
		if err != nil {
			return
		}
		err = constrainAreas(e, DrivenComp, b.Ymax2nd, b.Ymax, driven)
	case CantileverX:
		err = constrainAreas(e, FixedComp, b.Ymax2nd, b.Ymax, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymin, b.Ymin, &b.Xmax, driven)
	case CantileverZ:
		err = constrainAreas(e, FixedComp, b.Ymax2nd, b.Ymax, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymax, b.Ymax, &b.Xmax, driven)
	case Torsion:
		err = constrainAreas(e, FixedComp, b.Ymin, b.Ymin2nd, fixed)
		if err != nil {
			return
		}
		err = constrainNodes(e, DrivenComp, b.Ymax2nd, b.Ymax, nil, driven)
	}
	if err != nil {
		return
	}
	return d, e.SelectAll()
}

// prepare enters the solution processor, resolves the displacement and
// queries fresh bounds
func prepare(e eng.Engine, p Params) (d float64, b model.Bounds, err error) {
	if !p.Mech.Valid() {
		err = chk.Err("unknown mechanism family %q", p.Mech)
		return
	}
	err = e.Solution()
	if err != nil {
		return
	}
	err = e.AnalysisType("STATIC")
	if err != nil {
		return
	}
	d, err = p.displacement(e)
	if err != nil {
		return
	}
	b, err = model.FindBounds(e)
	return
}

// constrainNodes selects nodes by Y (and optionally X) location, groups
// them into a named component and applies the constraint map. An empty
// selection is a hard error: a silently missing boundary condition produces
// a model that solves to nonsense.
func constrainNodes(e eng.Engine, name string, ymin, ymax float64, xval *float64, cons map[eng.Dof]float64) (err error) {
	err = e.SelectionTolerance(nodeSelTol)
	if err != nil {
		return
	}
	var n int
	if xval != nil {
		n, err = e.SelectNodesByLoc(eng.NewSet, eng.X, *xval, *xval)
		if err != nil {
			return
		}
		n, err = e.SelectNodesByLoc(eng.Reselect, eng.Y, ymin, ymax)
	} else {
		n, err = e.SelectNodesByLoc(eng.NewSet, eng.Y, ymin, ymax)
	}
	if err != nil {
		return
	}
	if n == 0 {
		return chk.Err("%q selection matched no nodes in y=[%g,%g]", name, ymin, ymax)
	}
	err = e.NameSelection(name, eng.Nodes)
	if err != nil {
		return
	}
	return applyConstraints(e, cons, e.ConstrainNodes)
}

// constrainAreas selects areas by Y range, groups them into a named
// component and applies the constraint map
func constrainAreas(e eng.Engine, name string, ymin, ymax float64, cons map[eng.Dof]float64) (err error) {
	n, err := e.SelectAreasByLoc(eng.NewSet, eng.Y, ymin, ymax)
	if err != nil {
		return
	}
	if n == 0 {
		return chk.Err("%q selection matched no areas in y=[%g,%g]", name, ymin, ymax)
	}
	err = e.NameSelection(name, eng.Areas)
	if err != nil {
		return
	}
	return applyConstraints(e, cons, e.ConstrainAreas)
}

// applyConstraints issues the constraint commands in canonical order
func applyConstraints(e eng.Engine, cons map[eng.Dof]float64, constrain func(eng.Dof, float64) error) (err error) {
	for _, dof := range dofOrder {
		val, ok := cons[dof]
		if !ok {
			continue
		}
		err = constrain(dof, val)
		if err != nil {
			return
		}
	}
	return
}
