// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"sort"

	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// empirical depth of synthetic end caps/blocks; also the fallback depth
// when a planar model has zero Z extent
const blockDepth = 3.0

// BuildParams holds the parameters of one model construction
type BuildParams struct {
	Mech          inp.MechType // mechanism family
	ElemType      string       // line element type name; "" => BEAM188
	Ndiv          int          // line mesh divisions; 0 => 100
	NumCrossElems int          // cross-section mesh cells; 0 => 5
	Scale         float64      // geometry scale factor; 0 => 1
	CrossScale    float64      // cross-section scale factor; 0 => 1
	Warp          bool         // enable cross-section warping
}

func (o *BuildParams) setDefaults() {
	if o.ElemType == "" {
		o.ElemType = "BEAM188"
	}
	if o.Ndiv == 0 {
		o.Ndiv = 100
	}
	if o.NumCrossElems == 0 {
		o.NumCrossElems = 5
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.CrossScale == 0 {
		o.CrossScale = 1.0
	}
}

// BuildBeamModel constructs the member table inside the engine: keypoints
// and lines for every member, one beam section per distinct cross-section
// profile, a 1D mesh with the requested division count, and the synthetic
// end blocks of the mechanism family. Element-type slot 1 holds the line
// elements and slot 2 the solid end-block elements; slot contents do not
// survive across families within one engine.
func BuildBeamModel(e eng.Engine, tab *inp.MemberTable, p *BuildParams) (err error) {
	p.setDefaults()
	tab.Scale(p.Scale, p.CrossScale)
	tab.DeriveProfiles()

	err = e.Prep7()
	if err != nil {
		return
	}

	// beam sections, one per profile
	for i, prof := range tab.Profiles {
		err = e.SecType(i+1, "BEAM", "RECT")
		if err != nil {
			return
		}
		err = e.SecData(prof.Width, prof.Height, p.NumCrossElems, p.NumCrossElems)
		if err != nil {
			return
		}
	}

	// line element type; keyopt 1 toggles warping
	if p.Warp {
		err = e.ElemType(1, p.ElemType, 1, 0, 3)
	} else {
		err = e.ElemType(1, p.ElemType, 0, 0, 3)
	}
	if err != nil {
		return
	}

	// keypoints and lines: member i gets keypoints 2i+1 and 2i+2
	for i, m := range tab.Members {
		err = e.Keypoint(2*i+1, m.X1, m.Y1, m.Z1)
		if err != nil {
			return
		}
		err = e.Keypoint(2*i+2, m.X2, m.Y2, m.Z2)
		if err != nil {
			return
		}
		err = e.Line(2*i+1, 2*i+2)
		if err != nil {
			return
		}
	}

	// line attributes by profile, then mesh
	for j := range tab.Profiles {
		var ids []int
		for i, pi := range tab.ProfIdx {
			if pi == j {
				ids = append(ids, i+1)
			}
		}
		err = e.SelectLines(ids)
		if err != nil {
			return
		}
		err = e.LineAttributes(1, 1, j+1)
		if err != nil {
			return
		}
	}
	err = e.SelectAllLines()
	if err != nil {
		return
	}
	err = e.LineDivisions(p.Ndiv)
	if err != nil {
		return
	}
	err = e.MeshLines()
	if err != nil {
		return
	}

	// merge coincident entities and release end couplings
	err = e.SelectAllNodes()
	if err != nil {
		return
	}
	err = e.MergeNodes()
	if err != nil {
		return
	}
	err = e.MergeKeypoints()
	if err != nil {
		return
	}
	err = e.EndRelease()
	if err != nil {
		return
	}

	// synthetic end blocks
	b, err := FindBounds(e)
	if err != nil {
		return
	}
	switch p.Mech {
	case inp.Kresling:
		err = buildKreslingCaps(e, b)
	case inp.PET, inp.Scissor:
		err = buildEndBlocks(e, p.Mech, b)
	}
	return
}

// buildKreslingCaps extrudes the end-face line loops at each Y extreme into
// solid caps and volume-meshes them (slot 2 = SOLID187)
func buildKreslingCaps(e eng.Engine, b Bounds) (err error) {
	for _, end := range []struct {
		y, dy float64
	}{{b.Ymin, -blockDepth}, {b.Ymax, +blockDepth}} {
		lineIDs, lerr := e.SelectLinesByLoc(eng.Y, end.y)
		if lerr != nil {
			return lerr
		}
		if len(lineIDs) == 0 {
			return chk.Err("no end-face lines found at y=%g; cannot build cap", end.y)
		}
		areaID, aerr := e.AreaFromLines(lineIDs)
		if aerr != nil {
			return aerr
		}
		err = e.ExtrudeArea(areaID, 0, end.dy, 0)
		if err != nil {
			return
		}
	}
	return meshBlocks(e, "SOLID187")
}

// buildEndBlocks synthesises boxed end blocks from the endpoint clusters at
// each Y extreme and volume-meshes them (slot 2 = SOLID185)
func buildEndBlocks(e eng.Engine, mech inp.MechType, b Bounds) (err error) {
	minPts, maxPts, err := FindEndpoints(e, mech)
	if err != nil {
		return
	}
	err = blocksFromPoints(e, minPts, b.Zmax, b.Zmin)
	if err != nil {
		return
	}
	err = blocksFromPoints(e, maxPts, b.Zmax, b.Zmin)
	if err != nil {
		return
	}
	return meshBlocks(e, "SOLID185")
}

// blocksFromPoints creates one block between each pair of X-adjacent
// cluster points. A zero Z extent means a planar-degenerate model: a single
// pair of blocks of fixed depth is built on both sides of the plane, with
// the height direction flipped below the X axis.
func blocksFromPoints(e eng.Engine, points []eng.Point, zmax, zmin float64) (err error) {
	sorted := append([]eng.Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var height float64
	for i := 0; i < len(sorted)-1; i++ {
		x1, y1 := sorted[i].X, sorted[i].Y
		x2, y2 := sorted[i+1].X, sorted[i+1].Y
		if i == 0 {
			height = math.Abs(y2 - y1)
			if height == 0 {
				height = blockDepth
			}
		}
		width := x2 - x1
		depth := zmax - zmin

		if depth == 0 {
			depth = blockDepth
			direction := 1.0
			if y1 < 0 {
				direction = -1.0
			}
			_, err = e.Block(x1, utl.Min(y1, y2), width, direction*height, depth)
			if err != nil {
				return
			}
			_, err = e.Block(x1, utl.Min(y1, y2), width, direction*height, -depth)
			return
		}

		_, err = e.Block(x1, utl.Min(y1, y2), width, height, depth)
		if err != nil {
			return
		}
	}
	return
}

// meshBlocks assigns the solid element type to slot 2 and meshes all
// volumes, merging the new nodes into the beam mesh
func meshBlocks(e eng.Engine, solidType string) (err error) {
	err = e.SelectAllVolumes()
	if err != nil {
		return
	}
	err = e.ElemType(2, solidType)
	if err != nil {
		return
	}
	err = e.VolumeAttributes(1, 2)
	if err != nil {
		return
	}
	err = e.MeshVolumes()
	if err != nil {
		return
	}
	err = e.SelectAllNodes()
	if err != nil {
		return
	}
	return e.MergeNodes()
}
