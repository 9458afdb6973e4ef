// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eng

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Emulator is an in-memory engine used by tests. It keeps enough geometry
// bookkeeping (keypoints, lines, areas, volumes, nodes, selections, named
// components and constraints) to exercise model building and boundary
// condition dispatch without the external solver. Solve results are canned:
// set ConvergedFlag and Reaction before running a case against it.
type Emulator struct {

	// canned solve results
	ConvergedFlag bool      // reported by Converged
	Reaction      Reactions // reported by SumReactions
	HangOnSolve   bool      // Solve blocks until Kill (timeout tests)

	// geometry state
	kps     map[int]Point
	lineSeq []emuLine
	areaSeq []emuArea
	volSeq  []emuVolume
	nodeSeq []Point

	// attributes
	ndiv     int
	selTol   float64
	Sections int            // number of SECTYPE definitions issued
	Etypes   map[int]string // element-type slot assignments
	MatProps map[string]float64

	// solution controls (recorded for assertions)
	NsubstN, NsubstMin, NsubstMax int
	Neqit                         int
	LargeDefl                     bool
	Solved                        bool

	// selections and components
	selNodes []int
	selLines []int
	selAreas []int
	comps    map[string]emuComponent
	bcs      []emuBC

	killed chan struct{}
}

type emuLine struct {
	id, k1, k2 int
}

type emuArea struct {
	id     int
	lo, hi Point
}

type emuVolume struct {
	id     int
	lo, hi Point
	meshed bool
}

type emuComponent struct {
	entity Entity
	ids    []int
}

type emuBC struct {
	entity Entity
	ids    []int
	dof    Dof
	value  float64
}

// NewEmulator returns an empty in-memory engine that converges by default
func NewEmulator() (o *Emulator) {
	o = new(Emulator)
	o.ConvergedFlag = true
	o.kps = make(map[int]Point)
	o.Etypes = make(map[int]string)
	o.MatProps = make(map[string]float64)
	o.comps = make(map[string]emuComponent)
	o.ndiv = 1
	o.selTol = 1e-8
	o.killed = make(chan struct{})
	return
}

// processor switches are no-ops in memory
func (o *Emulator) Prep7() error    { return nil }
func (o *Emulator) Solution() error { return nil }
func (o *Emulator) Post1() error    { return nil }
func (o *Emulator) Finish() error   { return nil }

// material and element data /////////////////////////////////////////////////

func (o *Emulator) MatProp(key string, mat int, value float64) error {
	o.MatProps[key] = value
	return nil
}

func (o *Emulator) SecType(id int, category, shape string) error {
	o.Sections++
	return nil
}

func (o *Emulator) SecData(width, height float64, nw, nh int) error { return nil }

func (o *Emulator) ElemType(slot int, name string, keyopts ...int) error {
	o.Etypes[slot] = name
	return nil
}

// geometry construction /////////////////////////////////////////////////////

func (o *Emulator) Keypoint(id int, x, y, z float64) error {
	o.kps[id] = Point{x, y, z}
	return nil
}

func (o *Emulator) Line(k1, k2 int) error {
	if _, ok := o.kps[k1]; !ok {
		return chk.Err("line references undefined keypoint %d", k1)
	}
	if _, ok := o.kps[k2]; !ok {
		return chk.Err("line references undefined keypoint %d", k2)
	}
	o.lineSeq = append(o.lineSeq, emuLine{len(o.lineSeq) + 1, k1, k2})
	return nil
}

func (o *Emulator) AreaFromLines(lineIDs []int) (areaID int, err error) {
	lo := Point{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := Point{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, id := range lineIDs {
		if id < 1 || id > len(o.lineSeq) {
			return 0, chk.Err("area references undefined line %d", id)
		}
		l := o.lineSeq[id-1]
		for _, p := range []Point{o.kps[l.k1], o.kps[l.k2]} {
			growBox(&lo, &hi, p)
		}
	}
	areaID = len(o.areaSeq) + 1
	o.areaSeq = append(o.areaSeq, emuArea{areaID, lo, hi})
	return
}

func (o *Emulator) ExtrudeArea(areaID int, dx, dy, dz float64) error {
	if areaID < 1 || areaID > len(o.areaSeq) {
		return chk.Err("cannot extrude undefined area %d", areaID)
	}
	a := o.areaSeq[areaID-1]
	lo, hi := a.lo, a.hi
	growBox(&lo, &hi, Point{a.lo.X + dx, a.lo.Y + dy, a.lo.Z + dz})
	growBox(&lo, &hi, Point{a.hi.X + dx, a.hi.Y + dy, a.hi.Z + dz})
	o.volSeq = append(o.volSeq, emuVolume{len(o.volSeq) + 1, lo, hi, false})
	o.addBoxKeypoints(lo, hi)

	// far cap face
	far := emuArea{len(o.areaSeq) + 1,
		Point{a.lo.X + dx, a.lo.Y + dy, a.lo.Z + dz},
		Point{a.hi.X + dx, a.hi.Y + dy, a.hi.Z + dz}}
	o.areaSeq = append(o.areaSeq, far)
	return nil
}

func (o *Emulator) Block(x, y, width, height, depth float64) (volID int, err error) {
	lo := Point{x, y, 0}
	hi := Point{x + width, y + height, depth}
	if width < 0 {
		lo.X, hi.X = hi.X, lo.X
	}
	if height < 0 {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	if depth < 0 {
		lo.Z, hi.Z = hi.Z, lo.Z
	}
	volID = len(o.volSeq) + 1
	o.volSeq = append(o.volSeq, emuVolume{volID, lo, hi, false})
	o.addBoxKeypoints(lo, hi)

	// the two Y faces, which boundary conditions select by location
	o.areaSeq = append(o.areaSeq,
		emuArea{len(o.areaSeq) + 1, lo, Point{hi.X, lo.Y, hi.Z}},
		emuArea{len(o.areaSeq) + 2, Point{lo.X, hi.Y, lo.Z}, hi})
	return
}

// addBoxKeypoints creates keypoints at the corners of a box volume, merging
// into existing keypoints at the same location
func (o *Emulator) addBoxKeypoints(lo, hi Point) {
	next := 1
	for id := range o.kps {
		if id >= next {
			next = id + 1
		}
	}
	for _, x := range []float64{lo.X, hi.X} {
		for _, y := range []float64{lo.Y, hi.Y} {
			for _, z := range []float64{lo.Z, hi.Z} {
				p := Point{x, y, z}
				dup := false
				for _, q := range o.kps {
					if dist(p, q) < 1e-8 {
						dup = true
						break
					}
				}
				if !dup {
					o.kps[next] = p
					next++
				}
			}
		}
	}
}

// attributes and meshing ////////////////////////////////////////////////////

func (o *Emulator) SelectAllLines() error {
	o.selLines = o.selLines[:0]
	for _, l := range o.lineSeq {
		o.selLines = append(o.selLines, l.id)
	}
	return nil
}

func (o *Emulator) LineAttributes(mat, etype, secnum int) error { return nil }

func (o *Emulator) LineDivisions(ndiv int) error {
	if ndiv < 1 {
		return chk.Err("number of divisions must be positive (%d given)", ndiv)
	}
	o.ndiv = ndiv
	return nil
}

// MeshLines creates nodes at the line endpoints and at ndiv-1 interior
// stations of every line
func (o *Emulator) MeshLines() error {
	for _, l := range o.lineSeq {
		a, b := o.kps[l.k1], o.kps[l.k2]
		for i := 0; i <= o.ndiv; i++ {
			t := float64(i) / float64(o.ndiv)
			o.nodeSeq = append(o.nodeSeq, Point{
				a.X + t*(b.X-a.X),
				a.Y + t*(b.Y-a.Y),
				a.Z + t*(b.Z-a.Z),
			})
		}
	}
	o.invalidateSelections()
	return nil
}

func (o *Emulator) SelectAllVolumes() error { return nil }

func (o *Emulator) VolumeAttributes(mat, etype int) error { return nil }

// MeshVolumes creates nodes at the corners of every unmeshed volume
func (o *Emulator) MeshVolumes() error {
	for i, v := range o.volSeq {
		if v.meshed {
			continue
		}
		for _, x := range []float64{v.lo.X, v.hi.X} {
			for _, y := range []float64{v.lo.Y, v.hi.Y} {
				for _, z := range []float64{v.lo.Z, v.hi.Z} {
					o.nodeSeq = append(o.nodeSeq, Point{x, y, z})
				}
			}
		}
		o.volSeq[i].meshed = true
	}
	o.invalidateSelections()
	return nil
}

func (o *Emulator) SelectAllNodes() error {
	o.selNodes = o.selNodes[:0]
	for i := range o.nodeSeq {
		o.selNodes = append(o.selNodes, i)
	}
	return nil
}

// MergeNodes removes coincident nodes (1e-8 merge tolerance)
func (o *Emulator) MergeNodes() error {
	var kept []Point
	for _, p := range o.nodeSeq {
		dup := false
		for _, q := range kept {
			if dist(p, q) < 1e-8 {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, p)
		}
	}
	o.nodeSeq = kept
	o.invalidateSelections()
	return nil
}

func (o *Emulator) MergeKeypoints() error { return nil }
func (o *Emulator) EndRelease() error     { return nil }

// selection /////////////////////////////////////////////////////////////////

func (o *Emulator) SelectAll() error {
	o.SelectAllNodes()
	o.SelectAllLines()
	o.selAreas = o.selAreas[:0]
	for _, a := range o.areaSeq {
		o.selAreas = append(o.selAreas, a.id)
	}
	return nil
}

func (o *Emulator) SelectionTolerance(tol float64) error {
	o.selTol = tol
	return nil
}

func (o *Emulator) SelectNodesByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error) {
	base := o.selNodes
	if op == NewSet {
		base = nil
		for i := range o.nodeSeq {
			base = append(base, i)
		}
	}
	var sel []int
	for _, id := range base {
		c := coord(o.nodeSeq[id], axis)
		if c >= vmin-o.selTol && c <= vmax+o.selTol {
			sel = append(sel, id)
		}
	}
	o.selNodes = sel
	return len(sel), nil
}

func (o *Emulator) SelectAreasByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error) {
	base := o.selAreas
	if op == NewSet {
		base = nil
		for _, a := range o.areaSeq {
			base = append(base, a.id)
		}
	}
	var sel []int
	for _, id := range base {
		a := o.areaSeq[id-1]
		c := (coord(a.lo, axis) + coord(a.hi, axis)) / 2.0
		if c >= vmin-o.selTol && c <= vmax+o.selTol {
			sel = append(sel, id)
		}
	}
	o.selAreas = sel
	return len(sel), nil
}

func (o *Emulator) SelectLinesByLoc(axis Axis, value float64) (lineIDs []int, err error) {
	o.selLines = o.selLines[:0]
	for _, l := range o.lineSeq {
		c := (coord(o.kps[l.k1], axis) + coord(o.kps[l.k2], axis)) / 2.0
		if math.Abs(c-value) <= o.selTol {
			o.selLines = append(o.selLines, l.id)
		}
	}
	return append([]int(nil), o.selLines...), nil
}

func (o *Emulator) SelectLines(lineIDs []int) error {
	for _, id := range lineIDs {
		if id < 1 || id > len(o.lineSeq) {
			return chk.Err("cannot select undefined line %d", id)
		}
	}
	o.selLines = append(o.selLines[:0], lineIDs...)
	return nil
}

func (o *Emulator) NameSelection(name string, entity Entity) error {
	var ids []int
	switch entity {
	case Nodes:
		ids = append(ids, o.selNodes...)
	case Areas:
		ids = append(ids, o.selAreas...)
	default:
		return chk.Err("cannot group entity %q into a component", entity)
	}
	o.comps[name] = emuComponent{entity, ids}
	return nil
}

func (o *Emulator) SelectComponent(name string) error {
	c, ok := o.comps[name]
	if !ok {
		return chk.Err("component %q is not defined", name)
	}
	switch c.entity {
	case Nodes:
		o.selNodes = append(o.selNodes[:0], c.ids...)
	case Areas:
		o.selAreas = append(o.selAreas[:0], c.ids...)
	}
	return nil
}

// constraints ///////////////////////////////////////////////////////////////

func (o *Emulator) ConstrainNodes(dof Dof, value float64) error {
	o.bcs = append(o.bcs, emuBC{Nodes, append([]int(nil), o.selNodes...), dof, value})
	return nil
}

func (o *Emulator) ConstrainAreas(dof Dof, value float64) error {
	o.bcs = append(o.bcs, emuBC{Areas, append([]int(nil), o.selAreas...), dof, value})
	return nil
}

// solution controls and queries /////////////////////////////////////////////

func (o *Emulator) AnalysisType(name string) error { return nil }

func (o *Emulator) LargeDeflection(on bool) error {
	o.LargeDefl = on
	return nil
}

func (o *Emulator) Substeps(n, nmin, nmax int) error {
	o.NsubstN, o.NsubstMin, o.NsubstMax = n, nmin, nmax
	return nil
}

func (o *Emulator) EquilibriumIters(n int) error {
	o.Neqit = n
	return nil
}

func (o *Emulator) OutputLast() error { return nil }

func (o *Emulator) Solve() error {
	if o.HangOnSolve {
		<-o.killed
		return chk.Err("solver process was killed")
	}
	o.Solved = true
	return nil
}

func (o *Emulator) LastSet() error { return nil }

func (o *Emulator) Converged() (bool, error) { return o.ConvergedFlag, nil }

func (o *Emulator) SumReactions() (Reactions, error) { return o.Reaction, nil }

// geometry queries //////////////////////////////////////////////////////////

func (o *Emulator) Keypoints() (points []Point, err error) {
	ids := make([]int, 0, len(o.kps))
	for id := range o.kps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		points = append(points, o.kps[id])
	}
	return
}

// lifecycle /////////////////////////////////////////////////////////////////

func (o *Emulator) Close() error { return nil }

func (o *Emulator) Kill() {
	select {
	case <-o.killed:
	default:
		close(o.killed)
	}
}

// test helpers //////////////////////////////////////////////////////////////

// NumLines returns the number of lines created so far
func (o *Emulator) NumLines() int { return len(o.lineSeq) }

// NumVolumes returns the number of volumes created so far
func (o *Emulator) NumVolumes() int { return len(o.volSeq) }

// NumNodes returns the number of mesh nodes
func (o *Emulator) NumNodes() int { return len(o.nodeSeq) }

// Component returns the ids grouped under a named component
func (o *Emulator) Component(name string) []int { return o.comps[name].ids }

// ComponentConstraints collects the constraint map applied to the exact
// member set of a named component
func (o *Emulator) ComponentConstraints(name string) map[Dof]float64 {
	c, ok := o.comps[name]
	if !ok {
		return nil
	}
	res := make(map[Dof]float64)
	for _, bc := range o.bcs {
		if bc.entity == c.entity && sameIDs(bc.ids, c.ids) {
			res[bc.dof] = bc.value
		}
	}
	return res
}

// auxiliary /////////////////////////////////////////////////////////////////

func (o *Emulator) invalidateSelections() {
	o.selNodes = o.selNodes[:0]
}

func coord(p Point, axis Axis) float64 {
	switch axis {
	case X:
		return p.X
	case Y:
		return p.Y
	}
	return p.Z
}

func dist(a, b Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func growBox(lo, hi *Point, p Point) {
	lo.X = math.Min(lo.X, p.X)
	lo.Y = math.Min(lo.Y, p.Y)
	lo.Z = math.Min(lo.Z, p.Z)
	hi.X = math.Max(hi.X, p.X)
	hi.Y = math.Max(hi.Y, p.Y)
	hi.Z = math.Max(hi.Z, p.Z)
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
