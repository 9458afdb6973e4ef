// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eng defines the command/query interface to the external
// APDL-style finite element engine and its implementations
package eng

// Dof is a degree-of-freedom label understood by the engine
type Dof string

// degrees of freedom
const (
	Ux   Dof = "UX"
	Uy   Dof = "UY"
	Uz   Dof = "UZ"
	RotX Dof = "ROTX"
	RotY Dof = "ROTY"
	RotZ Dof = "ROTZ"
)

// Axis is a coordinate axis label for selections by location
type Axis string

// axes
const (
	X Axis = "X"
	Y Axis = "Y"
	Z Axis = "Z"
)

// SelOp indicates how a selection combines with the current set
type SelOp string

// selection operations
const (
	NewSet   SelOp = "S" // start a new set
	Reselect SelOp = "R" // reselect within the current set
)

// Entity is the kind of entity grouped into a named component
type Entity string

// entities
const (
	Nodes Entity = "NODE"
	Areas Entity = "AREA"
)

// Point holds the coordinates of one keypoint
type Point struct {
	X, Y, Z float64
}

// Reactions holds the summed reaction forces and moments at the current
// component, as reported by the engine after a solve
type Reactions struct {
	Fx, Fy, Fz float64 // force components
	Mx, My, Mz float64 // moment components
}

// Engine is the command/query interface to the external solver. The engine
// owns all live geometric and mesh state; callers hold no model state and
// must treat element-type slots and selections as engine-global mutable data.
//
// Slot conventions used throughout this repository:
//   slot 1 -- line (beam) elements
//   slot 2 -- solid elements for synthetic end blocks
type Engine interface {

	// processor switches
	Prep7() error    // enter preprocessor
	Solution() error // enter solution processor
	Post1() error    // enter postprocessor
	Finish() error   // leave current processor

	// material and element data
	MatProp(key string, mat int, value float64) error        // e.g. "EX", "DENS", "NUXY"
	SecType(id int, category, shape string) error            // e.g. ("BEAM", "RECT")
	SecData(width, height float64, nw, nh int) error         // rectangle data for last SecType
	ElemType(slot int, name string, keyopts ...int) error    // define element type in a slot

	// geometry construction
	Keypoint(id int, x, y, z float64) error                  // create keypoint
	Line(k1, k2 int) error                                   // create line between keypoints
	AreaFromLines(lineIDs []int) (areaID int, err error)     // area bounded by line loop
	ExtrudeArea(areaID int, dx, dy, dz float64) error        // extrude area into a volume
	Block(x, y, width, height, depth float64) (volID int, err error) // four-corner block primitive

	// attributes and meshing
	SelectAllLines() error
	LineAttributes(mat, etype, secnum int) error             // attach attributes to selected lines
	LineDivisions(ndiv int) error                            // element divisions per selected line
	MeshLines() error
	SelectAllVolumes() error
	VolumeAttributes(mat, etype int) error
	MeshVolumes() error
	SelectAllNodes() error
	MergeNodes() error     // merge coincident nodes (engine tolerance)
	MergeKeypoints() error // merge coincident keypoints
	EndRelease() error     // release end-of-line moment couplings

	// selection
	SelectAll() error
	SelectionTolerance(tol float64) error
	SelectNodesByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error)
	SelectAreasByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error)
	SelectLinesByLoc(axis Axis, value float64) (lineIDs []int, err error)
	SelectLines(lineIDs []int) error
	NameSelection(name string, entity Entity) error // group current selection into a component
	SelectComponent(name string) error              // select a previously named component

	// constraints on the current selection
	ConstrainNodes(dof Dof, value float64) error // D,ALL
	ConstrainAreas(dof Dof, value float64) error // DA,ALL

	// solution controls and queries
	AnalysisType(name string) error        // e.g. "STATIC"
	LargeDeflection(on bool) error         // NLGEOM
	Substeps(n, nmin, nmax int) error      // NSUBST
	EquilibriumIters(n int) error          // NEQIT
	OutputLast() error                     // keep results of last substep only
	Solve() error
	LastSet() error                        // load last result set in postprocessor
	Converged() (bool, error)              // whether the last solve converged
	SumReactions() (Reactions, error)      // FSUM over the current component

	// geometry queries
	Keypoints() ([]Point, error) // coordinates of all current keypoints

	// lifecycle; Close releases the engine gracefully, Kill terminates the
	// underlying process immediately (used on case timeout)
	Close() error
	Kill()
}
