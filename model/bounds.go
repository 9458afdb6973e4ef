// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package model implements beam model construction inside the external
// engine and the extraction of model extents and endpoint clusters
package model

import (
	"math"
	"sort"

	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// distance below which two endpoints count as the same point
const endpointTol = 1e-6

// endpoint cluster caps per mechanism family
const (
	petMinCap, petMaxCap = 5, 3
	sciMinCap, sciMaxCap = 2, 2
)

// Bounds holds the axis-aligned extents of the current keypoint set. The
// second Y bounds are the extreme values among keypoints excluding the
// respective global extreme; they distinguish the inner structural span
// from the full span including synthetic end blocks.
type Bounds struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
	Ymin2nd    float64 // smallest Y strictly above Ymin; equals Ymin if none
	Ymax2nd    float64 // largest Y strictly below Ymax; equals Ymax if none
}

// InnerSpan returns the Y span between the second bounds
func (o *Bounds) InnerSpan() float64 { return o.Ymax2nd - o.Ymin2nd }

// FullSpan returns the full Y span
func (o *Bounds) FullSpan() float64 { return o.Ymax - o.Ymin }

// FindBounds queries the engine's current keypoints and computes extents.
// Bounds are always recomputed fresh; they must not be cached across
// geometry mutations.
func FindBounds(e eng.Engine) (b Bounds, err error) {
	points, err := e.Keypoints()
	if err != nil {
		return
	}
	if len(points) == 0 {
		return b, chk.Err("engine has no keypoints; cannot compute bounds")
	}
	b.Xmin, b.Xmax = points[0].X, points[0].X
	b.Ymin, b.Ymax = points[0].Y, points[0].Y
	b.Zmin, b.Zmax = points[0].Z, points[0].Z
	for _, p := range points[1:] {
		b.Xmin = utl.Min(b.Xmin, p.X)
		b.Xmax = utl.Max(b.Xmax, p.X)
		b.Ymin = utl.Min(b.Ymin, p.Y)
		b.Ymax = utl.Max(b.Ymax, p.Y)
		b.Zmin = utl.Min(b.Zmin, p.Z)
		b.Zmax = utl.Max(b.Zmax, p.Z)
	}

	// second bounds fall back to the primary bound when every keypoint
	// shares the same Y
	b.Ymin2nd, b.Ymax2nd = b.Ymin, b.Ymax
	first := true
	for _, p := range points {
		if p.Y != b.Ymin {
			if first || p.Y < b.Ymin2nd {
				b.Ymin2nd = p.Y
			}
			first = false
		}
	}
	first = true
	for _, p := range points {
		if p.Y != b.Ymax {
			if first || p.Y > b.Ymax2nd {
				b.Ymax2nd = p.Y
			}
			first = false
		}
	}
	return
}

// FindEndpoints returns the clusters of distinct keypoints nearest each Y
// extreme, used to size synthetic end blocks. The selection is a greedy
// incremental cover over the Y-sorted keypoints: a point joins a cluster
// only if it is farther than 1e-6 from every point already in it, and each
// cluster is capped at a family-dependent count (5/3 for PET, 2/2 for
// scissor linkages).
func FindEndpoints(e eng.Engine, mech inp.MechType) (minPts, maxPts []eng.Point, err error) {
	var minCap, maxCap int
	switch mech {
	case inp.PET:
		minCap, maxCap = petMinCap, petMaxCap
	case inp.Scissor:
		minCap, maxCap = sciMinCap, sciMaxCap
	default:
		return nil, nil, chk.Err("mechanism family %q has no endpoint clusters", mech)
	}
	points, err := e.Keypoints()
	if err != nil {
		return
	}
	sorted := append([]eng.Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	for _, p := range sorted {
		if len(minPts) >= minCap {
			break
		}
		if distinct(p, minPts) {
			minPts = append(minPts, p)
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if len(maxPts) >= maxCap {
			break
		}
		if distinct(sorted[i], maxPts) {
			maxPts = append(maxPts, sorted[i])
		}
	}
	return
}

// distinct tells whether p is farther than the endpoint tolerance from
// every point in the cluster
func distinct(p eng.Point, cluster []eng.Point) bool {
	for _, q := range cluster {
		if dist(p, q) <= endpointTol {
			return false
		}
	}
	return true
}

func dist(a, b eng.Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
