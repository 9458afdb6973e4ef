// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/compmech/stiffsweep/eng"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// two crossed members forming one scissor cell, symmetric about y=0
func scissorTable() *inp.MemberTable {
	return &inp.MemberTable{Members: []inp.Member{
		{X1: 0, Y1: -5, Z1: 0, X2: 4, Y2: 5, Z2: 0, Width: 3, Height: 1},
		{X1: 4, Y1: -5, Z1: 0, X2: 0, Y2: 5, Z2: 0, Width: 3, Height: 1},
	}}
}

func Test_bounds01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bounds01. extents and second bounds")

	e := eng.NewEmulator()
	e.Keypoint(1, 0, 0, 0)
	e.Keypoint(2, 2, 1, 0)
	e.Keypoint(3, 4, 9, -1)
	e.Keypoint(4, 6, 10, 1)

	b, err := FindBounds(e)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("b = %+v\n", b)
	chk.Scalar(tst, "ymin", 1e-15, b.Ymin, 0)
	chk.Scalar(tst, "ymax", 1e-15, b.Ymax, 10)
	chk.Scalar(tst, "ymin2nd", 1e-15, b.Ymin2nd, 1)
	chk.Scalar(tst, "ymax2nd", 1e-15, b.Ymax2nd, 9)
	chk.Scalar(tst, "xmax", 1e-15, b.Xmax, 6)
	chk.Scalar(tst, "zmin", 1e-15, b.Zmin, -1)
	chk.Scalar(tst, "inner span", 1e-15, b.InnerSpan(), 8)
	chk.Scalar(tst, "full span", 1e-15, b.FullSpan(), 10)

	// idempotent without geometry mutation
	b2, err := FindBounds(e)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if b != b2 {
		tst.Errorf("bounds are not idempotent: %+v != %+v", b, b2)
	}
}

func Test_bounds02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bounds02. flat model falls back to primary bounds")

	e := eng.NewEmulator()
	e.Keypoint(1, 0, 5, 0)
	e.Keypoint(2, 1, 5, 0)
	e.Keypoint(3, 2, 5, 0)

	b, err := FindBounds(e)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "ymin2nd", 1e-15, b.Ymin2nd, b.Ymin)
	chk.Scalar(tst, "ymax2nd", 1e-15, b.Ymax2nd, b.Ymax)

	// no keypoints at all is a hard error
	_, err = FindBounds(eng.NewEmulator())
	if err == nil {
		tst.Errorf("bounds of an empty model must fail")
	}
}

func Test_endpoints01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("endpoints01. cluster caps and distinctness")

	e := eng.NewEmulator()
	e.Keypoint(1, 0, 0, 0)
	e.Keypoint(2, 1, 0, 0)
	e.Keypoint(3, 2, 0, 0)
	e.Keypoint(4, 3, 0, 0)
	e.Keypoint(5, 0, 1e-9, 0) // coincident with 1 up to the cluster tolerance
	e.Keypoint(6, 0, 10, 0)
	e.Keypoint(7, 5, 10, 0)

	minPts, maxPts, err := FindEndpoints(e, inp.PET)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("min = %v\nmax = %v\n", minPts, maxPts)
	if len(minPts) > 5 || len(maxPts) > 3 {
		tst.Errorf("cluster caps exceeded: %d/%d", len(minPts), len(maxPts))
		return
	}
	for i, p := range minPts {
		for _, q := range minPts[i+1:] {
			if dist(p, q) <= 1e-6 {
				tst.Errorf("cluster holds coincident points %v and %v", p, q)
				return
			}
		}
	}

	// scissor caps are tighter
	minPts, maxPts, err = FindEndpoints(e, inp.Scissor)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if len(minPts) != 2 || len(maxPts) != 2 {
		tst.Errorf("wrong scissor cluster sizes: %d/%d", len(minPts), len(maxPts))
		return
	}

	// Kresling has no endpoint clusters
	_, _, err = FindEndpoints(e, inp.Kresling)
	if err == nil {
		tst.Errorf("Kresling endpoint clusters must fail")
	}
}

func Test_loader01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("loader01. scissor model with end blocks")

	e := eng.NewEmulator()
	tab := scissorTable()
	err := BuildBeamModel(e, tab, &BuildParams{
		Mech:       inp.Scissor,
		Ndiv:       4,
		Scale:      5.0,
		CrossScale: 0.6,
	})
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}

	// scaled profile, one section, both element slots
	chk.Scalar(tst, "profile width", 1e-15, tab.Profiles[0].Width, 1.8)
	if e.Sections != 1 {
		tst.Errorf("wrong number of sections: %d", e.Sections)
		return
	}
	if e.Etypes[1] != "BEAM188" || e.Etypes[2] != "SOLID185" {
		tst.Errorf("wrong element slots: %v", e.Etypes)
		return
	}

	// planar model gets a pair of blocks on both sides at each extreme
	if e.NumLines() != 2 {
		tst.Errorf("wrong number of lines: %d", e.NumLines())
		return
	}
	if e.NumVolumes() != 4 {
		tst.Errorf("wrong number of volumes: %d", e.NumVolumes())
		return
	}

	// blocks extend the full bounds; second bounds keep the structure
	b, err := FindBounds(e)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	io.Pforan("b = %+v\n", b)
	chk.Scalar(tst, "ymin", 1e-15, b.Ymin, -28)
	chk.Scalar(tst, "ymax", 1e-15, b.Ymax, 28)
	chk.Scalar(tst, "ymin2nd", 1e-15, b.Ymin2nd, -25)
	chk.Scalar(tst, "ymax2nd", 1e-15, b.Ymax2nd, 25)
	chk.Scalar(tst, "inner span", 1e-15, b.InnerSpan(), 50)
}

func Test_loader02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("loader02. Kresling end caps")

	e := eng.NewEmulator()
	tab := &inp.MemberTable{Members: []inp.Member{
		{X1: 0, Y1: 0, Z1: 0, X2: 10, Y2: 0, Z2: 0, Width: 3, Height: 1},
		{X1: 0, Y1: 20, Z1: 0, X2: 10, Y2: 20, Z2: 0, Width: 3, Height: 1},
		{X1: 0, Y1: 0, Z1: 0, X2: 0, Y2: 20, Z2: 0, Width: 3, Height: 1},
	}}
	err := BuildBeamModel(e, tab, &BuildParams{Mech: inp.Kresling, Ndiv: 2})
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if e.Etypes[2] != "SOLID187" {
		tst.Errorf("wrong solid element: %v", e.Etypes)
		return
	}
	if e.NumVolumes() != 2 {
		tst.Errorf("wrong number of cap volumes: %d", e.NumVolumes())
		return
	}
	b, err := FindBounds(e)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "ymin", 1e-15, b.Ymin, -3)
	chk.Scalar(tst, "ymax", 1e-15, b.Ymax, 23)
	chk.Scalar(tst, "ymin2nd", 1e-15, b.Ymin2nd, 0)
	chk.Scalar(tst, "ymax2nd", 1e-15, b.Ymax2nd, 20)
}
