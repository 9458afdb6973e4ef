// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from member-table (.csv) and
// sweep (.json) files
package inp

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/cpmech/gosl/chk"
)

// Member is one line-segment structural member
type Member struct {
	X1, Y1, Z1 float64 // first endpoint
	X2, Y2, Z2 float64 // second endpoint
	Width      float64 // cross-section width
	Height     float64 // cross-section height
}

// Profile is one distinct rectangular cross-section
type Profile struct {
	Width  float64
	Height float64
}

// MemberTable holds the ordered sequence of members of one model
type MemberTable struct {

	// input
	Members []Member // all members, in file order

	// derived (after Scale and DeriveProfiles)
	Profiles []Profile // distinct (width,height) pairs in first-seen order
	ProfIdx  []int     // [len(Members)] profile index of each member
}

// member-table columns, in file order
var memberCols = []string{"x1", "y1", "z1", "x2", "y2", "z2", "width", "height"}

// ReadMemberTable reads a member table from a comma-separated file with
// header x1,y1,z1,x2,y2,z2,width,height
func ReadMemberTable(path string) (o *MemberTable, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("cannot open member table: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, chk.Err("cannot read member table %q: %v", path, err)
	}
	if len(rows) < 1 || len(rows[0]) < len(memberCols) {
		return nil, chk.Err("member table %q has no valid header", path)
	}
	o = new(MemberTable)
	for i, row := range rows[1:] {
		vals := make([]float64, len(memberCols))
		for j := range memberCols {
			vals[j], err = strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, chk.Err("member table %q row %d: column %q is not a number: %v", path, i+1, memberCols[j], err)
			}
		}
		o.Members = append(o.Members, Member{
			X1: vals[0], Y1: vals[1], Z1: vals[2],
			X2: vals[3], Y2: vals[4], Z2: vals[5],
			Width: vals[6], Height: vals[7],
		})
	}
	return
}

// Scale rescales all endpoints by geomScale and all cross-sections by
// crossScale, in place
func (o *MemberTable) Scale(geomScale, crossScale float64) {
	for i := range o.Members {
		m := &o.Members[i]
		m.X1 *= geomScale
		m.Y1 *= geomScale
		m.Z1 *= geomScale
		m.X2 *= geomScale
		m.Y2 *= geomScale
		m.Z2 *= geomScale
		m.Width *= crossScale
		m.Height *= crossScale
	}
}

// DeriveProfiles computes the distinct cross-section profiles and assigns
// one profile index to every member. Profiles are identified by the literal
// (width,height) pair and numbered in first-seen order.
func (o *MemberTable) DeriveProfiles() {
	o.Profiles = o.Profiles[:0]
	o.ProfIdx = make([]int, len(o.Members))
	idx := make(map[Profile]int)
	for i, m := range o.Members {
		key := Profile{m.Width, m.Height}
		j, ok := idx[key]
		if !ok {
			j = len(o.Profiles)
			o.Profiles = append(o.Profiles, key)
			idx[key] = j
		}
		o.ProfIdx[i] = j
	}
}
