// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/compmech/stiffsweep/eng"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Record is the immutable result of one simulation case: the prescribed
// displacement, the summed reactions at the driven group, and the
// characteristic length. On non-convergence the reaction fields carry NaN
// but the length is still well-formed.
type Record struct {
	Displacement           float64
	Fx, Fy, Fz, Mx, My, Mz float64
	L                      float64
}

// NewRecord builds a converged-case record from the engine's reactions
func NewRecord(displacement float64, r eng.Reactions, length float64) *Record {
	return &Record{displacement, r.Fx, r.Fy, r.Fz, r.Mx, r.My, r.Mz, length}
}

// NewSentinelRecord builds a non-converged-case record: all reaction fields
// hold the NaN sentinel
func NewSentinelRecord(displacement, length float64) *Record {
	nan := math.NaN()
	return &Record{displacement, nan, nan, nan, nan, nan, nan, length}
}

// Converged tells whether this record came from a converged solve
func (o *Record) Converged() bool { return !math.IsNaN(o.Fx) }

// Write saves the record as dirout/fnkey.csv, one header row and one data
// row; NaN sentinels are written literally
func (o *Record) Write(dirout, fnkey string) {
	var buf bytes.Buffer
	io.Ff(&buf, "Displacement,FX,FY,FZ,MX,MY,MZ,L\n")
	io.Ff(&buf, "%g,%g,%g,%g,%g,%g,%g,%g\n", o.Displacement, o.Fx, o.Fy, o.Fz, o.Mx, o.My, o.Mz, o.L)
	io.WriteFileD(dirout, fnkey+".csv", &buf)
}

// ReadRecord reads a case record back from its csv file. NaN sentinels
// round-trip unchanged.
func ReadRecord(path string) (o *Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("cannot open record: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, chk.Err("cannot read record %q: %v", path, err)
	}
	if len(rows) < 2 || len(rows[1]) < 8 {
		return nil, chk.Err("record %q has no data row", path)
	}
	vals := make([]float64, 8)
	for j := range vals {
		vals[j], err = strconv.ParseFloat(rows[1][j], 64)
		if err != nil {
			return nil, chk.Err("record %q: column %d is not a number: %v", path, j, err)
		}
	}
	return &Record{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7]}, nil
}
