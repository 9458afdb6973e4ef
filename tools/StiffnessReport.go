// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"math"

	"github.com/compmech/stiffsweep/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xuri/excelize/v2"
)

// exports the sweep store as a spreadsheet: one row per case, one sheet,
// with non-converged reaction cells left blank
func main() {

	// input
	storePath, _ := io.ArgToFilename(0, "sweep", ".db", true)
	outPath := io.ArgToString(1, "sweep_report.xlsx")

	// read store
	store, err := sim.OpenStore(storePath)
	if err != nil {
		chk.Panic("%v", err)
	}
	defer store.Close()
	cases, err := store.All()
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf("store has %d cases\n", len(cases))

	// workbook
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := "Results"
	err = wb.SetSheetName("Sheet1", sheet)
	if err != nil {
		chk.Panic("%v", err)
	}
	header := []interface{}{"Model", "Mech", "Mode", "Displacement", "FX", "FY", "FZ", "MX", "MY", "MZ", "L", "Converged", "Created"}
	err = wb.SetSheetRow(sheet, "A1", &header)
	if err != nil {
		chk.Panic("%v", err)
	}
	for i, c := range cases {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			chk.Panic("%v", cerr)
		}
		row := []interface{}{c.Model, c.Mech, c.Mode, c.Rec.Displacement,
			blankNaN(c.Rec.Fx), blankNaN(c.Rec.Fy), blankNaN(c.Rec.Fz),
			blankNaN(c.Rec.Mx), blankNaN(c.Rec.My), blankNaN(c.Rec.Mz),
			c.Rec.L, c.Converged, c.Created}
		err = wb.SetSheetRow(sheet, cell, &row)
		if err != nil {
			chk.Panic("%v", err)
		}
	}
	err = wb.SaveAs(outPath)
	if err != nil {
		chk.Panic("cannot save report %q: %v", outPath, err)
	}
	io.Pf("report saved to %s\n", outPath)
}

func blankNaN(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
