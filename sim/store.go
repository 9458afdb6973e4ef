// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"database/sql"
	"math"
	"time"

	"github.com/compmech/stiffsweep/bcs"
	"github.com/compmech/stiffsweep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store keeps one row per finished sweep case in a sqlite database, so that
// long sweeps can be inspected and resumed without re-reading thousands of
// per-case csv files
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS results (
	id           TEXT PRIMARY KEY,
	model        TEXT NOT NULL,
	mech         TEXT NOT NULL,
	mode         TEXT NOT NULL,
	displacement REAL NOT NULL,
	fx           REAL,
	fy           REAL,
	fz           REAL,
	mx           REAL,
	my           REAL,
	mz           REAL,
	length       REAL NOT NULL,
	converged    INTEGER NOT NULL,
	created      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_model_mode ON results(model, mode);
`

// OpenStore opens (creating if necessary) the sweep database at path
func OpenStore(path string) (o *Store, err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, chk.Err("cannot open sweep store %q: %v", path, err)
	}
	_, err = db.Exec(storeSchema)
	if err != nil {
		db.Close()
		return nil, chk.Err("cannot initialise sweep store %q: %v", path, err)
	}
	return &Store{db}, nil
}

// Save inserts one case record. NaN sentinels become NULL columns; the
// converged flag keeps them distinguishable from a legitimate zero.
func (o *Store) Save(modelName string, mech inp.MechType, mode bcs.Mode, rec *Record) (err error) {
	converged := 0
	if rec.Converged() {
		converged = 1
	}
	_, err = o.db.Exec(
		`INSERT INTO results (id, model, mech, mode, displacement, fx, fy, fz, mx, my, mz, length, converged, created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), modelName, string(mech), mode.String(), rec.Displacement,
		nullable(rec.Fx), nullable(rec.Fy), nullable(rec.Fz),
		nullable(rec.Mx), nullable(rec.My), nullable(rec.Mz),
		rec.L, converged, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return chk.Err("cannot save case %q to sweep store: %v", modelName, err)
	}
	return
}

// Count returns the number of stored case rows
func (o *Store) Count() (n int, err error) {
	err = o.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n)
	if err != nil {
		return 0, chk.Err("cannot count sweep store rows: %v", err)
	}
	return
}

// StoredCase is one sweep-store row read back for reporting
type StoredCase struct {
	Model     string
	Mech      string
	Mode      string
	Rec       Record
	Converged bool
	Created   string
}

// All returns every stored case, ordered by model and mode
func (o *Store) All() (cases []StoredCase, err error) {
	rows, err := o.db.Query(
		`SELECT model, mech, mode, displacement, fx, fy, fz, mx, my, mz, length, converged, created
		 FROM results ORDER BY model, mode`)
	if err != nil {
		return nil, chk.Err("cannot query sweep store: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c StoredCase
		var conv int
		var fx, fy, fz, mx, my, mz sql.NullFloat64
		err = rows.Scan(&c.Model, &c.Mech, &c.Mode, &c.Rec.Displacement,
			&fx, &fy, &fz, &mx, &my, &mz, &c.Rec.L, &conv, &c.Created)
		if err != nil {
			return nil, chk.Err("cannot scan sweep store row: %v", err)
		}
		c.Rec.Fx, c.Rec.Fy, c.Rec.Fz = denull(fx), denull(fy), denull(fz)
		c.Rec.Mx, c.Rec.My, c.Rec.Mz = denull(mx), denull(my), denull(mz)
		c.Converged = conv != 0
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Close releases the database
func (o *Store) Close() error { return o.db.Close() }

// nullable maps the NaN sentinel onto a NULL column value
func nullable(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// denull maps a NULL column value back onto the NaN sentinel
func denull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
