// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements offline aggregation of sweep records and the
// stiffness figures derived from them
package out

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/compmech/stiffsweep/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Family groups sweep cases for plotting
type Family string

// plotted families
const (
	FamPET      Family = "pet"
	FamKresling Family = "kresling"
	FamHERDS    Family = "herds"
)

// Case is one sweep record together with the design parameters recovered
// from its filename
type Case struct {
	Path      string
	Family    Family
	Alpha     float64 // linkage angle parameter; 0 when absent
	Thickness float64 // member thickness
	Cells     float64 // cell count along the axis
	MemScale  float64 // member scale factor; 0 when absent
	Rec       *sim.Record
}

// filename metadata; sweep scripts encode design parameters into the case
// file key as key_value_ pairs
var (
	alphaRx     = regexp.MustCompile(`alpha_([0-9.]+)_`)
	thickRx     = regexp.MustCompile(`t_([0-9.]+)_`)
	thicknessRx = regexp.MustCompile(`thickness_([0-9.]+)_`)
	cellsRx     = regexp.MustCompile(`cells_([0-9.]+)_`)
	scaleRx     = regexp.MustCompile(`scale_([0-9.]+)_`)
)

// cell counts per unit cell height: HERDS cells are four thicknesses tall,
// the others two
const (
	herdsCellFactor = 4.0
	cellFactor      = 2.0
)

// ParseCase recovers the family and design parameters of one record file
// from its name. Kresling sweeps default to three cells.
func ParseCase(path string) (c *Case, err error) {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	c = &Case{Path: path}
	switch {
	case strings.Contains(lower, "herds"):
		c.Family = FamHERDS
		c.Thickness, err = matchNum(thickRx, name)
		if err != nil {
			return
		}
		c.Cells, err = matchNum(cellsRx, name)
	case strings.Contains(lower, "kres") || strings.Contains(lower, "radius"):
		c.Family = FamKresling
		c.Thickness, err = matchNum(thicknessRx, name)
		c.Cells = 3.0
	case strings.Contains(lower, "pet") || strings.Contains(lower, "width"):
		c.Family = FamPET
		c.Alpha, err = matchNum(alphaRx, name)
		if err != nil {
			return
		}
		c.Thickness, err = matchNum(thickRx, name)
		if err != nil {
			return
		}
		c.Cells, err = matchNum(cellsRx, name)
	default:
		return nil, chk.Err("cannot classify case file %q", name)
	}
	if err != nil {
		return nil, err
	}
	if m := scaleRx.FindStringSubmatch(name); m != nil {
		c.MemScale, err = strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, err
		}
	}
	return
}

// InitialHeight returns the stowed height of the mechanism
func (o *Case) InitialHeight() float64 {
	if o.Family == FamHERDS {
		return o.Cells * herdsCellFactor * o.Thickness
	}
	return o.Cells * cellFactor * o.Thickness
}

// ExtensionRatio returns the deployed length over the stowed height
func (o *Case) ExtensionRatio() float64 {
	return o.Rec.L / o.InitialHeight()
}

// loadWorkers is the number of concurrent record readers
const loadWorkers = 8

// LoadCases reads all record files in dir whose name contains modeName,
// using a fixed pool of workers draining the path list. Files that cannot
// be classified or parsed are skipped with a warning; a sweep writes
// thousands of records and one malformed file must not abort a figure.
func LoadCases(dir, modeName string) (cases []*Case, err error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+modeName+"*.csv"))
	if err != nil {
		return nil, chk.Err("cannot list record directory %q: %v", dir, err)
	}
	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < loadWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				c, cerr := ParseCase(path)
				if cerr != nil {
					io.Pforan("skipping %q: %v\n", path, cerr)
					continue
				}
				c.Rec, cerr = sim.ReadRecord(path)
				if cerr != nil {
					io.Pforan("skipping %q: %v\n", path, cerr)
					continue
				}
				mu.Lock()
				cases = append(cases, c)
				mu.Unlock()
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	return
}

// ReadMassTable reads a filename->mass map from a comma-separated file with
// header filename,mass
func ReadMassTable(path string) (masses map[string]float64, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read mass table: %v", err)
	}
	masses = make(map[string]float64)
	for i, line := range strings.Split(string(b), "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, chk.Err("mass table %q line %d is malformed", path, i+1)
		}
		m, perr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if perr != nil {
			return nil, chk.Err("mass table %q line %d: %v", path, i+1, perr)
		}
		masses[strings.TrimSpace(fields[0])] = m
	}
	return
}

// Mass looks up the mass of this case: the table is keyed by the model file
// name with the mode suffix removed
func (o *Case) Mass(modeName string, masses map[string]float64) (mass float64, ok bool) {
	key := strings.Replace(filepath.Base(o.Path), "_"+modeName, "", 1)
	key = strings.TrimSuffix(key, ".csv")
	mass, ok = masses[key]
	return
}

// auxiliary ///////////////////////////////////////////////////////////////

func matchNum(rx *regexp.Regexp, name string) (float64, error) {
	m := rx.FindStringSubmatch(name)
	if m == nil {
		return 0, chk.Err("case file %q carries no %s parameter", name, rx.String())
	}
	return strconv.ParseFloat(m[1], 64)
}
