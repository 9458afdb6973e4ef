// Copyright 2024 The Stiffsweep Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eng

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Settings holds the launch parameters of the external solver
type Settings struct {
	Exec           string        // solver executable path
	Nproc          int           // number of solver processors
	License        string        // license/product flag; empty means solver default
	StartTimeout   time.Duration // maximum wait for the solver console to come up
	CommandTimeout time.Duration // maximum wait for one command echo
}

// Client drives one external solver process through its batch console.
// Commands are written to the solver's standard input and replies are read
// back from its standard output; scalar queries go through scratch files in
// the run directory. One Client serves exactly one simulation case: open,
// configure, use, and release -- never reuse across cases.
type Client struct {
	set    Settings
	runDir string
	cmd    *exec.Cmd
	stdin  *bufio.Writer
	lines  chan string
	nsync  int
}

// scratch filenames written by the solver inside the run directory
const (
	queryFile = "_stsw_query.txt"
	klistFile = "_stsw_klist.txt"
	llistFile = "_stsw_llist.txt"
)

var (
	paramRx = regexp.MustCompile(`_STSW\s+=?\s*([0-9eEdD+\-.]+)`)
	intRx   = regexp.MustCompile(`^\s*(\d+)`)
)

// NewClient launches the solver console in runDir and waits for it to accept
// commands. The run log stays in runDir ("run.log") together with any files
// the solver generates while working on the case.
func NewClient(set Settings, runDir string) (o *Client, err error) {

	// default timeouts
	if set.StartTimeout <= 0 {
		set.StartTimeout = 600 * time.Second
	}
	if set.CommandTimeout <= 0 {
		set.CommandTimeout = 120 * time.Second
	}

	// launch console process
	o = &Client{set: set, runDir: runDir}
	args := []string{"-b", "-np", io.Sf("%d", set.Nproc), "-dir", runDir, "-o", filepath.Join(runDir, "run.log")}
	if set.License != "" {
		args = append(args, "-p", set.License)
	}
	o.cmd = exec.Command(set.Exec, args...)
	stdin, err := o.cmd.StdinPipe()
	if err != nil {
		return nil, chk.Err("cannot open solver stdin: %v", err)
	}
	stdout, err := o.cmd.StdoutPipe()
	if err != nil {
		return nil, chk.Err("cannot open solver stdout: %v", err)
	}
	o.cmd.Stderr = o.cmd.Stdout
	err = o.cmd.Start()
	if err != nil {
		return nil, chk.Err("cannot start solver %q: %v", set.Exec, err)
	}
	o.stdin = bufio.NewWriter(stdin)

	// collect console output
	o.lines = make(chan string, 1024)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			o.lines <- scanner.Text()
		}
		close(o.lines)
	}()

	// handshake
	err = o.sendSync(set.StartTimeout, "/BATCH")
	if err != nil {
		o.Kill()
		return nil, chk.Err("solver console did not come up: %v", err)
	}
	return
}

// send writes one command line to the solver console
func (o *Client) send(format string, prm ...interface{}) (err error) {
	_, err = o.stdin.WriteString(io.Sf(format, prm...) + "\n")
	if err != nil {
		return chk.Err("cannot write command to solver: %v", err)
	}
	return o.stdin.Flush()
}

// sync waits until the solver has echoed a marker comment, which means all
// previously sent commands have been consumed
func (o *Client) sync(timeout time.Duration) (err error) {
	o.nsync++
	marker := io.Sf("STSW_SYNC_%d", o.nsync)
	err = o.send("/COM,%s", marker)
	if err != nil {
		return
	}
	expiry := time.After(timeout)
	for {
		select {
		case line, ok := <-o.lines:
			if !ok {
				return chk.Err("solver console closed unexpectedly")
			}
			if strings.Contains(line, marker) {
				return nil
			}
		case <-expiry:
			return chk.Err("solver did not acknowledge commands within %v", timeout)
		}
	}
}

// sendSync sends one command and waits for the solver to consume it
func (o *Client) sendSync(timeout time.Duration, format string, prm ...interface{}) (err error) {
	err = o.send(format, prm...)
	if err != nil {
		return
	}
	return o.sync(timeout)
}

// query evaluates one *GET item and returns its scalar value
func (o *Client) query(spec string) (val float64, err error) {
	err = o.send("*GET,_STSW,%s", spec)
	if err != nil {
		return
	}
	err = o.send("/OUTPUT,%s", filepath.Join(o.runDir, queryFile))
	if err != nil {
		return
	}
	err = o.send("*STATUS,_STSW")
	if err != nil {
		return
	}
	err = o.sendSync(o.set.CommandTimeout, "/OUTPUT")
	if err != nil {
		return
	}
	b, err := os.ReadFile(filepath.Join(o.runDir, queryFile))
	if err != nil {
		return 0, chk.Err("cannot read query reply: %v", err)
	}
	m := paramRx.FindStringSubmatch(string(b))
	if m == nil {
		return 0, chk.Err("query %q returned no value", spec)
	}
	s := strings.NewReplacer("d", "e", "D", "E").Replace(m[1])
	val, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, chk.Err("query %q returned non-numeric value %q", spec, m[1])
	}
	return
}

// listing sends a listing command and returns the captured output lines
func (o *Client) listing(fname, command string) (out []string, err error) {
	err = o.send("/OUTPUT,%s", filepath.Join(o.runDir, fname))
	if err != nil {
		return
	}
	err = o.send(command)
	if err != nil {
		return
	}
	err = o.sendSync(o.set.CommandTimeout, "/OUTPUT")
	if err != nil {
		return
	}
	b, err := os.ReadFile(filepath.Join(o.runDir, fname))
	if err != nil {
		return nil, chk.Err("cannot read listing %q: %v", command, err)
	}
	return strings.Split(string(b), "\n"), nil
}

// processor switches ////////////////////////////////////////////////////////

func (o *Client) Prep7() error    { return o.send("/PREP7") }
func (o *Client) Solution() error { return o.send("/SOLU") }
func (o *Client) Post1() error    { return o.send("/POST1") }
func (o *Client) Finish() error   { return o.send("FINISH") }

// material and element data /////////////////////////////////////////////////

func (o *Client) MatProp(key string, mat int, value float64) error {
	return o.send("MP,%s,%d,%g", key, mat, value)
}

func (o *Client) SecType(id int, category, shape string) error {
	return o.send("SECTYPE,%d,%s,%s", id, category, shape)
}

func (o *Client) SecData(width, height float64, nw, nh int) error {
	return o.send("SECDATA,%g,%g,%d,%d", width, height, nw, nh)
}

func (o *Client) ElemType(slot int, name string, keyopts ...int) (err error) {
	err = o.send("ET,%d,%s", slot, name)
	if err != nil {
		return
	}
	for i, v := range keyopts {
		err = o.send("KEYOPT,%d,%d,%d", slot, i+1, v)
		if err != nil {
			return
		}
	}
	return
}

// geometry construction /////////////////////////////////////////////////////

func (o *Client) Keypoint(id int, x, y, z float64) error {
	return o.send("K,%d,%g,%g,%g", id, x, y, z)
}

func (o *Client) Line(k1, k2 int) error {
	return o.send("L,%d,%d", k1, k2)
}

func (o *Client) AreaFromLines(lineIDs []int) (areaID int, err error) {
	ids := make([]string, len(lineIDs))
	for i, id := range lineIDs {
		ids[i] = io.Sf("%d", id)
	}
	err = o.send("AL,%s", strings.Join(ids, ","))
	if err != nil {
		return
	}
	val, err := o.query("AREA,0,NUM,MAX")
	if err != nil {
		return
	}
	return int(val), nil
}

func (o *Client) ExtrudeArea(areaID int, dx, dy, dz float64) error {
	return o.send("VEXT,%d,,,%g,%g,%g", areaID, dx, dy, dz)
}

func (o *Client) Block(x, y, width, height, depth float64) (volID int, err error) {
	err = o.send("BLC4,%g,%g,%g,%g,%g", x, y, width, height, depth)
	if err != nil {
		return
	}
	val, err := o.query("VOLU,0,NUM,MAX")
	if err != nil {
		return
	}
	return int(val), nil
}

// attributes and meshing ////////////////////////////////////////////////////

func (o *Client) SelectAllLines() error { return o.send("LSEL,ALL") }

func (o *Client) LineAttributes(mat, etype, secnum int) error {
	return o.send("LATT,%d,,%d,,,,%d", mat, etype, secnum)
}

func (o *Client) LineDivisions(ndiv int) error { return o.send("LESIZE,ALL,,,%d", ndiv) }
func (o *Client) MeshLines() error             { return o.sendSync(o.set.CommandTimeout, "LMESH,ALL") }
func (o *Client) SelectAllVolumes() error      { return o.send("VSEL,ALL") }

func (o *Client) VolumeAttributes(mat, etype int) error {
	return o.send("VATT,%d,,%d", mat, etype)
}

func (o *Client) MeshVolumes() error    { return o.sendSync(o.set.CommandTimeout, "VMESH,ALL") }
func (o *Client) SelectAllNodes() error { return o.send("NSEL,ALL") }
func (o *Client) MergeNodes() error     { return o.send("NUMMRG,NODE") }
func (o *Client) MergeKeypoints() error { return o.send("NUMMRG,KP") }
func (o *Client) EndRelease() error     { return o.send("ENDRELEASE") }

// selection /////////////////////////////////////////////////////////////////

func (o *Client) SelectAll() error { return o.send("ALLSEL") }

func (o *Client) SelectionTolerance(tol float64) error { return o.send("SELTOL,%g", tol) }

func (o *Client) SelectNodesByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error) {
	err = o.send("NSEL,%s,LOC,%s,%g,%g", op, axis, vmin, vmax)
	if err != nil {
		return
	}
	val, err := o.query("NODE,0,COUNT")
	if err != nil {
		return
	}
	return int(val), nil
}

func (o *Client) SelectAreasByLoc(op SelOp, axis Axis, vmin, vmax float64) (count int, err error) {
	err = o.send("ASEL,%s,LOC,%s,%g,%g", op, axis, vmin, vmax)
	if err != nil {
		return
	}
	val, err := o.query("AREA,0,COUNT")
	if err != nil {
		return
	}
	return int(val), nil
}

func (o *Client) SelectLinesByLoc(axis Axis, value float64) (lineIDs []int, err error) {
	err = o.send("LSEL,S,LOC,%s,%g", axis, value)
	if err != nil {
		return
	}
	lines, err := o.listing(llistFile, "LLIST")
	if err != nil {
		return
	}
	for _, line := range lines {
		if m := intRx.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			lineIDs = append(lineIDs, id)
		}
	}
	return
}

func (o *Client) SelectLines(lineIDs []int) (err error) {
	op := NewSet
	for _, id := range lineIDs {
		err = o.send("LSEL,%s,LINE,,%d", op, id)
		if err != nil {
			return
		}
		op = "A" // additively select the rest
	}
	return
}

func (o *Client) NameSelection(name string, entity Entity) error {
	return o.send("CM,%s,%s", name, entity)
}

func (o *Client) SelectComponent(name string) error { return o.send("CMSEL,S,%s", name) }

// constraints ///////////////////////////////////////////////////////////////

func (o *Client) ConstrainNodes(dof Dof, value float64) error {
	return o.send("D,ALL,%s,%g", dof, value)
}

func (o *Client) ConstrainAreas(dof Dof, value float64) error {
	return o.send("DA,ALL,%s,%g", dof, value)
}

// solution controls and queries /////////////////////////////////////////////

func (o *Client) AnalysisType(name string) error { return o.send("ANTYPE,%s", name) }

func (o *Client) LargeDeflection(on bool) error {
	if on {
		return o.send("NLGEOM,ON")
	}
	return o.send("NLGEOM,OFF")
}

func (o *Client) Substeps(n, nmin, nmax int) error {
	return o.send("NSUBST,%d,%d,%d", n, nmax, nmin)
}

func (o *Client) EquilibriumIters(n int) error { return o.send("NEQIT,%d", n) }
func (o *Client) OutputLast() error            { return o.send("OUTRES,ALL,LAST") }

// Solve runs the nonlinear solve; the call blocks until the solver reports
// completion on its console. Timeouts are enforced one level up by killing
// the whole solver process.
func (o *Client) Solve() (err error) {
	err = o.send("SOLVE")
	if err != nil {
		return
	}
	return o.sync(24 * time.Hour)
}

func (o *Client) LastSet() error { return o.send("SET,LAST") }

func (o *Client) Converged() (bool, error) {
	val, err := o.query("ACTIVE,0,SOLU,CNVG")
	if err != nil {
		return false, err
	}
	return val > 0, nil
}

func (o *Client) SumReactions() (res Reactions, err error) {
	err = o.send("FSUM")
	if err != nil {
		return
	}
	items := []struct {
		key string
		dst *float64
	}{
		{"FX", &res.Fx}, {"FY", &res.Fy}, {"FZ", &res.Fz},
		{"MX", &res.Mx}, {"MY", &res.My}, {"MZ", &res.Mz},
	}
	for _, it := range items {
		*it.dst, err = o.query(io.Sf("FSUM,0,ITEM,%s", it.key))
		if err != nil {
			return
		}
	}
	return
}

// geometry queries //////////////////////////////////////////////////////////

func (o *Client) Keypoints() (points []Point, err error) {
	lines, err := o.listing(klistFile, "KLIST,ALL")
	if err != nil {
		return
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if _, e := strconv.Atoi(fields[0]); e != nil {
			continue
		}
		var p Point
		p.X, err = strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		p.Y, err = strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		p.Z, err = strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		points = append(points, p)
	}
	err = nil
	return
}

// lifecycle /////////////////////////////////////////////////////////////////

// Close asks the solver to exit without saving and waits for the process
func (o *Client) Close() (err error) {
	o.send("FINISH")
	o.send("/EXIT,NOSAVE")
	o.stdin.Flush()
	done := make(chan error, 1)
	go func() { done <- o.cmd.Wait() }()
	select {
	case err = <-done:
	case <-time.After(o.set.CommandTimeout):
		o.Kill()
		err = chk.Err("solver did not exit; process killed")
	}
	return
}

// Kill terminates the solver process immediately
func (o *Client) Kill() {
	if o.cmd != nil && o.cmd.Process != nil {
		o.cmd.Process.Kill()
	}
}
