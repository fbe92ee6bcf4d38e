// Package ipsae wraps the IPSAE interface scoring script. IPSAE consumes
// a combined archive of the predictor's error matrix and confidence track
// plus the predicted structure, and emits a whitespace-delimited text
// report from which two scalars are scraped: the interface score (ipSAE)
// and the docking quality score (pDockQ).
package ipsae

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/simongaraude/binder-design-pipeline/npz"
)

// DefaultConfig provides sane defaults for running IPSAE. The script is
// looked for at '~/ipsae/ipsae.py' when no explicit path is configured.
var DefaultConfig = Config{
	Python:     "python3",
	PaeCutoff:  8,
	DistCutoff: 8,
	Timeout:    120 * time.Second,
	Verbose:    true,
}

// Config specifies how to invoke the IPSAE script.
type Config struct {
	// Python is the interpreter used to run the script.
	Python string

	// Script is the path to 'ipsae.py'. When empty, '~/ipsae/ipsae.py'
	// is used.
	Script string

	// PaeCutoff and DistCutoff are the two numeric cutoffs passed to the
	// script. They also determine the report file's name suffix.
	PaeCutoff, DistCutoff int

	// Timeout bounds a single scoring run.
	Timeout time.Duration

	// Verbose controls whether the command executed is printed to stderr.
	Verbose bool
}

// Scores holds the two scalars scraped from an IPSAE report.
type Scores struct {
	IpSAE  float64
	PDockQ float64
}

// script resolves the configured script path, defaulting to the
// conventional per-user install location.
func (conf Config) script() (string, error) {
	if len(conf.Script) > 0 {
		return conf.Script, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "ipsae", "ipsae.py"), nil
}

// Combine repackages the predictor's error matrix and confidence track
// into the single archive layout IPSAE expects, written next to the
// inputs as 'combined_<name>.npz'. The returned path is the new archive.
func Combine(paeFile, plddtFile string) (string, error) {
	paeArch, err := npz.Read(paeFile)
	if err != nil {
		return "", err
	}
	plddtArch, err := npz.Read(plddtFile)
	if err != nil {
		return "", err
	}
	pae, ok := paeArch["pae"]
	if !ok {
		return "", fmt.Errorf("%s has no 'pae' member", paeFile)
	}
	plddt, ok := plddtArch["plddt"]
	if !ok {
		return "", fmt.Errorf("%s has no 'plddt' member", plddtFile)
	}

	name := strings.TrimPrefix(
		strings.TrimSuffix(filepath.Base(paeFile), ".npz"), "pae_")
	combined := filepath.Join(filepath.Dir(paeFile), "combined_"+name+".npz")
	err = npz.Write(combined, map[string]*npz.Array{
		"pae":   pae,
		"plddt": plddt,
	})
	if err != nil {
		return "", err
	}
	return combined, nil
}

// Run invokes IPSAE on a combined archive and a predicted structure,
// then scrapes the scores from the report it writes next to the
// structure. The run is bounded by conf.Timeout.
//
// The boolean result is false when the run completed but the report
// carried no usable score line; that is not an error.
func (conf Config) Run(combined, structure string) (Scores, bool, error) {
	script, err := conf.script()
	if err != nil {
		return Scores{}, false, err
	}
	if _, err := os.Stat(script); err != nil {
		return Scores{}, false, fmt.Errorf("ipsae script not found: %s", err)
	}

	args := []string{
		script, combined, structure,
		strconv.Itoa(conf.PaeCutoff), strconv.Itoa(conf.DistCutoff),
	}

	ctx := context.Background()
	if conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Timeout)
		defer cancel()
	}

	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "%s %s\n", conf.Python, strings.Join(args, " "))
	}
	out, err := exec.CommandContext(ctx, conf.Python, args...).CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Scores{}, false, fmt.Errorf("scoring timed out after %s",
				conf.Timeout)
		}
		return Scores{}, false, fmt.Errorf("%s\n%s", out, err)
	}

	report, err := conf.ReportFile(structure)
	if err != nil {
		return Scores{}, false, err
	}
	f, err := os.Open(report)
	if err != nil {
		return Scores{}, false, err
	}
	defer f.Close()

	scores, ok := ParseReport(f)
	return scores, ok, nil
}

// ReportFile locates the report IPSAE wrote for the given structure. The
// script names it after the structure with the two cutoffs zero-padded to
// two digits, e.g. '..._08_08.txt'.
func (conf Config) ReportFile(structure string) (string, error) {
	pattern := filepath.Join(filepath.Dir(structure),
		fmt.Sprintf("*_%02d_%02d.txt", conf.PaeCutoff, conf.DistCutoff))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no report matching %s", pattern)
	}
	return matches[0], nil
}
