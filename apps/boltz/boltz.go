// Package boltz wraps the Boltz-2 structure prediction tool. Each
// invocation folds a two-sequence complex described by a small YAML input
// document and leaves three artifacts on disk: a pairwise aligned error
// matrix, a per-residue confidence track and the predicted structure.
// The tool itself is an opaque collaborator invoked via its command-line
// contract.
package boltz

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfig provides sane defaults for running Boltz-2.
var DefaultConfig = Config{
	Exec:             "boltz",
	Timeout:          900 * time.Second,
	RecyclingSteps:   2,
	SamplingSteps:    100,
	DiffusionSamples: 1,
	UseMSAServer:     true,
	Verbose:          true,
}

// Config specifies the location of the Boltz-2 executable along with the
// prediction parameters passed through on every run.
type Config struct {
	// Exec points to the 'boltz' executable.
	Exec string

	// Timeout bounds a single prediction. A run that exceeds it is
	// killed and reported as an error; there are no retries.
	Timeout time.Duration

	RecyclingSteps   int
	SamplingSteps    int
	DiffusionSamples int

	// UseMSAServer asks the tool to build alignments via its remote MSA
	// server instead of a local sequence database.
	UseMSAServer bool

	// Verbose controls whether the command executed is printed to stderr.
	Verbose bool
}

// An input document names the two sequences of the complex to fold.
type inputDoc struct {
	Sequences []sequenceEntry `yaml:"sequences"`
}

type sequenceEntry struct {
	Protein proteinSeq `yaml:"protein"`
}

type proteinSeq struct {
	Id       string `yaml:"id"`
	Sequence string `yaml:"sequence"`
}

// WriteInput writes a two-sequence prediction input document. The binder
// is chain A and the target chain B, mirroring the order the downstream
// interface metrics expect.
func WriteInput(path, binderSeq, targetSeq string) error {
	doc := inputDoc{
		Sequences: []sequenceEntry{
			{Protein: proteinSeq{Id: "A", Sequence: binderSeq}},
			{Protein: proteinSeq{Id: "B", Sequence: targetSeq}},
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0666)
}

// Predict runs one structure prediction on the given input document,
// writing the tool's output tree under outDir. The run is bounded by
// conf.Timeout.
func (conf Config) Predict(inputPath, outDir string) error {
	args := []string{"predict", inputPath}
	if conf.UseMSAServer {
		args = append(args, "--use_msa_server")
	}
	args = append(args,
		"--out_dir", outDir,
		"--recycling_steps", strconv.Itoa(conf.RecyclingSteps),
		"--sampling_steps", strconv.Itoa(conf.SamplingSteps),
		"--diffusion_samples", strconv.Itoa(conf.DiffusionSamples),
	)

	ctx := context.Background()
	if conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Timeout)
		defer cancel()
	}

	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "%s %s\n", conf.Exec, strings.Join(args, " "))
	}
	out, err := exec.CommandContext(ctx, conf.Exec, args...).CombinedOutput()
	if err != nil {
		// A run that finished before the deadline lapsed is not a
		// timeout, even if the context has expired by now.
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("prediction timed out after %s", conf.Timeout)
		}
		return fmt.Errorf("%s\n%s", out, err)
	}
	return nil
}

// Prediction locates the artifacts of a completed run. The tool derives
// its output layout from the input file name:
//
//	<outDir>/boltz_results_<stem>/predictions/<stem>/
type Prediction struct {
	// Dir is the directory holding this prediction's artifacts.
	Dir string
}

// Results returns the artifact locator for a completed prediction.
func Results(inputPath, outDir string) Prediction {
	stem := strings.TrimSuffix(filepath.Base(inputPath),
		filepath.Ext(inputPath))
	return Prediction{
		Dir: filepath.Join(outDir, "boltz_results_"+stem, "predictions", stem),
	}
}

// Pae returns the path of the pairwise aligned error archive.
func (p Prediction) Pae() (string, error) {
	return p.glob("pae_*.npz")
}

// Plddt returns the path of the per-residue confidence archive.
func (p Prediction) Plddt() (string, error) {
	return p.glob("plddt_*.npz")
}

// Structure returns the path of the predicted structure file.
func (p Prediction) Structure() (string, error) {
	return p.glob("*.cif")
}

func (p Prediction) glob(pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(p.Dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s found under %s", pattern, p.Dir)
	}
	return matches[0], nil
}
