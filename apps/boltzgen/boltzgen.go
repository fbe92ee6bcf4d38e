// Package boltzgen wraps the BoltzGen generative design tool. BoltzGen is
// driven entirely through a YAML configuration file naming the target
// structure, the hotspot residues to bias binding toward, and the size of
// the design campaign; it is treated as an opaque collaborator invoked via
// its command-line contract.
package boltzgen

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultConfig provides sane defaults for running BoltzGen. For example:
//
//	err := boltzgen.DefaultConfig.Run(configPath)
var DefaultConfig = Config{
	Exec:    "boltzgen",
	Verbose: true,
}

// Config is used to specify the location of the BoltzGen executable and
// to control the level of vomit echoed to stderr.
type Config struct {
	// Exec points to the 'boltzgen' executable. If 'boltzgen' is in your
	// PATH, it is sufficient to leave this as 'boltzgen'.
	Exec string

	// Verbose controls whether the command executed is printed to stderr.
	Verbose bool
}

// Run executes BoltzGen on the given configuration file and blocks until
// it finishes. There is no timeout: a design campaign legitimately runs
// for hours. On a non-zero exit, the tool's combined output is folded
// into the returned error.
func (conf Config) Run(configPath string) error {
	if conf.Verbose {
		fmt.Fprintf(os.Stderr, "%s %s\n", conf.Exec, configPath)
	}
	out, err := exec.Command(conf.Exec, configPath).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s\n%s", out, err)
	}
	return nil
}

// Job describes one design generation request: the target structure, the
// chain and hotspot residues the binder should contact, the binder length
// range, and the campaign size.
type Job struct {
	// Target is the path to the target structure file (PDB or mmCIF).
	Target string

	// Chain is the target chain the hotspots refer to.
	Chain byte

	// Hotspots are residue sequence numbers on Chain that generation is
	// biased toward contacting.
	Hotspots []int

	// BinderMin and BinderMax bound the designed binder's length.
	BinderMin, BinderMax int

	// Designs is the total number of candidates to generate; Budget is
	// the post-filtering budget passed through to the tool.
	Designs, Budget int

	// OutDir is the directory BoltzGen writes its output tree into.
	OutDir string
}

// The configuration document, as BoltzGen expects it: the target entity
// with its binding residues, then the designed protein entity with its
// length range expressed as "min..max".
type configDoc struct {
	Entities []entity `yaml:"entities"`
	Designs  int      `yaml:"designs"`
	Budget   int      `yaml:"budget"`
	Output   string   `yaml:"output"`
}

type entity struct {
	File    string    `yaml:"file,omitempty"`
	Include []include `yaml:"include,omitempty"`
	Protein *protein  `yaml:"protein,omitempty"`
}

type include struct {
	Chain   string `yaml:"chain"`
	Binding []int  `yaml:"binding"`
}

type protein struct {
	Id       string `yaml:"id"`
	Sequence string `yaml:"sequence"`
}

// BinderChain is the identifier BoltzGen assigns to the designed binder
// in every candidate structure it emits.
const BinderChain = byte('B')

// document builds the YAML document for this job.
func (j Job) document() configDoc {
	return configDoc{
		Entities: []entity{
			{
				File: j.Target,
				Include: []include{{
					Chain:   string(j.Chain),
					Binding: j.Hotspots,
				}},
			},
			{
				Protein: &protein{
					Id:       string(BinderChain),
					Sequence: fmt.Sprintf("%d..%d", j.BinderMin, j.BinderMax),
				},
			},
		},
		Designs: j.Designs,
		Budget:  j.Budget,
		Output:  j.OutDir,
	}
}

// DesignsDir returns the directory BoltzGen writes its final candidate
// structures into, one mmCIF file per design.
func (j Job) DesignsDir() string {
	return filepath.Join(j.OutDir, "output", "intermediate_designs_inverse_folded")
}

// ScoresDir returns the directory holding one '.npz' score archive per
// candidate.
func (j Job) ScoresDir() string {
	return filepath.Join(j.DesignsDir(), "fold_out_npz")
}

// StructureFile returns the path of the candidate structure for the named
// design.
func (j Job) StructureFile(designName string) string {
	return filepath.Join(j.DesignsDir(), designName+".cif")
}

// RemoveIntermediates deletes the intermediate design trees BoltzGen
// leaves behind. They dwarf the final output and nothing downstream reads
// them. Errors are suppressed: leftovers only cost disk.
func (j Job) RemoveIntermediates() {
	for _, dir := range []string{
		"intermediate_designs",
		"intermediate_designs_folded",
	} {
		os.RemoveAll(filepath.Join(j.OutDir, "output", dir))
	}
}

// String returns a short human-readable description of the job, used in
// pipeline logs.
func (j Job) String() string {
	parts := make([]string, len(j.Hotspots))
	for i, h := range j.Hotspots {
		parts[i] = fmt.Sprintf("%d", h)
	}
	return fmt.Sprintf("%d designs (budget %d), binder %d-%d, hotspots %c:%s",
		j.Designs, j.Budget, j.BinderMin, j.BinderMax,
		j.Chain, strings.Join(parts, ","))
}
