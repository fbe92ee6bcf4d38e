// Package pipeline drives the binder design workflow: one generation run
// over a target structure, a ranking pass over every candidate the
// generator emits, a sequential prediction+scoring pass over the
// top-ranked subset, and a final aggregation of all metrics into one
// ranked table plus a directory of result files.
//
// Failures split two ways. Anything wrong with the run as a whole (bad
// target, failed generation, zero usable candidates) is fatal and
// returned as an error. Anything wrong with a single candidate during
// scoring only skips that candidate; the batch continues and the final
// table carries the candidate with empty scoring columns.
package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/simongaraude/binder-design-pipeline/apps/boltz"
	"github.com/simongaraude/binder-design-pipeline/apps/boltzgen"
	"github.com/simongaraude/binder-design-pipeline/apps/ipsae"
	"github.com/simongaraude/binder-design-pipeline/pdb"
)

// Version of the pipeline, reported by the driver's --version flag.
const Version = "2.0.0"

const (
	DefaultNumDesigns = 750
	DefaultBudget     = 375
	DefaultScoreTop   = 200
)

// TargetChain is the chain of the target structure the hotspot residues
// refer to; the generation tool is always pointed at it.
const TargetChain = byte('A')

// Options configures one pipeline run.
type Options struct {
	// Target is the path to the target structure (PDB or mmCIF).
	Target string

	// OutDir is the run's output directory; it is created if missing.
	OutDir string

	// Hotspots are residue sequence numbers on the target's chain A that
	// generation is biased toward contacting.
	Hotspots []int

	// NumDesigns and Budget size the generation campaign.
	NumDesigns, Budget int

	// BinderMin and BinderMax bound the designed binder's length. When
	// both are zero, a bracket is chosen from the target's size.
	BinderMin, BinderMax int

	// ScoreTop is how many of the top-ranked candidates get the full
	// prediction and scoring treatment.
	ScoreTop int

	BoltzGen boltzgen.Config
	Boltz    boltz.Config
	IPSAE    ipsae.Config

	// Log receives the pipeline's timestamped progress lines. When nil,
	// a logger on stdout is used.
	Log *log.Logger
}

// DefaultOptions returns Options with every tool at its default
// configuration and the campaign sizes of the standard protocol.
func DefaultOptions() Options {
	return Options{
		NumDesigns: DefaultNumDesigns,
		Budget:     DefaultBudget,
		ScoreTop:   DefaultScoreTop,
		BoltzGen:   boltzgen.DefaultConfig,
		Boltz:      boltz.DefaultConfig,
		IPSAE:      ipsae.DefaultConfig,
	}
}

// BinderRange returns the binder length bracket used when none is given,
// chosen from the number of residues in the target chain.
func BinderRange(targetSize int) (min, max int) {
	switch {
	case targetSize < 100:
		return 60, 120
	case targetSize < 200:
		return 50, 100
	case targetSize < 300:
		return 40, 80
	default:
		return 60, 130
	}
}

func (opts *Options) logger() *log.Logger {
	if opts.Log == nil {
		opts.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	return opts.Log
}

func (opts *Options) logf(format string, v ...interface{}) {
	opts.logger().Printf(format, v...)
}

func (opts *Options) warnf(format string, v ...interface{}) {
	opts.logger().Printf("WARNING: "+format, v...)
}

func (opts *Options) banner(title string) {
	line := "================================================================"
	opts.logf("%s", line)
	opts.logf("%s", title)
	opts.logf("%s", line)
}

// Run executes the whole pipeline. The returned error is non-nil only
// for fatal conditions; per-candidate scoring failures are logged and
// skipped.
func Run(opts Options) error {
	target, err := filepath.Abs(opts.Target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target file not found: %s", err)
	}
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return err
	}
	if len(opts.Hotspots) == 0 {
		return fmt.Errorf("no hotspot residues given")
	}

	entry, err := pdb.New(target)
	if err != nil {
		return fmt.Errorf("failed to parse target structure: %s", err)
	}
	chain := entry.Chain(TargetChain)
	if chain == nil {
		return fmt.Errorf("target structure has no chain %c", TargetChain)
	}
	targetSize := len(chain.Residues)

	binderMin, binderMax := opts.BinderMin, opts.BinderMax
	if binderMin == 0 && binderMax == 0 {
		binderMin, binderMax = BinderRange(targetSize)
	}
	if binderMin <= 0 || binderMax < binderMin {
		return fmt.Errorf("invalid binder length range %d-%d",
			binderMin, binderMax)
	}

	job := boltzgen.Job{
		Target:    target,
		Chain:     TargetChain,
		Hotspots:  opts.Hotspots,
		BinderMin: binderMin,
		BinderMax: binderMax,
		Designs:   opts.NumDesigns,
		Budget:    opts.Budget,
		OutDir:    filepath.Join(outDir, "boltzgen_output"),
	}

	opts.banner(fmt.Sprintf("PROTEIN BINDER DESIGN PIPELINE v%s", Version))
	opts.logf("Target: %s", target)
	opts.logf("Target size: %d residues", targetSize)
	opts.logf("Output: %s", outDir)
	opts.logf("Job: %s", job)

	// Phase 1: generation. Any failure here is fatal; there are no
	// partial results to salvage.
	opts.banner("PHASE 1: GENERATION")
	configPath := filepath.Join(outDir, "boltzgen_config.yaml")
	if err := job.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to write generation config: %s", err)
	}
	opts.logf("Config: %s", configPath)
	if err := opts.BoltzGen.Run(configPath); err != nil {
		return fmt.Errorf("generation failed: %s", err)
	}
	opts.logf("Generation completed")
	opts.logf("Cleaning up intermediates...")
	job.RemoveIntermediates()

	// Phase 2: ranking.
	opts.banner("PHASE 2: RANKING")
	designs, err := opts.Rank(job.ScoresDir())
	if err != nil {
		return err
	}
	opts.logf("Total designs: %d", len(designs))
	opts.logTopRanked(designs, 10)

	// Phase 3: prediction + scoring over the top of the ranking.
	opts.banner(fmt.Sprintf("PHASE 3: PREDICTION + SCORING (TOP %d)",
		opts.ScoreTop))
	scoringDir := filepath.Join(outDir, "boltz2_scoring")
	if err := os.MkdirAll(scoringDir, 0777); err != nil {
		return err
	}
	scores := opts.scoreCandidates(job, designs, scoringDir)
	opts.logf("Scoring completed: %d of %d candidates",
		len(scores), minInt(opts.ScoreTop, len(designs)))

	// Phase 4: aggregation.
	opts.banner("PHASE 4: RESULTS")
	finalDir := filepath.Join(outDir, "FINAL_RESULTS")
	if err := os.MkdirAll(finalDir, 0777); err != nil {
		return err
	}
	csvPath := filepath.Join(finalDir, "all_designs_complete.csv")
	merged := Aggregate(designs, scores)
	if err := WriteTable(csvPath, merged); err != nil {
		return fmt.Errorf("failed to write results table: %s", err)
	}
	opts.logf("Results: %s", csvPath)
	opts.logTopScored(merged, 10)
	opts.copyResults(job, scores, finalDir)

	opts.banner("PIPELINE COMPLETE")
	opts.logf("Total designs: %d", len(designs))
	opts.logf("Scored: %d", len(scores))
	opts.logf("Results: %s", finalDir)
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
