// binder-pipeline drives the full binder design workflow over a target
// structure: design generation, ranking, structure prediction with
// interface scoring over the top of the ranking, and aggregation of all
// metrics into one ranked CSV plus a results directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/simongaraude/binder-design-pipeline/cmd/util"
	"github.com/simongaraude/binder-design-pipeline/pipeline"
)

var (
	flagTarget      = ""
	flagOutput      = ""
	flagHotspots    = ""
	flagNumDesigns  = pipeline.DefaultNumDesigns
	flagBudget      = pipeline.DefaultBudget
	flagBinderRange = ""
	flagScoreTop    = pipeline.DefaultScoreTop

	flagBoltzGenExec = ""
	flagBoltzExec    = ""
	flagIpsaeScript  = ""
	flagBoltzTimeout = 0
	flagIpsaeTimeout = 0

	flagVersion = false
)

func init() {
	flag.StringVar(&flagTarget, "target", flagTarget,
		"The target structure file (PDB or mmCIF). Required.")
	flag.StringVar(&flagOutput, "output", flagOutput,
		"The output directory. Required.")
	flag.StringVar(&flagHotspots, "hotspots", flagHotspots,
		"Comma-separated hotspot residues on the target's chain A,\n"+
			"e.g. \"10,15,20\". Required.")
	flag.IntVar(&flagNumDesigns, "num-designs", flagNumDesigns,
		"The number of designs to generate.")
	flag.IntVar(&flagBudget, "budget", flagBudget,
		"The post-filtering budget.")
	flag.StringVar(&flagBinderRange, "binder-range", flagBinderRange,
		"The binder length range as \"min,max\". When empty, a bracket\n"+
			"is chosen from the target's size.")
	flag.IntVar(&flagScoreTop, "score-top", flagScoreTop,
		"How many top-ranked designs get predicted and scored.")
	flag.StringVar(&flagBoltzGenExec, "boltzgen", flagBoltzGenExec,
		"The path to the design generation executable.")
	flag.StringVar(&flagBoltzExec, "boltz", flagBoltzExec,
		"The path to the structure prediction executable.")
	flag.StringVar(&flagIpsaeScript, "ipsae-script", flagIpsaeScript,
		"The path to the interface scoring script.")
	flag.IntVar(&flagBoltzTimeout, "boltz-timeout", flagBoltzTimeout,
		"The per-candidate prediction timeout in seconds.")
	flag.IntVar(&flagIpsaeTimeout, "ipsae-timeout", flagIpsaeTimeout,
		"The per-candidate scoring timeout in seconds.")
	flag.BoolVar(&flagVersion, "version", flagVersion,
		"Print the pipeline version and exit.")

	util.FlagParse("",
		"Generate, rank and score protein binder designs for a target.")
}

func main() {
	if flagVersion {
		fmt.Printf("v%s\n", pipeline.Version)
		return
	}
	if len(flagTarget) == 0 || len(flagOutput) == 0 || len(flagHotspots) == 0 {
		util.Usage()
	}

	opts := pipeline.DefaultOptions()
	opts.Target = flagTarget
	opts.OutDir = flagOutput
	opts.NumDesigns = flagNumDesigns
	opts.Budget = flagBudget
	opts.ScoreTop = flagScoreTop
	opts.Log = log.New(os.Stdout, "", log.LstdFlags)

	hotspots, err := util.ParseIntList(flagHotspots)
	util.Assert(err, "Invalid hotspots '%s'", flagHotspots)
	opts.Hotspots = hotspots

	if len(flagBinderRange) > 0 {
		lengths, err := util.ParseIntList(flagBinderRange)
		if err != nil || len(lengths) != 2 {
			util.Fatalf("Invalid binder range '%s': want \"min,max\".",
				flagBinderRange)
		}
		opts.BinderMin, opts.BinderMax = lengths[0], lengths[1]
	}

	if len(flagBoltzGenExec) > 0 {
		opts.BoltzGen.Exec = flagBoltzGenExec
	}
	if len(flagBoltzExec) > 0 {
		opts.Boltz.Exec = flagBoltzExec
	}
	if len(flagIpsaeScript) > 0 {
		opts.IPSAE.Script = flagIpsaeScript
	}
	if flagBoltzTimeout > 0 {
		opts.Boltz.Timeout = time.Duration(flagBoltzTimeout) * time.Second
	}
	if flagIpsaeTimeout > 0 {
		opts.IPSAE.Timeout = time.Duration(flagIpsaeTimeout) * time.Second
	}

	// A pipeline error here is a fatal setup or generation failure;
	// per-candidate scoring failures never surface as an error.
	err = pipeline.Run(opts)
	util.Assert(err)
}
