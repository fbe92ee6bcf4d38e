package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simongaraude/binder-design-pipeline/apps/boltz"
	"github.com/simongaraude/binder-design-pipeline/apps/boltzgen"
	"github.com/simongaraude/binder-design-pipeline/apps/ipsae"
	"github.com/simongaraude/binder-design-pipeline/npz"
	"github.com/simongaraude/binder-design-pipeline/pdb"
)

// Score is the full scoring record of one candidate that made it through
// prediction and interface scoring.
type Score struct {
	// Rank is the candidate's 1-based position in the generation-time
	// ranking, recorded before scoring can reorder anything.
	Rank int

	Name           string
	BinderSequence string
	BinderLength   int

	// InterfacePae is the mean pairwise error over the binder-target
	// block of the error matrix; AvgPlddt the mean per-residue confidence
	// over the whole prediction.
	InterfacePae float64
	AvgPlddt     float64

	IpSAE  float64
	PDockQ float64

	// StructureFile is the predicted complex structure for this
	// candidate, kept so the results stage can find the raw reports
	// written next to it.
	StructureFile string
}

// scoreCandidates runs prediction and interface scoring over the top of
// the ranking, one candidate at a time. Each candidate's failure only
// skips that candidate.
func (opts *Options) scoreCandidates(job boltzgen.Job, designs []Design,
	scoringDir string) map[string]*Score {

	top := minInt(opts.ScoreTop, len(designs))
	scores := make(map[string]*Score, top)
	for i := 0; i < top; i++ {
		d := designs[i]
		opts.logf("[%d/%d] %s (iPTM=%.4f)",
			i+1, top, d.Name, d.DesignToTargetIptm)

		score, err := opts.scoreOne(job, d, scoringDir)
		if err != nil {
			opts.warnf("%s: %s", d.Name, err)
			continue
		}
		score.Rank = i + 1
		scores[d.Name] = score
		opts.logf("  ipSAE=%.4f pDockQ=%.4f", score.IpSAE, score.PDockQ)
	}
	return scores
}

// scoreOne takes a single candidate through sequence extraction,
// structure prediction, interface scoring and the derived error metrics.
func (opts *Options) scoreOne(job boltzgen.Job, d Design,
	scoringDir string) (*Score, error) {

	cifFile := job.StructureFile(d.Name)
	if _, err := os.Stat(cifFile); err != nil {
		return nil, fmt.Errorf("candidate structure not found: %s", err)
	}
	entry, err := pdb.New(cifFile)
	if err != nil {
		return nil, err
	}

	binder := entry.Chain(boltzgen.BinderChain)
	if binder == nil || len(binder.Residues) == 0 {
		return nil, fmt.Errorf("chain %c not found in %s",
			boltzgen.BinderChain, cifFile)
	}
	target := entry.Chain(TargetChain)
	if target == nil || len(target.Residues) == 0 {
		return nil, fmt.Errorf("chain %c not found in %s",
			TargetChain, cifFile)
	}
	binderSeq := binder.Sequence()
	targetSeq := target.Sequence()

	inputPath := filepath.Join(scoringDir, d.Name+"_input.yaml")
	if err := boltz.WriteInput(inputPath, binderSeq, targetSeq); err != nil {
		return nil, err
	}

	predOut := filepath.Join(scoringDir, d.Name+"_boltz2")
	if err := opts.Boltz.Predict(inputPath, predOut); err != nil {
		return nil, fmt.Errorf("prediction failed: %s", err)
	}

	pred := boltz.Results(inputPath, predOut)
	paeFile, err := pred.Pae()
	if err != nil {
		return nil, fmt.Errorf("incomplete prediction outputs: %s", err)
	}
	plddtFile, err := pred.Plddt()
	if err != nil {
		return nil, fmt.Errorf("incomplete prediction outputs: %s", err)
	}
	structFile, err := pred.Structure()
	if err != nil {
		return nil, fmt.Errorf("incomplete prediction outputs: %s", err)
	}

	combined, err := ipsae.Combine(paeFile, plddtFile)
	if err != nil {
		return nil, err
	}
	ipScores, ok, err := opts.IPSAE.Run(combined, structFile)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %s", err)
	}
	if !ok {
		return nil, fmt.Errorf("score report carried no usable score line")
	}

	paeArch, err := npz.Read(paeFile)
	if err != nil {
		return nil, err
	}
	plddtArch, err := npz.Read(plddtFile)
	if err != nil {
		return nil, err
	}
	pae, ok := paeArch["pae"]
	if !ok {
		return nil, fmt.Errorf("%s has no 'pae' member", paeFile)
	}
	plddt, ok := plddtArch["plddt"]
	if !ok {
		return nil, fmt.Errorf("%s has no 'plddt' member", plddtFile)
	}

	// The binder is chain A of the prediction, so its residues are the
	// leading rows/columns of the error matrix.
	binderLen := len(binderSeq)
	return &Score{
		Name:           d.Name,
		BinderSequence: binderSeq,
		BinderLength:   binderLen,
		InterfacePae:   pae.BlockMean(0, binderLen, binderLen, pae.Cols()),
		AvgPlddt:       plddt.Mean(),
		IpSAE:          ipScores.IpSAE,
		PDockQ:         ipScores.PDockQ,
		StructureFile:  structFile,
	}, nil
}
