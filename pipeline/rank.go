package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simongaraude/binder-design-pipeline/npz"
)

// Design is one generated candidate with the scalar confidence metrics
// the generation tool recorded for it.
type Design struct {
	Name               string
	DesignToTargetIptm float64
	Iptm               float64
	Ptm                float64
}

// Rank reads every per-candidate score archive in dir and returns the
// candidates sorted descending by their design-to-target confidence.
// The sort is stable: candidates with equal confidence keep the order
// their files were encountered in.
//
// A candidate whose archive cannot be read is skipped with a warning; a
// missing metric inside an archive reads as zero. Zero usable candidates
// is fatal.
func (opts *Options) Rank(dir string) ([]Design, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("generation output not found: %s", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.npz"))
	if err != nil {
		return nil, err
	}

	designs := make([]Design, 0, len(files))
	for _, file := range files {
		arch, err := npz.Read(file)
		if err != nil {
			opts.warnf("%s: %s", filepath.Base(file), err)
			continue
		}
		d := Design{
			Name: strings.TrimSuffix(filepath.Base(file), ".npz"),
		}
		d.DesignToTargetIptm, _ = arch.Scalar("design_to_target_iptm")
		d.Iptm, _ = arch.Scalar("iptm")
		d.Ptm, _ = arch.Scalar("ptm")
		designs = append(designs, d)
	}
	if len(designs) == 0 {
		return nil, fmt.Errorf("no usable design score archives in %s", dir)
	}

	sort.SliceStable(designs, func(i, j int) bool {
		return designs[i].DesignToTargetIptm > designs[j].DesignToTargetIptm
	})
	return designs, nil
}

// logTopRanked logs the first n candidates of a ranking.
func (opts *Options) logTopRanked(designs []Design, n int) {
	opts.logf("Top %d by iPTM:", minInt(n, len(designs)))
	for i, d := range designs {
		if i >= n {
			break
		}
		opts.logf("  %-40s %.4f %.4f %.4f",
			d.Name, d.DesignToTargetIptm, d.Iptm, d.Ptm)
	}
}
