package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/simongaraude/binder-design-pipeline/apps/boltzgen"
)

// Row is one line of the final table: a ranked candidate and, when the
// candidate was scored, its scoring record.
type Row struct {
	Design
	Score *Score
}

// sortScore is the final ordering key: the interface score, with
// unscored candidates reading as zero.
func (r Row) sortScore() float64 {
	if r.Score == nil {
		return 0
	}
	return r.Score.IpSAE
}

// Aggregate left-merges the scoring records onto the full ranking by
// design name and orders the result descending by interface score.
// Candidates that were never scored keep a nil Score and sort as zero.
// The sort is stable, so candidates with equal keys keep their relative
// ranking-stage order.
func Aggregate(designs []Design, scores map[string]*Score) []Row {
	rows := make([]Row, len(designs))
	for i, d := range designs {
		rows[i] = Row{Design: d, Score: scores[d.Name]}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].sortScore() > rows[j].sortScore()
	})
	return rows
}

var tableHeader = []string{
	"design_name", "design_to_target_iptm", "iptm", "ptm",
	"binder_sequence", "binder_length",
	"ipSAE", "pDockQ", "interface_pae", "avg_plddt",
}

// WriteTable persists the final table as one CSV file. Scoring columns
// of unscored candidates are left empty.
func WriteTable(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	if err := w.Write(tableHeader); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			formatFloat(row.DesignToTargetIptm),
			formatFloat(row.Iptm),
			formatFloat(row.Ptm),
			"", "", "", "", "", "",
		}
		if s := row.Score; s != nil {
			record[4] = s.BinderSequence
			record[5] = strconv.Itoa(s.BinderLength)
			record[6] = formatFloat(s.IpSAE)
			record[7] = formatFloat(s.PDockQ)
			record[8] = formatFloat(s.InterfacePae)
			record[9] = formatFloat(s.AvgPlddt)
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// logTopScored logs the first n scored candidates of the final ordering.
func (opts *Options) logTopScored(rows []Row, n int) {
	shown := 0
	for _, row := range rows {
		if row.Score == nil {
			continue
		}
		if shown == 0 {
			opts.logf("Top scored designs:")
		}
		opts.logf("  #%-3d %-40s ipSAE=%.4f pDockQ=%.4f iPTM=%.4f",
			row.Score.Rank, row.Name, row.Score.IpSAE, row.Score.PDockQ,
			row.DesignToTargetIptm)
		if shown++; shown >= n {
			break
		}
	}
}

// copyResults populates the results directory: every candidate structure
// the generator emitted, and the raw scoring report of every scored
// candidate. Per-file failures are warnings.
func (opts *Options) copyResults(job boltzgen.Job, scores map[string]*Score,
	finalDir string) {

	structsDir := filepath.Join(finalDir, "structures")
	if err := os.MkdirAll(structsDir, 0777); err != nil {
		opts.warnf("%s", err)
		return
	}
	cifs, _ := filepath.Glob(filepath.Join(job.DesignsDir(), "*.cif"))
	for _, cif := range cifs {
		dest := filepath.Join(structsDir, filepath.Base(cif))
		if err := copyFile(cif, dest); err != nil {
			opts.warnf("%s", err)
		}
	}

	reportsDir := filepath.Join(finalDir, "ipsae_outputs")
	if err := os.MkdirAll(reportsDir, 0777); err != nil {
		opts.warnf("%s", err)
		return
	}
	for name, score := range scores {
		report, err := opts.IPSAE.ReportFile(score.StructureFile)
		if err != nil {
			opts.warnf("%s: %s", name, err)
			continue
		}
		dest := filepath.Join(reportsDir, name+"_ipsae.txt")
		if err := copyFile(report, dest); err != nil {
			opts.warnf("%s", err)
		}
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
