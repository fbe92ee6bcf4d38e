package ipsae

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseReport scrapes the two scores out of an IPSAE text report. The
// report carries one aggregation row per chain pairing; the row of
// interest is the first non-empty, non-comment line tagged "max" with at
// least 11 whitespace-separated fields, of which the sixth and eleventh
// are the ipSAE and pDockQ values.
//
// The format belongs to a third-party tool and may drift: a report with
// no such line yields ok == false rather than an error. A "max" line
// that is too short is skipped; a qualifying line with non-numeric score
// fields yields ok == false.
func ParseReport(r io.Reader) (scores Scores, ok bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 ||
			strings.HasPrefix(line, "#") ||
			!strings.Contains(line, "max") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 11 {
			continue
		}
		ipSAE, err1 := strconv.ParseFloat(fields[5], 64)
		pDockQ, err2 := strconv.ParseFloat(fields[10], 64)
		if err1 != nil || err2 != nil {
			return Scores{}, false
		}
		return Scores{IpSAE: ipSAE, PDockQ: pDockQ}, true
	}
	return Scores{}, false
}
