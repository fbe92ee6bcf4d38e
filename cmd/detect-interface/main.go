// detect-interface reports the interface residues between the chains of
// a protein complex, formatted for direct use as the binder-pipeline's
// '--hotspots' argument.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/simongaraude/binder-design-pipeline/cmd/util"
	"github.com/simongaraude/binder-design-pipeline/contact"
)

var flagCutoff = contact.DefaultCutoff

const rule = "======================================================================"

func init() {
	flag.Float64Var(&flagCutoff, "cutoff", flagCutoff,
		"The C-alpha distance cutoff in Angstroms.")
	util.FlagParse("structure-file",
		"Detect interface residues in a protein complex. The structure\n"+
			"file may be in PDB or mmCIF format.")
	util.AssertNArg(1)
}

func main() {
	structFile := util.Arg(0)

	fmt.Printf("\nAnalyzing: %s\n", structFile)
	fmt.Printf("Cutoff: %g Angstroms\n\n", flagCutoff)

	entry := util.StructureRead(structFile)
	interfaces, err := contact.Find(entry, flagCutoff)
	if err == contact.ErrSingleChain {
		fmt.Println("ERROR: Single chain structure")
		fmt.Println("Provide a protein complex with multiple chains")
		os.Exit(1)
	}
	util.Assert(err)

	fmt.Println(rule)
	fmt.Println("STRUCTURE COMPOSITION")
	fmt.Println(rule)
	for _, chain := range entry.Chains {
		fmt.Printf("Chain %c: %d residues\n",
			chain.Ident, len(chain.Residues))
	}

	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("INTERFACE RESIDUES (%gA cutoff)\n", flagCutoff)
	fmt.Println(rule)

	chains := make([]int, 0, len(interfaces))
	for ident := range interfaces {
		chains = append(chains, int(ident))
	}
	sort.Ints(chains)
	for _, ident := range chains {
		chain := byte(ident)
		residues := interfaces.Residues(chain)
		if len(residues) == 0 {
			continue
		}
		fmt.Printf("\nChain %c: %d interface residues\n",
			chain, len(residues))
		fmt.Printf("  Residues: %s\n", interfaces.HotspotArg(chain))
		fmt.Printf("\n  For pipeline:\n")
		fmt.Printf("  --hotspots \"%s\"\n", interfaces.HotspotArg(chain))
	}

	fmt.Println()
	fmt.Println(rule)
	fmt.Println("RECOMMENDATIONS")
	fmt.Println(rule)
	fmt.Println()
	fmt.Println("1. Use ALL interface residues for maximum coverage")
	fmt.Println("2. Or select 5-10 key residues based on biological knowledge")
	fmt.Println("3. Consider residues with known functional importance")
	fmt.Println("4. Balance specificity and design space")
	fmt.Println()
}
