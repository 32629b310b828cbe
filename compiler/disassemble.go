package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders bc as human-readable listing, one chunk per section,
// for the `inspect` CLI subcommand. Grounded on kristofer-smog's
// pkg/bytecode/format.go indexed-listing idiom.
func Disassemble(bc Bytecode) string {
	var b strings.Builder
	for i, chunk := range bc.Chunks {
		marker := ""
		if i == bc.Entry {
			marker = " (entry)"
		}
		fmt.Fprintf(&b, "chunk %d%s:\n", i, marker)
		for op, instr := range chunk {
			fmt.Fprintf(&b, "  %4d  %s\n", op, instr)
		}
	}
	return b.String()
}
