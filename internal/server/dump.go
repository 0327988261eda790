package server

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const dumpWidth = 16

var (
	dumpHex       = color.New(color.FgCyan)
	dumpPrintable = color.New(color.FgGreen)
	dumpControl   = color.New(color.FgHiBlack)
)

// DumpBytes writes p to w as rows of hex followed by the printable ASCII
// rendering, 16 bytes per row. Colour follows color.NoColor.
func DumpBytes(w io.Writer, p []byte) {
	for i := 0; i < len(p); i += dumpWidth {
		for j := 0; j < dumpWidth; j++ {
			if i+j < len(p) {
				dumpHex.Fprintf(w, "%02x ", p[i+j])
			} else {
				fmt.Fprint(w, "   ")
			}
		}

		fmt.Fprint(w, "| ")

		for j := 0; j < dumpWidth && i+j < len(p); j++ {
			c := p[i+j]
			if c > 31 && c < 127 {
				dumpPrintable.Fprintf(w, "%c", c)
			} else {
				dumpControl.Fprint(w, ".")
			}
		}

		fmt.Fprintln(w)
	}
}
