package diagfmt

import (
	"bufio"
	"fmt"
	"io"
)

// Short prints one line per diagnostic:
//
//	tune.abc:4:1: error[M001]: unclosed chord, missing ']'
func Short(w io.Writer, reports []Report, mode PathMode, baseDir string) error {
	bw := bufio.NewWriter(w)
	for _, r := range reports {
		path := r.path(mode, baseDir)
		for _, d := range r.Diagnostics {
			start, _ := r.resolve(d.Range)
			fmt.Fprintf(bw, "%s:%d:%d: %s[%s]: %s\n", path, start.Line, start.Col,
				d.Severity.Label(), d.Code.ID(), d.Message)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("diagfmt: write: %w", err)
	}
	return nil
}
