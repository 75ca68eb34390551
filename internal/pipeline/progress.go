package pipeline

import (
	"fmt"
	"io"
)

// StderrProgress reports progress lines to an arbitrary writer (os.Stderr
// in production), following the teacher's plain fmt.Fprintf diagnostic
// convention rather than a structured logging dependency.
type StderrProgress struct {
	w io.Writer
}

// NewStderrProgress builds a progress reporter writing to w.
func NewStderrProgress(w io.Writer) *StderrProgress {
	return &StderrProgress{w: w}
}

func (p *StderrProgress) Reportf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *StderrProgress) Warnf(format string, args ...any) {
	fmt.Fprintf(p.w, "warning: "+format+"\n", args...)
}
