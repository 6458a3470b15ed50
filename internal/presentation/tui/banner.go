package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for GraphWalker.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   ____                 _  __        __    _ _             `, "#34d399"},
		{`  / ___|_ __ __ _ _ __ | |_\ \      / /_ _| | | _____ _ __ `, "#2dd4bf"},
		{` | |  _| '__/ _' | '_ \| '_ \ \ /\ / / _' | | |/ / _ \ '__|`, "#22d3ee"},
		{` | |_| | | | (_| | |_) | | | \ V  V / (_| | |   <  __/ |   `, "#38bdf8"},
		{`  \____|_|  \__,_| .__/|_| |_|\_/\_/ \__,_|_|_|\_\___|_|   `, "#60a5fa"},
		{`                 |_|                                       `, "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// StepPrinter writes generated steps as colored lines.
type StepPrinter struct {
	w       io.Writer
	profile termenv.Profile
}

// NewStepPrinter creates a printer. Colors are dropped when color is false.
func NewStepPrinter(w io.Writer, color bool) *StepPrinter {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}
	return &StepPrinter{w: w, profile: p}
}

// Print writes one step: the edge, then the vertex it reached.
func (s *StepPrinter) Print(n int, edge, vertex string) {
	num := s.profile.String(fmt.Sprintf("%4d", n)).Foreground(s.profile.Color("#6b7280"))
	e := s.profile.String(edge).Foreground(s.profile.Color("#38bdf8")).Bold()
	v := s.profile.String(vertex).Foreground(s.profile.Color("#34d399"))
	fmt.Fprintf(s.w, "%s  %s -> %s\n", num, e, v)
}

// Error writes a failure line.
func (s *StepPrinter) Error(err error) {
	fmt.Fprintln(s.w, s.profile.String("error: "+err.Error()).Foreground(s.profile.Color("#f87171")))
}
