package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the cnftree banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 __                 ", "#818cf8"},
		{"  ___ _ __  / _| |_ _ __ ___  ___ ", "#a78bfa"},
		{" / __| '_ \\| |_| __| '__/ _ \\/ _ \\", "#c084fc"},
		{"| (__| | | |  _| |_| | |  __/  __/", "#e879f9"},
		{" \\___|_| |_|_|  \\__|_|  \\___|\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
