package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"nixos-type-generator/internal/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// writeDiagnostics prints the findings of one root, most severe first.
func writeDiagnostics(w io.Writer, root string, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		c := infoColor

		switch d.Severity {
		case diagnostic.DiagnosticError:
			c = errorColor
		case diagnostic.DiagnosticWarning:
			c = warningColor
		}

		c.Fprintf(w, "%s: %s: ", root, d.Severity)
		fmt.Fprintln(w, d.String())

		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "  did you mean %q?\n", s)
		}
	}
}

// WriteError prints a failure of the whole command.
func WriteError(w io.Writer, err error) {
	errorColor.Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}
