package app

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteBindings prints every binding with its resolved keycodes and mask
// against the current keyboard mapping.
func (app *Application) WriteBindings(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tACCELERATOR\tRESOLVED\tFLAGS")
	for _, b := range app.engine.Bindings() {
		resolved := "-"
		if !b.Resolved.IsEmpty() {
			resolved = b.Resolved.String()
		}
		flags := b.Flags.String()
		if flags == "" {
			flags = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, b.Combo, resolved, flags)
	}
	return tw.Flush()
}
