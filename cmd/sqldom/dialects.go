package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bawdo/sqldom/driver"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the linked-in providers and the server versions they distinguish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PROVIDER\tDRIVER\tVERSIONS")
			for _, name := range driver.Providers() {
				p, err := driver.Lookup(name)
				if err != nil {
					return err
				}
				versions := make([]string, len(p.Versions))
				for i, v := range p.Versions {
					versions[i] = v.Min.String() + "+"
				}
				drv := p.DriverName
				if drv == "" {
					drv = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, drv, strings.Join(versions, ", "))
			}
			return w.Flush()
		},
	}
}
