package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func schemasCmd(g *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List the available schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, data, err := g.definitions()
			if err != nil {
				return err
			}
			if raw {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tELEMENT")
			for _, name := range set.Names() {
				fmt.Fprintf(w, "%s\t%s\n", name, set.MustGet(name).WireName())
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&raw, "yaml", false, "print the YAML definitions")
	return cmd
}
