package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/dispatch"
)

func decodeCmd(g *globalFlags) *cobra.Command {
	var root string
	var failFast bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode an XML document and print it as JSON",
		Long: `Decode reads an XML document from file (or stdin) and prints the decoded
value as JSON. Without --root the document element selects the schema; with
the embedded schemas an erro document is reported as a remote error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			data, err := input(cmd, args)
			if err != nil {
				return err
			}
			reg, err := g.registry(root)
			if err != nil {
				return err
			}
			ctx := xmlskema.WithFailFast(cmd.Context(), failFast)
			v, err := reg.DecodeBytes(ctx, data)
			if err != nil {
				log.WithError(err).Debug("decode failed")
				return err
			}
			log.WithFields(logrus.Fields{"bytes": len(data), "type": fmt.Sprintf("%T", v)}).Debug("decoded document")
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "schema name to decode with")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first validation issue")
	return cmd
}

// registry picks the decoding registry: the named schema only, the Cielo
// response registry, or every definition of the --schema file.
func (g *globalFlags) registry(root string) (*dispatch.Registry, error) {
	set, _, err := g.definitions()
	if err != nil {
		return nil, err
	}
	if root != "" {
		n, ok := set.Get(root)
		if !ok {
			return nil, fmt.Errorf("unknown schema %q", root)
		}
		return dispatch.New(dispatch.WithSchema(n, nil))
	}
	if g.schema == "" {
		return cielo.Responses()
	}
	var opts []dispatch.Option
	for _, name := range set.Names() {
		opts = append(opts, dispatch.WithSchema(set.MustGet(name), nil))
	}
	return dispatch.New(opts...)
}
