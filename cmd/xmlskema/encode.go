package main

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/xmldoc"
)

func encodeCmd(g *globalFlags) *cobra.Command {
	var (
		root          string
		encoding      string
		indent        string
		noDeclaration bool
		failFast      bool
	)
	cmd := &cobra.Command{
		Use:   "encode --root NAME [file]",
		Short: "Encode a JSON object as an XML document",
		Long: `Encode reads a JSON object from file (or stdin), validates it against the
schema named by --root and prints the XML document. Times are accepted as
RFC 3339 text; numbers keep their decimal representation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd)
			set, _, err := g.definitions()
			if err != nil {
				return err
			}
			n, ok := set.Get(root)
			if !ok {
				return fmt.Errorf("unknown schema %q", root)
			}
			data, err := input(cmd, args)
			if err != nil {
				return err
			}
			var v map[string]any
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("parse JSON input: %w", err)
			}

			opts := []xmldoc.Option{xmldoc.WithEncoding(encoding), xmldoc.WithIndent(indent)}
			if noDeclaration {
				opts = append(opts, xmldoc.WithoutDeclaration())
			}
			ctx := xmlskema.WithFailFast(cmd.Context(), failFast)
			out, err := xmldoc.Encode(ctx, n, v, opts...)
			if err != nil {
				log.WithError(err).WithField("root", root).Debug("encode failed")
				return err
			}
			log.WithField("root", n.WireName()).WithField("bytes", len(out)).Debug("encoded document")
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "schema name to encode with")
	cmd.Flags().StringVar(&encoding, "encoding", xmldoc.ISO88591, "output charset (ISO-8859-1 or UTF-8)")
	cmd.Flags().StringVar(&indent, "indent", "", "indent nested elements")
	cmd.Flags().BoolVar(&noDeclaration, "no-declaration", false, "omit the XML declaration")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first validation issue")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}
