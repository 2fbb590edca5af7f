// Command xmlskema encodes and decodes schema-described XML documents. The
// embedded Cielo 1.1.1 schemas are used unless --schema names a YAML
// definitions file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/schemafile"
)

var Version = "dev"

type globalFlags struct {
	schema string
	debug  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "xmlskema",
		Short:         "Schema-driven XML encoder and decoder",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.schema, "schema", "", "YAML schema definitions (defaults to the embedded Cielo schemas)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "log documents and timings to stderr")

	root.AddCommand(decodeCmd(g))
	root.AddCommand(encodeCmd(g))
	root.AddCommand(schemasCmd(g))
	root.AddCommand(queryCmd(g))
	return root
}

func (g *globalFlags) logger(cmd *cobra.Command) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if g.debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// definitions returns the schema set and its YAML source.
func (g *globalFlags) definitions() (*schemafile.Set, []byte, error) {
	if g.schema == "" {
		set, err := cielo.Schemas()
		return set, cielo.Definitions(), err
	}
	data, err := os.ReadFile(g.schema)
	if err != nil {
		return nil, nil, err
	}
	set, err := schemafile.Load(data, schemafile.WithType("security-code-indicator", cielo.SecurityCodeIndicator()))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", g.schema, err)
	}
	return set, data, nil
}

// input reads the named file, or stdin when args is empty or "-".
func input(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
