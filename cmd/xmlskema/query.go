package main

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/client"
)

func queryCmd(g *globalFlags) *cobra.Command {
	var configPath, tid, order string
	cmd := &cobra.Command{
		Use:   "query --config FILE (--tid TID | --order NUMBER)",
		Short: "Query a Cielo transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (tid == "") == (order == "") {
				return errors.New("exactly one of --tid and --order is required")
			}
			cfg, err := client.LoadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := client.New(cfg, client.WithLogger(g.logger(cmd)))
			if err != nil {
				return err
			}
			var res *cielo.TransactionResult
			if tid != "" {
				res, err = c.QueryByTID(cmd.Context(), tid)
			} else {
				res, err = c.QueryByOrderNumber(cmd.Context(), order)
			}
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "client YAML configuration")
	cmd.Flags().StringVar(&tid, "tid", "", "transaction id")
	cmd.Flags().StringVar(&order, "order", "", "order number")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
