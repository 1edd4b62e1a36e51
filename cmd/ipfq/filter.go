package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/output"
)

func newFilterCmd() *cobra.Command {
	var (
		jsonOut   bool
		operators bool
	)

	cmd := &cobra.Command{
		Use:   "filter <expression>",
		Short: "Compile a filter expression",
		Long: `Compile a filter expression and print it as an outline, or with -j as
the JSON structure sent to the table API.`,
		Args: cobra.MaximumNArgs(1),
		// Compiling is offline; configuration and logging are not loaded.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Example: `  ipfq filter 'and(siteName = nyc1, protocol = cdp)'
  ipfq filter -j 'or(hostname has core, uptime color > 0)'
  ipfq filter --operators`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := output.FormatFor(jsonOut)
			if operators {
				return output.Print(cmd.OutOrStdout(), &output.OperatorList{Operators: filter.Operators()}, format)
			}
			if len(args) == 0 {
				return errors.New("filter expression is required")
			}

			n, err := filter.Parse(args[0])
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), &output.FilterOutput{Node: n}, format)
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVar(&operators, "operators", false, "List supported operators")
	return cmd
}
