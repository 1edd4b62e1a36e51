package main

import (
	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/ipfabric"
	"github.com/ivoronin/ipfq/internal/output"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

func newCablingCmd(a *app) *cobra.Command {
	var (
		opts    queryOptions
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "cabling",
		Short: "List neighbor cabling",
		Long:  `List discovered neighbors (CDP, LLDP and the like) with the default cabling columns.`,
		Args:  cobra.NoArgs,
		Example: `  ipfq cabling -f 'localHost has core'
  ipfq cabling -f 'siteName = atl' --sort localHost -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.compileFilter()
			if err != nil {
				return err
			}

			cols := ipfabric.CablingColumns
			if len(columns) > 0 {
				cols = columns
			}
			req, err := opts.apply(tableapi.NewRequest(cols...).WithFilters(tree))
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.FetchTable(cmd.Context(), ipfabric.TableNeighbors, req)
			if err != nil {
				return apiFailure(err)
			}
			return opts.emit(cmd, output.NewRecordTable(cols, resp))
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Override the default columns")
	opts.register(cmd)
	return cmd
}
