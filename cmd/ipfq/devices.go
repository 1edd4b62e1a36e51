package main

import (
	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/ipfabric"
	"github.com/ivoronin/ipfq/internal/output"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

func newDevicesCmd(a *app) *cobra.Command {
	var (
		opts    queryOptions
		optics  bool
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List inventory devices",
		Long: `List devices from the inventory with the default device columns.
With --optics, list part numbers that pass the optics intent check instead.`,
		Args: cobra.NoArgs,
		Example: `  ipfq devices
  ipfq devices -f 'and(siteName = atl, vendor = cisco)'
  ipfq devices --optics -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.compileFilter()
			if err != nil {
				return err
			}

			table, cols := ipfabric.TableDevices, ipfabric.DeviceColumns
			if optics {
				table, cols = ipfabric.TableParts, ipfabric.PartColumns
			}
			if len(columns) > 0 {
				cols = columns
			}

			req := tableapi.NewRequest(cols...).WithFilters(tree)
			if optics {
				req = ipfabric.OpticsRequest(req)
			}
			if req, err = opts.apply(req); err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.FetchTable(cmd.Context(), table, req)
			if err != nil {
				return apiFailure(err)
			}
			return opts.emit(cmd, output.NewRecordTable(cols, resp))
		},
	}

	cmd.Flags().BoolVar(&optics, "optics", false, "List optics part numbers instead of devices")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Override the default columns")
	opts.register(cmd)
	return cmd
}
