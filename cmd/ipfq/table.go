package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/output"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

// queryOptions are the flags shared by commands that fetch a table.
type queryOptions struct {
	filter   string
	snapshot string
	limit    int
	sort     string
	save     string
	jsonOut  bool
}

func (o *queryOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.filter, "filter", "f", "", "Filter expression (e.g., 'and(siteName = nyc1, protocol = cdp)')")
	cmd.Flags().StringVarP(&o.snapshot, "snapshot", "s", tableapi.LastSnapshot, "Snapshot id")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "Maximum number of rows (0 for no limit)")
	cmd.Flags().StringVar(&o.sort, "sort", "", "Sort column, optionally suffixed with :asc or :desc")
	cmd.Flags().StringVarP(&o.save, "save", "o", "", "Save rows as JSON to file")
	cmd.Flags().BoolVarP(&o.jsonOut, "json", "j", false, "Output in JSON format")
}

// compileFilter returns nil for an empty expression.
func (o *queryOptions) compileFilter() (filter.Tree, error) {
	if strings.TrimSpace(o.filter) == "" {
		return nil, nil
	}
	return filter.Compile(o.filter)
}

// apply copies snapshot, pagination and sort onto req.
func (o *queryOptions) apply(req *tableapi.Request) (*tableapi.Request, error) {
	if o.snapshot != "" {
		req.WithSnapshot(o.snapshot)
	}
	if o.limit < 0 {
		return nil, fmt.Errorf("invalid --limit %d: must not be negative", o.limit)
	}
	if o.limit > 0 {
		req.WithPagination(o.limit, 0)
	}
	if o.sort != "" {
		col, order, err := parseSort(o.sort)
		if err != nil {
			return nil, err
		}
		req.WithSort(col, order)
	}
	return req, nil
}

// parseSort parses "column" or "column:asc|desc".
func parseSort(s string) (column, order string, err error) {
	column, order, found := strings.Cut(s, ":")
	if !found {
		order = tableapi.SortAsc
	}
	order = strings.ToLower(order)
	if column == "" || (order != tableapi.SortAsc && order != tableapi.SortDesc) {
		return "", "", fmt.Errorf("invalid --sort %q: want column[:asc|desc]", s)
	}
	return column, order, nil
}

// emit prints the rows or, with --save, writes them as JSON to a file.
func (o *queryOptions) emit(cmd *cobra.Command, table *output.RecordTable) error {
	if o.save == "" {
		return output.Print(cmd.OutOrStdout(), table, output.FormatFor(o.jsonOut))
	}

	data, err := table.FormatJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.save, append(data, '\n'), 0o644); err != nil { //nolint:gosec // G306: output file, not a secret
		return fmt.Errorf("save %s: %w", o.save, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d rows to %s\n", len(table.Records), o.save)
	return nil
}

func newTableCmd(a *app) *cobra.Command {
	var (
		opts    queryOptions
		table   string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Fetch an IP Fabric table",
		Long:  `Fetch rows of any IP Fabric table, optionally narrowed by a filter expression.`,
		Args:  cobra.NoArgs,
		Example: `  ipfq table -t /interfaces/connectivity-matrix \
    -c localHost,localInt,remoteHost,remoteInt \
    -f 'and(siteName = nyc1, protocol = cdp)'
  ipfq table -t /inventory/devices -c hostname,uptime --sort uptime:desc --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.compileFilter()
			if err != nil {
				return err
			}
			req, err := opts.apply(tableapi.NewRequest(columns...).WithFilters(tree))
			if err != nil {
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
			return opts.emit(cmd, output.NewRecordTable(columns, resp))
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "Table path following /tables (e.g., /inventory/devices)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Table columns (name1,name2,... or repeated)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("columns")
	opts.register(cmd)
	return cmd
}
