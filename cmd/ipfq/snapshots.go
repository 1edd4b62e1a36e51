package main

import (
	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/output"
)

func newSnapshotsCmd(a *app) *cobra.Command {
	var (
		jsonOut bool
		latest  bool
	)

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List discovery snapshots",
		Long:  `List snapshots, loaded ones first and newest first.`,
		Args:  cobra.NoArgs,
		Example: `  ipfq snapshots
  ipfq snapshots --latest -j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			list := &output.SnapshotList{}
			if latest {
				snap, err := client.LatestSnapshot(cmd.Context())
				if err != nil {
					return apiFailure(err)
				}
				list.Snapshots = append(list.Snapshots, snap)
			} else {
				if list.Snapshots, err = client.Snapshots(cmd.Context()); err != nil {
					return apiFailure(err)
				}
			}
			return output.Print(cmd.OutOrStdout(), list, output.FormatFor(jsonOut))
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show only the newest loaded snapshot")
	return cmd
}
