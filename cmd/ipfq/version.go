package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/output"
	"github.com/ivoronin/ipfq/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var (
		jsonOut bool
		server  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Long:  `Display the ipfq version and, with --server, the IP Fabric release and API version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := &output.VersionInfo{Version: Version}

			if server {
				client, err := a.client()
				if err != nil {
					return err
				}
				release, err := client.Version(cmd.Context())
				if err != nil {
					return apiFailure(err)
				}
				api, err := client.ResolveAPIVersion(cmd.Context())
				if err != nil {
					return apiFailure(err)
				}
				info.ServerRelease = release.String()
				info.APIVersion = api

				if serverAPI := version.APIPrefix(release); version.Compare(api, serverAPI) > 0 {
					a.log.WithFields(logrus.Fields{
						"configured": api,
						"server":     serverAPI,
					}).Warn("Configured API version is newer than the server supports")
				}
			}

			return output.Print(cmd.OutOrStdout(), info, output.FormatFor(jsonOut))
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVar(&server, "server", false, "Also query the server version")
	return cmd
}
