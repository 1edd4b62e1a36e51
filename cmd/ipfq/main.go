package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivoronin/ipfq/internal/config"
	"github.com/ivoronin/ipfq/internal/ipfabric"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries state shared by subcommands once flags are parsed.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:   "ipfq",
		Short: "Query IP Fabric tables with filter expressions",
		Long: `ipfq compiles IP Fabric filter expressions and runs table queries
against an IP Fabric instance.

Connection settings come from flags, IPF_* environment variables or
$XDG_CONFIG_HOME/ipfq/config.yaml.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newFilterCmd())
	root.AddCommand(newTableCmd(a))
	root.AddCommand(newDevicesCmd(a))
	root.AddCommand(newCablingCmd(a))
	root.AddCommand(newSnapshotsCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// setup loads configuration and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(cfg.Level())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// client creates an API client from the loaded configuration.
func (a *app) client() (*ipfabric.Client, error) {
	return ipfabric.New(a.cfg.ClientConfig(),
		ipfabric.WithLogger(a.log.WithField("component", "ipfabric")))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
