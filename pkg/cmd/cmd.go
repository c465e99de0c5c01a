// Package cmd is the entrypoint to the hostpath cli.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hostpath/hostpath/pkg/host"
)

// NewDefaultHostpathCommand builds the root command with all subcommands
// attached.
func NewDefaultHostpathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostpath",
		Short: "operate on local and remote paths with one syntax",
		Long: `hostpath operates on paths that live on the local machine or on a
remote one reachable over ssh, using a single combined syntax:

  [[user@]hostname[:port]:]/path

Examples:
  hostpath cat server:/var/log/syslog
  hostpath cp me@build:8022:~/out.tar.gz ./out.tar.gz
  hostpath ls server:/etc '*.conf'`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if viper.GetBool("debug") {
				log, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				host.SetLogger(log)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().Duration("timeout", 0, "bound each operation (0 uses the per-host default)")
	cmd.PersistentFlags().Bool("debug", false, "log command dispatch")
	_ = viper.BindPFlag("timeout", cmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	viper.SetEnvPrefix("hostpath")
	viper.AutomaticEnv()

	cmd.AddCommand(newCmdExists())
	cmd.AddCommand(newCmdCat())
	cmd.AddCommand(newCmdCp())
	cmd.AddCommand(newCmdMv())
	cmd.AddCommand(newCmdLs())
	cmd.AddCommand(newCmdStat())
	cmd.AddCommand(newCmdMkdir())
	cmd.AddCommand(newCmdRm())
	cmd.AddCommand(newCmdTouch())
	cmd.AddCommand(newCmdResolve())
	cmd.AddCommand(newCmdHost())

	return cmd
}

// opContext applies the configured timeout, if any, to the operation.
func opContext() (context.Context, context.CancelFunc) {
	timeout := viper.GetDuration("timeout")
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.Background(), func() {}
}
