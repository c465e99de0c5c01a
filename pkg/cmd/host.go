package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostpath/hostpath/pkg/config"
	hperrors "github.com/hostpath/hostpath/pkg/errors"
	"github.com/hostpath/hostpath/pkg/host"
)

func newCmdHost() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "host <alias>",
		Short: "resolve an ssh config alias to a host descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(configPath)
			if err != nil {
				return hperrors.WrapAndTrace(err)
			}
			defer f.Close() //nolint:errcheck // read only

			r, err := host.RemoteFromSSHConfig(f, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.NewConstants().GetSSHConfigPath(), "ssh config file to resolve against")
	return cmd
}
