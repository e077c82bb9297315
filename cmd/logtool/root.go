package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRoot(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "logtool",
		Short:         "Duty-cycled temperature logger tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newSimCmd(fs))
	cmd.AddCommand(newCheckCmd(fs))
	return cmd
}
