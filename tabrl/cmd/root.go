package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/tabrl/common"
)

func RootCommand() *cobra.Command {
	flags = common.DefaultFlags()
	cmd := &cobra.Command{
		Use:           "tabrl",
		Short:         "Tabular Expected-SARSA agent",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			flags.RunID = uuid.NewString()
			_, err := flags.AgentConfig()
			return err
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		ReplayCommand(),
		ServeCommand(),
	)

	return cmd
}
