package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/tabrl/common"
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Answer select/step requests from an environment driver over stdin and stdout",
		Long: `Answer select/step requests from an environment driver over stdin and stdout.

Each request is one JSON object per line, answered by one JSON line. Requests
over 1 MiB are skipped with an error response. Nothing is written under
--save-path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			config, err := flags.AgentConfig()
			if err != nil {
				return err
			}
			agent, err := policies.NewAgent[string](config)
			if err != nil {
				return err
			}
			return common.NewServer(agent).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}
