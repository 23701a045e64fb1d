package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/analysis"
	"github.com/zeu5/tabular-rl/core"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/tabrl/common"
	"github.com/zeu5/tabular-rl/util"
)

func ReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file|->",
		Args:  cobra.ExactArgs(1),
		Short: "Train an agent from a line delimited JSON transition log",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			config, err := flags.AgentConfig()
			if err != nil {
				return err
			}
			if err := flags.Record(); err != nil {
				return err
			}
			agent, err := policies.NewAgent[string](config)
			if err != nil {
				return err
			}

			printer := util.NewTerminalPrinter(cmd.ErrOrStderr(), 200*time.Millisecond)
			progress := printer.NewOutput()
			printer.Start(ctx)

			rewards := analysis.NewRewardAnalyzer(flags.Window)
			result := core.Replay[string](
				ctx,
				agent,
				common.NewJSONLSource(in, config.NumActions),
				&core.RunConfig{Writer: progress},
				map[string]core.Analyzer{"Rewards": rewards},
			)
			printer.Stop()

			ds := result.Datasets["Rewards"].(*analysis.RewardDataSet)
			report := newReport(flags, agent, result, ds)
			if err := report.save(flags.RunPath()); err != nil {
				return err
			}
			if flags.Chart {
				if err := saveChart(flags.RunPath(), ds); err != nil {
					return err
				}
			}
			report.print(cmd.OutOrStdout(), !flags.NoColor)
			return result.Error
		},
	}

	return cmd
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening transitions: %w", err)
	}
	return file, func() { file.Close() }, nil
}
