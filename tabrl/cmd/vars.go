package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/tabrl/common"
)

var (
	flags        *common.Flags = common.DefaultFlags()
	savePath     string
	actions      int
	alpha        float64
	gamma        float64
	target       string
	zeroTerminal bool
	seed         uint64
	window       int
	chart        bool
	noColor      bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().IntVar(&actions, "actions", flags.Actions, "Number of actions")
	cmd.PersistentFlags().Float64Var(&alpha, "alpha", flags.Alpha, "Step size")
	cmd.PersistentFlags().Float64Var(&gamma, "gamma", flags.Gamma, "Discount factor")
	cmd.PersistentFlags().StringVar(&target, "target", flags.Target, "Bootstrap target (expected-sarsa or q-learning)")
	cmd.PersistentFlags().BoolVar(&zeroTerminal, "zero-terminal", flags.ZeroTerminal, "Do not bootstrap on terminal transitions")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Seed for action sampling, 0 uses the clock")
	cmd.PersistentFlags().IntVar(&window, "window", flags.Window, "Episodes in the rolling reward average")
	cmd.PersistentFlags().BoolVar(&chart, "chart", flags.Chart, "Write an HTML reward chart")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", flags.NoColor, "Disable colored output")
}

func UpdateFlags() {
	flags.SavePath = savePath
	flags.Actions = actions
	flags.Alpha = alpha
	flags.Gamma = gamma
	flags.Target = target
	flags.ZeroTerminal = zeroTerminal
	flags.Seed = seed
	flags.Window = window
	flags.Chart = chart
	flags.NoColor = noColor
}
