package common

import (
	"path"

	"github.com/zeu5/tabular-rl/analysis"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/util"
)

type Flags struct {
	AgentFlags
	SavePath string
	RunID    string
	Window   int
	Chart    bool
	NoColor  bool
}

type AgentFlags struct {
	Actions      int
	Alpha        float64
	Gamma        float64
	Target       string
	ZeroTerminal bool
	Seed         uint64
}

// DefaultFlags matches the taxi task: six actions, alpha 0.01, no discount.
func DefaultFlags() *Flags {
	def := policies.DefaultConfig(6)
	return &Flags{
		AgentFlags: AgentFlags{
			Actions:      def.NumActions,
			Alpha:        def.Alpha,
			Gamma:        def.Gamma,
			Target:       def.Target.String(),
			ZeroTerminal: def.ZeroTerminal,
			Seed:         0,
		},
		SavePath: "results",
		Window:   analysis.DefaultWindow,
		Chart:    false,
		NoColor:  false,
	}
}

// RunPath is the directory the outputs of this invocation are written to.
func (f *Flags) RunPath() string {
	if f.RunID == "" {
		return f.SavePath
	}
	return path.Join(f.SavePath, f.RunID)
}

func (f *Flags) AgentConfig() (policies.Config, error) {
	target, err := policies.ParseTarget(f.Target)
	if err != nil {
		return policies.Config{}, err
	}
	return policies.Config{
		NumActions:   f.Actions,
		Alpha:        f.Alpha,
		Gamma:        f.Gamma,
		Target:       target,
		ZeroTerminal: f.ZeroTerminal,
		Seed:         f.Seed,
	}, nil
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.RunPath(), "config.json"), f)
}
