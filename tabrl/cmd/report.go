package cmd

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/tabular-rl/analysis"
	"github.com/zeu5/tabular-rl/core"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/tabrl/common"
	"github.com/zeu5/tabular-rl/util"
)

type report struct {
	RunID             string                `json:"run_id"`
	Agent             policies.AgentSummary `json:"agent"`
	CompletedEpisodes int                   `json:"completed_episodes"`
	TotalTimeSteps    int                   `json:"total_time_steps"`
	Error             string                `json:"error,omitempty"`

	rewards *analysis.RewardDataSet
}

func newReport(f *common.Flags, agent *policies.Agent[string], result *core.ExperimentResult, ds *analysis.RewardDataSet) *report {
	r := &report{
		RunID:             f.RunID,
		Agent:             agent.Summary(),
		CompletedEpisodes: result.CompletedEpisodes,
		TotalTimeSteps:    result.TotalTimeSteps,
		rewards:           ds,
	}
	if result.IsError() {
		r.Error = result.Error.Error()
	}
	return r
}

func (r *report) save(dir string) error {
	if err := util.SaveJson(path.Join(dir, "summary.json"), r); err != nil {
		return fmt.Errorf("error saving summary: %w", err)
	}
	if err := analysis.SaveDataSet(dir, r.rewards); err != nil {
		return fmt.Errorf("error saving rewards: %w", err)
	}
	return nil
}

func (r *report) print(w io.Writer, color bool) {
	au := aurora.NewAurora(color)
	fmt.Fprintf(w, "%s %s\n", au.Bold("Run"), r.RunID)
	fmt.Fprintf(w, "  episodes:  %d (%d steps)\n", au.Cyan(r.CompletedEpisodes), r.TotalTimeSteps)
	fmt.Fprintf(w, "  states:    %d\n", au.Cyan(r.Agent.States))
	fmt.Fprintf(w, "  epsilon:   %.6f (episode %d)\n", r.Agent.Epsilon, r.Agent.Episode)
	if r.rewards.HasAverage() {
		fmt.Fprintf(w, "  best average return over %d episodes: %s at episode %d\n",
			r.rewards.Window,
			au.Green(fmt.Sprintf("%.3f", r.rewards.BestAverage)),
			r.rewards.BestAverageEpisode,
		)
	} else {
		fmt.Fprintf(w, "  best average return: %s\n",
			au.Yellow(fmt.Sprintf("needs %d episodes", r.rewards.Window)))
	}
	if r.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", au.Red("error:"), r.Error)
	}
}

func saveChart(dir string, ds *analysis.RewardDataSet) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	file, err := os.Create(path.Join(dir, "rewards.html"))
	if err != nil {
		return err
	}
	defer file.Close()
	return analysis.RenderChart(file, "Episode returns", ds)
}
