package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/zeu5/tabular-rl/core"
)

func feed(a core.Analyzer, returns ...float64) {
	for i, r := range returns {
		a.Analyze(&core.EpisodeContext{Episode: i + 1, Return: r})
	}
}

func TestRewardAnalyzerRollingAverage(t *testing.T) {
	a := NewRewardAnalyzer(3)
	feed(a, 1, 2)
	ds := a.DataSet().(*RewardDataSet)
	if ds.HasAverage() || len(ds.AverageReturns) != 0 {
		t.Fatalf("expected no average before the window fills, got %+v", ds)
	}

	feed(a, 3, 4, 5)
	ds = a.DataSet().(*RewardDataSet)
	wantEpisodes := []int{3, 4, 5}
	wantAverages := []float64{2, 3, 4}
	if len(ds.AverageEpisodes) != 3 {
		t.Fatalf("expected 3 averages, got %v", ds.AverageEpisodes)
	}
	for i := range wantEpisodes {
		if ds.AverageEpisodes[i] != wantEpisodes[i] || math.Abs(ds.AverageReturns[i]-wantAverages[i]) > 1e-12 {
			t.Fatalf("average %d: expected episode %d avg %v, got %d avg %v",
				i, wantEpisodes[i], wantAverages[i], ds.AverageEpisodes[i], ds.AverageReturns[i])
		}
	}
	if ds.BestAverage != 4 || ds.BestAverageEpisode != 5 {
		t.Fatalf("expected best average 4 at episode 5, got %v at %d", ds.BestAverage, ds.BestAverageEpisode)
	}
	if len(ds.Returns) != 5 {
		t.Fatalf("expected 5 returns, got %d", len(ds.Returns))
	}
}

func TestRewardAnalyzerKeepsEarlierBest(t *testing.T) {
	a := NewRewardAnalyzer(3)
	feed(a, -5, -5, -5, -10, -20)
	ds := a.DataSet().(*RewardDataSet)
	if ds.BestAverage != -5 || ds.BestAverageEpisode != 3 {
		t.Fatalf("expected best average -5 at episode 3, got %v at %d", ds.BestAverage, ds.BestAverageEpisode)
	}
}

func TestRewardAnalyzerReset(t *testing.T) {
	a := NewRewardAnalyzer(0)
	if a.window != DefaultWindow {
		t.Fatalf("expected default window %d, got %d", DefaultWindow, a.window)
	}
	feed(a, 1, 2, 3)
	a.Reset()
	ds := a.DataSet().(*RewardDataSet)
	if len(ds.Returns) != 0 || ds.HasAverage() {
		t.Fatalf("expected empty dataset after reset, got %+v", ds)
	}
}

func TestRewardDataSetCopy(t *testing.T) {
	a := NewRewardAnalyzer(1)
	feed(a, 1)
	ds := a.DataSet().(*RewardDataSet)
	ds.Returns[0] = 99
	if again := a.DataSet().(*RewardDataSet); again.Returns[0] != 1 {
		t.Fatalf("expected dataset copies to be detached")
	}
}

func TestSaveDataSet(t *testing.T) {
	dir := path.Join(t.TempDir(), "run")
	a := NewRewardAnalyzer(2)
	feed(a, 1, 3)
	if err := SaveDataSet(dir, a.DataSet().(*RewardDataSet)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bs, err := os.ReadFile(path.Join(dir, "rewards.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := &RewardDataSet{}
	if err := json.Unmarshal(bs, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Window != 2 || ds.BestAverage != 2 || ds.BestAverageEpisode != 2 {
		t.Fatalf("unexpected saved dataset %+v", ds)
	}
}

func TestRenderChart(t *testing.T) {
	a := NewRewardAnalyzer(2)
	feed(a, 1, 3, -2)
	buf := new(bytes.Buffer)
	if err := RenderChart(buf, "Episode returns", a.DataSet().(*RewardDataSet)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "echarts") || !strings.Contains(out, "Episode returns") {
		t.Fatalf("expected an echarts page with the title")
	}
}

func TestRewardAnalyzerConstructor(t *testing.T) {
	c := NewRewardAnalyzerConstructor(4)
	a := c.NewAnalyzer("exp", 0).(*RewardAnalyzer)
	b := c.NewAnalyzer("exp", 1).(*RewardAnalyzer)
	if a == b || a.window != 4 {
		t.Fatalf("expected fresh analyzers with window 4")
	}
}
