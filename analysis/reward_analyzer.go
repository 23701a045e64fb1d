package analysis

import (
	"path"

	"github.com/zeu5/tabular-rl/core"
	"github.com/zeu5/tabular-rl/util"
)

const DefaultWindow = 100

// RewardDataSet holds the episode returns of one run. Rolling averages are
// only recorded once Window episodes have completed.
type RewardDataSet struct {
	Window  int       `json:"window"`
	Returns []float64 `json:"returns"`

	AverageEpisodes []int     `json:"average_episodes"`
	AverageReturns  []float64 `json:"average_returns"`

	BestAverage        float64 `json:"best_average"`
	BestAverageEpisode int     `json:"best_average_episode"`
}

func (r *RewardDataSet) Copy() *RewardDataSet {
	return &RewardDataSet{
		Window:             r.Window,
		Returns:            util.CopyFloatSlice(r.Returns),
		AverageEpisodes:    util.CopyIntSlice(r.AverageEpisodes),
		AverageReturns:     util.CopyFloatSlice(r.AverageReturns),
		BestAverage:        r.BestAverage,
		BestAverageEpisode: r.BestAverageEpisode,
	}
}

// HasAverage reports whether at least Window episodes were seen.
func (r *RewardDataSet) HasAverage() bool {
	return r.BestAverageEpisode > 0
}

type RewardAnalyzer struct {
	window int
	recent []float64
	next   int
	sum    float64

	dataset *RewardDataSet
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer(window int) *RewardAnalyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	r := &RewardAnalyzer{window: window}
	r.Reset()
	return r
}

func (r *RewardAnalyzer) Reset() {
	r.recent = make([]float64, 0, r.window)
	r.next = 0
	r.sum = 0
	r.dataset = &RewardDataSet{
		Window:          r.window,
		Returns:         make([]float64, 0),
		AverageEpisodes: make([]int, 0),
		AverageReturns:  make([]float64, 0),
	}
}

func (r *RewardAnalyzer) Analyze(eCtx *core.EpisodeContext) {
	ret := eCtx.Return
	r.dataset.Returns = append(r.dataset.Returns, ret)

	if len(r.recent) < r.window {
		r.recent = append(r.recent, ret)
	} else {
		r.sum -= r.recent[r.next]
		r.recent[r.next] = ret
		r.next = (r.next + 1) % r.window
	}
	r.sum += ret
	if len(r.recent) < r.window {
		return
	}

	avg := r.sum / float64(r.window)
	episode := len(r.dataset.Returns)
	r.dataset.AverageEpisodes = append(r.dataset.AverageEpisodes, episode)
	r.dataset.AverageReturns = append(r.dataset.AverageReturns, avg)
	if !r.dataset.HasAverage() || avg > r.dataset.BestAverage {
		r.dataset.BestAverage = avg
		r.dataset.BestAverageEpisode = episode
	}
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

type RewardAnalyzerConstructor struct {
	window int
}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor(window int) *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{window: window}
}

func (c *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer(c.window)
}

// SaveDataSet writes the dataset as rewards.json under savePath.
func SaveDataSet(savePath string, ds *RewardDataSet) error {
	return util.SaveJson(path.Join(savePath, "rewards.json"), ds)
}
