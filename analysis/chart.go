package analysis

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page plotting the episode returns and the
// rolling average of ds.
func RenderChart(w io.Writer, title string, ds *RewardDataSet) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	episodes := make([]string, len(ds.Returns))
	returns := make([]opts.LineData, len(ds.Returns))
	averages := make([]opts.LineData, len(ds.Returns))
	for i, ret := range ds.Returns {
		episodes[i] = strconv.Itoa(i + 1)
		returns[i] = opts.LineData{Value: ret}
		// "-" leaves a gap in echarts
		averages[i] = opts.LineData{Value: "-"}
	}
	for i, episode := range ds.AverageEpisodes {
		averages[episode-1] = opts.LineData{Value: ds.AverageReturns[i]}
	}

	line.SetXAxis(episodes).
		AddSeries("return", returns).
		AddSeries("average ("+strconv.Itoa(ds.Window)+")", averages)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}
