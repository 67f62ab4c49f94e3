package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// RenderPlot turns a trajectory into a self-contained interactive HTML
// document: the population curves on top and the control signal u(t) below,
// sharing the day axis. The control panel's y-range is padded to
// [min(u)*0.95, max(u)*1.05] and floored at zero.
func RenderPlot(tr *m.Trajectory, p m.SimulationParameters) (string, error) {
	days := make([]string, tr.Len())
	for i, t := range tr.T {
		days[i] = fmt.Sprintf("%.1f", t)
	}

	population := charts.NewLine()
	population.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "920px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Population (S, I, R)",
			Subtitle: fmt.Sprintf("SIR model, beta=%.3f, gamma=%.3f, N=%d", p.Beta, p.Gamma, int64(p.N)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "individuals"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	population.SetXAxis(days).
		AddSeries("S (susceptible)", lineData(tr.S)).
		AddSeries("I (infected)", lineData(tr.I)).
		AddSeries("R (recovered)", lineData(tr.R))
	population.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	uMin, uMax := floats.Min(tr.U), floats.Max(tr.U)
	control := charts.NewLine()
	control.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "920px", Height: "220px"}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Control signal beta(t), kind: %s", strings.ToUpper(p.Signal)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "day"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "factor",
			Min:  max(0.0, uMin*0.95),
			Max:  uMax * 1.05,
		}),
	)
	control.SetXAxis(days).
		AddSeries("u(t)", lineData(tr.U))
	control.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	page := components.NewPage()
	page.PageTitle = "SIR simulation"
	page.SetLayout(components.PageCenterLayout)
	page.AddCharts(population, control)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("error rendering plot: %w", err)
	}
	return buf.String(), nil
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
