package report

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"goassume/internal/checks"
	"goassume/internal/regress"
)

const (
	colorPoint     = "#6b7280"
	colorZeroLine  = "#111827"
	colorBandLine  = "#0171c0"
	colorDiagonal  = "#ef4444"
	colorBar       = "#60a5fa"
	colorConfBand  = "#f59e0b"
	colorHeatLow   = "#313695"
	colorHeatMid   = "#ffffbf"
	colorHeatHigh  = "#a50026"
	chartWidthPx   = "560px"
	chartHeightPx  = "420px"
	acfDefaultLags = 20
)

func initOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidthPx,
			Height: chartHeightPx,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
}

func scatterPoints(pts []point) []opts.ScatterData {
	data := make([]opts.ScatterData, len(pts))
	for i, p := range pts {
		data[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y}, SymbolSize: 7}
	}
	return data
}

func linePoints(pts []point) []opts.LineData {
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		data[i] = opts.LineData{Value: []interface{}{p.X, p.Y}}
	}
	return data
}

// residualFittedChart is the homoscedasticity workhorse: residuals
// against fitted values, zero line, and moving-quantile bands.
func residualFittedChart(fit *regress.FitResult) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(initOpts("Residuals vs Fitted", "20th/80th percentile bands"),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Fitted", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Residual", Scale: opts.Bool(true)}),
	)...)

	pts := make([]point, len(fit.Fitted))
	for i := range fit.Fitted {
		pts[i] = point{X: fit.Fitted[i], Y: fit.Residuals[i]}
	}
	scatter.AddSeries("residuals", scatterPoints(pts),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPoint, Opacity: opts.Float(0.6)}))

	lower, upper := quantileBands(fit.Fitted, fit.Residuals)
	band := charts.NewLine()
	band.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(true)}))
	band.AddSeries("lower band", linePoints(lower),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorBandLine, Width: 2}))
	band.AddSeries("upper band", linePoints(upper),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorBandLine, Width: 2}))

	lo, hi := fit.Fitted[0], fit.Fitted[0]
	for _, v := range fit.Fitted {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	zero := charts.NewLine()
	zero.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	zero.AddSeries("zero", linePoints([]point{{X: lo, Y: 0}, {X: hi, Y: 0}}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorZeroLine, Width: 1, Type: "dotted"}))

	scatter.Overlap(band)
	scatter.Overlap(zero)
	return scatter
}

// observedPredictedChart supports the linearity reading: points should
// track the diagonal.
func observedPredictedChart(fit *regress.FitResult) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(initOpts("Observed vs Predicted", "points should follow the diagonal"),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Predicted", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Observed", Scale: opts.Bool(true)}),
	)...)

	y := fit.Response()
	pts := make([]point, len(y))
	lo, hi := y[0], y[0]
	for i := range y {
		pts[i] = point{X: fit.Fitted[i], Y: y[i]}
		if y[i] < lo {
			lo = y[i]
		}
		if y[i] > hi {
			hi = y[i]
		}
	}
	scatter.AddSeries("observations", scatterPoints(pts),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPoint, Opacity: opts.Float(0.6)}))

	diag := charts.NewLine()
	diag.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	diag.AddSeries("diagonal", linePoints([]point{{X: lo, Y: lo}, {X: hi, Y: hi}}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorDiagonal, Width: 2, Type: "dashed"}))
	scatter.Overlap(diag)
	return scatter
}

// acfChart draws residual autocorrelations with the +-1.96/sqrt(n)
// confidence band.
func acfChart(fit *regress.FitResult) *charts.Bar {
	resid := fit.Residuals
	maxLag := acfDefaultLags
	if maxLag > len(resid)-2 {
		maxLag = len(resid) - 2
	}
	acf := checks.ACF(resid, maxLag)

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(initOpts("Residual Autocorrelation (ACF)", "bars outside the band indicate autocorrelation"),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lag"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ACF", Min: -1, Max: 1}),
	)...)

	labels := make([]string, len(acf))
	bars := make([]opts.BarData, len(acf))
	for i, r := range acf {
		labels[i] = fmt.Sprintf("%d", i+1)
		bars[i] = opts.BarData{Value: r, ItemStyle: &opts.ItemStyle{Color: colorBar}}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("acf", bars)

	conf := 1.96 / math.Sqrt(float64(len(resid)))
	band := charts.NewLine()
	band.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	upper := make([]opts.LineData, len(acf))
	lower := make([]opts.LineData, len(acf))
	for i := range acf {
		upper[i] = opts.LineData{Value: conf}
		lower[i] = opts.LineData{Value: -conf}
	}
	band.SetXAxis(labels)
	band.AddSeries("upper", upper, charts.WithLineStyleOpts(opts.LineStyle{Color: colorConfBand, Width: 1, Type: "dashed"}))
	band.AddSeries("lower", lower, charts.WithLineStyleOpts(opts.LineStyle{Color: colorConfBand, Width: 1, Type: "dashed"}))
	bar.Overlap(band)
	return bar
}

// qqChart plots standardized residual order statistics against normal
// quantiles.
func qqChart(fit *regress.FitResult) *charts.Scatter {
	pts := qqPoints(fit.Residuals)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(initOpts("Normal Q-Q Plot", "standardized residuals vs theoretical quantiles"),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Theoretical", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Sample", Scale: opts.Bool(true)}),
	)...)
	scatter.AddSeries("quantiles", scatterPoints(pts),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPoint, Opacity: opts.Float(0.7)}))

	if len(pts) > 0 {
		lo := pts[0].X
		hi := pts[len(pts)-1].X
		diag := charts.NewLine()
		diag.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		diag.AddSeries("reference", linePoints([]point{{X: lo, Y: lo}, {X: hi, Y: hi}}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorDiagonal, Width: 2, Type: "dashed"}))
		scatter.Overlap(diag)
	}
	return scatter
}

// histChart buckets the residuals into a histogram.
func histChart(fit *regress.FitResult) *charts.Bar {
	bins := histogram(fit.Residuals)
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(initOpts("Residual Distribution", "should look roughly bell-shaped"),
		charts.WithXAxisOpts(opts.XAxis{Name: "Residual"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)...)
	labels := make([]string, len(bins))
	bars := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = b.Label
		bars[i] = opts.BarData{Value: b.Count, ItemStyle: &opts.ItemStyle{Color: colorBar, Opacity: opts.Float(0.8)}}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("count", bars)
	return bar
}

// corrHeatmap shows pairwise predictor correlations. Nil when there is
// only one predictor.
func corrHeatmap(fit *regress.FitResult) *charts.HeatMap {
	names, corr := correlationMatrix(fit)
	if corr == nil {
		return nil
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(initOpts("Predictor Correlation", "strong off-diagonal cells flag collinear pairs"),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names, AxisLabel: &opts.AxisLabel{Rotate: 35, Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: names}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{colorHeatLow, colorHeatMid, colorHeatHigh}},
		}),
	)...)
	n := len(names)
	data := make([]opts.HeatMapData, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := corr.At(i, j)
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, round3(v)}})
		}
	}
	hm.AddSeries("correlation", data)
	return hm
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
