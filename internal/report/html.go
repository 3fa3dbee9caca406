package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/render"

	"goassume/internal/checks"
)

// echartsAsset is the script the chart snippets expect on the page.
const echartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// assumption display order, following the dashboard tab order.
var sectionOrder = []string{
	checks.AssumptionHomoscedasticity,
	checks.AssumptionIndependence,
	checks.AssumptionLinearity,
	checks.AssumptionMulticollinearity,
	checks.AssumptionNormality,
}

type snippetChart interface {
	RenderSnippet() render.ChartSnippet
}

type section struct {
	Assumption string
	Explain    checks.Explainer
	Checks     []checks.Result
	Charts     []template.HTML
}

type summaryRow struct {
	Name  string
	Value string
}

type pageData struct {
	Report   *Report
	Overview []summaryRow
	Sections []section
}

func snippetHTML(c snippetChart) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + s.Script)
}

// RenderHTML writes the self-contained dashboard document.
func RenderHTML(w io.Writer, r *Report) error {
	data := pageData{Report: r}
	if r.Fit != nil {
		fit := r.Fit
		data.Overview = []summaryRow{
			{Name: "Observations", Value: fmt.Sprintf("%d", fit.N)},
			{Name: "Predictors (incl. const)", Value: fmt.Sprintf("%d", fit.P)},
			{Name: "R-squared", Value: fmt.Sprintf("%.3f", fit.RSquared)},
			{Name: "Adj. R-squared", Value: fmt.Sprintf("%.3f", fit.AdjRSquared)},
			{Name: "F-statistic", Value: fmt.Sprintf("%.3f", fit.FStatistic)},
			{Name: "Prob (F-statistic)", Value: fmt.Sprintf("%.4g", fit.FPValue)},
			{Name: "Residual Std. Error", Value: fmt.Sprintf("%.3f", fit.ResidualStdErr)},
			{Name: "Log-Likelihood", Value: fmt.Sprintf("%.2f", fit.LogLikelihood)},
			{Name: "AIC", Value: fmt.Sprintf("%.2f", fit.AIC)},
			{Name: "BIC", Value: fmt.Sprintf("%.2f", fit.BIC)},
			{Name: "Skewness", Value: fmt.Sprintf("%.3f", fit.Skewness)},
			{Name: "Kurtosis", Value: fmt.Sprintf("%.3f", fit.Kurtosis)},
			{Name: "Condition No.", Value: fmt.Sprintf("%.1f", fit.ConditionNo)},
		}
		byAssumption := make(map[string][]checks.Result)
		for _, c := range r.Checks {
			byAssumption[c.Assumption] = append(byAssumption[c.Assumption], c)
		}
		for _, name := range sectionOrder {
			sec := section{
				Assumption: name,
				Explain:    checks.Explain(name),
				Checks:     byAssumption[name],
			}
			for _, c := range sectionCharts(name, r) {
				if c != nil {
					sec.Charts = append(sec.Charts, snippetHTML(c))
				}
			}
			data.Sections = append(data.Sections, sec)
		}
	}
	return dashboardTmpl.Execute(w, data)
}

// sectionCharts picks the companion plots for an assumption. A nil
// entry means the chart is not applicable (e.g. heatmap with a single
// predictor).
func sectionCharts(assumption string, r *Report) []snippetChart {
	fit := r.Fit
	switch assumption {
	case checks.AssumptionHomoscedasticity:
		return []snippetChart{residualFittedChart(fit)}
	case checks.AssumptionIndependence:
		return []snippetChart{acfChart(fit)}
	case checks.AssumptionLinearity:
		return []snippetChart{observedPredictedChart(fit)}
	case checks.AssumptionMulticollinearity:
		if hm := corrHeatmap(fit); hm != nil {
			return []snippetChart{hm}
		}
		return nil
	case checks.AssumptionNormality:
		return []snippetChart{qqChart(fit), histChart(fit)}
	default:
		return nil
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>GoAssume Report: {{.Report.Target}}</title>
<script src="` + echartsAsset + `"></script>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 0; background: #f4f7fc; color: #111827; }
header { background: #111827; color: #eceff4; padding: 18px 32px; }
header h1 { margin: 0 0 4px 0; font-size: 24px; }
header .meta { color: #9ca3af; font-size: 13px; }
main { max-width: 1240px; margin: 0 auto; padding: 24px 32px; }
.card { background: #ffffff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.12); margin-bottom: 24px; padding: 18px 24px; }
.card h2 { margin-top: 0; font-size: 20px; border-bottom: 2px solid #ffd700; padding-bottom: 8px; }
.card h3 { font-size: 16px; margin-bottom: 6px; }
table { border-collapse: collapse; font-size: 14px; margin: 8px 0 16px 0; }
th, td { border: 1px solid #e5e7eb; padding: 6px 12px; text-align: left; }
th { background: #f4f7fc; }
.interp { font-size: 14px; background: #f9fafb; border-left: 3px solid #0171c0; padding: 8px 12px; margin: 8px 0; }
.violated { border-left-color: #ef4444; }
.skipped { color: #9ca3af; font-style: italic; }
.prose { font-size: 14px; text-align: justify; }
.charts { display: flex; flex-wrap: wrap; gap: 16px; }
.grid { display: flex; flex-wrap: wrap; gap: 32px; }
.placeholder { font-size: 16px; padding: 48px; text-align: center; color: #6b7280; }
</style>
</head>
<body>
<header>
<h1>GoAssume · Regression Assumption Checks</h1>
<div class="meta">dataset: {{.Report.Dataset}} · target: {{.Report.Target}} · task: {{.Report.Task}} · run: {{.Report.RunID}} · {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</div>
</header>
<main>
{{if .Report.Placeholder}}
<div class="card"><div class="placeholder">{{.Report.Placeholder}}</div></div>
{{else}}
<div class="card">
<h2>{{.Report.Task}} results</h2>
<div class="grid">
<div>
<h3>Model overview</h3>
<table>
{{range .Overview}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
</div>
<div>
<h3>Coefficients</h3>
<table>
<tr><th>variable</th><th>coef</th><th>std err</th><th>t</th><th>P&gt;|t|</th><th>[0.025</th><th>0.975]</th></tr>
{{range .Report.Fit.Coefficients}}<tr><td>{{.Name}}</td><td>{{printf "%.4f" .Estimate}}</td><td>{{printf "%.4f" .StdErr}}</td><td>{{printf "%.3f" .TValue}}</td><td>{{printf "%.3f" .PValue}}</td><td>{{printf "%.3f" .ConfLow}}</td><td>{{printf "%.3f" .ConfHigh}}</td></tr>
{{end}}</table>
</div>
</div>
</div>
{{range .Sections}}
<div class="card">
<h2>{{.Assumption}}</h2>
<div class="grid">
<div style="flex: 1; min-width: 320px;">
<h3>Description</h3>
<p class="prose">{{.Explain.Description}}</p>
</div>
<div style="flex: 1; min-width: 320px;">
<h3>Solution</h3>
<p class="prose">{{.Explain.Solution}}</p>
</div>
</div>
{{range .Checks}}
<h3>{{.Test}}</h3>
{{if .Skipped}}
<p class="skipped">skipped: {{.Skipped}}</p>
{{else}}
<table>
<tr><th>Parameter</th><th>Value</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
<div class="interp{{if .Violated}} violated{{end}}">{{.Interpretation}}</div>
{{end}}
{{end}}
{{if .Charts}}
<h3>Plots</h3>
<p class="prose">{{.Explain.PlotGuide}}</p>
<div class="charts">
{{range .Charts}}{{.}}{{end}}
</div>
{{end}}
</div>
{{end}}
{{end}}
</main>
</body>
</html>
`))
