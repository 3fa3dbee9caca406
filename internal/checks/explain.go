package checks

// Explainer carries the reader-facing prose shown next to each
// assumption: what it means, what to do about a violation, and how to
// read the diagnostic plot.
type Explainer struct {
	Description string `json:"description"`
	Solution    string `json:"solution"`
	PlotGuide   string `json:"plot_guide,omitempty"`
}

var explainers = map[string]Explainer{
	AssumptionLinearity: {
		Description: "The relationship between the target and the predictors should be linear. If the true relationship is non-linear, predictions are systematically off and the coefficients are misleading, especially when extrapolating beyond the range of the data.",
		Solution: "Consider applying a non-linear transformation to the target and/or predictors (log, square root, polynomial terms), or adding interaction terms. If a pattern in the residual plot persists, a different model family may fit the data better.",
		PlotGuide: "In the observed-vs-predicted plot the points should lie close to the diagonal. In the residual-vs-fitted plot the smoothed reference line should stay flat around zero with no curve or wave.",
	},
	AssumptionIndependence: {
		Description: "Residuals should be statistically independent of each other, i.e. show no autocorrelation between consecutive errors. Correlated errors make the estimated standard errors underestimate the true ones, so confidence intervals come out narrower than they should be and p-values smaller, giving an unwarranted sense of confidence in the model.",
		Solution: "For time-ordered data, consider adding lagged variables, differencing the series, or moving to a model that handles serial correlation explicitly (e.g. GLS or ARIMA-type error structures). Extreme autocorrelation is often a symptom of a mis-specified model.",
		PlotGuide: "In the autocorrelation (ACF) plot the bars beyond lag zero should stay within the shaded confidence band. Bars sticking out indicate autocorrelated residuals.",
	},
	AssumptionHomoscedasticity: {
		Description: "The variance of the residual errors should be constant across all fitted values. Heteroscedasticity makes it difficult to gauge the true standard deviation of the forecast errors, usually resulting in confidence intervals that are too wide or too narrow, and gives excess weight to the subset of the data where the error variance is largest.",
		Solution: "If the target is strictly positive and the residual spread grows with the prediction, a log transformation of the target often helps. Heteroscedasticity can also be a byproduct of violating linearity or independence, in which case fixing those fixes it too. Robust (heteroscedasticity-consistent) standard errors are another option.",
		PlotGuide: "In the residual-vs-fitted plot the quantile bands should run roughly parallel and horizontal. A funnel shape, with the spread growing or shrinking along the x-axis, indicates heteroscedasticity.",
	},
	AssumptionNormality: {
		Description: "The residuals should be approximately normally distributed. With clearly non-normal errors, confidence intervals and p-values based on the t and F distributions may be too wide or too narrow, particularly in small samples.",
		Solution: "Check for outliers and consider a transformation of the target (log, Box-Cox). With large samples, modest departures from normality matter less for the coefficient estimates themselves.",
		PlotGuide: "In the normal Q-Q plot the points should follow the diagonal reference line. Heavy tails bend the ends away from the line; skew bows the middle. The residual histogram should look roughly bell-shaped.",
	},
	AssumptionMulticollinearity: {
		Description: "Predictors should not be highly correlated with each other. Multicollinearity inflates the variance of the coefficient estimates, so coefficients become unstable, can flip sign between samples, and individual p-values become unreliable even when the model predicts well.",
		Solution: "Drop or combine redundant predictors, or use a dimensionality-reduction or regularization approach (PCA, ridge). A VIF above the threshold flags which predictors carry largely duplicated information.",
		PlotGuide: "In the correlation heatmap, strong off-diagonal cells (deep colors) point at predictor pairs that move together.",
	},
}

// Explain returns the prose for an assumption; the zero Explainer is
// returned for unknown names.
func Explain(assumption string) Explainer {
	return explainers[assumption]
}
