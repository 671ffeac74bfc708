package request

// ImportRequest carries the form fields sent alongside an uploaded CSV.
// Either PortfolioID names an existing portfolio, or the default portfolio
// of Owner is used (and created on first import).
type ImportRequest struct {
	Owner       string
	PortfolioID string
	DryRun      bool
}
