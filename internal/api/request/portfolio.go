package request

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	CashBalance string `json:"cashBalance,omitempty"`
}
