package request

// CreateTransactionRequest is a manual ledger entry. Quantities and prices are
// decimal strings so no precision is lost in JSON.
type CreateTransactionRequest struct {
	ISIN      string `json:"isin"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	Fees      string `json:"fees,omitempty"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}
