package domain

// Client is a reusable billing counterparty owned by the client directory.
// Invoices embed a copy, never a live reference.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"abn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}
