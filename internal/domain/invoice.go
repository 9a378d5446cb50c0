package domain

// TemplateID names one of the closed set of visual invoice templates.
type TemplateID string

const (
	TemplateSimple TemplateID = "simple"
	TemplateModern TemplateID = "modern"
)

// Valid reports whether id is one of the known templates.
func (id TemplateID) Valid() bool {
	switch id {
	case TemplateSimple, TemplateModern:
		return true
	}
	return false
}

// PaymentDisplayMode controls which payment details a template prints.
type PaymentDisplayMode string

const (
	PaymentFullBankDetails PaymentDisplayMode = "fullBankDetails"
	PaymentPayID           PaymentDisplayMode = "payId"
)

func (m PaymentDisplayMode) Valid() bool {
	return m == PaymentFullBankDetails || m == PaymentPayID
}

// LineItem is one billable row. It has no identity beyond its position.
type LineItem struct {
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Rate          float64 `json:"rate"`
	TaxApplicable bool    `json:"taxApplicable"`
}

// DefaultLineItem is the row appended by "add item".
func DefaultLineItem() LineItem {
	return LineItem{Quantity: 1}
}

type PaymentDetails struct {
	BankName      string `json:"bankName"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"accountNumber"`
	PayID         string `json:"payId,omitempty"`
}

// UserDetails is the issuer's own business profile.
type UserDetails struct {
	Name    string `json:"name"`
	TaxID   string `json:"abn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// DisplaySettings toggles optional party fields on rendered templates.
// Hiding a field never clears the underlying value.
type DisplaySettings struct {
	ShowTaxID   bool `json:"showAbn"`
	ShowAddress bool `json:"showAddress"`
	ShowPhone   bool `json:"showPhone"`
	ShowEmail   bool `json:"showEmail"`
}

// AllVisible returns settings with every flag on.
func AllVisible() DisplaySettings {
	return DisplaySettings{ShowTaxID: true, ShowAddress: true, ShowPhone: true, ShowEmail: true}
}

// Invoice is the root aggregate of the working document.
type Invoice struct {
	ID                    string             `json:"id"`
	InvoiceNumber         string             `json:"invoiceNumber"`
	Date                  string             `json:"date"`
	DueDate               string             `json:"dueDate"`
	Client                *Client            `json:"client"`
	Items                 []LineItem         `json:"items"`
	Notes                 string             `json:"notes"`
	PaymentDetails        PaymentDetails     `json:"paymentDetails"`
	Issuer                UserDetails        `json:"user"`
	Template              TemplateID         `json:"template"`
	PaymentDisplayMode    PaymentDisplayMode `json:"paymentDetailsType"`
	BillToDisplaySettings DisplaySettings    `json:"billToSettings"`
	IssuerDisplaySettings DisplaySettings    `json:"userDisplaySettings"`
}

// Clone returns a deep copy that shares no slices or pointers with inv.
func (inv Invoice) Clone() Invoice {
	out := inv
	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	if inv.Client != nil {
		c := *inv.Client
		out.Client = &c
	}
	return out
}
