package render

import (
	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

type modernTemplate struct{}

func (modernTemplate) ID() domain.TemplateID { return domain.TemplateModern }

func (modernTemplate) Build(inv domain.Invoice, totals calc.Totals) View {
	due := inv.DueDate
	if due == "" {
		due = "On receipt"
	}
	v := View{
		Template: domain.TemplateModern,
		Title:    "TAX INVOICE",
		Meta: Section{Heading: "Invoice Details", Lines: []Pair{
			{Label: "Invoice Number", Value: inv.InvoiceNumber},
			{Label: "Invoice Date", Value: inv.Date},
			{Label: "Due Date", Value: due},
		}},
		Issuer:  issuerParty("From", inv),
		BillTo:  billToParty("Bill To", "Select a client", inv),
		Columns: []string{"Description", "Quantity", "Unit Price", "GST", "Amount AUD"},
		Totals: []Pair{
			{Label: "Subtotal", Value: Money(totals.Subtotal)},
			{Label: "Total GST (10%)", Value: Money(totals.TotalTax)},
			{Label: "Amount Due AUD", Value: Money(totals.GrandTotal), Emphasis: true},
		},
		Notes: notesSection("Notes", inv.Notes),
		Payment: paymentSection(inv, paymentLabels{
			heading:     "Payment Details",
			bank:        "Bank Name",
			accountName: "Account Name",
			bsb:         "BSB Number",
			account:     "Account Number",
			payID:       "PayID",
			missing:     "Not available",
		}),
		Footer: []string{
			"NOTE: Please use Invoice Number as a reference for payments.",
		},
	}
	for _, item := range inv.Items {
		v.Rows = append(v.Rows, []string{
			item.Description,
			Money(item.Quantity),
			Money(item.Rate),
			Money(calc.LineTax(item)),
			Money(calc.LineAmount(item)),
		})
	}
	return v
}
