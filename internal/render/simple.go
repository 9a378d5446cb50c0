package render

import (
	"strconv"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

type simpleTemplate struct{}

func (simpleTemplate) ID() domain.TemplateID { return domain.TemplateSimple }

func (simpleTemplate) Build(inv domain.Invoice, totals calc.Totals) View {
	due := inv.DueDate
	if due == "" {
		due = "ON RECEIPT"
	}
	v := View{
		Template: domain.TemplateSimple,
		Title:    "INVOICE",
		Meta: Section{Lines: []Pair{
			{Label: "INVOICE #", Value: inv.InvoiceNumber},
			{Label: "DATE:", Value: inv.Date},
			{Label: "DUE:", Value: due},
		}},
		Issuer:  issuerParty("", inv),
		BillTo:  billToParty("BILL TO:", "Select a client", inv),
		Columns: []string{"S. N", "DESCRIPTION", "RATE", "QTY", "GST", "AMOUNT"},
		Totals: []Pair{
			{Label: "Subtotal:", Value: "AUD " + Money(totals.Subtotal)},
			{Label: "Total GST:", Value: "AUD " + Money(totals.TotalTax)},
			{Label: "Balance Due:", Value: "AUD " + Money(totals.GrandTotal), Emphasis: true},
		},
		Notes: notesSection("Notes", inv.Notes),
		Payment: paymentSection(inv, paymentLabels{
			heading:     "Payment Info",
			bank:        "Bank:",
			accountName: "Account Name:",
			bsb:         "BSB:",
			account:     "Account:",
			payID:       "Pay ID:",
			missing:     "N/A",
		}),
		Footer: []string{
			"Make all checks payable to " + inv.Issuer.Name,
			"THANK YOU FOR YOUR BUSINESS!",
		},
	}
	for i, item := range inv.Items {
		v.Rows = append(v.Rows, []string{
			strconv.Itoa(i + 1),
			item.Description,
			Money(item.Rate),
			Money(item.Quantity),
			Money(calc.LineTax(item)),
			Money(calc.LineAmount(item)),
		})
	}
	return v
}
