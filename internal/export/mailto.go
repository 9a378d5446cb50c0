package export

import (
	"fmt"
	"net/url"
	"strings"

	"invoicedesk/internal/domain"
)

// Mail is the composed message handed to the user's mail client.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	URL     string `json:"url"`
}

// MailTo composes the mailto link for inv. The client must have an email.
func MailTo(inv domain.Invoice) (Mail, error) {
	if inv.Client == nil || strings.TrimSpace(inv.Client.Email) == "" {
		return Mail{}, domain.ErrMissingRecipient
	}
	m := Mail{
		To:      inv.Client.Email,
		Subject: fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, inv.Issuer.Name),
		Body: fmt.Sprintf("Hi %s,\n\nPlease find attached your invoice.\n\nThank you,\n%s",
			inv.Client.Name, inv.Issuer.Name),
	}
	m.URL = "mailto:" + m.To + "?subject=" + escape(m.Subject) + "&body=" + escape(m.Body)
	return m, nil
}

// uriComponent undoes the QueryEscape choices that encodeURIComponent does
// not make: spaces are %20 and !'()* stay literal.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escape percent-encodes like encodeURIComponent.
func escape(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}
