// Package render turns an invoice snapshot and its totals into a
// template-specific presentation.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

// View is the deterministic output of a template. The HTML, text and raster
// writers all consume it, so what one shows the others show.
type View struct {
	Template domain.TemplateID
	Title    string
	Meta     Section
	Issuer   Party
	BillTo   Party
	Columns  []string
	Rows     [][]string
	Totals   []Pair
	Notes    Section
	Payment  Section
	Footer   []string
}

// Party is a name plus the optional lines a display set allows.
type Party struct {
	Heading string
	Name    string
	Lines   []string
	// Placeholder replaces Name and Lines when the party is absent.
	Placeholder string
}

// Empty reports whether the party renders as its placeholder.
func (p Party) Empty() bool {
	return p.Placeholder != ""
}

type Section struct {
	Heading string
	Lines   []Pair
}

type Pair struct {
	Label    string
	Value    string
	Emphasis bool
}

// Template builds a View. Implementations are pure: same input, same View.
type Template interface {
	ID() domain.TemplateID
	Build(inv domain.Invoice, totals calc.Totals) View
}

// Templates lists the closed set of template ids.
func Templates() []domain.TemplateID {
	return []domain.TemplateID{domain.TemplateSimple, domain.TemplateModern}
}

// Select looks a template up by id. There is no fallback: an unknown id
// panics.
func Select(id domain.TemplateID) Template {
	switch id {
	case domain.TemplateSimple:
		return simpleTemplate{}
	case domain.TemplateModern:
		return modernTemplate{}
	}
	panic("render: unknown template " + string(id))
}

// Build renders inv with its own selected template.
func Build(inv domain.Invoice, totals calc.Totals) View {
	return Select(inv.Template).Build(inv, totals)
}

// Money formats v with exactly two decimal places. Infinities and NaN
// print as "+Inf", "-Inf" and "NaN".
func Money(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// partyLines returns the optional fields of a party that the display set
// switches on. With requireValue, switched-on fields that are blank are
// skipped as well. Addresses contribute one line each.
func partyLines(taxID, address, phone, email string, s domain.DisplaySettings, requireValue bool) []string {
	show := func(on bool, v string) bool {
		return on && (!requireValue || strings.TrimSpace(v) != "")
	}
	var lines []string
	if show(s.ShowTaxID, taxID) {
		lines = append(lines, "ABN: "+taxID)
	}
	if show(s.ShowAddress, address) {
		for _, l := range strings.Split(address, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}
	if show(s.ShowPhone, phone) {
		lines = append(lines, phone)
	}
	if show(s.ShowEmail, email) {
		lines = append(lines, email)
	}
	return lines
}

// issuerParty prints every switched-on field, even a blank one.
func issuerParty(heading string, inv domain.Invoice) Party {
	u := inv.Issuer
	return Party{
		Heading: heading,
		Name:    u.Name,
		Lines:   partyLines(u.TaxID, u.Address, u.Phone, u.Email, inv.IssuerDisplaySettings, false),
	}
}

func billToParty(heading, placeholder string, inv domain.Invoice) Party {
	c := inv.Client
	if c == nil {
		return Party{Heading: heading, Placeholder: placeholder}
	}
	return Party{
		Heading: heading,
		Name:    c.Name,
		Lines:   partyLines(c.TaxID, c.Address, c.Phone, c.Email, inv.BillToDisplaySettings, true),
	}
}

func notesSection(heading, notes string) Section {
	if strings.TrimSpace(notes) == "" {
		return Section{}
	}
	s := Section{Heading: heading}
	for _, l := range strings.Split(notes, "\n") {
		s.Lines = append(s.Lines, Pair{Value: l})
	}
	return s
}

type paymentLabels struct {
	heading, bank, accountName, bsb, account, payID, missing string
}

// paymentSection follows the display mode: PayID alone, or the bank details
// with PayID appended only when set.
func paymentSection(inv domain.Invoice, l paymentLabels) Section {
	p := inv.PaymentDetails
	s := Section{Heading: l.heading}
	if inv.PaymentDisplayMode == domain.PaymentPayID {
		v := p.PayID
		if strings.TrimSpace(v) == "" {
			v = l.missing
		}
		s.Lines = append(s.Lines, Pair{Label: l.payID, Value: v})
		return s
	}
	s.Lines = append(s.Lines,
		Pair{Label: l.bank, Value: p.BankName},
		Pair{Label: l.accountName, Value: inv.Issuer.Name},
		Pair{Label: l.bsb, Value: p.BSB},
		Pair{Label: l.account, Value: p.AccountNumber},
	)
	if strings.TrimSpace(p.PayID) != "" {
		s.Lines = append(s.Lines, Pair{Label: l.payID, Value: p.PayID})
	}
	return s
}
