// Package document holds the editable working invoice and the typed update
// operations that keep it consistent.
package document

import (
	"context"
	"fmt"
	"time"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

// DefaultDueDays is the offset between the issue date and the seeded due date.
const DefaultDueDays = 14

const dateLayout = "2006-01-02"

// Field names a scalar top-level invoice field.
type Field string

const (
	FieldInvoiceNumber      Field = "invoiceNumber"
	FieldDate               Field = "date"
	FieldDueDate            Field = "dueDate"
	FieldNotes              Field = "notes"
	FieldTemplate           Field = "template"
	FieldPaymentDisplayMode Field = "paymentDisplayMode"
)

// IssuerField names a field of the issuer profile.
type IssuerField string

const (
	IssuerName    IssuerField = "name"
	IssuerTaxID   IssuerField = "abn"
	IssuerAddress IssuerField = "address"
	IssuerPhone   IssuerField = "phone"
	IssuerEmail   IssuerField = "email"
)

// PaymentField names a field of the payment details.
type PaymentField string

const (
	PaymentBankName      PaymentField = "bankName"
	PaymentBSB           PaymentField = "bsb"
	PaymentAccountNumber PaymentField = "accountNumber"
	PaymentPayID         PaymentField = "payId"
)

// Flag names one of the four visibility toggles in a display set.
type Flag string

const (
	FlagTaxID   Flag = "taxId"
	FlagAddress Flag = "address"
	FlagPhone   Flag = "phone"
	FlagEmail   Flag = "email"
)

// ParseFlag accepts the flag name or its persisted "showX" spelling.
func ParseFlag(raw string) (Flag, error) {
	switch raw {
	case "taxId", "abn", "showAbn":
		return FlagTaxID, nil
	case "address", "showAddress":
		return FlagAddress, nil
	case "phone", "showPhone":
		return FlagPhone, nil
	case "email", "showEmail":
		return FlagEmail, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownFlag, raw)
}

// ItemPatch is a shallow partial update of a line item. Nil fields are kept.
type ItemPatch struct {
	Description   *string  `json:"description,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	Rate          *float64 `json:"rate,omitempty"`
	TaxApplicable *bool    `json:"taxApplicable,omitempty"`
}

// ClientLookup resolves a directory entry by id without mutating the directory.
type ClientLookup interface {
	Select(ctx context.Context, id string) (domain.Client, bool, error)
}

// Seed carries what a fresh document needs from its surroundings.
type Seed struct {
	ID     string
	Now    time.Time
	Issuer *domain.AuthUser
}

// Document is the single source of truth for the working invoice. It is not
// safe for concurrent use; callers serialise access.
type Document struct {
	inv domain.Invoice
}

// New returns a document seeded with defaults.
func New(seed Seed) *Document {
	return &Document{inv: DefaultInvoice(seed)}
}

// FromInvoice wraps an existing invoice, copying it.
func FromInvoice(inv domain.Invoice) *Document {
	inv = inv.Clone()
	if inv.Items == nil {
		inv.Items = []domain.LineItem{}
	}
	if !inv.Template.Valid() {
		inv.Template = domain.TemplateSimple
	}
	if !inv.PaymentDisplayMode.Valid() {
		inv.PaymentDisplayMode = domain.PaymentFullBankDetails
	}
	return &Document{inv: inv}
}

// DefaultInvoice builds the seeded working invoice.
func DefaultInvoice(seed Seed) domain.Invoice {
	now := seed.Now
	if now.IsZero() {
		now = time.Now()
	}
	issuer := domain.UserDetails{
		Name:    "Your Business Name",
		Address: "Street Address\nCity, State Postcode",
	}
	if seed.Issuer != nil {
		issuer.Name = seed.Issuer.Name
		issuer.Email = seed.Issuer.Email
	}
	return domain.Invoice{
		ID:            seed.ID,
		InvoiceNumber: "001",
		Date:          now.Format(dateLayout),
		DueDate:       now.AddDate(0, 0, DefaultDueDays).Format(dateLayout),
		Items: []domain.LineItem{
			{Description: "Service or Product", Quantity: 1, Rate: 100},
		},
		Notes: "Thank you for your business!",
		PaymentDetails: domain.PaymentDetails{
			BankName:      "Your Bank",
			BSB:           "000-000",
			AccountNumber: "0000 0000",
		},
		Issuer:                issuer,
		Template:              domain.TemplateSimple,
		PaymentDisplayMode:    domain.PaymentFullBankDetails,
		BillToDisplaySettings: domain.AllVisible(),
		IssuerDisplaySettings: domain.AllVisible(),
	}
}

// Snapshot returns a deep copy of the current invoice.
func (d *Document) Snapshot() domain.Invoice {
	return d.inv.Clone()
}

// Totals recomputes the aggregates from the current items.
func (d *Document) Totals() calc.Totals {
	return calc.Compute(d.inv.Items)
}

// SetField replaces one scalar field. Enumerated fields reject unknown values.
func (d *Document) SetField(field Field, value string) error {
	switch field {
	case FieldInvoiceNumber:
		d.inv.InvoiceNumber = value
	case FieldDate:
		d.inv.Date = value
	case FieldDueDate:
		d.inv.DueDate = value
	case FieldNotes:
		d.inv.Notes = value
	case FieldTemplate:
		id := domain.TemplateID(value)
		if !id.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidTemplate, value)
		}
		d.inv.Template = id
	case FieldPaymentDisplayMode:
		mode := domain.PaymentDisplayMode(value)
		if !mode.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMode, value)
		}
		d.inv.PaymentDisplayMode = mode
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return nil
}

// SetIssuerField updates one issuer field, leaving its siblings alone.
func (d *Document) SetIssuerField(field IssuerField, value string) error {
	switch field {
	case IssuerName:
		d.inv.Issuer.Name = value
	case IssuerTaxID:
		d.inv.Issuer.TaxID = value
	case IssuerAddress:
		d.inv.Issuer.Address = value
	case IssuerPhone:
		d.inv.Issuer.Phone = value
	case IssuerEmail:
		d.inv.Issuer.Email = value
	default:
		return fmt.Errorf("%w: issuer %q", domain.ErrUnknownField, field)
	}
	return nil
}

// SetPaymentField updates one payment detail, leaving its siblings alone.
func (d *Document) SetPaymentField(field PaymentField, value string) error {
	switch field {
	case PaymentBankName:
		d.inv.PaymentDetails.BankName = value
	case PaymentBSB:
		d.inv.PaymentDetails.BSB = value
	case PaymentAccountNumber:
		d.inv.PaymentDetails.AccountNumber = value
	case PaymentPayID:
		d.inv.PaymentDetails.PayID = value
	default:
		return fmt.Errorf("%w: payment %q", domain.ErrUnknownField, field)
	}
	return nil
}

// SetItem merges patch into the item at index.
func (d *Document) SetItem(index int, patch ItemPatch) error {
	if index < 0 || index >= len(d.inv.Items) {
		return fmt.Errorf("%w: %d of %d", domain.ErrOutOfRange, index, len(d.inv.Items))
	}
	item := d.inv.Items[index]
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Rate != nil {
		item.Rate = *patch.Rate
	}
	if patch.TaxApplicable != nil {
		item.TaxApplicable = *patch.TaxApplicable
	}
	items := make([]domain.LineItem, len(d.inv.Items))
	copy(items, d.inv.Items)
	items[index] = item
	if !calc.Compute(items).Finite() {
		return fmt.Errorf("%w: item %d amount is not a finite number", domain.ErrOutOfRange, index)
	}
	d.inv.Items = items
	return nil
}

// AddItem appends a default row and returns its index.
func (d *Document) AddItem() int {
	d.inv.Items = append(d.inv.Items, domain.DefaultLineItem())
	return len(d.inv.Items) - 1
}

// RemoveItem deletes the row at index. Removing the last row is allowed.
func (d *Document) RemoveItem(index int) error {
	if index < 0 || index >= len(d.inv.Items) {
		return fmt.Errorf("%w: %d of %d", domain.ErrOutOfRange, index, len(d.inv.Items))
	}
	items := make([]domain.LineItem, 0, len(d.inv.Items)-1)
	items = append(items, d.inv.Items[:index]...)
	items = append(items, d.inv.Items[index+1:]...)
	d.inv.Items = items
	return nil
}

// SelectClient embeds a copy of the directory entry with the given id. An
// empty id or an unknown id clears the invoice's client. The lookup is
// never asked to change anything.
func (d *Document) SelectClient(ctx context.Context, lookup ClientLookup, id string) error {
	if id == "" || lookup == nil {
		d.inv.Client = nil
		return nil
	}
	c, ok, err := lookup.Select(ctx, id)
	if err != nil {
		return fmt.Errorf("select client: %w", err)
	}
	if !ok {
		d.inv.Client = nil
		return nil
	}
	d.inv.Client = &c
	return nil
}

// EmbedClient stores a copy of c as the bill-to party.
func (d *Document) EmbedClient(c domain.Client) {
	d.inv.Client = &c
}

// ClearClient drops the embedded client when its id matches. It reports
// whether anything changed.
func (d *Document) ClearClient(id string) bool {
	if d.inv.Client == nil || d.inv.Client.ID != id {
		return false
	}
	d.inv.Client = nil
	return true
}

// ApplyIdentity copies the session identity into the issuer profile.
func (d *Document) ApplyIdentity(u domain.AuthUser) {
	d.inv.Issuer.Name = u.Name
	d.inv.Issuer.Email = u.Email
}

func (d *Document) SetBillToDisplayFlag(flag Flag, value bool) error {
	return setFlag(&d.inv.BillToDisplaySettings, flag, value)
}

func (d *Document) SetIssuerDisplayFlag(flag Flag, value bool) error {
	return setFlag(&d.inv.IssuerDisplaySettings, flag, value)
}

func setFlag(s *domain.DisplaySettings, flag Flag, value bool) error {
	switch flag {
	case FlagTaxID:
		s.ShowTaxID = value
	case FlagAddress:
		s.ShowAddress = value
	case FlagPhone:
		s.ShowPhone = value
	case FlagEmail:
		s.ShowEmail = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownFlag, flag)
	}
	return nil
}
