package render

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

func sampleInvoice() domain.Invoice {
	return domain.Invoice{
		InvoiceNumber: "042",
		Date:          "2024-03-05",
		DueDate:       "2024-03-19",
		Client: &domain.Client{
			ID:      "c1",
			Name:    "Acme Pty Ltd",
			TaxID:   "11 222 333 444",
			Address: "1 Main St\nDarwin NT 0800",
			Phone:   "08 8000 0000",
			Email:   "ap@acme.test",
		},
		Items: []domain.LineItem{
			{Description: "Design", Quantity: 2, Rate: 100, TaxApplicable: true},
			{Description: "Hosting", Quantity: 1, Rate: 50},
		},
		Notes: "Thanks!",
		PaymentDetails: domain.PaymentDetails{
			BankName:      "Example Bank",
			BSB:           "062-000",
			AccountNumber: "1234 5678",
		},
		Issuer: domain.UserDetails{
			Name:    "Studio Co",
			TaxID:   "97 106 120 051",
			Address: "U1 5 Place\nMilner NT 0810",
			Phone:   "0400 000 000",
			Email:   "hi@studio.test",
		},
		Template:              domain.TemplateSimple,
		PaymentDisplayMode:    domain.PaymentFullBankDetails,
		BillToDisplaySettings: domain.AllVisible(),
		IssuerDisplaySettings: domain.AllVisible(),
	}
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func pairValue(s Section, label string) (string, bool) {
	for _, p := range s.Lines {
		if p.Label == label {
			return p.Value, true
		}
	}
	return "", false
}

func eachTemplate(t *testing.T, fn func(t *testing.T, tpl Template)) {
	for _, id := range Templates() {
		tpl := Select(id)
		t.Run(string(id), func(t *testing.T) { fn(t, tpl) })
	}
}

func TestSelect_ReturnsMatchingTemplate(t *testing.T) {
	for _, id := range Templates() {
		if got := Select(id).ID(); got != id {
			t.Fatalf("Select(%s).ID() = %s", id, got)
		}
	}
}

func TestSelect_PanicsOnUnknownID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Select(domain.TemplateID("retro"))
}

func TestTemplates_IssuerFieldsFollowFlags(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		inv.IssuerDisplaySettings = domain.DisplaySettings{ShowPhone: true}
		v := tpl.Build(inv, calc.Compute(inv.Items))

		if v.Issuer.Name != "Studio Co" {
			t.Fatalf("issuer name must always render, got %q", v.Issuer.Name)
		}
		if !reflect.DeepEqual(v.Issuer.Lines, []string{"0400 000 000"}) {
			t.Fatalf("unexpected issuer lines %v", v.Issuer.Lines)
		}
	})
}

func TestTemplates_IssuerBlankFieldsStillFollowFlags(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		inv.Issuer.TaxID = ""
		inv.Issuer.Phone = ""
		v := tpl.Build(inv, calc.Compute(inv.Items))

		want := []string{"ABN: ", "U1 5 Place", "Milner NT 0810", "", "hi@studio.test"}
		if !reflect.DeepEqual(v.Issuer.Lines, want) {
			t.Fatalf("expected %q, got %q", want, v.Issuer.Lines)
		}
	})
}

func TestTemplates_HiddenAndEmptyFieldsAreOmitted(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		inv.Client.Phone = ""
		inv.BillToDisplaySettings.ShowEmail = false
		v := tpl.Build(inv, calc.Compute(inv.Items))

		want := []string{"ABN: 11 222 333 444", "1 Main St", "Darwin NT 0800"}
		if !reflect.DeepEqual(v.BillTo.Lines, want) {
			t.Fatalf("expected %v, got %v", want, v.BillTo.Lines)
		}
	})
}

func TestTemplates_NoClientPlaceholder(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		inv.Client = nil
		v := tpl.Build(inv, calc.Compute(inv.Items))
		if !v.BillTo.Empty() || v.BillTo.Placeholder != "Select a client" {
			t.Fatalf("expected placeholder, got %+v", v.BillTo)
		}
		html, err := RenderHTML(v)
		if err != nil {
			t.Fatalf("render html: %v", err)
		}
		if !strings.Contains(html, "Select a client") {
			t.Fatalf("placeholder missing from html")
		}
	})
}

func TestTemplates_RowsAndTotalsUseTwoDecimals(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		v := tpl.Build(inv, calc.Compute(inv.Items))

		if len(v.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(v.Rows))
		}
		row := strings.Join(v.Rows[0], "|")
		for _, want := range []string{"Design", "2.00", "100.00", "20.00", "200.00"} {
			if !strings.Contains(row, want) {
				t.Fatalf("row %q missing %q", row, want)
			}
		}
		if len(v.Totals) != 3 {
			t.Fatalf("expected 3 totals, got %d", len(v.Totals))
		}
		for i, want := range []string{"250.00", "20.00", "270.00"} {
			if !strings.HasSuffix(v.Totals[i].Value, want) {
				t.Fatalf("total %d = %q, want suffix %q", i, v.Totals[i].Value, want)
			}
		}
		if !v.Totals[2].Emphasis || v.Totals[0].Emphasis || v.Totals[1].Emphasis {
			t.Fatalf("only the grand total should be emphasised")
		}
	})
}

func TestTemplates_PayIDMode(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		inv.PaymentDisplayMode = domain.PaymentPayID
		v := tpl.Build(inv, calc.Compute(inv.Items))
		if len(v.Payment.Lines) != 1 {
			t.Fatalf("payId mode should show one line, got %+v", v.Payment.Lines)
		}
		if v.Payment.Lines[0].Value == "" {
			t.Fatalf("absent PayID needs a not-available marker")
		}

		inv.PaymentDetails.PayID = "pay@studio.test"
		v = tpl.Build(inv, calc.Compute(inv.Items))
		if v.Payment.Lines[0].Value != "pay@studio.test" {
			t.Fatalf("unexpected PayID line %+v", v.Payment.Lines[0])
		}
	})
}

func TestTemplates_BankMode(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		v := tpl.Build(inv, calc.Compute(inv.Items))
		if len(v.Payment.Lines) != 4 {
			t.Fatalf("PayID should be omitted when empty, got %+v", v.Payment.Lines)
		}
		var values []string
		for _, p := range v.Payment.Lines {
			values = append(values, p.Value)
		}
		for _, want := range []string{"Example Bank", "Studio Co", "062-000", "1234 5678"} {
			if !contains(values, want) {
				t.Fatalf("payment section missing %q: %v", want, values)
			}
		}

		inv.PaymentDetails.PayID = "pay@studio.test"
		v = tpl.Build(inv, calc.Compute(inv.Items))
		if len(v.Payment.Lines) != 5 {
			t.Fatalf("PayID should be appended when set, got %+v", v.Payment.Lines)
		}
	})
}

func TestTemplates_AreDeterministicAndDoNotMutate(t *testing.T) {
	eachTemplate(t, func(t *testing.T, tpl Template) {
		inv := sampleInvoice()
		before := inv.Clone()
		totals := calc.Compute(inv.Items)
		a := tpl.Build(inv, totals)
		b := tpl.Build(inv, totals)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("same input produced different views")
		}
		if !reflect.DeepEqual(inv, before) {
			t.Fatalf("template mutated its input")
		}
	})
}

func TestSimple_Labels(t *testing.T) {
	inv := sampleInvoice()
	inv.DueDate = ""
	v := Select(domain.TemplateSimple).Build(inv, calc.Compute(inv.Items))
	if v.Title != "INVOICE" {
		t.Fatalf("unexpected title %q", v.Title)
	}
	if due, _ := pairValue(v.Meta, "DUE:"); due != "ON RECEIPT" {
		t.Fatalf("unexpected due %q", due)
	}
	if v.Totals[2].Value != "AUD 270.00" {
		t.Fatalf("unexpected balance %q", v.Totals[2].Value)
	}
	if !contains(v.Footer, "Make all checks payable to Studio Co") {
		t.Fatalf("unexpected footer %v", v.Footer)
	}
}

func TestModern_Labels(t *testing.T) {
	inv := sampleInvoice()
	inv.Template = domain.TemplateModern
	v := Build(inv, calc.Compute(inv.Items))
	if v.Title != "TAX INVOICE" {
		t.Fatalf("unexpected title %q", v.Title)
	}
	if v.Totals[1].Label != "Total GST (10%)" || v.Totals[2].Label != "Amount Due AUD" {
		t.Fatalf("unexpected totals %+v", v.Totals)
	}
	if n, ok := pairValue(v.Meta, "Invoice Number"); !ok || n != "042" {
		t.Fatalf("unexpected invoice number %q", n)
	}
}

func TestNotes_OnlyWhenNonBlank(t *testing.T) {
	inv := sampleInvoice()
	inv.Notes = "   "
	v := Build(inv, calc.Compute(inv.Items))
	if v.Notes.Heading != "" || len(v.Notes.Lines) != 0 {
		t.Fatalf("blank notes should be omitted, got %+v", v.Notes)
	}
}

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:       "0.00",
		20:      "20.00",
		0.1:     "0.10",
		1234.5:  "1234.50",
		-5:      "-5.00",
		2.675:   "2.68",
		19.9999: "20.00",
	}
	for in, want := range cases {
		if got := Money(in); got != want {
			t.Fatalf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestMoney_NonFinite(t *testing.T) {
	cases := map[string]float64{
		"+Inf": math.Inf(1),
		"-Inf": math.Inf(-1),
		"NaN":  math.NaN(),
	}
	for want, in := range cases {
		if got := Money(in); got != want {
			t.Fatalf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild_OverflowingItemDoesNotPanic(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = []domain.LineItem{{Description: "Huge", Quantity: 1e200, Rate: 1e200}}
	for _, id := range Templates() {
		inv.Template = id
		v := Build(inv, calc.Compute(inv.Items))
		if len(v.Rows) != 1 {
			t.Fatalf("%s: expected one row, got %d", id, len(v.Rows))
		}
	}
}

func TestRenderText_IncludesEverySection(t *testing.T) {
	inv := sampleInvoice()
	out := RenderText(Build(inv, calc.Compute(inv.Items)))
	for _, want := range []string{"INVOICE", "Studio Co", "Acme Pty Ltd", "DESCRIPTION", "Design", "BALANCE DUE: AUD 270.00", "Payment Info", "Thanks!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	inv := sampleInvoice()
	inv.Items[0].Description = "<script>alert(1)</script>"
	html, err := RenderHTML(Build(inv, calc.Compute(inv.Items)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatalf("description was not escaped")
	}
	if !strings.Contains(html, "270.00") {
		t.Fatalf("grand total missing")
	}
}
