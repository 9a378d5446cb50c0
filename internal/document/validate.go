package document

import (
	"strconv"
	"strings"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/domain"
)

const (
	problemEmptyNumber      = "Invoice number cannot be empty."
	problemNonPositive      = "Invoice number cannot be zero or negative."
	problemEmptyDescription = "All item descriptions must be filled out."
	problemNoClient         = "Please select a client."
	problemNotFinite        = "Item amounts are too large to total."
)

// Validate checks the rules that gate export and send. It returns a
// *domain.ValidationError listing every violated rule, or nil.
//
// A numeric invoice number must be positive; any non-numeric text passes.
func Validate(inv domain.Invoice) error {
	var problems []string

	number := strings.TrimSpace(inv.InvoiceNumber)
	if number == "" {
		problems = append(problems, problemEmptyNumber)
	} else if v, ok := numeric(number); ok && v <= 0 {
		problems = append(problems, problemNonPositive)
	}

	for _, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" {
			problems = append(problems, problemEmptyDescription)
			break
		}
	}

	if inv.Client == nil {
		problems = append(problems, problemNoClient)
	}

	if !calc.Compute(inv.Items).Finite() {
		problems = append(problems, problemNotFinite)
	}

	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}
	return nil
}

// Validate checks the current working invoice.
func (d *Document) Validate() error {
	return Validate(d.inv)
}

func numeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
