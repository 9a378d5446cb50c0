// Package importer loads client directory entries from CSV exports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"invoicedesk/internal/domain"
	clientsvc "invoicedesk/internal/service/client"
)

// ClientWriter adds one entry to the client directory.
type ClientWriter interface {
	Add(ctx context.Context, in clientsvc.Input) (domain.Client, error)
}

// CSVImporter reads client rows and adds them to the directory.
type CSVImporter struct {
	reader  *csv.Reader
	clients ClientWriter
}

func NewCSVImporter(r io.Reader, clients ClientWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, clients: clients}
}

// Run parses CSV rows and adds a client per named row. A row with no name
// continues the address of the client above it. Import stops at the first
// rejected client, reporting how many were added before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("read headers: missing name column")
	}

	var (
		current  *clientsvc.Input
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil && row.Address != "" {
			if current.Address != "" {
				current.Address += "\n"
			}
			current.Address += row.Address
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, in *clientsvc.Input) error {
	if _, err := i.clients.Add(ctx, *in); err != nil {
		return fmt.Errorf("add client %q: %w", in.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		switch h {
		case "taxid", "tax_id":
			h = "abn"
		}
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *clientsvc.Input {
	row := &clientsvc.Input{
		Name:    pick(record, index, "name"),
		TaxID:   pick(record, index, "abn"),
		Address: pick(record, index, "address"),
		Phone:   pick(record, index, "phone"),
		Email:   pick(record, index, "email"),
	}
	if row.Name == "" && row.Address == "" {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
