package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/repository/kv"
	clientsvc "invoicedesk/internal/service/client"
)

type stubClientWriter struct {
	items []clientsvc.Input
	err   error
}

func (s *stubClientWriter) Add(_ context.Context, in clientsvc.Input) (domain.Client, error) {
	if s.err != nil {
		return domain.Client{}, s.err
	}
	s.items = append(s.items, in)
	return domain.Client{ID: "id", Name: in.Name}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,ABN,address,phone,email
Acme Pty Ltd,51 824 753 556,1 Main St,0400 000 000,billing@acme.test
,,Sydney NSW 2000,,
Globex,,,,accounts@globex.test,`

	repo := &stubClientWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 clients, got %d", count)
	}
	acme := repo.items[0]
	if acme.TaxID != "51 824 753 556" || acme.Email != "billing@acme.test" {
		t.Fatalf("unexpected first client %+v", acme)
	}
	if acme.Address != "1 Main St\nSydney NSW 2000" {
		t.Fatalf("continuation row not merged: %q", acme.Address)
	}
	if repo.items[1].Name != "Globex" {
		t.Fatalf("unexpected second client %+v", repo.items[1])
	}
}

func TestCSVImporter_MissingNameColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("email\na@b.c\n"), &stubClientWriter{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected header error")
	}
}

func TestCSVImporter_StopsAtQuota(t *testing.T) {
	records := kv.NewRecords(kv.NewMemory(), nil)
	dir := clientsvc.New(records, 2)
	csvData := "name\nOne\nTwo\nThree\n"

	count, err := NewCSVImporter(strings.NewReader(csvData), dir).Run(context.Background())
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported before quota, got %d", count)
	}
}
