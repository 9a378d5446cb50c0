package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/document"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/export"
	"invoicedesk/internal/gate"
	"invoicedesk/internal/render"
)

var inFlag = &cli.StringFlag{
	Name:     "in",
	Aliases:  []string{"i"},
	Usage:    "invoice JSON file (- for stdin)",
	Required: true,
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "inspect, render and export invoice documents offline",
		Commands: []*cli.Command{
			{
				Name:   "totals",
				Usage:  "print subtotal, GST and grand total",
				Flags:  []cli.Flag{inFlag},
				Action: totalsCmd,
			},
			{
				Name:  "preview",
				Usage: "render the invoice with a template",
				Flags: []cli.Flag{
					inFlag,
					&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "simple or modern (default: the invoice's own)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write HTML here; plain text to stdout when empty"},
				},
				Action: previewCmd,
			},
			{
				Name:  "export",
				Usage: "validate the invoice and write Invoice-<number>.pdf",
				Flags: []cli.Flag{
					inFlag,
					&cli.StringFlag{Name: "out-dir", Value: ".", Usage: "directory for the PDF"},
					&cli.DurationFlag{Name: "delay", Value: gate.DefaultDelay, Usage: "processing delay before the file is produced"},
				},
				Action: exportCmd,
			},
			{
				Name:   "mailto",
				Usage:  "print the mailto link for sending the invoice",
				Flags:  []cli.Flag{inFlag},
				Action: mailtoCmd,
			},
		},
	}
}

func loadInvoice(c *cli.Context) (domain.Invoice, error) {
	path := c.String("in")
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(c.App.Reader)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("read invoice: %w", err)
	}
	var inv domain.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return domain.Invoice{}, fmt.Errorf("decode invoice: %w", err)
	}
	return document.FromInvoice(inv).Snapshot(), nil
}

func totalsCmd(c *cli.Context) error {
	inv, err := loadInvoice(c)
	if err != nil {
		return err
	}
	t := calc.Compute(inv.Items)
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Subtotal\t%s\t\n", render.Money(t.Subtotal))
	fmt.Fprintf(w, "GST\t%s\t\n", render.Money(t.TotalTax))
	fmt.Fprintf(w, "Total\t%s\t\n", render.Money(t.GrandTotal))
	return w.Flush()
}

func previewCmd(c *cli.Context) error {
	inv, err := loadInvoice(c)
	if err != nil {
		return err
	}
	id := inv.Template
	if t := c.String("template"); t != "" {
		id = domain.TemplateID(t)
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTemplate, id)
	}
	view := render.Select(id).Build(inv, calc.Compute(inv.Items))

	out := c.String("out")
	if out == "" {
		_, err := fmt.Fprint(c.App.Writer, render.RenderText(view))
		return err
	}
	page, err := render.RenderHTML(view)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(page), 0o644)
}

func exportCmd(c *cli.Context) error {
	inv, err := loadInvoice(c)
	if err != nil {
		return err
	}
	if err := document.Validate(inv); err != nil {
		return problemsError(err)
	}

	g := gate.New(c.Duration("delay"), 0, zap.NewNop())
	defer g.Close()
	ticket := g.Begin("export", func() (any, error) {
		return export.RenderPDF(inv, render.Build(inv, calc.Compute(inv.Items)))
	})
	fmt.Fprintf(c.App.ErrWriter, "generating PDF (%s)...\n", ticket.ReadyIn)

	res, err := g.Wait(c.Context, ticket.Token)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("export: %w", res.Err)
	}
	doc, ok := res.Value.(export.Document)
	if !ok {
		return errors.New("export produced no document")
	}
	path := filepath.Join(c.String("out-dir"), doc.FileName)
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, path)
	return err
}

func mailtoCmd(c *cli.Context) error {
	inv, err := loadInvoice(c)
	if err != nil {
		return err
	}
	if err := document.Validate(inv); err != nil {
		return problemsError(err)
	}
	mail, err := export.MailTo(inv)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, mail.URL)
	return err
}

func problemsError(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return cli.Exit("Please fix the following issues:\n\n- "+strings.Join(verr.Problems, "\n- "), 1)
}
