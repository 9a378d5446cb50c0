package render

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// RenderText writes v as plain text, one block per section.
func RenderText(v View) string {
	var b strings.Builder
	b.WriteString(v.Title + "\n")
	writeSection(&b, v.Meta)
	b.WriteString("\n")
	writeParty(&b, v.Issuer)
	b.WriteString("\n")
	writeParty(&b, v.BillTo)
	b.WriteString("\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(v.Columns, "\t"))
	for _, row := range v.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
	b.WriteString("\n")

	for _, t := range v.Totals {
		line := t.Label + " " + t.Value
		if t.Emphasis {
			line = strings.ToUpper(line)
		}
		b.WriteString(line + "\n")
	}
	if v.Notes.Heading != "" {
		b.WriteString("\n")
		writeSection(&b, v.Notes)
	}
	b.WriteString("\n")
	writeSection(&b, v.Payment)
	if len(v.Footer) > 0 {
		b.WriteString("\n")
		for _, l := range v.Footer {
			b.WriteString(l + "\n")
		}
	}
	return b.String()
}

func writeParty(b *strings.Builder, p Party) {
	if p.Heading != "" {
		b.WriteString(p.Heading + "\n")
	}
	if p.Empty() {
		b.WriteString(p.Placeholder + "\n")
		return
	}
	b.WriteString(p.Name + "\n")
	for _, l := range p.Lines {
		b.WriteString(l + "\n")
	}
}

func writeSection(b *strings.Builder, s Section) {
	if s.Heading != "" {
		b.WriteString(s.Heading + "\n")
	}
	for _, p := range s.Lines {
		if p.Label == "" {
			b.WriteString(p.Value + "\n")
			continue
		}
		b.WriteString(p.Label + " " + p.Value + "\n")
	}
}
