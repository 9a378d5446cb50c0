// Package export produces the downloadable PDF and the mailto link for an
// invoice.
package export

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"invoicedesk/internal/render"
)

// DefaultScale is the oversampling factor applied to the page raster.
const DefaultScale = 2

const (
	pageWidthPx = 794
	margin      = 40
	lineHeight  = 18
	colGap      = 16
)

var (
	ink   = image.NewUniform(color.Black)
	muted = image.NewUniform(color.Gray{Y: 0x6b})
	rule  = color.Gray{Y: 0xe5}
)

type lineKind int

const (
	kindText lineKind = iota
	kindLabel
	kindBold
	kindRule
	kindGap
)

type rasterLine struct {
	kind  lineKind
	text  string
	cells []string
	right bool
}

// Rasterize paints v onto a white page and scales it by scale.
func Rasterize(v render.View, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	lines := layout(v)
	height := margin*2 + len(lines)*lineHeight
	page := image.NewRGBA(image.Rect(0, 0, pageWidthPx, height))
	draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)

	widths := columnWidths(v)
	y := margin
	for _, l := range lines {
		switch l.kind {
		case kindRule:
			for x := margin; x < pageWidthPx-margin; x++ {
				page.Set(x, y+lineHeight/2, rule)
			}
		case kindGap:
		default:
			drawLine(page, l, y, widths)
		}
		y += lineHeight
	}

	if scale == 1 {
		return page
	}
	out := image.NewRGBA(image.Rect(0, 0, pageWidthPx*scale, height*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), page, page.Bounds(), draw.Src, nil)
	return out
}

func drawLine(dst draw.Image, l rasterLine, y int, widths []int) {
	src := ink
	if l.kind == kindLabel {
		src = muted
	}
	baseline := y + lineHeight - 5
	if l.cells != nil {
		x := margin
		for i, cell := range l.cells {
			drawText(dst, src, x, baseline, cell, l.kind == kindBold)
			if i < len(widths) {
				x += widths[i] + colGap
			}
		}
		return
	}
	x := margin
	if l.right {
		x = pageWidthPx - margin - textWidth(l.text)
	}
	drawText(dst, src, x, baseline, l.text, l.kind == kindBold)
}

func drawText(dst draw.Image, src image.Image, x, baseline int, s string, bold bool) {
	d := &font.Drawer{Dst: dst, Src: src, Face: basicfont.Face7x13, Dot: fixed.P(x, baseline)}
	d.DrawString(s)
	if bold {
		d.Dot = fixed.P(x+1, baseline)
		d.DrawString(s)
	}
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func columnWidths(v render.View) []int {
	widths := make([]int, len(v.Columns))
	for i, c := range v.Columns {
		widths[i] = textWidth(c)
	}
	for _, row := range v.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := textWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

// layout flattens a view into the ordered lines painted on the page.
func layout(v render.View) []rasterLine {
	var out []rasterLine
	add := func(kind lineKind, text string) {
		out = append(out, rasterLine{kind: kind, text: text})
	}

	add(kindBold, v.Title)
	addParty(&out, v.Issuer)
	add(kindGap, "")
	if v.Meta.Heading != "" {
		add(kindLabel, v.Meta.Heading)
	}
	for _, p := range v.Meta.Lines {
		add(kindText, p.Label+" "+p.Value)
	}
	add(kindGap, "")
	addParty(&out, v.BillTo)
	add(kindGap, "")

	out = append(out, rasterLine{kind: kindLabel, cells: v.Columns})
	add(kindRule, "")
	for _, row := range v.Rows {
		out = append(out, rasterLine{kind: kindText, cells: row})
	}
	add(kindRule, "")

	for _, t := range v.Totals {
		kind := kindText
		if t.Emphasis {
			kind = kindBold
		}
		out = append(out, rasterLine{kind: kind, text: t.Label + " " + t.Value, right: true})
	}
	if v.Notes.Heading != "" {
		add(kindGap, "")
		addSection(&out, v.Notes)
	}
	add(kindGap, "")
	addSection(&out, v.Payment)
	if len(v.Footer) > 0 {
		add(kindRule, "")
		for _, f := range v.Footer {
			add(kindLabel, f)
		}
	}
	return out
}

func addParty(out *[]rasterLine, p render.Party) {
	if p.Heading != "" {
		*out = append(*out, rasterLine{kind: kindLabel, text: p.Heading})
	}
	if p.Empty() {
		*out = append(*out, rasterLine{kind: kindLabel, text: p.Placeholder})
		return
	}
	*out = append(*out, rasterLine{kind: kindBold, text: p.Name})
	for _, l := range p.Lines {
		*out = append(*out, rasterLine{kind: kindText, text: l})
	}
}

func addSection(out *[]rasterLine, s render.Section) {
	if s.Heading != "" {
		*out = append(*out, rasterLine{kind: kindLabel, text: s.Heading})
	}
	for _, p := range s.Lines {
		*out = append(*out, rasterLine{kind: kindText, text: strings.TrimSpace(p.Label + " " + p.Value)})
	}
}
