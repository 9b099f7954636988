package calendarview

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/username/vacation-calendar/pkg/palette"
)

const (
	pdfMargin       = 10.0
	pdfTitleHeight  = 10.0
	pdfHeaderHeight = 7.0
	pdfSwatchHeight = 4.5
)

// RenderPDF writes the month as a single landscape A4 page
func RenderPDF(month *Month, w io.Writer, opts Options) error {
	opts = opts.withDefaults()

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	cellW := (pageW - 2*pdfMargin) / 7
	cellH := (pageH - 2*pdfMargin - pdfTitleHeight - pdfHeaderHeight) / 6
	if len(month.Weeks) > 0 && len(month.Weeks) < 6 {
		cellH = (pageH - 2*pdfMargin - pdfTitleHeight - pdfHeaderHeight) / float64(len(month.Weeks))
		if cellH > 34 {
			cellH = 34
		}
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, pdfTitleHeight, tr(month.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, h := range month.Headers {
		pdf.CellFormat(cellW, pdfHeaderHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	top := pdfMargin + pdfTitleHeight + pdfHeaderHeight
	for row, week := range month.Weeks {
		for col, cell := range week {
			x := pdfMargin + float64(col)*cellW
			y := top + float64(row)*cellH
			drawPDFCell(pdf, tr, x, y, cellW, cellH, cell, opts)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawPDFCell(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, cell Cell, opts Options) {
	pdf.SetDrawColor(189, 189, 189)
	pdf.SetLineWidth(0.2)

	switch {
	case cell.IsEmpty:
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(x, y, w, h, "FD")
		return
	case cell.IsHoliday:
		pdf.SetFillColor(255, 209, 209)
		pdf.SetDrawColor(229, 57, 53)
		pdf.SetLineWidth(0.6)
	default:
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.Rect(x, y, w, h, "FD")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(33, 33, 33)
	pdf.Text(x+1.5, y+4, strconv.Itoa(cell.Day))

	if cell.HolidayNote != "" {
		pdf.SetFont("Arial", "I", 6)
		pdf.SetTextColor(183, 28, 28)
		pdf.Text(x+7, y+4, tr(TruncateLabel(cell.HolidayNote, opts.LabelBudget+6)))
	}

	pdf.SetFont("Arial", "", 7)
	sy := y + 5.5
	for _, label := range cell.Labels {
		if sy+pdfSwatchHeight > y+h {
			break
		}
		c := palette.RGBA(label.Color, colorSwatch)
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(x+1, sy, w-2, pdfSwatchHeight, "F")
		pdf.SetTextColor(33, 33, 33)
		pdf.Text(x+2, sy+3.3, tr(label.Text))
		sy += pdfSwatchHeight + 0.6
	}

	if cell.Overflow > 0 {
		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(117, 117, 117)
		more := fmt.Sprintf("+%d", cell.Overflow)
		pdf.Text(x+w-1.5-pdf.GetStringWidth(more), y+4, more)
	}
}
