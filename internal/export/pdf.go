// Package export renders cutting plan reports to printable file formats.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
)

// partColor represents an RGB color for a cut part block.
type partColor struct {
	R, G, B int
}

// partColors assigns one color per distinct part length.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	beamHeight   = 9.0
	beamSpacing  = 4.0
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// ExportPDF generates a PDF document for a cutting plan report: beam
// diagram pages (each beam a horizontal bar of colored part blocks with a
// white trailing waste block) followed by a summary page with the overall
// statistics and the per-length demand table.
func ExportPDF(path string, rep report.Report) error {
	if len(rep.Patterns) == 0 {
		return fmt.Errorf("no beams to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	rowHeight := float64(beamHeight + beamSpacing)
	beamsPerPage := int((pageHeight - drawAreaTop - marginBottom) / rowHeight)
	for start := 0; start < len(rep.Patterns); start += beamsPerPage {
		end := start + beamsPerPage
		if end > len(rep.Patterns) {
			end = len(rep.Patterns)
		}
		pdf.AddPage()
		renderBeamPage(pdf, rep, start, end)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, rep)

	return pdf.OutputFileAndClose(path)
}

// renderBeamPage draws the beams in [start, end) on the current page.
func renderBeamPage(pdf *fpdf.Fpdf, rep report.Report, start, end int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting Plan - beams %d-%d of %d (stock %s mm)",
		start+1, end, rep.BeamCount, model.FormatLength(rep.RawLength))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Total waste: %s mm | Utilization: %.2f%%",
		model.FormatLength(rep.GenotypeWaste), rep.StockUtilization)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - 12
	scale := drawWidth / rep.RawLength

	y := drawAreaTop
	for i := start; i < end; i++ {
		drawBeam(pdf, rep, rep.Patterns[i], i, marginLeft+12, y, scale)
		y += beamHeight + beamSpacing
	}
}

// drawBeam renders one beam as a horizontal bar: one colored block per part
// (labeled with its length when it fits) and a white block for the waste.
func drawBeam(pdf *fpdf.Fpdf, rep report.Report, pat model.Pattern, index int, x, y, scale float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x-12, y+beamHeight/2-2)
	pdf.CellFormat(10, 4, fmt.Sprintf("#%d", index+1), "", 0, "R", false, 0, "")

	left := x
	for _, length := range pat.Lengths {
		col := partColors[colorIndex(rep.UniqueLengths, length)%len(partColors)]
		w := length * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(left, y, w, beamHeight, "FD")

		label := model.FormatLength(length)
		if pdf.GetStringWidth(label) < w-1 {
			pdf.SetXY(left, y+beamHeight/2-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
		}

		left += w
	}

	if pat.Waste > 0 {
		w := pat.Waste * scale
		pdf.SetFillColor(255, 255, 255)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(left, y, w, beamHeight, "FD")

		label := model.FormatLength(pat.Waste)
		if pdf.GetStringWidth(label) < w-1 {
			pdf.SetTextColor(150, 150, 150)
			pdf.SetXY(left, y+beamHeight/2-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}
}

// colorIndex returns the histogram position of a length, so each distinct
// length keeps one color across all beams.
func colorIndex(hist model.Histogram, length float64) int {
	for i, lc := range hist {
		if lc.Length == length {
			return i
		}
	}
	return len(hist)
}

// renderSummaryPage draws the final page with overall statistics and the
// per-length demand table.
func renderSummaryPage(pdf *fpdf.Fpdf, rep report.Report) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Raw Stock Length", model.FormatLength(rep.RawLength) + " mm"},
		{"Beams Used", fmt.Sprintf("%d", rep.BeamCount)},
		{"Total Parts Length", model.FormatLength(rep.AllElementsLength) + " mm"},
		{"Total Waste", model.FormatLength(rep.GenotypeWaste) + " mm"},
		{"Stock Utilization", fmt.Sprintf("%.2f%%", rep.StockUtilization)},
		{"Generations Run", fmt.Sprintf("%d", rep.Generations)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Required Parts", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 50, 40}
	headers := []string{"#", "Length (mm)", "Quantity"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, lc := range rep.UniqueLengths {
		col := partColors[i%len(partColors)]
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			model.FormatLength(lc.Length),
			fmt.Sprintf("%d", lc.Count),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}

		// Color swatch next to the row, matching the beam diagram
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos+2, y+1.5, 3, 3, "F")

		y += 6
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BeamCut - Cutting Stock Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
