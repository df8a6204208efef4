package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each beam label's QR code.
type LabelInfo struct {
	BeamIndex int       `json:"beam"`
	PatternID string    `json:"pattern_id"`
	RawLength float64   `json:"raw_length_mm"`
	Lengths   []float64 `json:"lengths_mm"`
	Waste     float64   `json:"waste_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per beam of the
// cutting plan. Each label carries the beam number, its cut lengths and
// waste, plus a QR code encoding the same data as JSON. Labels are laid
// out on a standard label sheet format (Avery 5160 / 3 columns x 10 rows
// on US Letter).
func ExportLabels(path string, rep report.Report) error {
	labels := CollectLabelInfos(rep)
	if len(labels) == 0 {
		return fmt.Errorf("no beams to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for beam %d: %w", label.BeamIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single beam label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_beam_%d", info.BeamIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Beam %d", info.BeamIndex), "", 1, "L", false, 0, "")

	// Cut lengths, truncated to the text area
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	cuts := formatLengths(info.Lengths)
	if pdf.GetStringWidth(cuts) > textW {
		for len(cuts) > 0 && pdf.GetStringWidth(cuts+"...") > textW {
			cuts = cuts[:len(cuts)-1]
		}
		cuts += "..."
	}
	pdf.CellFormat(textW, 3.5, cuts, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Stock %s mm, waste %s mm",
		model.FormatLength(info.RawLength), model.FormatLength(info.Waste)), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// formatLengths joins cut lengths as "50 + 30 + 20".
func formatLengths(lengths []float64) string {
	out := ""
	for i, l := range lengths {
		if i > 0 {
			out += " + "
		}
		out += model.FormatLength(l)
	}
	return out
}

// CollectLabelInfos extracts label information from a report for use in
// testing or alternative export formats.
func CollectLabelInfos(rep report.Report) []LabelInfo {
	var labels []LabelInfo
	for i, pat := range rep.Patterns {
		labels = append(labels, LabelInfo{
			BeamIndex: i + 1,
			PatternID: pat.ID,
			RawLength: rep.RawLength,
			Lengths:   pat.Lengths,
			Waste:     pat.Waste,
		})
	}
	return labels
}
