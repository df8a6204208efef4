package export

import (
	"fmt"

	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// Vertical spacing between beam outlines in the drawing (mm).
const dxfBeamPitch = 80.0

// ExportDXF writes the cutting plan as a DXF drawing for CAD or saw-stop
// software: one rectangle per beam, stacked vertically, with a cut mark at
// every part boundary and the part length as text inside each segment.
// Beam outlines go on the BEAMS layer, cut marks on the CUTS layer.
func ExportDXF(path string, rep report.Report) error {
	if len(rep.Patterns) == 0 {
		return fmt.Errorf("no beams to export")
	}

	d := dxf.NewDrawing()
	d.AddLayer("BEAMS", dxf.DefaultColor, dxf.DefaultLineType, true)
	d.AddLayer("CUTS", color.Red, table.LT_CONTINUOUS, false)
	d.AddLayer("TEXT", color.Green, table.LT_CONTINUOUS, false)

	height := dxfBeamPitch * 0.5

	for i, pat := range rep.Patterns {
		y := -float64(i) * dxfBeamPitch

		// Beam outline
		d.ChangeLayer("BEAMS")
		d.Line(0, y, 0, rep.RawLength, y, 0)
		d.Line(0, y+height, 0, rep.RawLength, y+height, 0)
		d.Line(0, y, 0, 0, y+height, 0)
		d.Line(rep.RawLength, y, 0, rep.RawLength, y+height, 0)

		// Cut marks and segment labels
		var offset float64
		for _, length := range pat.Lengths {
			offset += length
			if offset < rep.RawLength {
				d.ChangeLayer("CUTS")
				d.Line(offset, y, 0, offset, y+height, 0)
			}
			d.ChangeLayer("TEXT")
			d.Text(model.FormatLength(length), offset-length/2, y+height/2, 0, height*0.2)
		}

		d.ChangeLayer("TEXT")
		d.Text(fmt.Sprintf("BEAM %d", i+1), 0, y+height+height*0.15, 0, height*0.2)
	}

	return d.SaveAs(path)
}
