package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// tableWidth spans the printable width of an A4 page in twentieths of a point.
const tableWidth = 8120

// Render serializes compiled blocks into a .docx binary.
func Render(blocks []Block) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, b := range blocks {
		switch b.Kind {
		case KindHeading, KindParagraph:
			para := w.AddParagraph()
			for _, r := range b.Runs {
				run := para.AddText(r.Text)
				if r.Bold {
					run.Bold()
				}
				if r.Color != "" {
					run.Color(r.Color)
				}
				if r.Size != "" {
					run.Size(r.Size)
				}
			}
		case KindTable:
			if len(b.Rows) == 0 {
				continue
			}
			tbl := w.AddTable(len(b.Rows), len(b.Rows[0]), tableWidth, nil)
			for i, row := range b.Rows {
				for j, cell := range row {
					run := tbl.TableRows[i].TableCells[j].AddParagraph().AddText(cell.Text)
					if cell.Bold {
						run.Bold()
					}
					if cell.Color != "" {
						run.Color(cell.Color)
					}
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize docx: %w", err)
	}
	return buf.Bytes(), nil
}
