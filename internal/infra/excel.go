package infra

import (
	"bytes"
	"fmt"

	"cantine/internal/dto"

	"github.com/xuri/excelize/v2"
)

// BuildConsolidationWorkbook assembles the caterer's export: one sheet per
// day, each listing per-site preparation lines.
func BuildConsolidationWorkbook(days []dto.PreparationResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9D9D9"}},
	})
	if err != nil {
		return nil, err
	}

	for i, day := range days {
		sheet := day.Date
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		if err := f.SetSheetRow(sheet, "A1", &[]interface{}{
			"Site", "Dish", "Category", "Confirmed", "Ready", "Total", "Notes",
		}); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", "G1", header); err != nil {
			return nil, err
		}

		row := 2
		for _, site := range day.Sites {
			for _, line := range site.Lines {
				notes := ""
				for j, n := range line.Notes {
					if j > 0 {
						notes += "; "
					}
					notes += n
				}
				cell := fmt.Sprintf("A%d", row)
				if err := f.SetSheetRow(sheet, cell, &[]interface{}{
					site.Site, line.DishName, line.Category,
					line.Confirmed, line.Ready, line.Total, notes,
				}); err != nil {
					return nil, err
				}
				row++
			}
		}
		if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "G", "G", 48); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}
