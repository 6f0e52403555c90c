package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cantine/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GeneratePrepSheet renders one site's preparation sheet and writes it under
// storagePath. Returns the path of the written file.
func GeneratePrepSheet(storagePath string, sheet *dto.ConsolidationResponse) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("creating pdf storage dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Kitchen Preparation Sheet", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Site: %s    Date: %s", sheet.Site, sheet.Date), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 8, "Dish", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Confirmed", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Ready", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range sheet.Lines {
		pdf.CellFormat(70, 7, line.DishName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, line.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", line.Confirmed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", line.Ready), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", line.Total), "1", 1, "C", false, 0, "")

		if len(line.Notes) > 0 {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(180, 5, "Notes: "+strings.Join(line.Notes, "; "), "1", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total portions: %d", sheet.TotalOrders), "", 1, "R", false, 0, "")

	name := fmt.Sprintf("prep_%s_%s.pdf", sheet.Site, sheet.Date)
	path := filepath.Join(storagePath, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing prep sheet: %w", err)
	}
	return path, nil
}
