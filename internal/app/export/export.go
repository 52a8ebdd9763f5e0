package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"adaptive-reader/internal/app/model"
)

// SheetName is the worksheet holding the invocations
const SheetName = "Relay Invocations"

var header = []string{"ID", "Endpoint", "Outcome", "Status", "Exit Code", "Duration (ms)", "Error Detail", "Created At"}

// ToExcel writes records to an xlsx workbook at outputFilePath
func ToExcel(records []model.InvocationRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, title := range header {
		headerRow.AddCell().Value = title
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = strconv.FormatInt(r.ID, 10)
		row.AddCell().Value = r.Endpoint
		row.AddCell().Value = r.Outcome
		row.AddCell().SetInt(r.Status)
		row.AddCell().SetInt(r.ExitCode)
		row.AddCell().SetInt64(r.DurationMs)
		row.AddCell().Value = r.ErrorDetail
		row.AddCell().Value = r.CreatedAt.UTC().Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
