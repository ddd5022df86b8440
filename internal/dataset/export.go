package dataset

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"dental-calls-go/internal/types"
)

const exportSheet = "Calls"

var numericColumns = map[string]bool{
	ColRing: true, ColConversation: true, ColVoicemail: true, ColTotal: true, ColHour: true,
}

// WriteXLSX writes the records as a single-sheet workbook in normalized form.
func WriteXLSX(w io.Writer, records []types.CallRecord) error {
	t := ToTable(records)

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(exportSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, h := range t.Header {
		ref, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, ref, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheet, ref, ref, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var value any = v
			if numericColumns[t.Header[c]] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					value = n
				}
			}
			if err := f.SetCellValue(exportSheet, ref, value); err != nil {
				return err
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(t.Header))
	if err := f.SetColWidth(exportSheet, "A", last, 18); err != nil {
		return err
	}

	if index, err := f.GetSheetIndex(exportSheet); err == nil {
		f.SetActiveSheet(index)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
