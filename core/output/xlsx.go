package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"transfer-cost/internal/errors"
)

// XLSXSheet is the name of the quote worksheet
const XLSXSheet = "Transfer Costs"

// XLSXFormatter renders the quote as a spreadsheet download
type XLSXFormatter struct{}

// Format implements Formatter
func (XLSXFormatter) Format() Format { return FormatXLSX }

// ContentType implements Formatter
func (XLSXFormatter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render implements Formatter
func (XLSXFormatter) Render(w io.Writer, q *Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheet); err != nil {
		return errors.Export("name sheet", err)
	}

	cells := [][2]interface{}{
		{"Purchase price", q.Request.Amount.InexactFloat64()},
		{"Property type", q.Request.SubType.Label()},
		{"Duty type", q.Request.DutyType.Label()},
		{"Transfer date", q.Request.Regime.Label()},
		{"Rate table", q.RateTable},
		{"Currency", q.Currency},
		{"Quote reference", q.ID},
	}

	row := 1
	for _, c := range cells {
		if err := setRow(f, row, c[0], c[1]); err != nil {
			return err
		}
		row++
	}

	row++
	headerRow := row
	if err := setRow(f, row, "Item", "Amount"); err != nil {
		return err
	}
	row++

	firstAmount := row
	for _, line := range q.Breakdown.Lines() {
		if err := setRow(f, row, line.Label, line.Amount.Round(2).InexactFloat64()); err != nil {
			return err
		}
		row++
	}
	totalRow := row - 1

	row++
	if err := f.SetCellValue(XLSXSheet, cell(1, row), Disclaimer); err != nil {
		return errors.Export("write disclaimer", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Export("create style", err)
	}
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return errors.Export("create style", err)
	}

	styles := []struct {
		from, to string
		style    int
	}{
		{cell(1, 1), cell(1, len(cells)), bold},
		{cell(1, headerRow), cell(2, headerRow), bold},
		{cell(2, 1), cell(2, 1), money},
		{cell(2, firstAmount), cell(2, totalRow), money},
		{cell(1, totalRow), cell(1, totalRow), bold},
	}
	for _, s := range styles {
		if err := f.SetCellStyle(XLSXSheet, s.from, s.to, s.style); err != nil {
			return errors.Export("apply style", err)
		}
	}

	if err := f.SetColWidth(XLSXSheet, "A", "A", 28); err != nil {
		return errors.Export("set column width", err)
	}
	if err := f.SetColWidth(XLSXSheet, "B", "B", 22); err != nil {
		return errors.Export("set column width", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Export("write workbook", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, label, value interface{}) error {
	if err := f.SetCellValue(XLSXSheet, cell(1, row), label); err != nil {
		return errors.Export(fmt.Sprintf("write row %d", row), err)
	}
	if err := f.SetCellValue(XLSXSheet, cell(2, row), value); err != nil {
		return errors.Export(fmt.Sprintf("write row %d", row), err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func strPtr(s string) *string { return &s }
