package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"acai-backend/internal/money"
	"github.com/xuri/excelize/v2"
)

var (
	ingredientHeader = []string{"Item", "Category", "Unit", "Package Price", "Package Amount", "Used Amount", "Cost"}
	channelHeader    = []string{"Channel", "Price", "Manual", "Platform Fee", "Operational", "CMV", "Profit", "Margin %"}
)

// CSV writes both tables separated by a blank line.
func (c CostSheet) CSV() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(ingredientHeader)
	for _, ing := range c.Recipe.Ingredients {
		_ = w.Write([]string{
			ing.Name,
			ing.Category,
			string(ing.Unit),
			money.Fixed(ing.Price),
			formatFloat(ing.Amount),
			formatFloat(ing.UsedAmount),
			money.Fixed(ing.Cost()),
		})
	}
	_ = w.Write([]string{"CMV", "", "", "", "", "", money.Fixed(c.Pricing.CMV)})
	_ = w.Write(nil)
	_ = w.Write(channelHeader)
	for _, ch := range c.Pricing.Channels {
		_ = w.Write([]string{
			ch.Name,
			money.Fixed(ch.SuggestedPrice),
			strconv.FormatBool(ch.Manual),
			money.Fixed(ch.Breakdown.PlatformFee),
			money.Fixed(ch.Breakdown.Operational),
			money.Fixed(ch.Breakdown.CMV),
			money.Fixed(ch.Profit),
			money.Fixed(ch.MarginPercent),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// XLSX writes a workbook with an Ingredients and a Channels sheet.
func (c CostSheet) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const ingSheet, chSheet = "Ingredients", "Channels"
	index, err := f.NewSheet(ingSheet)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(chSheet); err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	writeRow(f, ingSheet, 1, toAny(ingredientHeader))
	row := 2
	for _, ing := range c.Recipe.Ingredients {
		writeRow(f, ingSheet, row, []any{
			ing.Name, ing.Category, string(ing.Unit),
			money.Round(ing.Price), ing.Amount, ing.UsedAmount, money.Round(ing.Cost()),
		})
		row++
	}
	writeRow(f, ingSheet, row, []any{"CMV", "", "", "", "", "", money.Round(c.Pricing.CMV)})

	writeRow(f, chSheet, 1, toAny(channelHeader))
	for i, ch := range c.Pricing.Channels {
		writeRow(f, chSheet, i+2, []any{
			ch.Name,
			money.Round(ch.SuggestedPrice),
			ch.Manual,
			money.Round(ch.Breakdown.PlatformFee),
			money.Round(ch.Breakdown.Operational),
			money.Round(ch.Breakdown.CMV),
			money.Round(ch.Profit),
			money.Round(ch.MarginPercent),
		})
	}

	_ = f.SetColWidth(ingSheet, "A", "A", 28)
	_ = f.SetColWidth(ingSheet, "B", "G", 14)
	_ = f.SetColWidth(chSheet, "A", "A", 20)
	_ = f.SetColWidth(chSheet, "B", "H", 14)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#6D28D9"}, Pattern: 1},
	})
	_ = f.SetCellStyle(ingSheet, "A1", "G1", style)
	_ = f.SetCellStyle(chSheet, "A1", "H1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
