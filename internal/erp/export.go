package erp

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

// sheet is one table of an export.
type sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// CmdExport handles export commands
func (c *Client) CmdExport(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: c4p export <type> <name> -o <file>")
		fmt.Println("Types: costing-note, boq")
		fmt.Println()
		fmt.Println("The format follows the file extension: .xlsx (one sheet per table) or .csv.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  c4p export costing-note CN-2026-00001 -o cn.xlsx")
		fmt.Println("  c4p export boq BOQ-2026-00001 -o boq.xlsx")
		fmt.Println("  c4p export boq BOQ-2026-00001 -o boq.csv")
		return nil
	}

	outputFile := ""
	var pos []string
	for i := 1; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			outputFile = args[i+1]
			i++
			continue
		}
		pos = append(pos, args[i])
	}

	if outputFile == "" {
		return fmt.Errorf("output file required. Use -o <file>")
	}
	if len(pos) < 1 {
		return fmt.Errorf("usage: c4p export %s <name> -o <file>", args[0])
	}

	ctx := context.Background()
	var sheets []sheet
	var err error

	switch args[0] {
	case "costing-note", "cn":
		sheets, err = c.costingNoteSheets(ctx, pos[0])
	case "boq":
		sheets, err = c.boqSheets(ctx, pos[0])
	default:
		return fmt.Errorf("unknown export type: %s", args[0])
	}
	if err != nil {
		return err
	}

	if err := writeSheets(outputFile, sheets); err != nil {
		return err
	}

	rows := 0
	for _, s := range sheets {
		rows += len(s.Rows)
	}
	fmt.Printf("%s✓ Exported %s %s (%d rows) to %s%s\n", Green, args[0], pos[0], rows, outputFile, Reset)
	return nil
}

func (c *Client) costingNoteSheets(ctx context.Context, name string) ([]sheet, error) {
	fmt.Printf("%sExporting costing note %s...%s\n", Blue, name, Reset)

	cn, err := c.openCostingNote(ctx, name)
	if err != nil {
		return nil, err
	}
	totals := cn.Totals()
	return costingNoteSheets(cn.Form.Doc, totals), nil
}

func costingNoteSheets(d doc.Doc, totals pricing.NoteTotals) []sheet {
	items := sheet{
		Name:    "Costing Note",
		Headers: []string{"#", "Item", "Qty", "Cost", "Total Cost", "Target Selling Price", "Total Selling", "BOQ"},
	}
	for i, r := range d.Rows(pricing.CostingItemsTable) {
		items.Rows = append(items.Rows, []interface{}{
			i + 1,
			r.Str(pricing.FieldItem),
			r.Float(pricing.FieldQty),
			r.Float(pricing.FieldCost),
			r.Float(pricing.FieldTotalCost),
			r.Float(pricing.FieldTSP),
			r.Float(pricing.FieldTotalSelling),
			r.Str(pricing.FieldBOQLink),
		})
	}

	summary := sheet{
		Name:    "Summary",
		Headers: []string{"Field", "Value"},
		Rows: [][]interface{}{
			{"Costing Note", d.Name()},
			{"Opportunity", d.Str("opportunity")},
			{"Default Margin %", d.Float(pricing.FieldDefaultMargin)},
			{"Total Cost", totals.TotalCost},
			{"Total Selling", totals.TotalSelling},
			{"Total Profit", totals.TotalProfit},
			{"Profit Margin %", totals.ProfitMargin * 100},
		},
	}
	return []sheet{items, summary}
}

func (c *Client) boqSheets(ctx context.Context, name string) ([]sheet, error) {
	fmt.Printf("%sExporting BOQ %s...%s\n", Blue, name, Reset)

	q, err := c.openBOQ(ctx, name)
	if err != nil {
		return nil, err
	}
	totals := q.Recalculate()
	return boqSheets(q.Form.Doc, totals), nil
}

func boqSheets(d doc.Doc, totals pricing.BOQTotals) []sheet {
	marginRows := func(title, table string) sheet {
		s := sheet{Name: title, Headers: []string{"#", "Item", "Direct Cost", "Margin %", "Cost", "Qty", "Total Cost"}}
		for i, r := range d.Rows(table) {
			s.Rows = append(s.Rows, []interface{}{
				i + 1, r.Str("item"), r.Float(pricing.FieldDirectCost), r.Float(pricing.FieldMargin),
				r.Float(pricing.FieldCost), r.Float(pricing.FieldQty), r.Float(pricing.FieldTotalCost),
			})
		}
		return s
	}
	simpleRows := func(title, table string) sheet {
		s := sheet{Name: title, Headers: []string{"#", "Description", "Cost", "Qty", "Total Cost"}}
		for i, r := range d.Rows(table) {
			label := r.Str("description")
			if label == "" {
				label = r.Str("item")
			}
			s.Rows = append(s.Rows, []interface{}{
				i + 1, label, r.Float(pricing.FieldCost), r.Float(pricing.FieldQty), r.Float(pricing.FieldTotalCost),
			})
		}
		return s
	}

	summary := sheet{
		Name:    "Summary",
		Headers: []string{"Field", "Value"},
		Rows: [][]interface{}{
			{"BOQ", d.Name()},
			{"Costing Note", d.Str(pricing.FieldCostingNote)},
			{"Base Margin %", d.Float(pricing.FieldBaseMargin)},
			{"S Margin %", d.Float(pricing.FieldSMargin)},
			{"Material", totals.Material},
			{"Labor", totals.Labor},
			{"Expenses", totals.Expenses},
			{"Contractors", totals.Contractors},
			{"Total", totals.Total},
		},
	}

	return []sheet{
		marginRows("Material", pricing.MaterialCosts),
		marginRows("Labor", pricing.LaborCosts),
		simpleRows("Expenses", pricing.ExpensesTable),
		simpleRows("Contractors", pricing.ContractorsTable),
		summary,
	}
}

// writeSheets picks the format from the file extension.
func writeSheets(path string, sheets []sheet) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return writeCSV(path, sheets)
	}
	return writeXLSX(path, sheets)
}

func writeXLSX(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	for n, s := range sheets {
		index, err := f.NewSheet(s.Name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.Name, err)
		}
		if n == 0 {
			f.SetActiveSheet(index)
		}

		for i, header := range s.Headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(s.Name, cell, header)
			f.SetCellStyle(s.Name, cell, cell, headerStyle)
		}

		for rowIdx, row := range s.Rows {
			for colIdx, value := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(s.Name, cell, value)
				if _, ok := value.(float64); ok {
					f.SetCellStyle(s.Name, cell, cell, moneyStyle)
				}
			}
		}

		for i := range s.Headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(s.Name, col, col, 15)
		}
	}

	if len(sheets) > 0 && sheets[0].Name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeCSV writes every sheet into one file. With more than one sheet a
// leading "Section" column names the sheet of each row.
func writeCSV(path string, sheets []sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	multi := len(sheets) > 1

	for n, s := range sheets {
		if n > 0 {
			writer.Write(nil)
		}
		header := s.Headers
		if multi {
			header = append([]string{"Section"}, header...)
		}
		writer.Write(header)
		for _, row := range s.Rows {
			rec := make([]string, 0, len(row)+1)
			if multi {
				rec = append(rec, s.Name)
			}
			for _, v := range row {
				rec = append(rec, cellText(v))
			}
			writer.Write(rec)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.2f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
