package erp

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/connect4systems/c4pricing-cli/internal/doc"
	"github.com/connect4systems/c4pricing-cli/internal/pricing"
)

func exportNote() doc.Doc {
	return doc.Doc{
		"name":                     "CN-0001",
		"opportunity":              "CRM-OPP-0001",
		pricing.FieldDefaultMargin: 25.0,
		pricing.CostingItemsTable: []interface{}{
			map[string]interface{}{
				pricing.FieldItem:         "PNL-001",
				pricing.FieldQty:          2.0,
				pricing.FieldCost:         100.0,
				pricing.FieldTotalCost:    200.0,
				pricing.FieldTSP:          125.0,
				pricing.FieldTotalSelling: 250.0,
				pricing.FieldBOQLink:      "BOQ-0001",
			},
		},
	}
}

func TestCostingNoteSheets(t *testing.T) {
	totals := pricing.NoteTotals{TotalCost: 200, TotalSelling: 250, TotalProfit: 50, ProfitMargin: 0.2}
	sheets := costingNoteSheets(exportNote(), totals)

	require.Len(t, sheets, 2)
	require.Equal(t, "Costing Note", sheets[0].Name)
	require.Equal(t, []interface{}{1, "PNL-001", 2.0, 100.0, 200.0, 125.0, 250.0, "BOQ-0001"}, sheets[0].Rows[0])
	require.Contains(t, sheets[1].Rows, []interface{}{"Profit Margin %", 20.0})
}

func TestBOQSheets(t *testing.T) {
	boq := doc.Doc{
		"name": "BOQ-0001",
		pricing.MaterialCosts: []interface{}{
			map[string]interface{}{"item": "Steel", pricing.FieldDirectCost: 50.0, pricing.FieldMargin: 10.0},
		},
		pricing.ExpensesTable: []interface{}{
			map[string]interface{}{"description": "Transport", pricing.FieldCost: 30.0, pricing.FieldQty: 1.0},
		},
	}
	sheets := boqSheets(boq, pricing.BOQTotals{Material: 55, Expenses: 30, Total: 85})

	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	require.Equal(t, []string{"Material", "Labor", "Expenses", "Contractors", "Summary"}, names)
	require.Len(t, sheets[0].Rows, 1)
	require.Empty(t, sheets[1].Rows)
	require.Equal(t, "Transport", sheets[2].Rows[0][1])
	require.Contains(t, sheets[4].Rows, []interface{}{"Total", 85.0})
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cn.xlsx")
	totals := pricing.NoteTotals{TotalCost: 200, TotalSelling: 250, TotalProfit: 50, ProfitMargin: 0.2}
	require.NoError(t, writeSheets(path, costingNoteSheets(exportNote(), totals)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Costing Note", "Summary"}, f.GetSheetList())

	header, err := f.GetCellValue("Costing Note", "B1")
	require.NoError(t, err)
	require.Equal(t, "Item", header)

	item, err := f.GetCellValue("Costing Note", "B2")
	require.NoError(t, err)
	require.Equal(t, "PNL-001", item)

	cost, err := f.GetCellValue("Costing Note", "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "100", cost)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cn.CSV")
	totals := pricing.NoteTotals{TotalCost: 200, TotalSelling: 250, TotalProfit: 50, ProfitMargin: 0.2}
	require.NoError(t, writeSheets(path, costingNoteSheets(exportNote(), totals)))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Equal(t, "Section", records[0][0])
	require.Equal(t, []string{"Costing Note", "1", "PNL-001", "2.00", "100.00", "200.00", "125.00", "250.00", "BOQ-0001"}, records[1])
	require.Equal(t, []string{"Section", "Field", "Value"}, records[2])
	require.Equal(t, []string{"Summary", "Costing Note", "CN-0001"}, records[3])
}

func TestWriteCSVSingleSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.csv")
	require.NoError(t, writeCSV(path, []sheet{{Name: "Only", Headers: []string{"A"}, Rows: [][]interface{}{{"x"}, {1.5}}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "A\nx\n1.50\n", string(data))
}
