package importer

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeInvoiceFixture(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "invoices.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseInvoices(t *testing.T) {
	path := writeInvoiceFixture(t, [][]interface{}{
		{"Invoice Number", "Consultant", "Area", "Week", "Margin", "FutureYou Month", "Financial Year", "Quarter", "Type"},
		{"INV-001", "Suzie Large", "Legal", 1, "12,500.50", "Jul", "FY26", "Q1", "Perm"},
		{"INV-002", "Emily Wilson", "Executive", 2, "(300)", "Jul", "2026", "Q1", "Temp"},
		{"", "", "", "", "", "", "", "", ""},
	})

	records, err := ParseInvoices(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Consultant != "Suzie Large" || first.Week != 1 || first.Margin != 12500.50 {
		t.Fatalf("first record wrong: %+v", first)
	}
	if first.FinancialYear != "FY26" || first.Month != "Jul" || first.Type != "Perm" {
		t.Fatalf("first record wrong: %+v", first)
	}

	// 括号负数、"2026" 财年规范化
	second := records[1]
	if second.Margin != -300 {
		t.Fatalf("parenthesised margin: got %v", second.Margin)
	}
	if second.FinancialYear != "FY26" {
		t.Fatalf("fy normalization: got %q", second.FinancialYear)
	}
}

func TestParseInvoices_MissingColumn(t *testing.T) {
	path := writeInvoiceFixture(t, [][]interface{}{
		{"Consultant", "Area", "Week"},
		{"Suzie Large", "Legal", 1},
	})

	if _, err := ParseInvoices(path); err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestParseInvoices_SkipsJunkRows(t *testing.T) {
	path := writeInvoiceFixture(t, [][]interface{}{
		{"Consultant", "Week", "Margin", "Month", "FY"},
		{"Total", "", "99999", "Jul", "FY26"},
		{"Suzie Large", 3, "100", "Jul", "FY26"},
	})

	records, err := ParseInvoices(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Week != 3 {
		t.Fatalf("junk rows must be skipped: %+v", records)
	}
}
