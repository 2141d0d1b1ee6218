// Package importer 发票 Excel 导入：账务系统导出的毛利明细表
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// 表头别名 -> 规范字段
var invoiceHeaderAliases = map[string]string{
	"invoice number":  "invoiceNumber",
	"invoice #":       "invoiceNumber",
	"consultant":      "consultant",
	"area":            "area",
	"week":            "week",
	"margin":          "margin",
	"futureyou month": "month",
	"fy month":        "month",
	"month":           "month",
	"financial year":  "fy",
	"fy":              "fy",
	"quarter":         "quarter",
	"type":            "type",
}

// ParseInvoices 解析发票 Excel，取第一个 Sheet
func ParseInvoices(filePath string) ([]*model.InvoiceRecord, error) {
	file, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return parseInvoiceSheet(file, sheets[0])
}

func parseInvoiceSheet(file *excelize.File, sheetName string) ([]*model.InvoiceRecord, error) {
	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	index := buildInvoiceHeaderIndex(rows[0])
	for _, required := range []string{"consultant", "week", "margin", "month", "fy"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var records []*model.InvoiceRecord
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		record := parseInvoiceRow(rows[rowIdx], index)
		if record != nil {
			records = append(records, record)
		}
	}

	return records, nil
}

// buildInvoiceHeaderIndex 规范字段 -> 列下标
func buildInvoiceHeaderIndex(headers []string) map[string]int {
	index := map[string]int{}
	for colIdx, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := invoiceHeaderAliases[key]; ok {
			if _, exists := index[field]; !exists {
				index[field] = colIdx
			}
		}
	}
	return index
}

func parseInvoiceRow(row []string, index map[string]int) *model.InvoiceRecord {
	cell := func(field string) string {
		colIdx, ok := index[field]
		if !ok || colIdx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[colIdx])
	}

	consultant := cell("consultant")
	if consultant == "" {
		// 跳过小计、空白等无顾问的行
		return nil
	}

	week, err := strconv.Atoi(cell("week"))
	if err != nil || week <= 0 {
		return nil
	}

	margin, err := parseAmount(cell("margin"))
	if err != nil {
		return nil
	}

	return &model.InvoiceRecord{
		InvoiceNumber: cell("invoiceNumber"),
		Consultant:    consultant,
		Area:          cell("area"),
		Week:          week,
		Margin:        margin,
		Month:         cell("month"),
		FinancialYear: normalizeFY(cell("fy")),
		Quarter:       cell("quarter"),
		Type:          cell("type"),
	}
}

// parseAmount 解析金额，容忍千分位和货币符号
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// normalizeFY "2026" / "26" / "FY26" 统一成 "FY26"
func normalizeFY(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "FY") {
		return upper
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 2000 {
			n -= 2000
		}
		return fmt.Sprintf("FY%02d", n)
	}
	return s
}
