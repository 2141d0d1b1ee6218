package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Trihalo/XeroAPI/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "futureyou.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetInvoices_Filters(t *testing.T) {
	s := newTestStore(t)

	if err := s.BatchInsertInvoices([]*model.InvoiceRecord{
		{Consultant: "Suzie Large", Area: "Legal", Week: 1, Margin: 100,
			Month: "Jul", FinancialYear: "FY26", Quarter: "Q1", Type: "Perm"},
		{Consultant: "Suzie Large", Area: "Legal", Week: 2, Margin: 200,
			Month: "Aug", FinancialYear: "FY26", Quarter: "Q1", Type: "Perm"},
		{Consultant: "Emily Wilson", Area: "Executive", Week: 1, Margin: 300,
			Month: "Jul", FinancialYear: "FY25", Quarter: "Q1", Type: "Temp"},
	}); err != nil {
		t.Fatal(err)
	}

	fy := "FY26"
	month := "Jul"
	records, err := s.GetInvoices(InvoiceQueryOptions{FinancialYear: &fy, Month: &month})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Margin != 100 {
		t.Fatalf("filters: %+v", records)
	}

	count, err := s.CountInvoices(InvoiceQueryOptions{FinancialYear: &fy})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count: got %d", count)
	}
}

func TestConsultantTotals(t *testing.T) {
	s := newTestStore(t)

	if err := s.BatchInsertInvoices([]*model.InvoiceRecord{
		{Consultant: "Suzie Large", Week: 1, Margin: 100, Month: "Jul",
			FinancialYear: "FY26", Quarter: "Q1", Type: "Perm"},
		{Consultant: "Suzie Large", Week: 2, Margin: 150, Month: "Jul",
			FinancialYear: "FY26", Quarter: "Q1", Type: "Temp"},
		{Consultant: "Suzie Large", Week: 1, Margin: 50, Month: "Oct",
			FinancialYear: "FY26", Quarter: "Q2", Type: "Perm"},
	}); err != nil {
		t.Fatal(err)
	}

	totals, err := s.GetConsultantTotals("FY26")
	if err != nil {
		t.Fatal(err)
	}
	// 按 (顾问, 季度) 汇总
	if len(totals) != 2 {
		t.Fatalf("totals: %+v", totals)
	}

	typeTotals, err := s.GetConsultantTypeTotals("FY26")
	if err != nil {
		t.Fatal(err)
	}
	// Perm 与 Temp 分开
	if len(typeTotals) != 3 {
		t.Fatalf("type totals: %+v", typeTotals)
	}
}

func TestGetMonthlyTargets_MonthOrder(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	for i, month := range []string{"Mar", "Jan", "Feb"} {
		if err := s.InsertMonthlyTarget(&model.MonthlyTarget{
			FinancialYear: "FY26",
			Month:         month,
			Target:        float64((i + 1) * 1000),
			UploadTimeRaw: now.Add(time.Duration(i) * time.Second).Format(time.RFC3339),
		}); err != nil {
			t.Fatal(err)
		}
	}

	targets, err := s.GetMonthlyTargets("FY26")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 3 {
		t.Fatalf("targets: %+v", targets)
	}
	if targets[0].Month != "Jan" || targets[1].Month != "Feb" || targets[2].Month != "Mar" {
		t.Fatalf("month order: %s %s %s", targets[0].Month, targets[1].Month, targets[2].Month)
	}
}

func TestGetMonthlyTargets_SameTimestampLastInsertWins(t *testing.T) {
	s := newTestStore(t)

	// 客户端连续提交可能落在同一时间戳上，此时后写入的一条为准
	raw := time.Now().Format(time.RFC3339Nano)
	for _, target := range []float64{500000, 650000} {
		if err := s.InsertMonthlyTarget(&model.MonthlyTarget{
			FinancialYear: "FY26",
			Month:         "Jul",
			Target:        target,
			UploadTimeRaw: raw,
		}); err != nil {
			t.Fatal(err)
		}
	}

	targets, err := s.GetMonthlyTargets("FY26")
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 1 {
		t.Fatalf("one row per month, got %d", len(targets))
	}
	if targets[0].Target != 650000 {
		t.Fatalf("latest insert must win: got %v", targets[0].Target)
	}
}

func TestTriggerEvents(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.InsertTriggerEvent(&model.TriggerEvent{
			Kind:     "trigger",
			Workflow: "invoices",
			User:     "admin",
			Success:  i != 1,
			Message:  "",
		}); err != nil {
			t.Fatal(err)
		}
	}

	events, err := s.ListTriggerEvents(2)
	if err != nil {
		t.Fatal(err)
	}
	// 最新在前，limit 生效
	if len(events) != 2 {
		t.Fatalf("limit: got %d", len(events))
	}
	if events[0].ID <= events[1].ID {
		t.Fatalf("order: %+v", events)
	}
}
