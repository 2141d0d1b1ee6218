package api

import (
	"net/http"
	"testing"

	"github.com/Trihalo/XeroAPI/internal/calculator"
	"github.com/Trihalo/XeroAPI/internal/model"
)

func TestGetRevenueSummary(t *testing.T) {
	env := newTestEnv(t)
	env.seedRoster(t)
	env.createUser(t, "admin", "secret123", "admin")
	token := env.login(t, "admin", "secret123")

	if err := env.store.BatchInsertInvoices([]*model.InvoiceRecord{
		{Consultant: "Suzie Large", Area: "Legal", Week: 1, Margin: 1000,
			Month: "Jul", FinancialYear: "FY26", Quarter: "Q1", Type: "Perm"},
		{Consultant: "Emily Wilson", Area: "Executive", Week: 1, Margin: 400,
			Month: "Jul", FinancialYear: "FY26", Quarter: "Q1", Type: "Temp"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := env.store.UpsertForecasts([]*model.ForecastRow{
		{Key: "FY26:Jul:1:Suzie Large", FY: "FY26", Month: "Jul", Week: 1,
			Revenue: 800, Name: "Suzie Large",
			UploadMonth: "Jul", UploadWeek: 1, UploadYear: 2025},
	}); err != nil {
		t.Fatal(err)
	}

	resp := env.doJSON(t, http.MethodGet, "/api/revenue/summary?fy=FY26&month=Jul", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", resp.Code, resp.Body.String())
	}

	var body struct {
		Rows             []calculator.AreaSummaryRow `json:"rows"`
		Total            calculator.AreaSummaryRow   `json:"total"`
		CurrentWeekIndex int                         `json:"currentWeekIndex"`
	}
	decodeBody(t, resp, &body)

	if len(body.Rows) != 2 {
		t.Fatalf("expected 2 area rows, got %d", len(body.Rows))
	}
	// 周历不含当下日期时按首周口径
	if body.CurrentWeekIndex != 1 {
		t.Fatalf("currentWeekIndex: got %d", body.CurrentWeekIndex)
	}

	legal := body.Rows[0]
	if legal.Area != "Legal" {
		t.Fatalf("area order: got %q", legal.Area)
	}
	if legal.ActualWeek != 1000 {
		t.Fatalf("Legal actual week: got %v", legal.ActualWeek)
	}
	// 第 1 上传周提交的当周预测
	if legal.ForecastWeek != 800 {
		t.Fatalf("Legal forecast week: got %v", legal.ForecastWeek)
	}
	if legal.Variance != 200 {
		t.Fatalf("Legal variance: got %v", legal.Variance)
	}
	// 滞后累计：首周 MTD 为 0
	if legal.MTDRevenue != 0 {
		t.Fatalf("lagged MTD at week 1 must be 0, got %v", legal.MTDRevenue)
	}

	if body.Total.Area != calculator.TotalKey || body.Total.ActualWeek != 1400 {
		t.Fatalf("total row: %+v", body.Total)
	}
}

func TestGetRevenueSummary_UnknownMonth(t *testing.T) {
	env := newTestEnv(t)
	env.seedRoster(t)
	env.createUser(t, "admin", "secret123", "admin")
	token := env.login(t, "admin", "secret123")

	resp := env.doJSON(t, http.MethodGet, "/api/revenue/summary?fy=FY26&month=Dec", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("month outside calendar must be 404, got %d", resp.Code)
	}
}
