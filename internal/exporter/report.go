// Package exporter 营收报表 Excel 导出
package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Trihalo/XeroAPI/internal/calculator"
	"github.com/Trihalo/XeroAPI/internal/calendar"
	"github.com/Trihalo/XeroAPI/internal/model"
	"github.com/Trihalo/XeroAPI/internal/roster"
)

// ReportInput 报表数据
type ReportInput struct {
	FY               string
	Month            string
	Weeks            []calendar.Week
	CurrentWeekIndex int
	Roster           *roster.Roster
	Invoices         []*model.InvoiceRecord
	Forecasts        []model.ForecastSummaryRow
}

const (
	summarySheet   = "Summary"
	recruiterSheet = "By Recruiter"
)

// BuildRevenueReport 生成营收报表工作簿
// Summary：板块周度汇总 + 当前周看板表；By Recruiter：顾问逐周（实际累计 + 剩余周预测）
func BuildRevenueReport(in ReportInput) (*excelize.File, error) {
	weekNums := calendar.WeekNumbers(in.Weeks)

	actuals := calculator.AggregateActuals(in.Invoices, in.Month, in.FY,
		in.Roster.RecruiterNames(), in.Roster.AreaNames(), weekNums)
	forecasts := calculator.AggregateForecasts(in.Forecasts, in.Roster.AreaOf)
	together := calculator.BuildRecruiterTogetherByWeek(in.Roster.RecruiterNames(),
		in.Roster.AreaOf, actuals.CumulativeByRecruiter, forecasts.ByRecruiter)

	f := excelize.NewFile()

	if err := writeSummarySheet(f, in, weekNums, actuals, forecasts, together); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRecruiterSheet(f, in, together); err != nil {
		f.Close()
		return nil, err
	}

	// 删除默认 Sheet1，把 Summary 设为首页
	f.DeleteSheet(f.GetSheetName(0))
	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

func writeSummarySheet(f *excelize.File, in ReportInput, weekNums []int,
	actuals calculator.ActualsResult, forecasts calculator.ForecastsResult,
	together map[string]calculator.RecruiterWeeks) error {

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	title := fmt.Sprintf("Revenue Summary %s %s", in.FY, in.Month)
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return err
	}

	header := []interface{}{"Area"}
	for _, w := range in.Weeks {
		header = append(header, fmt.Sprintf("Week %d (%s)", w.Num, w.Range()))
	}
	header = append(header, "MTD Revenue")
	if err := f.SetSheetRow(summarySheet, "A3", &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCol, _ := excelize.CoordinatesToCellName(len(header), 3)
		_ = f.SetCellStyle(summarySheet, "A3", endCol, headerStyle)
	}

	// 周度视图里 Total 不是现成的键，逐周把各板块加总
	weekTotals := map[int]float64{}
	for _, area := range in.Roster.AreaNames() {
		for _, w := range weekNums {
			weekTotals[w] += actuals.ByArea[area][w] + forecasts.ByAreaForWeek[area][w]
		}
	}

	areas := append(in.Roster.AreaNames(), calculator.TotalKey)
	lastWeek := weekNums[len(weekNums)-1]

	for i, area := range areas {
		row := []interface{}{area}
		for _, w := range weekNums {
			if area == calculator.TotalKey {
				row = append(row, weekTotals[w])
				continue
			}
			row = append(row, actuals.ByArea[area][w]+forecasts.ByAreaForWeek[area][w])
		}
		row = append(row, actuals.CumulativeByArea[area][lastWeek])

		cell, _ := excelize.CoordinatesToCellName(1, 4+i)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return writeSnapshotBlock(f, in, actuals, forecasts, together, 4+len(areas)+1)
}

// writeSnapshotBlock 当前周的看板表：预测、实际、差异与人均产出，展示格式与页面一致
func writeSnapshotBlock(f *excelize.File, in ReportInput,
	actuals calculator.ActualsResult, forecasts calculator.ForecastsResult,
	together map[string]calculator.RecruiterWeeks, top int) error {

	summary := calculator.BuildAreaSummary(calculator.SummaryInput{
		Areas:             in.Roster.AreaNames(),
		CurrentWeekIndex:  in.CurrentWeekIndex,
		ForecastByArea:    forecasts.ByAreaForWeek,
		ActualsByArea:     actuals.ByArea,
		CumulativeByArea:  actuals.CumulativeByArea,
		ForecastMTDByArea: calculator.GroupRecruitersByAreaWeek(together),
		HeadcountByArea:   in.Roster.HeadcountByArea(),
	})

	titleCell, _ := excelize.CoordinatesToCellName(1, top)
	snapshotTitle := fmt.Sprintf("Week %d Snapshot", in.CurrentWeekIndex)
	if err := f.SetCellValue(summarySheet, titleCell, snapshotTitle); err != nil {
		return err
	}

	header := []interface{}{"Area", "Forecast", "Actual", "Variance", "MTD Revenue",
		"Forecast MTD", "Headcount", "Forecast/Head", "Actual/Head"}
	headerCell, _ := excelize.CoordinatesToCellName(1, top+1)
	if err := f.SetSheetRow(summarySheet, headerCell, &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCol, _ := excelize.CoordinatesToCellName(len(header), top+1)
		_ = f.SetCellStyle(summarySheet, headerCell, endCol, headerStyle)
	}

	rows := append(summary.Rows, summary.Total)
	for i, r := range rows {
		row := []interface{}{
			r.Area,
			calculator.FormatAmountValue(r.ForecastWeek),
			calculator.FormatAmountValue(r.ActualWeek),
			calculator.FormatVariance(r.Variance),
			calculator.FormatAmountValue(r.MTDRevenue),
			calculator.FormatAmountValue(r.ForecastMTD),
			r.Headcount,
			calculator.FormatAmount(r.ForecastPerHead),
			calculator.FormatAmount(r.ActualPerHead),
		}
		cell, _ := excelize.CoordinatesToCellName(1, top+2+i)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func writeRecruiterSheet(f *excelize.File, in ReportInput,
	together map[string]calculator.RecruiterWeeks) error {

	if _, err := f.NewSheet(recruiterSheet); err != nil {
		return err
	}

	header := []interface{}{"Recruiter", "Area"}
	for _, w := range in.Weeks {
		header = append(header, fmt.Sprintf("Week %d", w.Num))
	}
	if err := f.SetSheetRow(recruiterSheet, "A1", &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCol, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(recruiterSheet, "A1", endCol, headerStyle)
	}

	for i, name := range in.Roster.RecruiterNames() {
		rw := together[name]
		row := []interface{}{name, rw.Area}
		for _, w := range in.Weeks {
			row = append(row, rw.Weeks[w.Num])
		}
		cell, _ := excelize.CoordinatesToCellName(1, 2+i)
		if err := f.SetSheetRow(recruiterSheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
