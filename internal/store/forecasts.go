package store

import (
	"database/sql"
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// UpsertForecasts 批量写入预测行
// 原系统通过 staging 表 + BigQuery MERGE 去重；这里用唯一索引
// (key, upload_month, upload_week, upload_year) 的 upsert 实现同一语义
func (s *Store) UpsertForecasts(rows []*model.ForecastRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO forecasts (
			key, fy, month, week, week_range, revenue, temp_revenue, notes, name,
			upload_month, upload_week, upload_year, upload_timestamp, upload_user
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key, upload_month, upload_week, upload_year) DO UPDATE SET
			week_range = excluded.week_range,
			revenue = excluded.revenue,
			temp_revenue = excluded.temp_revenue,
			notes = excluded.notes,
			upload_timestamp = excluded.upload_timestamp,
			upload_user = excluded.upload_user
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.Key, r.FY, r.Month, r.Week, r.Range, r.Revenue, r.TempRevenue, r.Notes, r.Name,
			r.UploadMonth, r.UploadWeek, r.UploadYear, r.UploadTimestamp, r.UploadUser,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert forecast: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetForecastsForRecruiter 查询某顾问在指定财年/月份的全部预测行
// 排序与原查询一致：week 升序，同周内最新上传在前
func (s *Store) GetForecastsForRecruiter(name, fy, month string) ([]*model.ForecastRow, error) {
	rows, err := s.db.Query(`
		SELECT id, key, fy, month, week, week_range, revenue, temp_revenue, notes, name,
		       upload_month, upload_week, upload_year, upload_timestamp, upload_user
		FROM forecasts
		WHERE name = ? AND fy = ? AND month = ?
		ORDER BY week ASC, upload_week DESC, upload_timestamp DESC
	`, name, fy, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return scanForecastRows(rows)
}

// GetForecastSummary 预测汇总（/forecasts/view 的口径）
// revenue 与 tempRevenue 合并后按 (name, week, uploadWeek) 分组求和
func (s *Store) GetForecastSummary(fy, month string) ([]model.ForecastSummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT name, week, SUM(IFNULL(revenue, 0) + IFNULL(temp_revenue, 0)) AS total_revenue, upload_week
		FROM forecasts
		WHERE fy = ? AND month = ?
		GROUP BY name, week, upload_week
	`, fy, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return scanSummaryRows(rows)
}

// GetForecastSummaryForUploadWeek 指定上传周的预测汇总（/forecasts/weekly 的口径）
func (s *Store) GetForecastSummaryForUploadWeek(fy, month string, uploadWeek int) ([]model.ForecastSummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT name, week, SUM(IFNULL(revenue, 0) + IFNULL(temp_revenue, 0)) AS total_revenue, upload_week
		FROM forecasts
		WHERE fy = ? AND month = ? AND upload_week = ?
		GROUP BY name, week, upload_week
	`, fy, month, uploadWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return scanSummaryRows(rows)
}

// CountForecasts 统计指定财年/月份的预测行数
func (s *Store) CountForecasts(fy, month string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM forecasts WHERE fy = ? AND month = ?", fy, month).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return count, nil
}

// scanForecastRows 扫描多行预测记录
func scanForecastRows(rows *sql.Rows) ([]*model.ForecastRow, error) {
	var results []*model.ForecastRow

	for rows.Next() {
		r := &model.ForecastRow{}
		err := rows.Scan(
			&r.ID, &r.Key, &r.FY, &r.Month, &r.Week, &r.Range, &r.Revenue, &r.TempRevenue,
			&r.Notes, &r.Name,
			&r.UploadMonth, &r.UploadWeek, &r.UploadYear, &r.UploadTimestamp, &r.UploadUser,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}

// scanSummaryRows 扫描预测汇总行
func scanSummaryRows(rows *sql.Rows) ([]model.ForecastSummaryRow, error) {
	var results []model.ForecastSummaryRow

	for rows.Next() {
		var r model.ForecastSummaryRow
		if err := rows.Scan(&r.Name, &r.Week, &r.TotalRevenue, &r.UploadWeek); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}
