package store

import (
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// InsertMonthlyTarget 追加一条月度目标（历史保留，查询时取最新）
func (s *Store) InsertMonthlyTarget(t *model.MonthlyTarget) error {
	_, err := s.db.Exec(`
		INSERT INTO monthly_targets (
			financial_year, month, target, upload_user, upload_timestamp, upload_time_raw
		) VALUES (?, ?, ?, ?, ?, ?)
	`, t.FinancialYear, t.Month, t.Target, t.UploadUser, t.UploadTimestamp, t.UploadTimeRaw)
	if err != nil {
		return fmt.Errorf("failed to insert target: %w", err)
	}
	return nil
}

// GetMonthlyTargets 查询指定财年的月度目标
// 每个月份只取 upload_time_raw 最新的一条，时间相同再比 id，后插入的胜出
func (s *Store) GetMonthlyTargets(fy string) ([]*model.MonthlyTarget, error) {
	rows, err := s.db.Query(`
		SELECT id, financial_year, month, target, upload_user, upload_timestamp, upload_time_raw
		FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY month ORDER BY upload_time_raw DESC, id DESC) AS rn
			FROM monthly_targets
			WHERE financial_year = ?
		)
		WHERE rn = 1
		ORDER BY CASE month
			WHEN 'Jan' THEN 1
			WHEN 'Feb' THEN 2
			WHEN 'Mar' THEN 3
			WHEN 'Apr' THEN 4
			WHEN 'May' THEN 5
			WHEN 'Jun' THEN 6
			WHEN 'Jul' THEN 7
			WHEN 'Aug' THEN 8
			WHEN 'Sep' THEN 9
			WHEN 'Oct' THEN 10
			WHEN 'Nov' THEN 11
			WHEN 'Dec' THEN 12
		END
	`, fy)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []*model.MonthlyTarget
	for rows.Next() {
		t := &model.MonthlyTarget{}
		if err := rows.Scan(&t.ID, &t.FinancialYear, &t.Month, &t.Target,
			&t.UploadUser, &t.UploadTimestamp, &t.UploadTimeRaw); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, t)
	}

	return out, rows.Err()
}
