package store

import (
	"database/sql"
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// BatchInsertInvoices 批量插入发票记录
func (s *Store) BatchInsertInvoices(records []*model.InvoiceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO invoices (
			invoice_number, consultant, area, week, margin,
			month, financial_year, quarter, type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.InvoiceNumber, r.Consultant, r.Area, r.Week, r.Margin,
			r.Month, r.FinancialYear, r.Quarter, r.Type,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// InvoiceQueryOptions 发票查询选项
type InvoiceQueryOptions struct {
	FinancialYear *string
	Month         *string
	Consultant    *string
	Type          *string // Perm / Temp
}

// GetInvoices 按条件查询发票记录
func (s *Store) GetInvoices(opts InvoiceQueryOptions) ([]*model.InvoiceRecord, error) {
	query := `
		SELECT id, invoice_number, consultant, area, week, margin,
		       month, financial_year, quarter, type, created_at
		FROM invoices WHERE 1=1
	`
	args := []interface{}{}

	if opts.FinancialYear != nil {
		query += " AND financial_year = ?"
		args = append(args, *opts.FinancialYear)
	}
	if opts.Month != nil {
		query += " AND month = ?"
		args = append(args, *opts.Month)
	}
	if opts.Consultant != nil {
		query += " AND consultant = ?"
		args = append(args, *opts.Consultant)
	}
	if opts.Type != nil {
		query += " AND type = ?"
		args = append(args, *opts.Type)
	}

	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

// DeleteInvoicesByMonth 删除指定财年/月份的发票记录（重新导入前清空）
func (s *Store) DeleteInvoicesByMonth(fy, month string) error {
	_, err := s.db.Exec("DELETE FROM invoices WHERE financial_year = ? AND month = ?", fy, month)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// CountInvoices 统计发票数量
func (s *Store) CountInvoices(opts InvoiceQueryOptions) (int, error) {
	query := "SELECT COUNT(*) FROM invoices WHERE 1=1"
	args := []interface{}{}

	if opts.FinancialYear != nil {
		query += " AND financial_year = ?"
		args = append(args, *opts.FinancialYear)
	}
	if opts.Month != nil {
		query += " AND month = ?"
		args = append(args, *opts.Month)
	}

	var count int
	err := s.db.QueryRow(query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}

	return count, nil
}

// ConsultantTotal 顾问季度毛利汇总行
type ConsultantTotal struct {
	Consultant  string  `json:"Consultant"`
	TotalMargin float64 `json:"TotalMargin"`
	Quarter     string  `json:"Quarter"`
}

// ConsultantTypeTotal 顾问按类型（Perm/Temp）季度毛利汇总行
type ConsultantTypeTotal struct {
	Consultant  string  `json:"Consultant"`
	Type        string  `json:"Type"`
	TotalMargin float64 `json:"TotalMargin"`
	Quarter     string  `json:"Quarter"`
}

// GetConsultantTotals 按顾问+季度汇总毛利（Legends 页）
func (s *Store) GetConsultantTotals(fy string) ([]ConsultantTotal, error) {
	rows, err := s.db.Query(`
		SELECT consultant, SUM(margin) AS total_margin, quarter
		FROM invoices
		WHERE financial_year = ?
		GROUP BY consultant, quarter
		ORDER BY total_margin DESC
	`, fy)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []ConsultantTotal
	for rows.Next() {
		var t ConsultantTotal
		if err := rows.Scan(&t.Consultant, &t.TotalMargin, &t.Quarter); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetConsultantTypeTotals 按顾问+类型+季度汇总毛利（Legends 页）
func (s *Store) GetConsultantTypeTotals(fy string) ([]ConsultantTypeTotal, error) {
	rows, err := s.db.Query(`
		SELECT consultant, type, SUM(margin) AS total_margin, quarter
		FROM invoices
		WHERE financial_year = ?
		GROUP BY consultant, type, quarter
		ORDER BY consultant, type, quarter
	`, fy)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []ConsultantTypeTotal
	for rows.Next() {
		var t ConsultantTypeTotal
		if err := rows.Scan(&t.Consultant, &t.Type, &t.TotalMargin, &t.Quarter); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanInvoiceRows 扫描多行发票记录
func scanInvoiceRows(rows *sql.Rows) ([]*model.InvoiceRecord, error) {
	var results []*model.InvoiceRecord

	for rows.Next() {
		r := &model.InvoiceRecord{}
		err := rows.Scan(
			&r.ID, &r.InvoiceNumber, &r.Consultant, &r.Area, &r.Week, &r.Margin,
			&r.Month, &r.FinancialYear, &r.Quarter, &r.Type, &r.CreatedAt,
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
