package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// ListRecruiters 列出全部顾问（按板块排序、板块内按姓名排序）
func (s *Store) ListRecruiters() ([]*model.Recruiter, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.name, r.area
		FROM recruiters r
		LEFT JOIN areas a ON a.name = r.area
		ORDER BY IFNULL(a.sort_order, 999), r.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []*model.Recruiter
	for rows.Next() {
		r := &model.Recruiter{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Area); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// AddRecruiter 新增顾问，返回生成的 ID
func (s *Store) AddRecruiter(name, area string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec("INSERT INTO recruiters (id, name, area) VALUES (?, ?, ?)", id, name, area)
	if err != nil {
		return "", fmt.Errorf("failed to insert recruiter: %w", err)
	}
	return id, nil
}

// DeleteRecruiter 删除顾问
func (s *Store) DeleteRecruiter(id string) error {
	res, err := s.db.Exec("DELETE FROM recruiters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recruiter: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("recruiter not found: %s", id)
	}
	return nil
}

// ListAreas 列出全部板块（按显示顺序）
func (s *Store) ListAreas() ([]*model.Area, error) {
	rows, err := s.db.Query("SELECT id, name, headcount FROM areas ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []*model.Area
	for rows.Next() {
		a := &model.Area{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Headcount); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// AddArea 新增板块，返回生成的 ID
func (s *Store) AddArea(name string, headcount float64, sortOrder int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec("INSERT INTO areas (id, name, headcount, sort_order) VALUES (?, ?, ?, ?)",
		id, name, headcount, sortOrder)
	if err != nil {
		return "", fmt.Errorf("failed to insert area: %w", err)
	}
	return id, nil
}

// UpdateAreaHeadcount 更新板块人数
func (s *Store) UpdateAreaHeadcount(id string, headcount float64) error {
	res, err := s.db.Exec("UPDATE areas SET headcount = ? WHERE id = ?", headcount, id)
	if err != nil {
		return fmt.Errorf("failed to update area: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("area not found: %s", id)
	}
	return nil
}

// GetAreaByName 按名称取板块
func (s *Store) GetAreaByName(name string) (*model.Area, error) {
	a := &model.Area{}
	err := s.db.QueryRow("SELECT id, name, headcount FROM areas WHERE name = ?", name).
		Scan(&a.ID, &a.Name, &a.Headcount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("area not found: %s", name)
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	return a, nil
}
