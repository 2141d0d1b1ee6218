package store

import (
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// InsertTriggerEvent 记录一次工作流触发或文件上传
func (s *Store) InsertTriggerEvent(e *model.TriggerEvent) error {
	success := 0
	if e.Success {
		success = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO trigger_events (kind, workflow, file_name, user, success, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Kind, e.Workflow, e.FileName, e.User, success, e.Message)
	if err != nil {
		return fmt.Errorf("failed to insert trigger event: %w", err)
	}
	return nil
}

// ListTriggerEvents 按时间倒序列出历史记录
func (s *Store) ListTriggerEvents(limit int) ([]*model.TriggerEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, kind, workflow, file_name, user, success, message, created_at
		FROM trigger_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var out []*model.TriggerEvent
	for rows.Next() {
		e := &model.TriggerEvent{}
		var success int
		if err := rows.Scan(&e.ID, &e.Kind, &e.Workflow, &e.FileName, &e.User,
			&success, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Success = success == 1
		out = append(out, e)
	}

	return out, rows.Err()
}
