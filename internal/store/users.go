package store

import (
	"database/sql"
	"fmt"

	"github.com/Trihalo/XeroAPI/internal/model"
)

// GetUserByUsername 按用户名取用户
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	u := &model.User{}
	err := s.db.QueryRow(`
		SELECT id, username, name, email, role, password_hash
		FROM users WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found: %s", username)
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	return u, nil
}

// CreateUser 新增用户
func (s *Store) CreateUser(username, name, email, role, passwordHash string) error {
	_, err := s.db.Exec(`
		INSERT INTO users (username, name, email, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
	`, username, name, email, role, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUserPassword 更新用户密码哈希
func (s *Store) UpdateUserPassword(username, passwordHash string) error {
	res, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE username = ?", passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user not found: %s", username)
	}
	return nil
}
