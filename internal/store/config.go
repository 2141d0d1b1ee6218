package store

import (
	"database/sql"
	"fmt"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// invoiceRefreshKey 发票数据最后刷新时间的配置键
// 登录响应里的 revenue_table_last_modified_time 即来自这里
const invoiceRefreshKey = "invoice_last_refreshed"

// GetInvoiceLastRefreshed 获取发票数据最后刷新时间（展示格式）
func (s *Store) GetInvoiceLastRefreshed() (string, error) {
	return s.GetConfig(invoiceRefreshKey)
}

// SetInvoiceLastRefreshed 记录发票数据刷新时间
func (s *Store) SetInvoiceLastRefreshed(formatted string) error {
	return s.SetConfig(invoiceRefreshKey, formatted)
}
