package store

import (
	"database/sql"
	"errors"
	"fmt"

	"pusula/internal/model"
)

// GetSetting 读取设置项，不存在时返回空串
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting 写入设置项
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func activeKey(role model.ScheduleRole) string {
	return "active_" + string(role)
}

// SetActiveSchedule 记录某角色当前使用的计划；id 为空表示清除
//
// 被替换下来的旧计划一并删除。
func (s *Store) SetActiveSchedule(role model.ScheduleRole, id string) error {
	prev, err := s.GetSetting(activeKey(role))
	if err != nil {
		return err
	}
	if err := s.SetSetting(activeKey(role), id); err != nil {
		return err
	}
	if prev != "" && prev != id {
		return s.DeleteSchedule(prev)
	}
	return nil
}

// ActiveSchedule 读取某角色当前使用的计划，未设置时返回 nil
func (s *Store) ActiveSchedule(role model.ScheduleRole) (*model.Schedule, error) {
	id, err := s.GetSetting(activeKey(role))
	if err != nil || id == "" {
		return nil, err
	}
	sch, err := s.LoadSchedule(id)
	if errors.Is(err, ErrScheduleNotFound) {
		return nil, nil
	}
	return sch, err
}
