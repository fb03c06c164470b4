package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pusula/internal/model"
)

// 导入状态
const (
	ImportProcessing = "processing"
	ImportSuccess    = "success"
	ImportFailed     = "failed"
)

// ImportLog 一次文件导入的记录
type ImportLog struct {
	ID             int64              `json:"id"`
	Role           model.ScheduleRole `json:"role"`
	Filename       string             `json:"filename"`
	FilePath       string             `json:"filePath,omitempty"`
	FileSize       int64              `json:"fileSize"`
	FileHash       string             `json:"fileHash"`
	Status         string             `json:"status"`
	ScheduleID     string             `json:"scheduleId,omitempty"`
	TaskCount      int                `json:"taskCount"`
	SkippedRows    int                `json:"skippedRows"`
	MissingColumns []string           `json:"missingColumns,omitempty"`
	ErrorKind      string             `json:"errorKind,omitempty"`
	ErrorMessage   string             `json:"errorMessage,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 id
func (s *Store) CreateImportLog(role model.ScheduleRole, filename, filePath string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (role, filename, file_path, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(role), filename, filePath, fileSize, fileHash, ImportProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 记录导入成功
func (s *Store) FinishImportLog(id int64, sch *model.Schedule) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			schedule_id = ?,
			task_count = ?,
			skipped_rows = ?,
			missing_columns = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ImportSuccess, sch.ID, sch.Len(), sch.SkippedRows, joinColumns(sch.MissingColumns), id)
	if err != nil {
		return fmt.Errorf("failed to finish import log: %w", err)
	}
	return nil
}

// FailImportLog 记录导入失败
func (s *Store) FailImportLog(id int64, kind, message string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			error_kind = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ImportFailed, kind, message, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 按时间倒序列出导入历史，limit <= 0 时不限制
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	query := `
		SELECT id, role, filename, file_path, file_size, file_hash, status, schedule_id,
			task_count, skipped_rows, missing_columns, error_kind, error_message,
			created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		var (
			it        ImportLog
			role      string
			missing   string
			completed sql.NullTime
		)
		if err := rows.Scan(
			&it.ID, &role, &it.Filename, &it.FilePath, &it.FileSize, &it.FileHash, &it.Status, &it.ScheduleID,
			&it.TaskCount, &it.SkippedRows, &missing, &it.ErrorKind, &it.ErrorMessage,
			&it.CreatedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		it.Role = model.ScheduleRole(role)
		it.MissingColumns = splitColumns(missing)
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}

// LastImport 最近一次导入，没有记录时返回 nil
func (s *Store) LastImport() (*ImportLog, error) {
	logs, err := s.ListImportLogs(1)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ",")
}

func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
