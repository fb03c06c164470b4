package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pusula/internal/model"
)

// ErrScheduleNotFound 数据库中没有该计划
var ErrScheduleNotFound = errors.New("schedule not found")

const timeLayout = time.RFC3339Nano

// SaveSchedule 保存计划及其全部任务（同 id 覆盖）
func (s *Store) SaveSchedule(sch *model.Schedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSchedule(tx, sch.ID); err != nil {
		return fmt.Errorf("failed to replace schedule: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO schedules (id, source_name, loaded_at, has_summary_column, missing_columns, skipped_rows)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sch.ID, sch.SourceName, sch.LoadedAt.UTC().Format(timeLayout), sch.HasSummaryColumn,
		joinColumns(sch.MissingColumns), sch.SkippedRows); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO schedule_tasks (
			schedule_id, seq, task_id, name, row_number,
			planned_start, planned_finish, actual_start, actual_finish,
			duration_days, total_slack_days, percent_complete, is_summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range sch.Tasks {
		if _, err := stmt.Exec(
			sch.ID, i, t.ID, t.Name, t.Row,
			nullTime(t.PlannedStart), nullTime(t.PlannedFinish), nullTime(t.ActualStart), nullTime(t.ActualFinish),
			t.DurationDays, t.TotalSlackDays, t.PercentComplete, t.IsSummary,
		); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSchedule 读取计划，派生列重新计算
func (s *Store) LoadSchedule(id string) (*model.Schedule, error) {
	var (
		sch      model.Schedule
		loadedAt string
		missing  string
	)
	err := s.db.QueryRow(`
		SELECT id, source_name, loaded_at, has_summary_column, missing_columns, skipped_rows
		FROM schedules WHERE id = ?
	`, id).Scan(&sch.ID, &sch.SourceName, &loadedAt, &sch.HasSummaryColumn, &missing, &sch.SkippedRows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("query schedule failed: %w", err)
	}
	if t, err := time.Parse(timeLayout, loadedAt); err == nil {
		sch.LoadedAt = t
	}
	sch.MissingColumns = splitColumns(missing)

	rows, err := s.db.Query(`
		SELECT task_id, name, row_number,
			planned_start, planned_finish, actual_start, actual_finish,
			duration_days, total_slack_days, percent_complete, is_summary
		FROM schedule_tasks WHERE schedule_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query schedule tasks failed: %w", err)
	}
	defer rows.Close()

	sch.Tasks = []*model.Task{}
	for rows.Next() {
		var (
			t      model.Task
			ps, pf sql.NullString
			as, af sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Row, &ps, &pf, &as, &af,
			&t.DurationDays, &t.TotalSlackDays, &t.PercentComplete, &t.IsSummary); err != nil {
			return nil, fmt.Errorf("scan schedule task failed: %w", err)
		}
		t.PlannedStart, t.PlannedFinish = parseNullTime(ps), parseNullTime(pf)
		t.ActualStart, t.ActualFinish = parseNullTime(as), parseNullTime(af)
		t.Derive()
		sch.Tasks = append(sch.Tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule tasks failed: %w", err)
	}
	return &sch, nil
}

// DeleteSchedule 删除计划及其任务
func (s *Store) DeleteSchedule(id string) error {
	if err := deleteSchedule(s.db, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func deleteSchedule(db execer, id string) error {
	if _, err := db.Exec("DELETE FROM schedule_tasks WHERE schedule_id = ?", id); err != nil {
		return err
	}
	_, err := db.Exec("DELETE FROM schedules WHERE id = ?", id)
	return err
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(timeLayout), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
