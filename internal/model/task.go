package model

import "time"

// TaskStatus 任务状态（由关键性/实际完成派生，不从文件读取）
type TaskStatus string

const (
	StatusCritical  TaskStatus = "Critical"
	StatusCompleted TaskStatus = "Completed"
	StatusNormal    TaskStatus = "Normal"
)

// Task 计划中的一行活动
type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Row  int    `json:"row"` // 源文件行号（含表头，从 1 开始）

	PlannedStart  *time.Time `json:"plannedStart"`
	PlannedFinish *time.Time `json:"plannedFinish"`
	ActualStart   *time.Time `json:"actualStart"`
	ActualFinish  *time.Time `json:"actualFinish"`

	DurationDays    float64 `json:"durationDays"`
	TotalSlackDays  float64 `json:"totalSlackDays"`
	PercentComplete float64 `json:"percentComplete"` // 0-1
	IsSummary       bool    `json:"isSummary"`

	// 派生字段
	IsCritical bool       `json:"isCritical"`
	Status     TaskStatus `json:"status"`
}

// Started 是否已实际开始
func (t *Task) Started() bool {
	return t.ActualStart != nil
}

// Finished 是否已实际完成
func (t *Task) Finished() bool {
	return t.ActualFinish != nil
}

// Derive 根据浮时与实际完成日期计算 IsCritical / Status
func (t *Task) Derive() {
	t.IsCritical = t.TotalSlackDays <= 0 && !t.Finished()
	switch {
	case t.IsCritical:
		t.Status = StatusCritical
	case t.Finished():
		t.Status = StatusCompleted
	default:
		t.Status = StatusNormal
	}
}
