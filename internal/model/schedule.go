package model

import (
	"math"
	"time"
)

// DefaultSummaryTaskID 项目汇总行的默认标识
const DefaultSummaryTaskID = "1"

// Schedule 从单个文件加载的完整计划
type Schedule struct {
	ID         string    `json:"id"`
	SourceName string    `json:"sourceName"`
	LoadedAt   time.Time `json:"loadedAt"`
	Tasks      []*Task   `json:"tasks"`

	HasSummaryColumn bool     `json:"hasSummaryColumn"`
	MissingColumns   []string `json:"missingColumns,omitempty"`
	SkippedRows      int      `json:"skippedRows"`
}

// Len 任务数
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tasks)
}

// Find 按标识查找任务
func (s *Schedule) Find(id string) *Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Leaves 非汇总行；文件没有汇总列时返回全部任务
func (s *Schedule) Leaves() []*Task {
	if !s.HasSummaryColumn {
		return s.Tasks
	}
	out := make([]*Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if !t.IsSummary {
			out = append(out, t)
		}
	}
	return out
}

// ProjectStart 最早计划开始日期
func (s *Schedule) ProjectStart() *time.Time {
	var min *time.Time
	for _, t := range s.Tasks {
		if t.PlannedStart != nil && (min == nil || t.PlannedStart.Before(*min)) {
			min = t.PlannedStart
		}
	}
	return min
}

// ProjectFinish 最晚计划完成日期
func (s *Schedule) ProjectFinish() *time.Time {
	var max *time.Time
	for _, t := range s.Tasks {
		if t.PlannedFinish != nil && (max == nil || t.PlannedFinish.After(*max)) {
			max = t.PlannedFinish
		}
	}
	return max
}

// TotalDays 项目总工期（天），起止任一缺失时为 0
func (s *Schedule) TotalDays() int {
	start, finish := s.ProjectStart(), s.ProjectFinish()
	if start == nil || finish == nil {
		return 0
	}
	return DaysBetween(*start, *finish)
}

// ElapsedDays 自项目开始至 now 已过天数，不小于 0
func (s *Schedule) ElapsedDays(now time.Time) int {
	start, finish := s.ProjectStart(), s.ProjectFinish()
	if start == nil || finish == nil {
		return 0
	}
	if d := DaysBetween(*start, now); d > 0 {
		return d
	}
	return 0
}

// Progress 项目完成百分比（0-100）
// 优先取汇总行（summaryID），否则取所有行的平均值
func (s *Schedule) Progress(summaryID string) float64 {
	if len(s.Tasks) == 0 {
		return 0
	}
	if summaryID == "" {
		summaryID = DefaultSummaryTaskID
	}
	if t := s.Find(summaryID); t != nil {
		return t.PercentComplete * 100
	}
	sum := 0.0
	for _, t := range s.Tasks {
		sum += t.PercentComplete
	}
	return sum / float64(len(s.Tasks)) * 100
}

// StatusCounts 各状态任务数
func (s *Schedule) StatusCounts() map[TaskStatus]int {
	out := map[TaskStatus]int{
		StatusCritical:  0,
		StatusCompleted: 0,
		StatusNormal:    0,
	}
	for _, t := range s.Tasks {
		out[t.Status]++
	}
	return out
}

// DaysBetween 两个时间点之间的整天数（向下取整，可为负）
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// DaysDelta 两个时间点之间的天数（带小数）
func DaysDelta(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// ScheduleRole 计划在会话中的角色
type ScheduleRole string

const (
	RoleCurrent  ScheduleRole = "current"
	RoleBaseline ScheduleRole = "baseline"
)

// Valid 是否为已知角色
func (r ScheduleRole) Valid() bool {
	return r == RoleCurrent || r == RoleBaseline
}
