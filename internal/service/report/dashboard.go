package report

import (
	"sort"
	"time"

	"pusula/internal/model"
)

// Dashboard 项目总览
type Dashboard struct {
	SourceName    string                   `json:"sourceName"`
	TotalDays     int                      `json:"totalDays"`
	ElapsedDays   int                      `json:"elapsedDays"`
	Progress      float64                  `json:"progress"` // 0-100
	ProjectStart  *time.Time               `json:"projectStart"`
	ProjectFinish *time.Time               `json:"projectFinish"`
	StatusCounts  map[model.TaskStatus]int `json:"statusCounts"`
	StartRisks    []*model.Task            `json:"startRisks"`
	FinishRisks   []*model.Task            `json:"finishRisks"`
	Horizon       time.Time                `json:"horizon"`
}

// BuildDashboard 计算 KPI 与本周开始/完成风险
//
// 周风险只看叶子任务：尚未实际开始（完成）、计划开始（完成）不晚于
// Now+前瞻天数且浮时不超过阈值，按日期升序，截断到 Limit。
func BuildDashboard(s *model.Schedule, opts Options) *Dashboard {
	d := &Dashboard{
		SourceName:    s.SourceName,
		TotalDays:     s.TotalDays(),
		ElapsedDays:   s.ElapsedDays(opts.Now),
		Progress:      s.Progress(opts.SummaryTaskID),
		ProjectStart:  s.ProjectStart(),
		ProjectFinish: s.ProjectFinish(),
		StatusCounts:  s.StatusCounts(),
		StartRisks:    []*model.Task{},
		FinishRisks:   []*model.Task{},
		Horizon:       opts.horizon(),
	}

	for _, t := range s.Leaves() {
		if t.TotalSlackDays > opts.SlackThreshold {
			continue
		}
		if !t.Started() && dueBy(t.PlannedStart, d.Horizon) {
			d.StartRisks = append(d.StartRisks, t)
		}
		if !t.Finished() && dueBy(t.PlannedFinish, d.Horizon) {
			d.FinishRisks = append(d.FinishRisks, t)
		}
	}

	startAsc := byDateAsc(func(t *model.Task) *time.Time { return t.PlannedStart })
	finishAsc := byDateAsc(func(t *model.Task) *time.Time { return t.PlannedFinish })
	sort.SliceStable(d.StartRisks, func(i, j int) bool { return startAsc(d.StartRisks[i], d.StartRisks[j]) })
	sort.SliceStable(d.FinishRisks, func(i, j int) bool { return finishAsc(d.FinishRisks[i], d.FinishRisks[j]) })

	d.StartRisks = capTasks(d.StartRisks, opts.Limit)
	d.FinishRisks = capTasks(d.FinishRisks, opts.Limit)
	return d
}

func dueBy(date *time.Time, horizon time.Time) bool {
	return date != nil && !date.After(horizon)
}
