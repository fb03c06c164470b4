package report

import (
	"sort"
	"time"

	"pusula/internal/model"
	"pusula/internal/util"
)

// TimelineBar 时间轴上的一根横条
type TimelineBar struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	Finish      time.Time `json:"finish"`
	Days        int       `json:"days"`
	DoneDays    float64   `json:"doneDays"`
	Percent     float64   `json:"percent"` // 0-1
	StartLabel  string    `json:"startLabel"`
	FinishLabel string    `json:"finishLabel"`
}

// Timeline 汇总活动的甘特视图数据
type Timeline struct {
	Bars      []TimelineBar `json:"bars"`
	Today     time.Time     `json:"today"`
	ShadeFrom *time.Time    `json:"shadeFrom,omitempty"` // 已过去区间的起点（最早开始前 30 天）
	Message   string        `json:"message,omitempty"`
}

// BuildTimeline 汇总行（无汇总列时取前 30 行）按开始日期降序生成横条
func BuildTimeline(s *model.Schedule, opts Options) *Timeline {
	tl := &Timeline{Bars: []TimelineBar{}, Today: opts.Now}

	var rows []*model.Task
	if s.HasSummaryColumn {
		for _, t := range s.Tasks {
			if t.IsSummary {
				rows = append(rows, t)
			}
		}
	} else {
		rows = capTasks(s.Tasks, TimelineFallbackRows)
	}
	if len(rows) == 0 {
		tl.Message = "Timeline için uygun veri bulunamadı."
		return tl
	}

	rows = append([]*model.Task(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].PlannedStart, rows[j].PlannedStart
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})

	for _, t := range rows {
		if t.PlannedStart == nil || t.PlannedFinish == nil {
			continue
		}
		days := model.DaysBetween(*t.PlannedStart, *t.PlannedFinish)
		if days <= 0 {
			days = 1
		}
		tl.Bars = append(tl.Bars, TimelineBar{
			ID:          t.ID,
			Name:        t.Name,
			Start:       *t.PlannedStart,
			Finish:      *t.PlannedFinish,
			Days:        days,
			DoneDays:    float64(days) * t.PercentComplete,
			Percent:     t.PercentComplete,
			StartLabel:  util.FormatMonthYearTR(t.PlannedStart),
			FinishLabel: util.FormatMonthYearTR(t.PlannedFinish),
		})
		if tl.ShadeFrom == nil || t.PlannedStart.Before(*tl.ShadeFrom) {
			tl.ShadeFrom = t.PlannedStart
		}
	}

	if tl.ShadeFrom != nil {
		from := tl.ShadeFrom.AddDate(0, 0, -30)
		tl.ShadeFrom = &from
	}
	return tl
}
