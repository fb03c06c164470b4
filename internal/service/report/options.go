package report

import (
	"time"

	"pusula/internal/model"
	"pusula/internal/service/compare"
)

const (
	// DefaultLookaheadDays 周风险的前瞻天数
	DefaultLookaheadDays = 7
	// TimelineFallbackRows 没有汇总列时时间轴取前 N 行
	TimelineFallbackRows = 30
	// insightSample 每类洞察列出的示例条数
	insightSample = 3
)

// Options 报告视图选项
type Options struct {
	Now            time.Time
	SlackThreshold float64
	Limit          int
	LookaheadDays  int
	SummaryTaskID  string
}

// DefaultOptions 默认选项
func DefaultOptions(now time.Time) Options {
	return Options{
		Now:            now,
		SlackThreshold: compare.DefaultSlackThreshold,
		Limit:          compare.DefaultLimit,
		LookaheadDays:  DefaultLookaheadDays,
		SummaryTaskID:  model.DefaultSummaryTaskID,
	}
}

func (o Options) horizon() time.Time {
	return o.Now.AddDate(0, 0, o.LookaheadDays)
}

func capTasks(tasks []*model.Task, limit int) []*model.Task {
	if limit > 0 && len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}

// byDateAsc 按日期升序稳定排序，nil 排最后
func byDateAsc(date func(*model.Task) *time.Time) func(a, b *model.Task) bool {
	return func(a, b *model.Task) bool {
		da, db := date(a), date(b)
		switch {
		case da == nil:
			return false
		case db == nil:
			return true
		}
		return da.Before(*db)
	}
}
