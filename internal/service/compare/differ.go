package compare

import (
	"sort"
	"time"

	"pusula/internal/model"
)

const (
	// DefaultSlackThreshold 风险关注的浮时上限（天）
	DefaultSlackThreshold = 30.0
	// DefaultLimit 每个风险视图默认保留的行数
	DefaultLimit = 10
)

// Options 比较选项
type Options struct {
	Now            time.Time // 参考时间，由调用方每次生成报告时采样一次
	SlackThreshold float64
	Limit          int  // <= 0 表示不截断
	DueOnly        bool // 仅保留基线日期早于 Now 的延误
	LeavesOnly     bool // 当前计划带汇总列时只比较叶子任务
}

// DefaultOptions 默认选项
func DefaultOptions(now time.Time) Options {
	return Options{
		Now:            now,
		SlackThreshold: DefaultSlackThreshold,
		Limit:          DefaultLimit,
		LeavesOnly:     true,
	}
}

// Compare 按标识内连接当前计划与基线计划，计算差值并划分风险视图
//
// 只在一侧出现的任务不参与比较。连接结果为空时 NoMatches 为 true，
// 与“没有风险”的结果可以区分。
func Compare(current, baseline *model.Schedule, opts Options) *model.Comparison {
	out := &model.Comparison{ReferenceTime: opts.Now}
	if current != nil {
		out.CurrentID = current.ID
	}
	if baseline != nil {
		out.BaselineID = baseline.ID
	}
	if current == nil || baseline == nil {
		out.NoMatches = true
		return out
	}

	base := make(map[string]*model.Task, len(baseline.Tasks))
	for _, t := range baseline.Tasks {
		if _, dup := base[t.ID]; !dup {
			base[t.ID] = t
		}
	}

	leavesOnly := opts.LeavesOnly && current.HasSummaryColumn
	matched := make(map[string]struct{}, len(current.Tasks))
	for _, cur := range current.Tasks {
		b, ok := base[cur.ID]
		if !ok {
			continue
		}
		if _, dup := matched[cur.ID]; dup {
			continue
		}
		matched[cur.ID] = struct{}{}
		out.Matched++

		if leavesOnly && cur.IsSummary {
			continue
		}
		out.Rows = append(out.Rows, buildRow(cur, b))
	}
	out.NoMatches = out.Matched == 0

	out.Views = buildViews(out.Rows, opts)
	return out
}

func buildRow(cur, base *model.Task) model.ComparisonRow {
	return model.ComparisonRow{
		ID:                cur.ID,
		Name:              cur.Name,
		Current:           cur,
		Baseline:          base,
		StartDelayDays:    dateDelta(base.PlannedStart, cur.PlannedStart),
		FinishDelayDays:   dateDelta(base.PlannedFinish, cur.PlannedFinish),
		DurationDeltaDays: base.DurationDays - cur.DurationDays,
		SlackDeltaDays:    base.TotalSlackDays - cur.TotalSlackDays,
	}
}

func dateDelta(base, cur *time.Time) *float64 {
	if base == nil || cur == nil {
		return nil
	}
	d := model.DaysDelta(*base, *cur)
	return &d
}

func buildViews(rows []model.ComparisonRow, opts Options) model.RiskViews {
	var v model.RiskViews

	due := func(d *time.Time) bool {
		if !opts.DueOnly {
			return true
		}
		return d != nil && d.Before(opts.Now)
	}

	for _, r := range rows {
		cur := r.Current
		if cur.Finished() {
			continue
		}

		if positive(r.StartDelayDays) && !cur.Started() && due(r.Baseline.PlannedStart) {
			v.StartDelayed = append(v.StartDelayed, r)
		}
		if positive(r.FinishDelayDays) && due(r.Baseline.PlannedFinish) {
			v.FinishDelayed = append(v.FinishDelayed, r)
		}
		nearCritical := cur.TotalSlackDays <= opts.SlackThreshold
		if r.DurationDeltaDays > 0 && nearCritical {
			v.Compressed = append(v.Compressed, r)
		}
		if r.SlackDeltaDays > 0 && nearCritical {
			v.Worsening = append(v.Worsening, r)
		}
		if r.Baseline.TotalSlackDays > 0 && cur.TotalSlackDays <= 0 {
			v.NewlyCritical = append(v.NewlyCritical, r)
		}
	}

	sortDesc(v.StartDelayed, func(r model.ComparisonRow) float64 { return *r.StartDelayDays })
	sortDesc(v.FinishDelayed, func(r model.ComparisonRow) float64 { return *r.FinishDelayDays })
	sortDesc(v.Compressed, func(r model.ComparisonRow) float64 { return r.DurationDeltaDays })
	sortDesc(v.Worsening, func(r model.ComparisonRow) float64 { return r.SlackDeltaDays })
	sort.SliceStable(v.NewlyCritical, func(i, j int) bool {
		return v.NewlyCritical[i].Current.TotalSlackDays < v.NewlyCritical[j].Current.TotalSlackDays
	})

	v.StartDelayed = capRows(v.StartDelayed, opts.Limit)
	v.FinishDelayed = capRows(v.FinishDelayed, opts.Limit)
	v.Compressed = capRows(v.Compressed, opts.Limit)
	v.Worsening = capRows(v.Worsening, opts.Limit)
	v.NewlyCritical = capRows(v.NewlyCritical, opts.Limit)
	return v
}

func positive(d *float64) bool {
	return d != nil && *d > 0
}

func sortDesc(rows []model.ComparisonRow, key func(model.ComparisonRow) float64) {
	sort.SliceStable(rows, func(i, j int) bool {
		return key(rows[i]) > key(rows[j])
	})
}

func capRows(rows []model.ComparisonRow, limit int) []model.ComparisonRow {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
