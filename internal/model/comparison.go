package model

import "time"

// ComparisonRow 当前计划与基线计划按标识连接后的一行
type ComparisonRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Current  *Task  `json:"current"`
	Baseline *Task  `json:"baseline"`

	StartDelayDays    *float64 `json:"startDelayDays"`    // 当前计划开始 - 基线计划开始，正数=推迟
	FinishDelayDays   *float64 `json:"finishDelayDays"`   // 当前计划完成 - 基线计划完成
	DurationDeltaDays float64  `json:"durationDeltaDays"` // 基线工期 - 当前工期，正数=被压缩
	SlackDeltaDays    float64  `json:"slackDeltaDays"`    // 基线浮时 - 当前浮时，正数=浮时减少
}

// RiskViews 比较结果的风险切片（均为 Rows 的过滤/排序子集）
type RiskViews struct {
	StartDelayed  []ComparisonRow `json:"startDelayed"`
	FinishDelayed []ComparisonRow `json:"finishDelayed"`
	Compressed    []ComparisonRow `json:"compressed"`
	Worsening     []ComparisonRow `json:"worsening"`
	NewlyCritical []ComparisonRow `json:"newlyCritical"`
}

// Empty 所有风险切片均为空
func (v RiskViews) Empty() bool {
	return len(v.StartDelayed) == 0 &&
		len(v.FinishDelayed) == 0 &&
		len(v.Compressed) == 0 &&
		len(v.Worsening) == 0 &&
		len(v.NewlyCritical) == 0
}

// Comparison 基线比较结果，不持久化，每次请求完整重算
type Comparison struct {
	CurrentID     string          `json:"currentId"`
	BaselineID    string          `json:"baselineId"`
	ReferenceTime time.Time       `json:"referenceTime"`
	Matched       int             `json:"matched"`   // 连接命中的行数（汇总行过滤前）
	NoMatches     bool            `json:"noMatches"` // 两份计划没有任何共同标识
	Rows          []ComparisonRow `json:"rows"`
	Views         RiskViews       `json:"views"`
}

// Clean 有匹配且没有任何风险
func (c *Comparison) Clean() bool {
	return !c.NoMatches && c.Views.Empty()
}
