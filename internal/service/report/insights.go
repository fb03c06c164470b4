package report

import (
	"fmt"
	"sort"
	"time"

	"pusula/internal/model"
	"pusula/internal/util"
)

// InsightKind 洞察分类
type InsightKind string

const (
	InsightCritical   InsightKind = "critical"
	InsightDelay      InsightKind = "delay"
	InsightComparison InsightKind = "comparison"
)

// InsightSection 一组同类洞察
type InsightSection struct {
	Kind  InsightKind `json:"kind"`
	Title string      `json:"title"`
	Lines []string    `json:"lines"`
}

// Insights 项目分析报告
type Insights struct {
	Title    string           `json:"title"`
	Sections []InsightSection `json:"sections"`
}

// BuildInsights 生成关键线路、当前延误与基线比较三类叙述
//
// cmp 为 nil 时不输出比较段落；没有当前延误时省略延误段落。
func BuildInsights(s *model.Schedule, cmp *model.Comparison, opts Options) *Insights {
	out := &Insights{Title: "Proje Analiz Raporu"}
	leaves := s.Leaves()

	out.Sections = append(out.Sections, criticalSection(leaves))
	if sec, ok := delaySection(leaves, opts.Now); ok {
		out.Sections = append(out.Sections, sec)
	}
	if cmp != nil {
		out.Sections = append(out.Sections, comparisonSection(cmp))
	}
	return out
}

func criticalSection(tasks []*model.Task) InsightSection {
	sec := InsightSection{Kind: InsightCritical, Title: "Kritik Hat Analizi"}

	var crit []*model.Task
	for _, t := range tasks {
		if t.IsCritical {
			crit = append(crit, t)
		}
	}
	if len(crit) == 0 {
		sec.Lines = []string{"Projede şu an kritik hat üzerinde aktif (tamamlanmamış) bir aktivite bulunmamaktadır."}
		return sec
	}

	sec.Lines = append(sec.Lines, fmt.Sprintf(
		"Proje genelinde bitiş tarihini doğrudan etkileyen %d adet aktif kritik aktivite bulunmaktadır.", len(crit)))

	startAsc := byDateAsc(func(t *model.Task) *time.Time { return t.PlannedStart })
	sort.SliceStable(crit, func(i, j int) bool { return startAsc(crit[i], crit[j]) })
	for _, t := range capTasks(crit, insightSample) {
		sec.Lines = append(sec.Lines, fmt.Sprintf(
			"%s aktivitesi şu an kritik yoldadır ve %s tarihinde bitmesi planlanmaktadır.",
			t.Name, util.FormatDateTR(t.PlannedFinish)))
	}
	return sec
}

func delaySection(tasks []*model.Task, now time.Time) (InsightSection, bool) {
	var late []*model.Task
	for _, t := range tasks {
		if !t.Finished() && t.PlannedFinish != nil && t.PlannedFinish.Before(now) {
			late = append(late, t)
		}
	}
	if len(late) == 0 {
		return InsightSection{}, false
	}

	sec := InsightSection{Kind: InsightDelay, Title: "Mevcut Gecikmeler"}
	sec.Lines = append(sec.Lines, fmt.Sprintf(
		"Planlanan bitiş tarihi geçmiş olmasına rağmen henüz tamamlanmamış %d aktivite tespit edilmiştir.", len(late)))
	for _, t := range capTasks(late, insightSample) {
		sec.Lines = append(sec.Lines, fmt.Sprintf(
			"%s aktivitesinin %d gün önce bitmesi gerekiyordu.",
			t.Name, model.DaysBetween(*t.PlannedFinish, now)))
	}
	return sec, true
}

func comparisonSection(cmp *model.Comparison) InsightSection {
	sec := InsightSection{Kind: InsightComparison, Title: "Baseline Karşılaştırma Analizi"}

	if cmp.NoMatches {
		sec.Lines = []string{"Güncel plan ile baseline arasında eşleşen aktivite bulunamadı; kimlik sütunlarını kontrol edin."}
		return sec
	}

	for _, r := range capRows(cmp.Views.NewlyCritical, insightSample) {
		sec.Lines = append(sec.Lines, fmt.Sprintf(
			"%s aktivitesi önceki planda kritik değilken, şu an kritik yola girmiştir.", r.Name))
	}
	for _, r := range capRows(cmp.Views.Compressed, insightSample) {
		sec.Lines = append(sec.Lines, fmt.Sprintf(
			"%s aktivitesinin süresi %d gün kısaltılmıştır.", r.Name, int(r.DurationDeltaDays)))
	}
	if len(cmp.Views.StartDelayed) > 0 {
		r := cmp.Views.StartDelayed[0]
		sec.Lines = append(sec.Lines, fmt.Sprintf(
			"%s aktivitesinin başlaması gerekiyordu (%s) ancak güncel planda %s tarihine ötelenmiştir.",
			r.Name, util.FormatDateTR(r.Baseline.PlannedStart), util.FormatDateTR(r.Current.PlannedStart)))
	}

	if len(sec.Lines) == 0 {
		sec.Lines = []string{"Baseline ile karşılaştırmada dikkat gerektiren bir değişiklik bulunmamaktadır."}
	}
	return sec
}

func capRows(rows []model.ComparisonRow, n int) []model.ComparisonRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
