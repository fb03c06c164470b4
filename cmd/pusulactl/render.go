package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pusula/internal/model"
	"pusula/internal/service/report"
	"pusula/internal/util"
)

const nameWidth = 35

func renderDashboard(w io.Writer, d *report.Dashboard) {
	fmt.Fprintf(w, "%s %s\n\n", util.BoldCyan("Program:"), d.SourceName)
	fmt.Fprintf(w, "  Toplam Süre  %s\n", util.Bold(fmt.Sprintf("%d GÜN", d.TotalDays)))
	fmt.Fprintf(w, "  Geçen Süre   %s\n", util.Bold(fmt.Sprintf("%d GÜN", d.ElapsedDays)))
	fmt.Fprintf(w, "  İlerleme     %s\n", util.Bold(util.FormatPercent(d.Progress)))
	fmt.Fprintf(w, "  Durum        %s %d  %s %d  %s %d\n\n",
		util.StatusColor(string(model.StatusCritical)), d.StatusCounts[model.StatusCritical],
		util.StatusColor(string(model.StatusCompleted)), d.StatusCounts[model.StatusCompleted],
		util.StatusColor(string(model.StatusNormal)), d.StatusCounts[model.StatusNormal])

	renderTaskRisks(w, "HAFTALIK BAŞLANGIÇ RİSKİ", d.StartRisks, func(t *model.Task) string { return util.FormatDateTR(t.PlannedStart) })
	renderTaskRisks(w, "HAFTALIK BİTİŞ RİSKİ", d.FinishRisks, func(t *model.Task) string { return util.FormatDateTR(t.PlannedFinish) })
}

func renderTaskRisks(w io.Writer, title string, tasks []*model.Task, date func(*model.Task) string) {
	fmt.Fprintln(w, util.BoldYellow(title))
	if len(tasks) == 0 {
		fmt.Fprintf(w, "  %s\n\n", util.Dim("Riskli aktivite yok."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range tasks {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%v\n", t.ID, truncate(t.Name, nameWidth), date(t), t.TotalSlackDays)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderInsights(w io.Writer, ins *report.Insights) {
	fmt.Fprintln(w, util.BoldCyan(ins.Title))
	for _, sec := range ins.Sections {
		fmt.Fprintf(w, "\n%s\n", util.Bold(sec.Title))
		for _, line := range sec.Lines {
			fmt.Fprintf(w, "  • %s\n", line)
		}
	}
}

func renderComparison(w io.Writer, cmp *model.Comparison) {
	if cmp.NoMatches {
		fmt.Fprintln(w, util.BoldRed("Güncel plan ile baseline arasında eşleşen aktivite bulunamadı."))
		return
	}
	fmt.Fprintf(w, "%s %d eşleşen aktivite\n\n", util.BoldCyan("Karşılaştırma:"), cmp.Matched)
	if cmp.Clean() {
		fmt.Fprintln(w, util.BoldGreen("Kriterlere uygun veri yok."))
		return
	}

	dayDelta := func(d *float64) string {
		if d == nil {
			return "-"
		}
		return util.FormatDays(*d)
	}

	renderRows(w, "Başlaması Gecikenler", cmp.Views.StartDelayed, func(r model.ComparisonRow) string {
		return fmt.Sprintf("%s → %s\t+%s", util.FormatDateTR(r.Baseline.PlannedStart), util.FormatDateTR(r.Current.PlannedStart), dayDelta(r.StartDelayDays))
	})
	renderRows(w, "Bitmesi Gecikenler", cmp.Views.FinishDelayed, func(r model.ComparisonRow) string {
		return fmt.Sprintf("%s → %s\t+%s", util.FormatDateTR(r.Baseline.PlannedFinish), util.FormatDateTR(r.Current.PlannedFinish), dayDelta(r.FinishDelayDays))
	})
	renderRows(w, "Süresi Kısılanlar", cmp.Views.Compressed, func(r model.ComparisonRow) string {
		return fmt.Sprintf("%v → %v\t-%s", r.Baseline.DurationDays, r.Current.DurationDays, util.FormatDays(r.DurationDeltaDays))
	})
	renderRows(w, "Kritikliği Artanlar", cmp.Views.Worsening, func(r model.ComparisonRow) string {
		return fmt.Sprintf("%v → %v\t-%s", r.Baseline.TotalSlackDays, r.Current.TotalSlackDays, util.FormatDays(r.SlackDeltaDays))
	})
	renderRows(w, "Yeni Kritikler", cmp.Views.NewlyCritical, func(r model.ComparisonRow) string {
		return fmt.Sprintf("%v → %v\t", r.Baseline.TotalSlackDays, r.Current.TotalSlackDays)
	})
}

func renderRows(w io.Writer, title string, rows []model.ComparisonRow, detail func(model.ComparisonRow) string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", util.BoldYellow(title), len(rows))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.ID, truncate(r.Name, nameWidth), detail(r))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
