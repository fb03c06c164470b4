package excel_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pusula/internal/model"
	"pusula/internal/service/compare"
	"pusula/internal/service/excel"
	"pusula/internal/service/report"
	"pusula/internal/service/schedule"
)

func exportFixture() excel.ReportInput {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	proj := &model.Task{ID: "1", Name: "Proje", PlannedStart: d(-60), PlannedFinish: d(120), DurationDays: 180, PercentComplete: 0.3, IsSummary: true}
	dig := &model.Task{ID: "2", Name: "Kazı", PlannedStart: d(2), PlannedFinish: d(6), DurationDays: 4, TotalSlackDays: -2}
	done := &model.Task{ID: "3", Name: "Mobilizasyon", PlannedStart: d(-60), PlannedFinish: d(-50), ActualStart: d(-60), ActualFinish: d(-49), DurationDays: 10}
	for _, t := range []*model.Task{proj, dig, done} {
		t.Derive()
	}
	cur := &model.Schedule{ID: "cur", SourceName: "guncel.xlsx", Tasks: []*model.Task{proj, dig, done}, HasSummaryColumn: true}

	bdig := &model.Task{ID: "2", Name: "Kazı", PlannedStart: d(-5), PlannedFinish: d(1), DurationDays: 6, TotalSlackDays: 8}
	bdig.Derive()
	base := &model.Schedule{ID: "base", SourceName: "base.xlsx", Tasks: []*model.Task{bdig}}

	ropts := report.DefaultOptions(now)
	cmp := compare.Compare(cur, base, compare.DefaultOptions(now))
	return excel.ReportInput{
		Current:     cur,
		Baseline:    base,
		Dashboard:   report.BuildDashboard(cur, ropts),
		Comparison:  cmp,
		Insights:    report.BuildInsights(cur, cmp, ropts),
		GeneratedAt: now,
	}
}

func TestExport_Sheets(t *testing.T) {
	t.Parallel()

	f, err := excel.NewExporter().Export(exportFixture())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	want := []string{excel.SheetSummary, excel.SheetTasks, excel.SheetWeekly, excel.SheetComparison, excel.SheetRiskViews, excel.SheetInsights}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}

	if v, _ := f.GetCellValue(excel.SheetSummary, "B1"); v != "Değer" {
		t.Errorf("summary B1 = %q", v)
	}
	if v, _ := f.GetCellValue(excel.SheetSummary, "B2"); v != "guncel.xlsx" {
		t.Errorf("summary B2 = %q", v)
	}
	if v, _ := f.GetCellValue(excel.SheetSummary, "B3"); v != "base.xlsx" {
		t.Errorf("summary B3 = %q", v)
	}
	if v, _ := f.GetCellValue(excel.SheetWeekly, "B2"); v != "2" {
		t.Errorf("weekly B2 = %q", v)
	}
	rows, _ := f.GetRows(excel.SheetRiskViews)
	if len(rows) < 2 {
		t.Fatalf("risk views rows = %d", len(rows))
	}
}

func TestExport_WithoutBaseline(t *testing.T) {
	t.Parallel()

	in := exportFixture()
	in.Baseline, in.Comparison = nil, nil

	f, err := excel.NewExporter().Export(in)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		if name == excel.SheetComparison || name == excel.SheetRiskViews {
			t.Fatalf("unexpected sheet %s without baseline", name)
		}
	}
}

func TestExport_RequiresCurrent(t *testing.T) {
	t.Parallel()
	if _, err := excel.NewExporter().Export(excel.ReportInput{}); err == nil {
		t.Fatal("expected error without current schedule")
	}
}

func TestExport_TasksSheetReimports(t *testing.T) {
	t.Parallel()

	in := exportFixture()
	f, err := excel.NewExporter().Export(in)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	path := filepath.Join(t.TempDir(), "exports", "rapor.xlsx")
	if err := excel.SaveWorkbook(f, path); err != nil {
		t.Fatalf("SaveWorkbook: %v", err)
	}
	f.Close()
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	sch, err := schedule.NewLoader("").LoadFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sch.Len() != len(in.Current.Tasks) || !sch.HasSummaryColumn {
		t.Fatalf("reloaded %d tasks (summary col %v)", sch.Len(), sch.HasSummaryColumn)
	}
	for i, want := range in.Current.Tasks {
		got := sch.Tasks[i]
		if got.ID != want.ID || got.Status != want.Status || got.IsSummary != want.IsSummary {
			t.Errorf("task %d = %+v, want %+v", i, got, want)
		}
		if (got.PlannedStart == nil) != (want.PlannedStart == nil) ||
			(got.PlannedStart != nil && !got.PlannedStart.Equal(*want.PlannedStart)) {
			t.Errorf("task %s start = %v, want %v", want.ID, got.PlannedStart, want.PlannedStart)
		}
	}
}
