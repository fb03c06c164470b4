package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pusula/internal/model"
	"pusula/internal/parser"
	"pusula/internal/service/report"
	"pusula/internal/util"
)

// 报告工作簿的工作表名
const (
	SheetSummary    = "Özet"
	SheetTasks      = "Aktiviteler"
	SheetWeekly     = "Haftalık Riskler"
	SheetComparison = "Karşılaştırma"
	SheetRiskViews  = "Risk Görünümleri"
	SheetInsights   = "Analiz"
)

// ReportInput 导出所需的数据；Comparison 与 Insights 可为空
type ReportInput struct {
	Current     *model.Schedule
	Baseline    *model.Schedule
	Dashboard   *report.Dashboard
	Comparison  *model.Comparison
	Insights    *report.Insights
	GeneratedAt time.Time
}

// Exporter 报告工作簿导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 生成报告工作簿
//
// 活动表使用标准列名，导出的文件可以重新作为计划导入。
func (e *Exporter) Export(in ReportInput) (*excelize.File, error) {
	if in.Current == nil {
		return nil, fmt.Errorf("export: current schedule is required")
	}

	f := excelize.NewFile()
	w, err := newSheetWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	f.SetSheetName("Sheet1", SheetSummary)

	steps := []func(ReportInput) error{w.writeSummary, w.writeTasks, w.writeWeekly, w.writeComparison, w.writeInsights}
	for _, step := range steps {
		if err := step(in); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	dateStyle   int
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	dateFmt := "dd.mm.yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("create date style: %w", err)
	}
	return &sheetWriter{f: f, headerStyle: headerStyle, dateStyle: dateStyle}, nil
}

// table 写入表头与数据行，dateCols 为需要日期格式的列（从 1 开始）
func (w *sheetWriter) table(sheet string, startRow int, header []string, rows [][]interface{}, dateCols ...int) error {
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, startRow)
		w.f.SetCellValue(sheet, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, startRow)
	last, _ := excelize.CoordinatesToCellName(len(header), startRow)
	w.f.SetCellStyle(sheet, first, last, w.headerStyle)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, startRow+1+r)
			if err := w.f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}

	if len(rows) > 0 {
		for _, col := range dateCols {
			from, _ := excelize.CoordinatesToCellName(col, startRow+1)
			to, _ := excelize.CoordinatesToCellName(col, startRow+len(rows))
			w.f.SetCellStyle(sheet, from, to, w.dateStyle)
		}
	}
	return nil
}

func (w *sheetWriter) writeSummary(in ReportInput) error {
	d := in.Dashboard
	rows := [][]interface{}{
		{"Güncel plan", in.Current.SourceName},
	}
	if in.Baseline != nil {
		rows = append(rows, []interface{}{"Baseline", in.Baseline.SourceName})
	}
	if !in.GeneratedAt.IsZero() {
		rows = append(rows, []interface{}{"Rapor tarihi", util.FormatDateTR(&in.GeneratedAt)})
	}
	if d != nil {
		rows = append(rows,
			[]interface{}{"Toplam Süre", fmt.Sprintf("%d GÜN", d.TotalDays)},
			[]interface{}{"Geçen Süre", fmt.Sprintf("%d GÜN", d.ElapsedDays)},
			[]interface{}{"İlerleme", util.FormatPercent(d.Progress)},
			[]interface{}{"Proje Başlangıç", util.FormatDateTR(d.ProjectStart)},
			[]interface{}{"Proje Bitiş", util.FormatDateTR(d.ProjectFinish)},
			[]interface{}{"Kritik", d.StatusCounts[model.StatusCritical]},
			[]interface{}{"Tamamlandı", d.StatusCounts[model.StatusCompleted]},
			[]interface{}{"Normal", d.StatusCounts[model.StatusNormal]},
		)
	}
	if err := w.table(SheetSummary, 1, []string{"Gösterge", "Değer"}, rows); err != nil {
		return err
	}
	w.f.SetColWidth(SheetSummary, "A", "A", 22)
	w.f.SetColWidth(SheetSummary, "B", "B", 40)
	return nil
}

func (w *sheetWriter) writeTasks(in ReportInput) error {
	header := make([]string, 0, len(parser.ScheduleFields)+2)
	for _, spec := range parser.ScheduleFields {
		header = append(header, spec.Canonical)
	}
	header = append(header, "Kritik", "Durum")

	rows := make([][]interface{}, 0, len(in.Current.Tasks))
	for _, t := range in.Current.Tasks {
		rows = append(rows, []interface{}{
			t.ID, t.Name,
			dateValue(t.PlannedStart), dateValue(t.PlannedFinish),
			dateValue(t.ActualStart), dateValue(t.ActualFinish),
			t.DurationDays, t.TotalSlackDays, t.PercentComplete,
			yesNo(t.IsSummary), yesNo(t.IsCritical), string(t.Status),
		})
	}
	if err := w.table(SheetTasks, 1, header, rows, 3, 4, 5, 6); err != nil {
		return err
	}
	w.f.SetColWidth(SheetTasks, "B", "B", 40)
	w.f.SetColWidth(SheetTasks, "C", "F", 14)
	return nil
}

func (w *sheetWriter) writeWeekly(in ReportInput) error {
	if in.Dashboard == nil {
		return nil
	}
	header := []string{"Risk", "Kimlik", "Ad", "Tarih", "Bolluk"}
	var rows [][]interface{}
	for _, t := range in.Dashboard.StartRisks {
		rows = append(rows, []interface{}{"Başlangıç", t.ID, t.Name, dateValue(t.PlannedStart), t.TotalSlackDays})
	}
	for _, t := range in.Dashboard.FinishRisks {
		rows = append(rows, []interface{}{"Bitiş", t.ID, t.Name, dateValue(t.PlannedFinish), t.TotalSlackDays})
	}
	if err := w.table(SheetWeekly, 1, header, rows, 4); err != nil {
		return err
	}
	w.f.SetColWidth(SheetWeekly, "C", "C", 40)
	return nil
}

func (w *sheetWriter) writeComparison(in ReportInput) error {
	cmp := in.Comparison
	if cmp == nil {
		return nil
	}

	header := []string{
		"Kimlik", "Ad",
		"Base Baş.", "Güncel Baş.", "Başlangıç Farkı",
		"Base Bit.", "Güncel Bit.", "Bitiş Farkı",
		"Base Süre", "Güncel Süre", "Süre Farkı",
		"Base Bolluk", "Güncel Bolluk", "Bolluk Farkı",
	}
	rows := make([][]interface{}, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		rows = append(rows, comparisonCells(r))
	}
	if err := w.table(SheetComparison, 1, header, rows, 3, 4, 6, 7); err != nil {
		return err
	}
	w.f.SetColWidth(SheetComparison, "B", "B", 40)

	views := []struct {
		label string
		rows  []model.ComparisonRow
	}{
		{"Başlaması Gecikenler", cmp.Views.StartDelayed},
		{"Bitmesi Gecikenler", cmp.Views.FinishDelayed},
		{"Süresi Kısılanlar", cmp.Views.Compressed},
		{"Kritikliği Artanlar", cmp.Views.Worsening},
		{"Yeni Kritikler", cmp.Views.NewlyCritical},
	}
	var viewRows [][]interface{}
	for _, v := range views {
		for _, r := range v.rows {
			viewRows = append(viewRows, append([]interface{}{v.label}, comparisonCells(r)...))
		}
	}
	if cmp.NoMatches {
		viewRows = append(viewRows, []interface{}{"Eşleşen aktivite yok"})
	}
	if err := w.table(SheetRiskViews, 1, append([]string{"Görünüm"}, header...), viewRows, 4, 5, 7, 8); err != nil {
		return err
	}
	w.f.SetColWidth(SheetRiskViews, "A", "A", 22)
	w.f.SetColWidth(SheetRiskViews, "C", "C", 40)
	return nil
}

func comparisonCells(r model.ComparisonRow) []interface{} {
	return []interface{}{
		r.ID, r.Name,
		dateValue(r.Baseline.PlannedStart), dateValue(r.Current.PlannedStart), floatValue(r.StartDelayDays),
		dateValue(r.Baseline.PlannedFinish), dateValue(r.Current.PlannedFinish), floatValue(r.FinishDelayDays),
		r.Baseline.DurationDays, r.Current.DurationDays, r.DurationDeltaDays,
		r.Baseline.TotalSlackDays, r.Current.TotalSlackDays, r.SlackDeltaDays,
	}
}

func (w *sheetWriter) writeInsights(in ReportInput) error {
	if in.Insights == nil {
		return nil
	}
	var rows [][]interface{}
	for _, sec := range in.Insights.Sections {
		for _, line := range sec.Lines {
			rows = append(rows, []interface{}{sec.Title, line})
		}
	}
	if err := w.table(SheetInsights, 1, []string{"Başlık", "Açıklama"}, rows); err != nil {
		return err
	}
	w.f.SetColWidth(SheetInsights, "A", "A", 32)
	w.f.SetColWidth(SheetInsights, "B", "B", 110)
	return nil
}

func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func floatValue(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func yesNo(b bool) string {
	if b {
		return "Evet"
	}
	return "Hayır"
}
