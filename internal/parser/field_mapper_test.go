package parser

import "testing"

func TestFieldMapper_AliasRenamedToCanonical(t *testing.T) {
	t.Parallel()

	m := NewFieldMapper()
	got := m.Map([]string{" Unique_ID ", "Ad", "Başlangıç ", "Süre"})

	id, ok := got[FieldID]
	if !ok {
		t.Fatalf("identifier not mapped: %v", got)
	}
	if id.ColumnIndex != 0 || id.ColumnName != "Benzersiz_Kimlik" {
		t.Fatalf("unexpected id mapping: %+v", id)
	}
	if got[FieldPlannedStart].ColumnIndex != 2 {
		t.Fatalf("trimmed header not matched: %+v", got[FieldPlannedStart])
	}
	if _, ok := got[FieldActualFinish]; ok {
		t.Fatalf("actual finish should be missing")
	}
}

func TestFieldMapper_CanonicalWinsOverAlias(t *testing.T) {
	t.Parallel()

	got := NewFieldMapper().Map([]string{"Unique_ID", "Benzersiz_Kimlik"})
	if got[FieldID].ColumnIndex != 1 {
		t.Fatalf("canonical column should win, got %+v", got[FieldID])
	}
}

func TestSheetRecognizer_PrefersScheduleSheet(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer()
	notes := r.Recognize("Notlar", []string{"Açıklama", "Ad"})
	plan := r.Recognize("Program", []string{
		"Benzersiz_Kimlik", "Ad", "Başlangıç", "Bitiş", "Süre", "Toplam_Bolluk", "Tamamlanma_Yüzdesi",
	})

	if notes.HasIdentifier {
		t.Fatalf("notes sheet should not have identifier")
	}
	if !plan.HasIdentifier || plan.Confidence <= notes.Confidence {
		t.Fatalf("unexpected scores: plan=%+v notes=%+v", plan, notes)
	}

	best, ok := r.Best([]SheetRecognitionResult{notes, plan})
	if !ok || best.SheetName != "Program" {
		t.Fatalf("best=%+v", best)
	}
}
