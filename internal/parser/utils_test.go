package parser

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeID_IntegerLikeInputs(t *testing.T) {
	t.Parallel()

	for _, v := range []any{100, int64(100), 100.0, "100", "100.0", " 100 ", "1e2"} {
		if got := NormalizeID(v); got != "100" {
			t.Fatalf("NormalizeID(%#v)=%q, want 100", v, got)
		}
	}
}

func TestNormalizeID_NonNumeric(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" A-12 ":  "A-12",
		"WBS 1.2": "WBS 1.2",
		"NaN":     "NaN",
		"":        "",
	}
	for in, want := range cases {
		if got := NormalizeID(in); got != want {
			t.Fatalf("NormalizeID(%q)=%q, want %q", in, got, want)
		}
	}
	if got := NormalizeID(12.5); got != "12.5" {
		t.Fatalf("NormalizeID(12.5)=%q", got)
	}
	if got := NormalizeID(" 7.25 "); got != "7.25" {
		t.Fatalf("NormalizeID(\" 7.25 \")=%q", got)
	}
	if got := NormalizeID(nil); got != "" {
		t.Fatalf("NormalizeID(nil)=%q", got)
	}
}

func TestParseDate_MissingSentinels(t *testing.T) {
	t.Parallel()

	for _, v := range []any{"Yok", "yok", "NaN", "nat", "NaT", "", "   ", "-", nil} {
		if got := ParseDate(v); got != nil {
			t.Fatalf("ParseDate(%#v)=%v, want nil", v, got)
		}
	}
}

func TestParseDate_TurkishMonths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"15 Ocak 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"3 Şubat 2025 08:00", time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)},
		{"28 Ağustos 2023", time.Date(2023, 8, 28, 0, 0, 0, 0, time.UTC)},
		{"1 Aralık 2024", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"15.01.2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ParseDate(tc.in)
		if got == nil {
			t.Fatalf("ParseDate(%q)=nil", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_NativeAndSerial(t *testing.T) {
	t.Parallel()

	native := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	if got := ParseDate(native); got == nil || !got.Equal(native) {
		t.Fatalf("native time changed: %v", got)
	}
	if got := ParseDate(&native); got == nil || !got.Equal(native) {
		t.Fatalf("native pointer changed: %v", got)
	}
	var empty *time.Time
	for _, v := range []any{time.Time{}, &time.Time{}, empty} {
		if got := ParseDate(v); got != nil {
			t.Fatalf("ParseDate(%#v) = %v, want absent", v, got)
		}
	}

	got := ParseDate(45306.0)
	if got == nil {
		t.Fatalf("serial date not parsed")
	}
	if got.Year() != 2024 || got.Month() != time.January || got.Day() != 15 {
		t.Fatalf("serial 45306 => %v, want 2024-01-15", got)
	}
}

func TestParseDate_GarbageIsAbsent(t *testing.T) {
	t.Parallel()

	for _, v := range []any{"tarih belirsiz ???", "32.13.2024", true} {
		if got := ParseDate(v); got != nil {
			t.Fatalf("ParseDate(%#v)=%v, want nil", v, got)
		}
	}
}

func TestReplaceTurkishMonth_FirstMatchOnly(t *testing.T) {
	t.Parallel()

	if got := ReplaceTurkishMonth("5 Mart 2024 - 9 Nisan 2024"); got != "5 March 2024 - 9 Nisan 2024" {
		t.Fatalf("unexpected replacement: %q", got)
	}
}

func TestParseDuration_Total(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
	}{
		{"45g", 45},
		{"10 gün", 10},
		{"10 GÜN", 10},
		{"3day", 3},
		{"5 days?", 5},
		{"-5 g", -5},
		{"2,5 gün", 2.5},
		{"0 g", 0},
		{12.0, 12},
		{7, 7},
		{"abc", 0},
		{"", 0},
		{"nan", 0},
		{nil, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tc := range cases {
		got := ParseDuration(tc.in)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("ParseDuration(%#v) not finite: %v", tc.in, got)
		}
		if got != tc.want {
			t.Fatalf("ParseDuration(%#v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want float64
	}{
		{0.45, 0.45},
		{"45%", 0.45},
		{45.0, 0.45},
		{"0,5", 0.5},
		{1.0, 1},
		{150.0, 1},
		{-3.0, 0},
		{"yok", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := ParsePercent(tc.in); got != tc.want {
			t.Fatalf("ParsePercent(%#v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFlag(t *testing.T) {
	t.Parallel()

	for _, v := range []any{"Evet", "EVET", "yes", "True", 1.0, true} {
		if !ParseFlag(v) {
			t.Fatalf("ParseFlag(%#v)=false", v)
		}
	}
	for _, v := range []any{"Hayır", "no", "", nil, 0.0} {
		if ParseFlag(v) {
			t.Fatalf("ParseFlag(%#v)=true", v)
		}
	}
}
