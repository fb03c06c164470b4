package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// monthName 土耳其语月份与英文月份的对照
type monthName struct {
	Local   string
	English string
}

// turkishMonths 固定顺序：按日历顺序依次匹配，先命中者生效
var turkishMonths = []monthName{
	{"Ocak", "January"},
	{"Şubat", "February"},
	{"Mart", "March"},
	{"Nisan", "April"},
	{"Mayıs", "May"},
	{"Haziran", "June"},
	{"Temmuz", "July"},
	{"Ağustos", "August"},
	{"Eylül", "September"},
	{"Ekim", "October"},
	{"Kasım", "November"},
	{"Aralık", "December"},
}

// missingSentinels 表示“无值”的写法（小写比较）
var missingSentinels = map[string]struct{}{
	"":     {},
	"yok":  {},
	"nan":  {},
	"nat":  {},
	"none": {},
	"null": {},
	"-":    {},
}

// dateLayouts 月份替换后依次尝试的格式（日在前）
var dateLayouts = []string{
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"2.1.06 15:04",
	"2.1.06",
	"2/1/2006 15:04",
	"2/1/2006",
	"2 January 2006 15:04:05",
	"2 January 2006 15:04",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"January 2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// IsMissing 是否为缺失值占位符
func IsMissing(s string) bool {
	_, ok := missingSentinels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ReplaceTurkishMonth 将第一个命中的土耳其语月份名替换为英文
func ReplaceTurkishMonth(s string) string {
	for _, m := range turkishMonths {
		if strings.Contains(s, m.Local) {
			return strings.Replace(s, m.Local, m.English, 1)
		}
	}
	return s
}

// ParseDate 解析日期单元格，无法解析时返回 nil（不报错）
//
// - time.Time 原样返回
// - 数值视为 Excel 序列日期
// - 字符串：缺失占位符 → nil；否则替换土耳其语月份后按通用格式解析
func ParseDate(v any) *time.Time {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return &x
	case *time.Time:
		if x == nil || x.IsZero() {
			return nil
		}
		t := *x
		return &t
	case string:
		return parseDateString(x)
	}

	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return nil
		}
		return &t
	}
	return nil
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return nil
	}
	s = ReplaceTurkishMonth(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseDuration 解析工期/浮时文本（如 "45g"、"10 gün"、"3day"、"-5 g"）
// 数值原样返回；任何解析失败返回 0，结果总是有限数
func ParseDuration(v any) float64 {
	if f, ok := toFloat(v); ok {
		return finiteOrZero(f)
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}

	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	// 估算工期标记，例如 "5 days?"
	s = strings.TrimRight(s, "?")
	s = strings.TrimRightFunc(s, unicode.IsLetter)
	s = normalizeDecimal(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(f)
}

// NormalizeID 规范化任务标识，使 100、"100.0"、" 100 " 比较相等
func NormalizeID(v any) string {
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return CellText(v)
		}
		return formatIDNumber(f)
	}

	s, ok := v.(string)
	if !ok {
		return CellText(v)
	}
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	return formatIDNumber(f)
}

func formatIDNumber(f float64) string {
	if f == 0 {
		f = 0 // -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParsePercent 解析完成百分比，返回 [0,1]
// "45%" 与 45 均视为 0.45；0.45 原样返回
func ParsePercent(v any) float64 {
	var f float64
	if n, ok := toFloat(v); ok {
		f = n
		if f > 1 {
			f /= 100
		}
	} else if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		pct := strings.HasSuffix(s, "%") || strings.HasPrefix(s, "%")
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(s, "%"), "%"))
		n, err := strconv.ParseFloat(normalizeDecimal(s), 64)
		if err != nil {
			return 0
		}
		f = n
		if pct || f > 1 {
			f /= 100
		}
	}

	f = finiteOrZero(f)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// ParseFlag 解析是/否列（Evet/Hayır）
func ParseFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "evet", "e", "yes", "y", "true", "1", "doğru":
			return true
		}
		return false
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return false
}

// normalizeDecimal 兼容小数逗号；同时出现逗号与点时逗号视为千分位
func normalizeDecimal(s string) string {
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.ReplaceAll(s, ",", ".")
	}
	return s
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
