package util

import (
	"fmt"
	"math"
	"time"
)

// trMonths 土耳其语月份名，下标 0 对应一月
var trMonths = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthNameTR 月份的土耳其语名称
func MonthNameTR(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return trMonths[m-1]
}

// FormatDateTR 格式化为 "5 Ocak 2024"，nil 输出 "-"
func FormatDateTR(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", t.Day(), MonthNameTR(t.Month()), t.Year())
}

// FormatMonthYearTR 格式化为 "Ocak 2024"，nil 输出空串
func FormatMonthYearTR(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%s %d", MonthNameTR(t.Month()), t.Year())
}

// FormatPercent 百分比（输入为 0-100），土耳其语写法 "%45.5"
func FormatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return fmt.Sprintf("%%%.1f", value)
}

// FormatDays 天数，整数不带小数位
func FormatDays(days float64) string {
	if days == math.Trunc(days) {
		return fmt.Sprintf("%d gün", int(days))
	}
	return fmt.Sprintf("%.1f gün", days)
}
