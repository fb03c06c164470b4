package parser

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeColumnName 规范化列名：仅去除首尾空白
// 下划线与大小写保持原样，别名匹配由 FieldMapper 负责
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.TrimSpace(name)
}

// CellText 将单元格值转为展示文本
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	default:
		return ""
	}
}

// toFloat 尝试将数值类型单元格转为 float64
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
