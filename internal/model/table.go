package model

// Table 原始表格数据（CSV 或 Excel 中识别出的计划工作表）
//
// 单元格取值为 nil（空）、string、float64（Excel 数值单元格）或 time.Time。
type Table struct {
	Source string   `json:"source"` // 文件名
	Sheet  string   `json:"sheet"`  // 工作表名（CSV 为空）
	Header []string `json:"header"`
	Rows   [][]any  `json:"-"`

	HeaderRow int `json:"headerRow"` // 表头所在行号（从 1 开始），数据从下一行开始
}

// RowNumber 第 i 条数据行在源文件中的行号
func (t *Table) RowNumber(i int) int {
	header := t.HeaderRow
	if header <= 0 {
		header = 1
	}
	return header + 1 + i
}

// Cell 按列索引取值，越界返回 nil
func (t *Table) Cell(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}
