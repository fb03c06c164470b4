package parser

// Field 计划表中的逻辑字段
type Field string

const (
	FieldID              Field = "id"
	FieldName            Field = "name"
	FieldPlannedStart    Field = "planned_start"
	FieldPlannedFinish   Field = "planned_finish"
	FieldActualStart     Field = "actual_start"
	FieldActualFinish    Field = "actual_finish"
	FieldDuration        Field = "duration"
	FieldTotalSlack      Field = "total_slack"
	FieldPercentComplete Field = "percent_complete"
	FieldSummary         Field = "summary"
)

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"` // 列索引
	ColumnName  string `json:"columnName"`  // 文件中的列名（已去空格）
	Field       Field  `json:"field"`
}

// SheetRecognitionResult 工作表识别结果
type SheetRecognitionResult struct {
	SheetName     string   `json:"sheetName"`
	Confidence    float64  `json:"confidence"` // 置信度 0-1
	HasIdentifier bool     `json:"hasIdentifier"`
	MissingFields []string `json:"missingFields"`
}
