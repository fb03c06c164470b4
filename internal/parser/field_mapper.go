package parser

// FieldSpec 字段定义：规范列名及可接受的别名
type FieldSpec struct {
	Field     Field
	Canonical string
	Aliases   []string
}

// ScheduleFields 计划导出文件的列词汇表（土耳其语规范列名）
var ScheduleFields = []FieldSpec{
	{Field: FieldID, Canonical: "Benzersiz_Kimlik", Aliases: []string{"Unique_ID"}},
	{Field: FieldName, Canonical: "Ad", Aliases: []string{"Name"}},
	{Field: FieldPlannedStart, Canonical: "Başlangıç", Aliases: []string{"Start"}},
	{Field: FieldPlannedFinish, Canonical: "Bitiş", Aliases: []string{"Finish"}},
	{Field: FieldActualStart, Canonical: "Fiili_Başlangıç", Aliases: []string{"Actual_Start"}},
	{Field: FieldActualFinish, Canonical: "Fiili_Bitiş", Aliases: []string{"Actual_Finish"}},
	{Field: FieldDuration, Canonical: "Süre", Aliases: []string{"Duration"}},
	{Field: FieldTotalSlack, Canonical: "Toplam_Bolluk", Aliases: []string{"Total_Slack"}},
	{Field: FieldPercentComplete, Canonical: "Tamamlanma_Yüzdesi", Aliases: []string{"Percent_Complete"}},
	{Field: FieldSummary, Canonical: "Özet", Aliases: []string{"Summary"}},
}

// FieldMapper 字段映射器
type FieldMapper struct {
	specs []FieldSpec
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{specs: ScheduleFields}
}

// Map 将表头映射为字段 → 列
// 规范列名优先于别名；同名列出现多次时取第一列
func (m *FieldMapper) Map(columnNames []string) map[Field]FieldMapping {
	mappings := make(map[Field]FieldMapping, len(m.specs))

	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}

	for _, spec := range m.specs {
		if idx := indexOf(normalized, spec.Canonical); idx >= 0 {
			mappings[spec.Field] = FieldMapping{ColumnIndex: idx, ColumnName: spec.Canonical, Field: spec.Field}
			continue
		}
		for _, alias := range spec.Aliases {
			if idx := indexOf(normalized, alias); idx >= 0 {
				// 别名列按规范列名登记
				mappings[spec.Field] = FieldMapping{ColumnIndex: idx, ColumnName: spec.Canonical, Field: spec.Field}
				break
			}
		}
	}

	return mappings
}

// Missing 未能映射的字段（规范列名）
func (m *FieldMapper) Missing(mappings map[Field]FieldMapping) []string {
	var out []string
	for _, spec := range m.specs {
		if _, ok := mappings[spec.Field]; !ok {
			out = append(out, spec.Canonical)
		}
	}
	return out
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}
