package schedule

import (
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pusula/internal/model"
	"pusula/internal/parser"
	"pusula/internal/service/excel"
)

// Loader 计划加载器：读表 → 校验列 → 规范化 → 派生关键性与状态
type Loader struct {
	reader *excel.Reader
	mapper *parser.FieldMapper
	now    func() time.Time
}

// NewLoader 创建加载器；sheetName 为空时自动识别工作表
func NewLoader(sheetName string) *Loader {
	return &Loader{
		reader: excel.NewReader(sheetName),
		mapper: parser.NewFieldMapper(),
		now:    time.Now,
	}
}

// LoadFile 从磁盘加载计划文件
func (l *Loader) LoadFile(path string) (*model.Schedule, error) {
	table, err := l.reader.ReadFile(path)
	if err != nil {
		return nil, unreadableError(filepath.Base(path), err)
	}
	return l.Load(table)
}

// LoadReader 从上传流加载，name 用于判断文件类型
func (l *Loader) LoadReader(name string, r io.Reader) (*model.Schedule, error) {
	table, err := l.reader.Read(name, r)
	if err != nil {
		return nil, unreadableError(name, err)
	}
	return l.Load(table)
}

// Load 将原始表格转换为计划
//
// 只有缺少标识列（或没有表头）是致命错误；其他缺失列以默认值填充，
// 单元格解析失败由规范化函数吸收。
func (l *Loader) Load(table *model.Table) (*model.Schedule, error) {
	if table == nil || len(table.Header) == 0 {
		source := ""
		if table != nil {
			source = table.Source
		}
		return nil, unreadableError(source, excel.ErrEmptyTable)
	}

	mappings := l.mapper.Map(table.Header)
	if _, ok := mappings[parser.FieldID]; !ok {
		return nil, missingIdentifierError(table.Source)
	}

	missing := l.mapper.Missing(mappings)
	if len(missing) > 0 {
		log.Printf("计划 %s 缺少列 %v，使用默认值", table.Source, missing)
	}

	_, hasSummary := mappings[parser.FieldSummary]
	s := &model.Schedule{
		ID:               uuid.New().String(),
		SourceName:       table.Source,
		LoadedAt:         l.now(),
		Tasks:            make([]*model.Task, 0, len(table.Rows)),
		HasSummaryColumn: hasSummary,
		MissingColumns:   missing,
	}

	seen := make(map[string]int, len(table.Rows))
	for i, row := range table.Rows {
		get := func(f parser.Field) any {
			m, ok := mappings[f]
			if !ok {
				return nil
			}
			return table.Cell(row, m.ColumnIndex)
		}

		id := parser.NormalizeID(get(parser.FieldID))
		if id == "" {
			s.SkippedRows++
			continue
		}

		rowNo := table.RowNumber(i)
		if prev, dup := seen[id]; dup {
			log.Printf("计划 %s 第 %d 行标识 %s 与第 %d 行重复", table.Source, rowNo, id, prev)
		} else {
			seen[id] = rowNo
		}

		duration := parser.ParseDuration(get(parser.FieldDuration))
		if duration < 0 {
			duration = 0
		}

		t := &model.Task{
			ID:              id,
			Name:            parser.CellText(get(parser.FieldName)),
			Row:             rowNo,
			PlannedStart:    parser.ParseDate(get(parser.FieldPlannedStart)),
			PlannedFinish:   parser.ParseDate(get(parser.FieldPlannedFinish)),
			ActualStart:     parser.ParseDate(get(parser.FieldActualStart)),
			ActualFinish:    parser.ParseDate(get(parser.FieldActualFinish)),
			DurationDays:    duration,
			TotalSlackDays:  parser.ParseDuration(get(parser.FieldTotalSlack)),
			PercentComplete: parser.ParsePercent(get(parser.FieldPercentComplete)),
			IsSummary:       parser.ParseFlag(get(parser.FieldSummary)),
		}
		t.Derive()
		s.Tasks = append(s.Tasks, t)
	}

	return s, nil
}
