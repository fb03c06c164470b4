package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"pusula/internal/model"
	"pusula/internal/parser"
)

var (
	// ErrUnsupportedFormat 不支持的文件类型
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyTable 文件中没有任何表头行
	ErrEmptyTable = errors.New("no header row found")
)

// Reader 计划文件读取器（xlsx / csv）
type Reader struct {
	sheetName  string
	recognizer *parser.SheetRecognizer
}

// NewReader 创建读取器；sheetName 为空时自动识别计划工作表
func NewReader(sheetName string) *Reader {
	return &Reader{
		sheetName:  strings.TrimSpace(sheetName),
		recognizer: parser.NewSheetRecognizer(),
	}
}

// IsSupported 按扩展名判断是否支持
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".csv", ".txt":
		return true
	}
	return false
}

// ReadFile 读取磁盘上的计划文件
func (r *Reader) ReadFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return r.Read(filepath.Base(path), f)
}

// Read 按文件名扩展名选择解析方式
func (r *Reader) Read(name string, rd io.Reader) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		wb, err := excelize.OpenReader(rd)
		if err != nil {
			return nil, fmt.Errorf("failed to open excel: %w", err)
		}
		defer wb.Close()
		return r.ReadWorkbook(name, wb)
	case ".csv", ".txt":
		return ReadCSV(name, rd)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadWorkbook 从已打开的工作簿中读取计划表
func (r *Reader) ReadWorkbook(name string, wb *excelize.File) (*model.Table, error) {
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}

	rowsBySheet := make(map[string][][]string, len(sheets))
	results := make([]parser.SheetRecognitionResult, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		rowsBySheet[sheet] = rows
		headerIdx := firstNonEmptyRow(rows)
		if headerIdx < 0 {
			continue
		}
		results = append(results, r.recognizer.Recognize(sheet, rows[headerIdx]))
	}

	sheet := ""
	if r.sheetName != "" {
		if _, ok := rowsBySheet[r.sheetName]; !ok {
			return nil, fmt.Errorf("sheet not found: %s", r.sheetName)
		}
		sheet = r.sheetName
	} else if best, ok := r.recognizer.Best(results); ok {
		sheet = best.SheetName
	}
	if sheet == "" {
		return nil, ErrEmptyTable
	}

	rows := rowsBySheet[sheet]
	headerIdx := firstNonEmptyRow(rows)
	if headerIdx < 0 {
		return nil, ErrEmptyTable
	}

	table := &model.Table{
		Source:    name,
		Sheet:     sheet,
		Header:    rows[headerIdx],
		HeaderRow: headerIdx + 1,
		Rows:      make([][]any, 0, len(rows)-headerIdx-1),
	}
	for _, row := range rows[headerIdx+1:] {
		cells := make([]any, len(row))
		for i, raw := range row {
			cells[i] = excelCellValue(raw)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// excelCellValue 原始单元格值：数值（含序列日期）转 float64，空白转 nil
func excelCellValue(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return raw
}

// ReadCSV 读取 CSV；自动识别分隔符与 Windows-1254 编码
func ReadCSV(name string, rd io.Reader) (*model.Table, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		// 土耳其语 Excel 默认以 Windows-1254 导出 CSV
		decoded, err := charmap.Windows1254.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	headerIdx := firstNonEmptyRow(records)
	if headerIdx < 0 {
		return nil, ErrEmptyTable
	}

	table := &model.Table{
		Source:    name,
		Header:    records[headerIdx],
		HeaderRow: headerIdx + 1,
		Rows:      make([][]any, 0, len(records)-headerIdx-1),
	}
	for _, rec := range records[headerIdx+1:] {
		cells := make([]any, len(rec))
		for i, v := range rec {
			if strings.TrimSpace(v) == "" {
				continue
			}
			cells[i] = v
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

// detectDelimiter 依据首行出现次数在 , ; \t 中选择分隔符
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func firstNonEmptyRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return i
			}
		}
	}
	return -1
}
