package parser

// SheetRecognizer 识别工作簿中哪张工作表是计划表
type SheetRecognizer struct {
	mapper *FieldMapper
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{mapper: NewFieldMapper()}
}

// Recognize 按命中的字段比例给工作表打分；缺少标识列时置信度减半
func (r *SheetRecognizer) Recognize(sheetName string, columnNames []string) SheetRecognitionResult {
	mappings := r.mapper.Map(columnNames)
	_, hasID := mappings[FieldID]

	confidence := float64(len(mappings)) / float64(len(r.mapper.specs))
	if !hasID {
		confidence /= 2
	}

	return SheetRecognitionResult{
		SheetName:     sheetName,
		Confidence:    confidence,
		HasIdentifier: hasID,
		MissingFields: r.mapper.Missing(mappings),
	}
}

// Best 从多张工作表中选出置信度最高者；并列时取靠前的
func (r *SheetRecognizer) Best(results []SheetRecognitionResult) (SheetRecognitionResult, bool) {
	if len(results) == 0 {
		return SheetRecognitionResult{}, false
	}
	best := results[0]
	for _, res := range results[1:] {
		if res.Confidence > best.Confidence {
			best = res
		}
	}
	return best, true
}
