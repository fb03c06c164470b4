package schedule

import (
	"errors"
	"fmt"
)

// LoadErrorKind 致命加载错误类型
type LoadErrorKind string

const (
	KindMissingIdentifier LoadErrorKind = "missing_identifier"
	KindUnreadable        LoadErrorKind = "unreadable"
)

var (
	ErrMissingIdentifier = errors.New("identifier column not found")
	ErrUnreadable        = errors.New("file cannot be read as a table")
)

// LoadError 计划加载失败（不返回部分结果）
type LoadError struct {
	Kind    LoadErrorKind `json:"kind"`
	Source  string        `json:"source"`
	Message string        `json:"message"` // 面向用户的说明
	Err     error         `json:"-"`
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load schedule: %s", e.Message)
	}
	return fmt.Sprintf("load schedule %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AsLoadError 提取 *LoadError
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

func missingIdentifierError(source string) *LoadError {
	return &LoadError{
		Kind:    KindMissingIdentifier,
		Source:  source,
		Message: "Dosyada 'Benzersiz_Kimlik' sütunu bulunamadı!",
		Err:     ErrMissingIdentifier,
	}
}

func unreadableError(source string, cause error) *LoadError {
	msg := "Dosya tablo olarak okunamadı"
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &LoadError{
		Kind:    KindUnreadable,
		Source:  source,
		Message: msg,
		Err:     fmt.Errorf("%w: %v", ErrUnreadable, cause),
	}
}
