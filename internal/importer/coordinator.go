package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"pusula/internal/model"
	"pusula/internal/service/schedule"
	sessionstore "pusula/internal/service/store"
	"pusula/internal/store"
)

// Coordinator 导入协调器：加载文件、记录导入历史、替换会话中的计划
//
// store 与 session 均可为 nil（命令行工具只需要加载）。
type Coordinator struct {
	store   *store.Store
	session *sessionstore.SessionStore
	loader  *schedule.Loader
}

// NewCoordinator 创建导入协调器
func NewCoordinator(st *store.Store, session *sessionstore.SessionStore, loader *schedule.Loader) *Coordinator {
	if loader == nil {
		loader = schedule.NewLoader("")
	}
	return &Coordinator{store: st, session: session, loader: loader}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath string
	Filename string // 原始文件名，用于识别格式与展示；为空时取 FilePath 的文件名
	Role     model.ScheduleRole
}

// ImportResult 导入结果
type ImportResult struct {
	ImportLogID    int64              `json:"importLogId,omitempty"`
	Role           model.ScheduleRole `json:"role"`
	Filename       string             `json:"filename"`
	ScheduleID     string             `json:"scheduleId"`
	TaskCount      int                `json:"taskCount"`
	SkippedRows    int                `json:"skippedRows"`
	MissingColumns []string           `json:"missingColumns,omitempty"`
	Duration       time.Duration      `json:"duration"`

	Schedule *model.Schedule `json:"-"`
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"` // start/info/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ImportFailure error 事件携带的数据
type ImportFailure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Import 异步导入，返回进度通道；通道在导入结束后关闭
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 16)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

// ImportFile 同步导入
func (c *Coordinator) ImportFile(opts ImportOptions) (*ImportResult, error) {
	return c.doImport(opts, nil)
}

func (c *Coordinator) doImport(opts ImportOptions, progress chan<- ProgressEvent) (*ImportResult, error) {
	startTime := time.Now()
	if opts.Filename == "" {
		opts.Filename = filepath.Base(opts.FilePath)
	}
	if !opts.Role.Valid() {
		err := fmt.Errorf("unknown schedule role %q", opts.Role)
		send(progress, "error", err.Error(), ImportFailure{Kind: "invalid_role", Message: err.Error()})
		return nil, err
	}

	send(progress, "start", "Dosya içe aktarılıyor", map[string]string{
		"filename": opts.Filename,
		"role":     string(opts.Role),
	})

	size, hash, err := fileDigest(opts.FilePath)
	if err != nil {
		loadErr := &schedule.LoadError{
			Kind:    schedule.KindUnreadable,
			Source:  opts.Filename,
			Message: "Dosya açılamadı.",
			Err:     fmt.Errorf("%w: %v", schedule.ErrUnreadable, err),
		}
		send(progress, "error", loadErr.Message, ImportFailure{Kind: string(loadErr.Kind), Message: loadErr.Message})
		return nil, loadErr
	}

	var logID int64
	if c.store != nil {
		logID, err = c.store.CreateImportLog(opts.Role, opts.Filename, opts.FilePath, size, hash)
		if err != nil {
			log.Printf("import log: %v", err)
		}
	}

	sch, err := c.load(opts)
	if err != nil {
		kind, message := "unreadable", err.Error()
		if le, ok := schedule.AsLoadError(err); ok {
			kind, message = string(le.Kind), le.Message
		}
		if logID > 0 {
			if lerr := c.store.FailImportLog(logID, kind, message); lerr != nil {
				log.Printf("import log: %v", lerr)
			}
		}
		send(progress, "error", message, ImportFailure{Kind: kind, Message: message})
		return nil, err
	}

	send(progress, "info", fmt.Sprintf("%d aktivite okundu", sch.Len()), map[string]interface{}{
		"task_count":      sch.Len(),
		"skipped_rows":    sch.SkippedRows,
		"missing_columns": sch.MissingColumns,
	})

	if c.store != nil {
		if err := c.persist(opts.Role, sch); err != nil {
			// 持久化失败不影响本次会话
			log.Printf("persist schedule %s: %v", sch.ID, err)
		}
		if logID > 0 {
			if err := c.store.FinishImportLog(logID, sch); err != nil {
				log.Printf("import log: %v", err)
			}
		}
	}

	c.activate(opts.Role, sch)

	result := &ImportResult{
		ImportLogID:    logID,
		Role:           opts.Role,
		Filename:       opts.Filename,
		ScheduleID:     sch.ID,
		TaskCount:      sch.Len(),
		SkippedRows:    sch.SkippedRows,
		MissingColumns: sch.MissingColumns,
		Duration:       time.Since(startTime),
		Schedule:       sch,
	}
	log.Printf("imported %s as %s: %d tasks in %s", opts.Filename, opts.Role, result.TaskCount, result.Duration)

	send(progress, "done", "İçe aktarma tamamlandı", result)
	return result, nil
}

func (c *Coordinator) load(opts ImportOptions) (*model.Schedule, error) {
	f, err := os.Open(opts.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.loader.LoadReader(opts.Filename, f)
}

func (c *Coordinator) persist(role model.ScheduleRole, sch *model.Schedule) error {
	if err := c.store.SaveSchedule(sch); err != nil {
		return err
	}
	return c.store.SetActiveSchedule(role, sch.ID)
}

func (c *Coordinator) activate(role model.ScheduleRole, sch *model.Schedule) {
	if c.session == nil {
		return
	}
	switch role {
	case model.RoleCurrent:
		c.session.SetCurrent(sch)
	case model.RoleBaseline:
		c.session.SetBaseline(sch)
	}
}

// ClearBaseline 移除基线（会话与数据库）
func (c *Coordinator) ClearBaseline() error {
	if c.session != nil {
		c.session.ClearBaseline()
	}
	if c.store != nil {
		return c.store.SetActiveSchedule(model.RoleBaseline, "")
	}
	return nil
}

// Restore 启动时从数据库恢复上次会话
func (c *Coordinator) Restore() error {
	if c.store == nil || c.session == nil {
		return nil
	}
	c.session.Reset()

	var errs []error
	for _, role := range []model.ScheduleRole{model.RoleCurrent, model.RoleBaseline} {
		sch, err := c.store.ActiveSchedule(role)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", role, err))
			continue
		}
		if sch != nil {
			c.activate(role, sch)
			log.Printf("restored %s schedule %s (%d tasks)", role, sch.SourceName, sch.Len())
		}
	}
	return errors.Join(errs...)
}

func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

func send(ch chan<- ProgressEvent, typ, message string, data interface{}) {
	if ch == nil {
		return
	}
	ch <- ProgressEvent{Type: typ, Message: message, Data: data, Timestamp: time.Now()}
}
