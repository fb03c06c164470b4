package store

import (
	"errors"
	"sync"

	"pusula/internal/model"
	"pusula/internal/service/compare"
)

var (
	// ErrNoCurrent 尚未加载当前计划
	ErrNoCurrent = errors.New("no current schedule loaded")
	// ErrNoBaseline 尚未加载基线计划
	ErrNoBaseline = errors.New("no baseline schedule loaded")
)

// Session 某一时刻的会话快照（只读）
type Session struct {
	Current    *model.Schedule
	Baseline   *model.Schedule
	Generation uint64
}

// SessionStore 会话上下文：最多一份当前计划与一份基线计划
//
// 每次替换都会递增 generation，缓存的比较结果随之失效。
type SessionStore struct {
	mu       sync.RWMutex
	current  *model.Schedule
	baseline *model.Schedule
	gen      uint64

	cached    *model.Comparison
	cachedGen uint64
	cachedOpt compare.Options
}

// NewSessionStore 创建空会话
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// SetCurrent 整体替换当前计划
func (s *SessionStore) SetCurrent(sch *model.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sch
	s.bump()
}

// SetBaseline 整体替换基线计划
func (s *SessionStore) SetBaseline(sch *model.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = sch
	s.bump()
}

// ClearBaseline 移除基线计划
func (s *SessionStore) ClearBaseline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline == nil {
		return
	}
	s.baseline = nil
	s.bump()
}

// Reset 清空会话
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current, s.baseline = nil, nil
	s.bump()
}

// 调用方需持有写锁
func (s *SessionStore) bump() {
	s.gen++
	s.cached = nil
}

// Snapshot 当前会话快照
func (s *SessionStore) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{Current: s.current, Baseline: s.baseline, Generation: s.gen}
}

// Current 当前计划，未加载时返回 ErrNoCurrent
func (s *SessionStore) Current() (*model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoCurrent
	}
	return s.current, nil
}

// Generation 会话版本号
func (s *SessionStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Comparison 比较当前计划与基线计划
//
// 结果只在会话版本与选项（含参考时间）都相同时复用；调用方每个请求
// 采样一次 Now，因此跨请求总是重新计算。
func (s *SessionStore) Comparison(opts compare.Options) (*model.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoCurrent
	}
	if s.baseline == nil {
		return nil, ErrNoBaseline
	}
	return s.compareLocked(opts), nil
}

// Report 在同一把锁内取快照与比较结果，报告的各部分来自同一版本的会话
// 没有基线时比较结果为 nil
func (s *SessionStore) Report(opts compare.Options) (Session, *model.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Session{Current: s.current, Baseline: s.baseline, Generation: s.gen}
	if s.current == nil {
		return snap, nil, ErrNoCurrent
	}
	if s.baseline == nil {
		return snap, nil, nil
	}
	return snap, s.compareLocked(opts), nil
}

// 调用方需持有写锁
func (s *SessionStore) compareLocked(opts compare.Options) *model.Comparison {
	if s.cached != nil && s.cachedGen == s.gen && s.cachedOpt == opts {
		return s.cached
	}
	cmp := compare.Compare(s.current, s.baseline, opts)
	s.cached, s.cachedGen, s.cachedOpt = cmp, s.gen, opts
	return cmp
}
