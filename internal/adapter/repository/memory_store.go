package repository

import (
	"sync"

	"github.com/dhananjaypai08/Judge.AI/internal/domain"
)

// MemoryStore 实现了 port.ScoreStore 接口
// 会话内的每项目评审状态，所有修改都按 UUID 读改写，整库只有这一处共享可变状态
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string                        // 保持项目源返回的顺序
	states map[string]*domain.ProjectState // key: project UUID
}

// NewMemoryStore 创建空的会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*domain.ProjectState),
	}
}

// SetProjects 重置为一批新项目，全部回到未评分状态
func (m *MemoryStore) SetProjects(projects []*domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = m.order[:0]
	m.states = make(map[string]*domain.ProjectState, len(projects))
	for _, p := range projects {
		m.order = append(m.order, p.UUID)
		m.states[p.UUID] = &domain.ProjectState{Project: p}
	}
}

// Put 写入评审结果，整体替换旧评分 (最后一次成功写入生效)
func (m *MemoryStore) Put(projectID string, score *domain.AIScore) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[projectID]
	if !ok {
		return
	}
	state.Score = score
	state.IsLoading = false
	state.HasError = false
}

// MarkLoading 标记项目正在评审
func (m *MemoryStore) MarkLoading(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[projectID]; ok {
		state.IsLoading = true
		state.HasError = false
	}
}

// MarkFailed 标记项目评审失败
// 必须同时清掉残留的旧评分，避免错误标记旁边还挂着过期分数
func (m *MemoryStore) MarkFailed(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[projectID]; ok {
		state.Score = nil
		state.IsLoading = false
		state.HasError = true
	}
}

// Get 读取单个项目状态 (返回快照，调用方拿不到内部指针)
func (m *MemoryStore) Get(projectID string) (*domain.ProjectState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[projectID]
	if !ok {
		return nil, false
	}
	snapshot := *state
	return &snapshot, true
}

// List 按拉取顺序返回全部项目状态
func (m *MemoryStore) List() []*domain.ProjectState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.ProjectState, 0, len(m.order))
	for _, id := range m.order {
		if state, ok := m.states[id]; ok {
			snapshot := *state
			result = append(result, &snapshot)
		}
	}
	return result
}

// ClearScores 清空所有评分和错误标记，保留项目列表
func (m *MemoryStore) ClearScores() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, state := range m.states {
		state.Score = nil
		state.IsLoading = false
		state.HasError = false
	}
}
