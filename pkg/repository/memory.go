package repository

import (
	"context"
	"sync"

	"github.com/secmon-lab/stabdash/pkg/domain/interfaces"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// Memory implements StabilityRepository over a fixed set of records
type Memory struct {
	mu      sync.RWMutex
	records []model.StabilityRecord
	err     error
	loads   int
}

var _ interfaces.StabilityRepository = (*Memory)(nil)

// NewMemory creates a memory repository holding a copy of records
func NewMemory(records ...model.StabilityRecord) *Memory {
	m := &Memory{}
	m.SetRecords(records)
	return m
}

// SetRecords replaces the stored records
func (m *Memory) SetRecords(records []model.StabilityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]model.StabilityRecord{}, records...)
}

// SetError makes every following load fail with err until cleared with nil
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Loads returns how many times LoadStability was called
func (m *Memory) Loads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads
}

// LoadStability returns a copy of the stored records
func (m *Memory) LoadStability(ctx context.Context) ([]model.StabilityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.StabilityRecord{}, m.records...), nil
}
