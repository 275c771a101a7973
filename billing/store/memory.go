// Package store provides TimesheetStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cloudtriquetra/citypets-employee-app/billing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries []billing.Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

// AppendBatch adds all entries or none. For the in-memory store the only
// failure mode is an empty batch, but the contract matches sqlite.
func (m *Memory) AppendBatch(_ context.Context, entries []billing.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		i := sort.Search(len(m.entries), func(i int) bool {
			return m.entries[i].Start.After(e.Start)
		})
		m.entries = append(m.entries, billing.Entry{})
		copy(m.entries[i+1:], m.entries[i:])
		m.entries[i] = e
	}
	return nil
}

func (m *Memory) ListByEmployee(_ context.Context, employee string, from, to time.Time) ([]billing.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []billing.Entry
	for _, e := range m.entries {
		if e.Employee != employee {
			continue
		}
		if e.Start.Before(from) || !e.Start.Before(to) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *Memory) ListWeek(_ context.Context, weekStart time.Time) ([]billing.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []billing.Entry
	for _, e := range m.entries {
		if e.WeekStart.Equal(weekStart) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Employee != result[j].Employee {
			return result[i].Employee < result[j].Employee
		}
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}
