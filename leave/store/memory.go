// Package store provides in-memory implementations of the engine's
// collaborator contracts, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY - In-memory catalog, directory, records, and holidays
// =============================================================================

// Memory implements leave.TypeCatalog, leave.Directory, leave.RecordStore,
// and calendar.HolidayCalendar. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	types    map[string][]leave.LeaveType // workspace -> catalog, insertion order
	users    map[userKey]leave.User
	requests map[recordKey][]leave.LeaveRequest
	holidays map[string][]calendar.Holiday // workspace -> holidays ("" = global)
}

type userKey struct {
	WorkspaceID string
	UserID      leave.UserID
}

type recordKey struct {
	WorkspaceID string
	UserID      leave.UserID
}

func NewMemory() *Memory {
	return &Memory{
		types:    make(map[string][]leave.LeaveType),
		users:    make(map[userKey]leave.User),
		requests: make(map[recordKey][]leave.LeaveRequest),
		holidays: make(map[string][]calendar.Holiday),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

// AddLeaveType appends a type to the workspace catalog. Catalog order is
// insertion order; EligibleLeaveTypes preserves it.
func (m *Memory) AddLeaveType(lt leave.LeaveType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[lt.WorkspaceID] = append(m.types[lt.WorkspaceID], lt)
}

func (m *Memory) AddUser(u leave.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userKey{u.WorkspaceID, u.ID}] = u
}

// AddRequest inserts a request keeping the per-user list sorted by start.
func (m *Memory) AddRequest(r leave.LeaveRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := recordKey{r.WorkspaceID, r.UserID}
	list := m.requests[k]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Span.Start.After(r.Span.Start)
	})
	list = append(list, leave.LeaveRequest{})
	copy(list[i+1:], list[i:])
	list[i] = r
	m.requests[k] = list
}

func (m *Memory) AddHoliday(h calendar.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.WorkspaceID] = append(m.holidays[h.WorkspaceID], h)
}

// =============================================================================
// TYPE CATALOG
// =============================================================================

func (m *Memory) LeaveType(_ context.Context, workspaceID string, id leave.LeaveTypeID) (leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, lt := range m.types[workspaceID] {
		if lt.ID == id {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (m *Memory) LeaveTypes(_ context.Context, workspaceID string) ([]leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]leave.LeaveType, len(m.types[workspaceID]))
	copy(result, m.types[workspaceID])
	return result, nil
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (m *Memory) User(_ context.Context, workspaceID string, id leave.UserID) (leave.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userKey{workspaceID, id}]
	if !ok {
		return leave.User{}, leave.ErrUserNotFound
	}
	return u, nil
}

// =============================================================================
// RECORD STORE
// =============================================================================

func (m *Memory) ApprovedIntervals(_ context.Context, workspaceID string, userID leave.UserID, typeID leave.LeaveTypeID, year int) ([]calendar.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var spans []calendar.Period
	for _, r := range m.requests[recordKey{workspaceID, userID}] {
		if r.Status != leave.StatusApproved || r.LeaveTypeID != typeID {
			continue
		}
		if r.Span.Start.Year() != year {
			continue
		}
		spans = append(spans, r.Span)
	}
	return spans, nil
}

func (m *Memory) RequestsByUser(_ context.Context, workspaceID string, userID leave.UserID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := recordKey{workspaceID, userID}
	result := make([]leave.LeaveRequest, len(m.requests[k]))
	copy(result, m.requests[k])
	return result, nil
}

func (m *Memory) HasApprovedSince(_ context.Context, workspaceID string, userID leave.UserID, typeID leave.LeaveTypeID, since calendar.TimePoint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.requests[recordKey{workspaceID, userID}] {
		if r.Status != leave.StatusApproved || r.LeaveTypeID != typeID {
			continue
		}
		if r.CreatedAt.AfterOrEqual(since) {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (m *Memory) IsHoliday(_ context.Context, workspaceID string, date calendar.TimePoint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, scope := range []string{workspaceID, ""} {
		for _, h := range m.holidays[scope] {
			if h.Covers(date) {
				return true, nil
			}
		}
		if workspaceID == "" {
			break
		}
	}
	return false, nil
}

func (m *Memory) HolidaysInRange(_ context.Context, workspaceID string, span calendar.Period) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []calendar.Holiday
	for _, scope := range []string{workspaceID, ""} {
		for _, h := range m.holidays[scope] {
			if h.Span.Overlaps(span) {
				result = append(result, h)
			}
		}
		if workspaceID == "" {
			break
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Span.Start.Before(result[j].Span.Start)
	})
	return result, nil
}
