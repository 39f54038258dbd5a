package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

type recordKey struct {
	employeeID string
	date       string
}

// MemoryRepository keeps records in insertion order with a (employee, date)
// index.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []*models.AttendanceRecord
	index   map[recordKey]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[recordKey]int)}
}

func (r *MemoryRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := recordKey{rec.EmployeeID, rec.Date}
	if _, ok := r.index[k]; ok {
		return common.ErrorAlreadyExists
	}
	cp := *rec
	r.index[k] = len(r.records)
	r.records = append(r.records, &cp)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[recordKey{employeeID, date}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyRecord(r.records[i]), nil
}

func (r *MemoryRepository) CloseOut(ctx context.Context, employeeID, date, outTime string, outAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[recordKey{employeeID, date}]
	if !ok || r.records[i].OutAt != nil {
		return common.ErrorNotFound
	}
	r.records[i].OutTime = &outTime
	r.records[i].OutAt = &outAt
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.AttendanceRecord
	for _, rec := range r.records {
		if filter.Match(rec) {
			result = append(result, copyRecord(rec))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].InAt.Before(result[j].InAt)
	})
	return result, nil
}

func copyRecord(rec *models.AttendanceRecord) *models.AttendanceRecord {
	cp := *rec
	if rec.OutTime != nil {
		v := *rec.OutTime
		cp.OutTime = &v
	}
	if rec.OutAt != nil {
		v := *rec.OutAt
		cp.OutAt = &v
	}
	return &cp
}
