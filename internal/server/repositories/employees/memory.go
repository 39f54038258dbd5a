package employees

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
)

// MemoryRepository keeps employees in maps indexed by id and by public key.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.Employee
	byKey map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]models.Employee),
		byKey: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[e.ID]; ok {
		return common.ErrDuplicateIdentity
	}
	if _, ok := r.byKey[e.PublicKey]; ok {
		return common.ErrDuplicatePublicKey
	}

	r.byID[e.ID] = *e
	r.byKey[e.PublicKey] = e.ID
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (r *MemoryRepository) GetByPublicKey(ctx context.Context, publicKey string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[publicKey]
	if !ok {
		return nil, common.ErrorNotFound
	}
	e := r.byID[id]
	return &e, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Employee, 0, len(r.byID))
	for _, e := range r.byID {
		e := e
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
