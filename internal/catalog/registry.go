package catalog

import (
	"sort"
	"sync"

	"gorm.io/gorm"

	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// Registry is the read-only consultation type catalog. Entries are owned
// by the external admin service; the core only resolves ids against them.
type Registry struct {
	db *gorm.DB

	mu    sync.RWMutex
	types map[string]models.ConsultationType
}

// NewRegistry loads the catalog from the database once at startup.
func NewRegistry(db *gorm.DB) (*Registry, error) {
	r := &Registry{db: db, types: map[string]models.ConsultationType{}}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewStaticRegistry builds a registry from fixed entries, used by tests
// and by deployments that inject the catalog via config.
func NewStaticRegistry(entries ...models.ConsultationType) *Registry {
	types := make(map[string]models.ConsultationType, len(entries))
	for _, e := range entries {
		types[e.ID] = e
	}
	return &Registry{types: types}
}

// Reload re-reads the catalog table.
func (r *Registry) Reload() error {
	var entries []models.ConsultationType
	if err := r.db.Find(&entries).Error; err != nil {
		return err
	}

	types := make(map[string]models.ConsultationType, len(entries))
	for _, e := range entries {
		types[e.ID] = e
	}

	r.mu.Lock()
	r.types = types
	r.mu.Unlock()
	return nil
}

// Lookup resolves a consultation type id.
func (r *Registry) Lookup(id string) (*models.ConsultationType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.types[id]
	if !ok {
		return nil, &schedule.UnknownConsultationTypeError{ID: id}
	}
	return &entry, nil
}

// List returns the catalog ordered by id.
func (r *Registry) List() []models.ConsultationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ConsultationType, 0, len(r.types))
	for _, e := range r.types {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
