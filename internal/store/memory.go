package store

import (
	"strings"
	"sync"

	"github.com/leasezero/leasezero-backend/internal/models"
)

// MemoryApplicationStore is the in-memory ApplicationStore used by tests and
// demo mode. Insertion order is preserved for stable listings.
type MemoryApplicationStore struct {
	mu    sync.RWMutex
	order []string
	apps  map[string]models.Application
}

func NewMemoryApplicationStore() *MemoryApplicationStore {
	return &MemoryApplicationStore{apps: make(map[string]models.Application)}
}

func (s *MemoryApplicationStore) Upsert(app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.apps[app.ID]; !seen {
		s.order = append(s.order, app.ID)
	}
	s.apps[app.ID] = app
	return nil
}

func (s *MemoryApplicationStore) GetByID(id string) (models.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	return app, ok
}

func (s *MemoryApplicationStore) ListAll() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.apps[id])
	}
	return out
}

func (s *MemoryApplicationStore) ListForProperties(propertyIDs []string) []models.Application {
	wanted := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Application
	for _, id := range s.order {
		if _, ok := wanted[s.apps[id].PropertyID]; ok {
			out = append(out, s.apps[id])
		}
	}
	return out
}

func (s *MemoryApplicationStore) ListForTenant(tenantAddress string) []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Application
	for _, id := range s.order {
		if strings.EqualFold(s.apps[id].TenantAddress, tenantAddress) {
			out = append(out, s.apps[id])
		}
	}
	return out
}

// MemoryPropertyStore is the in-memory PropertyStore.
type MemoryPropertyStore struct {
	mu    sync.RWMutex
	order []string
	props map[string]models.Property
}

func NewMemoryPropertyStore() *MemoryPropertyStore {
	return &MemoryPropertyStore{props: make(map[string]models.Property)}
}

func (s *MemoryPropertyStore) Create(p models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.props[p.ID]; !seen {
		s.order = append(s.order, p.ID)
	}
	s.props[p.ID] = p
	return nil
}

func (s *MemoryPropertyStore) Update(p models.Property) error {
	return s.Create(p)
}

func (s *MemoryPropertyStore) GetByID(id string) (models.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.props[id]
	return p, ok
}

func (s *MemoryPropertyStore) ListAll() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Property, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.props[id])
	}
	return out
}

func (s *MemoryPropertyStore) ListForOwner(ownerAddress string) []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Property
	for _, id := range s.order {
		if strings.EqualFold(s.props[id].OwnerAddress, ownerAddress) {
			out = append(out, s.props[id])
		}
	}
	return out
}

// MemoryProfileStore is the in-memory ProfileStore; keys are lowercased
// addresses so lookups are case-insensitive.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.ConfidentialProfile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[string]models.ConfidentialProfile)}
}

func (s *MemoryProfileStore) Save(p models.ConfidentialProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[strings.ToLower(p.Address)] = p
	return nil
}

func (s *MemoryProfileStore) Get(address string) (models.ConfidentialProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[strings.ToLower(address)]
	return p, ok
}
