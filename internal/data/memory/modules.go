package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// ModuleStore is an in-memory module directory.
type ModuleStore struct {
	mu     sync.RWMutex
	byID   map[string]model.Module
	byName map[string]string // name -> id
}

var _ ports.ModuleRepository = (*ModuleStore)(nil)

// NewModuleStore creates an empty ModuleStore.
func NewModuleStore() *ModuleStore {
	return &ModuleStore{
		byID:   make(map[string]model.Module),
		byName: make(map[string]string),
	}
}

// GetModule returns the module with the given id.
func (s *ModuleStore) GetModule(_ context.Context, id string) (*model.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mod, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ModuleNotFound(id)
	}
	out := mod
	return &out, nil
}

// GetModuleByName returns the module with the given name.
func (s *ModuleStore) GetModuleByName(_ context.Context, name string) (*model.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, apperrors.ModuleNotFound(name)
	}
	mod := s.byID[id]
	return &mod, nil
}

// ListModules returns all modules ordered by name.
func (s *ModuleStore) ListModules(_ context.Context) ([]model.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Module, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateModule registers a module. Module names are unique.
func (s *ModuleStore) CreateModule(_ context.Context, mod model.Module) (model.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[mod.Name]; exists {
		return model.Module{}, apperrors.Conflictf("module %s already registered", mod.Name)
	}
	s.byID[mod.ID] = mod
	s.byName[mod.Name] = mod.ID
	return mod, nil
}

// SetModuleActive toggles a module's active flag.
func (s *ModuleStore) SetModuleActive(_ context.Context, id string, active bool) (*model.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mod, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ModuleNotFound(id)
	}
	mod.IsActive = active
	s.byID[id] = mod
	out := mod
	return &out, nil
}
