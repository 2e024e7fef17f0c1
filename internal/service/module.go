package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/ports"
)

// ModuleServiceOptions groups dependencies for ModuleService.
type ModuleServiceOptions struct {
	Modules ports.ModuleRepository // Required: module directory
	Clock   ports.Clock            // Optional: defaults to system time
	Logger  *slog.Logger           // Optional: structured logger
}

// ModuleService maintains the module directory. Registration and the active
// flag are the whole admin surface; content and health of the modules
// themselves are external concerns.
type ModuleService struct {
	modules ports.ModuleRepository
	clock   ports.Clock
	logger  *slog.Logger
}

// NewModuleService constructs a new ModuleService.
func NewModuleService(opts ModuleServiceOptions) *ModuleService {
	if opts.Modules == nil {
		panic("ModuleRepository is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &ModuleService{modules: opts.Modules, clock: clock, logger: opts.Logger}
}

// Create registers a new active module.
func (s *ModuleService) Create(ctx context.Context, req model.CreateModuleRequest) (*model.Module, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	mod := model.Module{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Title:     req.Title,
		URL:       req.URL,
		IsActive:  true,
		CreatedAt: s.clock.Now().UTC(),
	}
	created, err := s.modules.CreateModule(ctx, mod)
	if err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "module registered", "module_id", created.ID, "name", created.Name)
	}
	return &created, nil
}

// Get retrieves a module by id.
func (s *ModuleService) Get(ctx context.Context, id string) (*model.Module, error) {
	return s.modules.GetModule(ctx, id)
}

// List returns all registered modules.
func (s *ModuleService) List(ctx context.Context) ([]model.Module, error) {
	return s.modules.ListModules(ctx)
}

// SetActive flips the module's active flag. A deactivated module stops being
// a valid federation target immediately.
func (s *ModuleService) SetActive(ctx context.Context, id string, active bool) (*model.Module, error) {
	mod, err := s.modules.SetModuleActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "module active flag changed", "module_id", id, "active", active)
	}
	return mod, nil
}
