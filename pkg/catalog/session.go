// Package catalog holds the read-only node-type and module catalogs for one
// authenticated session. A Session is constructed at login, filled by an
// explicit Initialize call, and torn down at logout; nothing here is
// process-global.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alecap92/fcrm-automations/pkg/models"
)

// ErrNotInitialized is returned when catalog data is requested before
// Initialize has completed.
var ErrNotInitialized = errors.New("catalog session not initialized")

// Loader fetches catalog data from the backend. Satisfied by client.Client.
type Loader interface {
	NodeTypes(ctx context.Context) ([]models.NodeType, error)
	Modules(ctx context.Context) ([]models.ModuleEvent, error)
}

// Session caches both catalogs for the lifetime of an authenticated session
// and resolves node categories against an exact-type table built at load
// time, falling back to the type-name convention for unknown types.
type Session struct {
	mu     sync.RWMutex
	loader Loader
	logger *slog.Logger

	nodeTypes   []models.NodeType
	modules     []models.ModuleEvent
	categories  map[string]models.Category
	schemas     map[string]json.RawMessage
	initialized bool
}

// NewSession creates an empty catalog session.
func NewSession(loader Loader, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		loader: loader,
		logger: logger.With("module", "catalog"),
	}
}

// Initialize loads both catalogs. It is the single, explicit entry point
// called once after login completes; there is no ambient subscription to
// auth state. Safe to call again to refresh.
func (s *Session) Initialize(ctx context.Context) error {
	nodeTypes, err := s.loader.NodeTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load node types: %w", err)
	}

	modules, err := s.loader.Modules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	categories := make(map[string]models.Category, len(nodeTypes))
	schemas := make(map[string]json.RawMessage, len(nodeTypes))

	for _, nt := range nodeTypes {
		categories[nt.Type] = nt.Category

		if len(nt.ConfigSchema) > 0 {
			schemas[nt.Type] = nt.ConfigSchema
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodeTypes = nodeTypes
	s.modules = modules
	s.categories = categories
	s.schemas = schemas
	s.initialized = true

	s.logger.Info("catalogs loaded", "node_types", len(nodeTypes), "modules", len(modules))

	return nil
}

// Close clears all cached catalog data. Called at logout.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodeTypes = nil
	s.modules = nil
	s.categories = nil
	s.schemas = nil
	s.initialized = false
}

// Initialized reports whether the catalogs have been loaded.
func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.initialized
}

// NodeTypes returns the cached node palette.
func (s *Session) NodeTypes() ([]models.NodeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]models.NodeType, len(s.nodeTypes))
	copy(out, s.nodeTypes)

	return out, nil
}

// Modules returns the cached trigger module/event catalog.
func (s *Session) Modules() ([]models.ModuleEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]models.ModuleEvent, len(s.modules))
	copy(out, s.modules)

	return out, nil
}

// ResolveCategory returns the category the catalog declares for the exact
// type name. Types the backend has not published resolve by convention.
func (s *Session) ResolveCategory(nodeType string) models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category, ok := s.categories[nodeType]; ok {
		return category
	}

	return models.CategoryOf(nodeType)
}

// ConfigSchema returns the JSON schema for a node type's configuration,
// when the catalog publishes one.
func (s *Session) ConfigSchema(nodeType string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schema, ok := s.schemas[nodeType]

	return schema, ok
}
