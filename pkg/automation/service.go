package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alecap92/fcrm-automations/pkg/catalog"
	"github.com/alecap92/fcrm-automations/pkg/client"
	"github.com/alecap92/fcrm-automations/pkg/editor"
	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/alecap92/fcrm-automations/pkg/notify"
)

// Operation names one kind of remote call. Each kind has its own loading
// flag and in-flight guard; two different kinds may overlap, two calls of
// the same kind may not.
type Operation string

const (
	OpWorkflows Operation = "workflows"
	OpSaving    Operation = "saving"
	OpDeleting  Operation = "deleting"
	OpToggling  Operation = "toggling"
	OpExecuting Operation = "executing"
	OpCatalogs  Operation = "catalogs"
)

// Backend is the remote contract the facade consumes. *client.Client
// satisfies it.
type Backend interface {
	ListAutomations(ctx context.Context, opts client.ListOptions) (*client.AutomationList, error)
	GetAutomation(ctx context.Context, id string) (*models.Automation, error)
	CreateAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error)
	UpdateAutomation(ctx context.Context, id string, automation *models.Automation) (*models.Automation, error)
	DeleteAutomation(ctx context.Context, id string) error
	ToggleAutomation(ctx context.Context, id string) (*models.Automation, error)
	ExecuteAutomation(ctx context.Context, id string, input map[string]any) (string, error)
}

// Service translates between the editor's graph and the backend's workflow
// resource. Every remote attempt produces exactly one notification; failed
// loads leave prior state intact so the UI degrades instead of blanking out.
type Service struct {
	backend  Backend
	editor   *editor.Editor
	session  *catalog.Session
	notifier notify.Notifier
	logger   *slog.Logger

	mu        sync.Mutex
	inFlight  map[Operation]bool
	workflows []models.Automation
	total     int
}

// NewService wires the facade. A nil notifier discards notifications.
func NewService(
	backend Backend,
	ed *editor.Editor,
	session *catalog.Session,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		backend:  backend,
		editor:   ed,
		session:  session,
		notifier: notifier,
		logger:   logger.With("module", "automation"),
		inFlight: make(map[Operation]bool),
	}
}

// Editor returns the editor this facade syncs.
func (s *Service) Editor() *editor.Editor {
	return s.editor
}

// Loading reports whether an operation of the given kind is pending.
func (s *Service) Loading(op Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight[op]
}

// Workflows returns the last loaded automation list.
func (s *Service) Workflows() []models.Automation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Automation, len(s.workflows))
	copy(out, s.workflows)

	return out
}

// Total returns the backend's total match count for the last list call.
func (s *Service) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total
}

// AddNode adds a node through the editor's trigger-guarded path and reports
// the single-trigger violation to the user. Callers must check the result.
func (s *Service) AddNode(ctx context.Context, node models.Node) bool {
	if err := s.editor.AddNode(node); err != nil {
		s.notifier.Error(ctx, "Solo se permite un nodo disparador por workflow")

		return false
	}

	return true
}

// LoadAutomations refreshes the workflow list. On failure the previous list
// stays in place.
func (s *Service) LoadAutomations(ctx context.Context, opts client.ListOptions) error {
	if err := s.begin(OpWorkflows); err != nil {
		return err
	}
	defer s.end(OpWorkflows)

	list, err := s.backend.ListAutomations(ctx, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load automations", "error", err)
		s.notifier.Error(ctx, "Error al cargar las automatizaciones")

		return err
	}

	s.mu.Lock()
	s.workflows = list.Data
	s.total = list.Total
	s.mu.Unlock()

	return nil
}

// CreateAutomation persists a new automation and prepends it to the list.
func (s *Service) CreateAutomation(ctx context.Context, automation *models.Automation) (*models.Automation, error) {
	if err := s.begin(OpSaving); err != nil {
		return nil, err
	}
	defer s.end(OpSaving)

	created, err := s.backend.CreateAutomation(ctx, automation)
	if err != nil {
		s.notifier.Error(ctx, "Error al crear la automatización")

		return nil, err
	}

	s.mu.Lock()
	s.workflows = append([]models.Automation{*created}, s.workflows...)
	s.total++
	s.mu.Unlock()

	s.notifier.Success(ctx, "Automatización creada exitosamente")

	return created, nil
}

// UpdateAutomation saves changes to an existing automation.
func (s *Service) UpdateAutomation(ctx context.Context, id string, automation *models.Automation) (*models.Automation, error) {
	if err := s.begin(OpSaving); err != nil {
		return nil, err
	}
	defer s.end(OpSaving)

	updated, err := s.backend.UpdateAutomation(ctx, id, automation)
	if err != nil {
		s.notifier.Error(ctx, "Error al actualizar la automatización")

		return nil, err
	}

	s.replaceInList(*updated)
	s.notifier.Success(ctx, "Automatización actualizada exitosamente")

	return updated, nil
}

// DeleteAutomation removes an automation from the backend and the list.
func (s *Service) DeleteAutomation(ctx context.Context, id string) error {
	if err := s.begin(OpDeleting); err != nil {
		return err
	}
	defer s.end(OpDeleting)

	if err := s.backend.DeleteAutomation(ctx, id); err != nil {
		s.notifier.Error(ctx, "Error al eliminar la automatización")

		return err
	}

	s.mu.Lock()

	kept := s.workflows[:0]
	for _, a := range s.workflows {
		if a.ID != id {
			kept = append(kept, a)
		}
	}

	if len(kept) < len(s.workflows) {
		s.total--
	}

	s.workflows = kept
	s.mu.Unlock()

	s.notifier.Success(ctx, "Automatización eliminada exitosamente")

	return nil
}

// ToggleAutomationActive flips an automation between active and inactive.
// When the toggled workflow is the one open in the editor, the editor's
// active flag follows.
func (s *Service) ToggleAutomationActive(ctx context.Context, id string) error {
	if err := s.begin(OpToggling); err != nil {
		return err
	}
	defer s.end(OpToggling)

	toggled, err := s.backend.ToggleAutomation(ctx, id)
	if err != nil {
		s.notifier.Error(ctx, "Error al cambiar el estado de la automatización")

		return err
	}

	s.replaceInList(*toggled)

	if s.editor.ID() == id {
		s.editor.SetActive(toggled.IsActive())
	}

	if toggled.IsActive() {
		s.notifier.Success(ctx, "Automatización activada")
	} else {
		s.notifier.Success(ctx, "Automatización desactivada")
	}

	return nil
}

// ExecuteAutomation triggers a manual run.
func (s *Service) ExecuteAutomation(ctx context.Context, id string, input map[string]any) (string, error) {
	if err := s.begin(OpExecuting); err != nil {
		return "", err
	}
	defer s.end(OpExecuting)

	executionID, err := s.backend.ExecuteAutomation(ctx, id, input)
	if err != nil {
		s.notifier.Error(ctx, "Error al ejecutar la automatización")

		return "", err
	}

	s.notifier.Success(ctx, "Ejecución iniciada: "+executionID)

	return executionID, nil
}

// LoadWorkflow fetches one automation into the editor, replacing the draft
// and reseeding history. On failure the current draft stays untouched.
func (s *Service) LoadWorkflow(ctx context.Context, id string) error {
	if err := s.begin(OpWorkflows); err != nil {
		return err
	}
	defer s.end(OpWorkflows)

	automation, err := s.backend.GetAutomation(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load workflow", "automation_id", id, "error", err)
		s.notifier.Error(ctx, "Error al cargar el workflow")

		return err
	}

	s.editor.Load(automation)

	return nil
}

// SaveCurrentWorkflow validates the draft and persists it: create when the
// draft has no id yet, update otherwise. On create the editor adopts the
// server-issued id.
func (s *Service) SaveCurrentWorkflow(ctx context.Context) error {
	if err := s.begin(OpSaving); err != nil {
		return err
	}
	defer s.end(OpSaving)

	if err := s.editor.Validate(); err != nil {
		s.notifier.Error(ctx, validationMessage(err))

		return err
	}

	draft := s.editor.ToAutomation()

	if draft.ID == "" {
		created, err := s.backend.CreateAutomation(ctx, &draft)
		if err != nil {
			s.notifier.Error(ctx, "Error al guardar el workflow")

			return err
		}

		s.editor.MarkSaved(created.ID)

		s.mu.Lock()
		s.workflows = append([]models.Automation{*created}, s.workflows...)
		s.total++
		s.mu.Unlock()
	} else {
		updated, err := s.backend.UpdateAutomation(ctx, draft.ID, &draft)
		if err != nil {
			s.notifier.Error(ctx, "Error al guardar el workflow")

			return err
		}

		s.editor.MarkSaved("")
		s.replaceInList(*updated)
	}

	s.notifier.Success(ctx, "Workflow guardado exitosamente")

	return nil
}

// InitializeCatalogs loads both read-only catalogs. It is the explicit
// entry point called once after login completes.
func (s *Service) InitializeCatalogs(ctx context.Context) error {
	if err := s.begin(OpCatalogs); err != nil {
		return err
	}
	defer s.end(OpCatalogs)

	if err := s.session.Initialize(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to load catalogs", "error", err)
		s.notifier.Error(ctx, "Error al cargar los catálogos")

		return err
	}

	s.editor.UseCatalog(s.session)

	return nil
}

// NodeTypes returns the cached node palette.
func (s *Service) NodeTypes() ([]models.NodeType, error) {
	return s.session.NodeTypes()
}

// Modules returns the cached trigger module catalog.
func (s *Service) Modules() ([]models.ModuleEvent, error) {
	return s.session.Modules()
}

func (s *Service) begin(op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[op] {
		return &InFlightError{Op: op}
	}

	s.inFlight[op] = true

	return nil
}

func (s *Service) end(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, op)
}

func (s *Service) replaceInList(updated models.Automation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.workflows {
		if s.workflows[i].ID == updated.ID {
			s.workflows[i] = updated

			return
		}
	}
}

func validationMessage(err error) string {
	var cfgErr *editor.NodeConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Sprintf("El nodo %s necesita configuración", cfgErr.NodeID)
	}

	if errors.Is(err, editor.ErrNoTrigger) {
		return "El workflow debe tener un nodo disparador"
	}

	return "El workflow no es válido"
}
