package automation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alecap92/fcrm-automations/pkg/automation"
	"github.com/alecap92/fcrm-automations/pkg/catalog"
	"github.com/alecap92/fcrm-automations/pkg/client"
	"github.com/alecap92/fcrm-automations/pkg/editor"
	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/alecap92/fcrm-automations/pkg/notify"
)

type stubBackend struct {
	listFn    func(ctx context.Context, opts client.ListOptions) (*client.AutomationList, error)
	getFn     func(ctx context.Context, id string) (*models.Automation, error)
	createFn  func(ctx context.Context, a *models.Automation) (*models.Automation, error)
	updateFn  func(ctx context.Context, id string, a *models.Automation) (*models.Automation, error)
	deleteFn  func(ctx context.Context, id string) error
	toggleFn  func(ctx context.Context, id string) (*models.Automation, error)
	executeFn func(ctx context.Context, id string, input map[string]any) (string, error)
}

func (b *stubBackend) ListAutomations(ctx context.Context, opts client.ListOptions) (*client.AutomationList, error) {
	return b.listFn(ctx, opts)
}

func (b *stubBackend) GetAutomation(ctx context.Context, id string) (*models.Automation, error) {
	return b.getFn(ctx, id)
}

func (b *stubBackend) CreateAutomation(ctx context.Context, a *models.Automation) (*models.Automation, error) {
	return b.createFn(ctx, a)
}

func (b *stubBackend) UpdateAutomation(ctx context.Context, id string, a *models.Automation) (*models.Automation, error) {
	return b.updateFn(ctx, id, a)
}

func (b *stubBackend) DeleteAutomation(ctx context.Context, id string) error {
	return b.deleteFn(ctx, id)
}

func (b *stubBackend) ToggleAutomation(ctx context.Context, id string) (*models.Automation, error) {
	return b.toggleFn(ctx, id)
}

func (b *stubBackend) ExecuteAutomation(ctx context.Context, id string, input map[string]any) (string, error) {
	return b.executeFn(ctx, id, input)
}

type recorder struct {
	mu       sync.Mutex
	messages []notify.Notification
}

func (r *recorder) Success(_ context.Context, message string) {
	r.record(notify.LevelSuccess, message)
}

func (r *recorder) Error(_ context.Context, message string) {
	r.record(notify.LevelError, message)
}

func (r *recorder) record(level notify.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, notify.Notification{Level: level, Message: message, At: time.Now()})
}

func (r *recorder) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]notify.Notification, len(r.messages))
	copy(out, r.messages)

	return out
}

type stubLoader struct {
	nodeTypes []models.NodeType
	modules   []models.ModuleEvent
}

func (l *stubLoader) NodeTypes(context.Context) ([]models.NodeType, error) {
	return l.nodeTypes, nil
}

func (l *stubLoader) Modules(context.Context) ([]models.ModuleEvent, error) {
	return l.modules, nil
}

func newService(t *testing.T, backend *stubBackend) (*automation.Service, *recorder) {
	t.Helper()

	rec := &recorder{}
	session := catalog.NewSession(&stubLoader{}, nil)
	svc := automation.NewService(backend, editor.New(nil), session, rec, nil)

	return svc, rec
}

func TestService_LoadAutomations(t *testing.T) {
	backend := &stubBackend{
		listFn: func(_ context.Context, opts client.ListOptions) (*client.AutomationList, error) {
			assert.Equal(t, models.AutomationStatusActive, opts.Status)

			return &client.AutomationList{
				Data:  []models.Automation{{ID: "a1", Name: "Welcome"}},
				Total: 1,
			}, nil
		},
	}
	svc, rec := newService(t, backend)

	err := svc.LoadAutomations(t.Context(), client.ListOptions{Status: "active"})
	require.NoError(t, err)

	assert.Len(t, svc.Workflows(), 1)
	assert.Equal(t, 1, svc.Total())
	assert.Empty(t, rec.all(), "successful list loads are silent")
}

func TestService_LoadAutomationsFailureKeepsPriorList(t *testing.T) {
	calls := 0
	backend := &stubBackend{
		listFn: func(context.Context, client.ListOptions) (*client.AutomationList, error) {
			calls++
			if calls == 1 {
				return &client.AutomationList{
					Data:  []models.Automation{{ID: "a1", Name: "Welcome"}},
					Total: 1,
				}, nil
			}

			return nil, errors.New("connection refused")
		},
	}
	svc, rec := newService(t, backend)

	require.NoError(t, svc.LoadAutomations(t.Context(), client.ListOptions{}))
	require.Error(t, svc.LoadAutomations(t.Context(), client.ListOptions{}))

	assert.Len(t, svc.Workflows(), 1, "failed reload must not blank the list")
	assert.Equal(t, 1, svc.Total())

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.LevelError, messages[0].Level)
}

func TestService_CreateAutomationNotifiesOnce(t *testing.T) {
	backend := &stubBackend{
		createFn: func(_ context.Context, a *models.Automation) (*models.Automation, error) {
			created := *a
			created.ID = "new-id"

			return &created, nil
		},
	}
	svc, rec := newService(t, backend)

	created, err := svc.CreateAutomation(t.Context(), &models.Automation{Name: "Lead follow-up"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.LevelSuccess, messages[0].Level)
	assert.Equal(t, "Automatización creada exitosamente", messages[0].Message)

	assert.Len(t, svc.Workflows(), 1)
	assert.Equal(t, 1, svc.Total())
}

func TestService_CreateAutomationFailure(t *testing.T) {
	backend := &stubBackend{
		createFn: func(context.Context, *models.Automation) (*models.Automation, error) {
			return nil, errors.New("boom")
		},
	}
	svc, rec := newService(t, backend)

	_, err := svc.CreateAutomation(t.Context(), &models.Automation{Name: "Lead follow-up"})
	require.Error(t, err)

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.LevelError, messages[0].Level)
	assert.Equal(t, "Error al crear la automatización", messages[0].Message)
}

func TestService_DeleteAutomationRemovesFromList(t *testing.T) {
	backend := &stubBackend{
		listFn: func(context.Context, client.ListOptions) (*client.AutomationList, error) {
			return &client.AutomationList{
				Data: []models.Automation{
					{ID: "a1", Name: "Welcome"},
					{ID: "a2", Name: "Churn alert"},
				},
				Total: 2,
			}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			assert.Equal(t, "a1", id)

			return nil
		},
	}
	svc, rec := newService(t, backend)
	require.NoError(t, svc.LoadAutomations(t.Context(), client.ListOptions{}))

	require.NoError(t, svc.DeleteAutomation(t.Context(), "a1"))

	workflows := svc.Workflows()
	require.Len(t, workflows, 1)
	assert.Equal(t, "a2", workflows[0].ID)
	assert.Equal(t, 1, svc.Total())

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Automatización eliminada exitosamente", messages[0].Message)
}

func TestService_ToggleSyncsOpenEditor(t *testing.T) {
	backend := &stubBackend{
		getFn: func(context.Context, string) (*models.Automation, error) {
			return &models.Automation{ID: "a1", Name: "Welcome", Status: "inactive"}, nil
		},
		toggleFn: func(_ context.Context, id string) (*models.Automation, error) {
			return &models.Automation{ID: id, Name: "Welcome", Status: "active"}, nil
		},
	}
	svc, rec := newService(t, backend)
	require.NoError(t, svc.LoadWorkflow(t.Context(), "a1"))
	require.False(t, svc.Editor().Active())

	require.NoError(t, svc.ToggleAutomationActive(t.Context(), "a1"))

	assert.True(t, svc.Editor().Active(), "open workflow follows the toggled status")

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Automatización activada", messages[0].Message)
}

func TestService_ToggleOtherWorkflowLeavesEditorAlone(t *testing.T) {
	backend := &stubBackend{
		toggleFn: func(_ context.Context, id string) (*models.Automation, error) {
			return &models.Automation{ID: id, Status: "active"}, nil
		},
	}
	svc, _ := newService(t, backend)

	require.NoError(t, svc.ToggleAutomationActive(t.Context(), "someone-else"))

	assert.False(t, svc.Editor().Active())
}

func TestService_SaveCurrentWorkflowCreatesWhenNew(t *testing.T) {
	var got *models.Automation
	backend := &stubBackend{
		createFn: func(_ context.Context, a *models.Automation) (*models.Automation, error) {
			got = a
			created := *a
			created.ID = "server-id"

			return &created, nil
		},
	}
	svc, rec := newService(t, backend)

	ed := svc.Editor()
	ed.SetName("Invoice reminder")
	require.NoError(t, ed.AddNode(models.Node{
		ID:   "n1",
		Type: "trigger.deal",
		Data: map[string]any{"event": "created"},
	}))

	require.NoError(t, svc.SaveCurrentWorkflow(t.Context()))

	require.NotNil(t, got)
	assert.Empty(t, got.ID, "create path sends no id")
	assert.Equal(t, "server-id", ed.ID(), "editor adopts the server-issued id")
	assert.False(t, ed.HasUnsavedChanges())

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Workflow guardado exitosamente", messages[0].Message)
}

func TestService_SaveCurrentWorkflowUpdatesWhenSaved(t *testing.T) {
	updates := 0
	backend := &stubBackend{
		getFn: func(context.Context, string) (*models.Automation, error) {
			return &models.Automation{
				ID:     "a1",
				Name:   "Welcome",
				Status: "inactive",
				Nodes: []models.Node{{
					ID:   "n1",
					Type: "trigger.deal",
					Data: map[string]any{"event": "created"},
				}},
			}, nil
		},
		updateFn: func(_ context.Context, id string, _ *models.Automation) (*models.Automation, error) {
			updates++
			assert.Equal(t, "a1", id)

			return &models.Automation{ID: id, Name: "Welcome"}, nil
		},
	}
	svc, _ := newService(t, backend)
	require.NoError(t, svc.LoadWorkflow(t.Context(), "a1"))

	svc.Editor().SetName("Welcome v2")
	require.True(t, svc.Editor().HasUnsavedChanges())

	require.NoError(t, svc.SaveCurrentWorkflow(t.Context()))

	assert.Equal(t, 1, updates)
	assert.False(t, svc.Editor().HasUnsavedChanges())
}

func TestService_SaveRejectsInvalidDraft(t *testing.T) {
	backend := &stubBackend{
		createFn: func(context.Context, *models.Automation) (*models.Automation, error) {
			t.Fatal("backend must not be called for an invalid draft")

			return nil, nil
		},
	}
	svc, rec := newService(t, backend)

	err := svc.SaveCurrentWorkflow(t.Context())
	require.ErrorIs(t, err, editor.ErrNoTrigger)

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.LevelError, messages[0].Level)
	assert.Equal(t, "El workflow debe tener un nodo disparador", messages[0].Message)
}

func TestService_InFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &stubBackend{
		listFn: func(context.Context, client.ListOptions) (*client.AutomationList, error) {
			close(started)
			<-release

			return &client.AutomationList{}, nil
		},
	}
	svc, _ := newService(t, backend)

	done := make(chan error, 1)
	go func() {
		done <- svc.LoadAutomations(context.Background(), client.ListOptions{})
	}()

	<-started
	assert.True(t, svc.Loading(automation.OpWorkflows))

	err := svc.LoadAutomations(t.Context(), client.ListOptions{})
	require.ErrorIs(t, err, automation.ErrOperationInFlight)

	var inFlight *automation.InFlightError
	require.ErrorAs(t, err, &inFlight)
	assert.Equal(t, automation.OpWorkflows, inFlight.Op)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.Loading(automation.OpWorkflows))
}

func TestService_DifferentOperationsMayOverlap(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	backend := &stubBackend{
		listFn: func(context.Context, client.ListOptions) (*client.AutomationList, error) {
			close(started)
			<-release

			return &client.AutomationList{}, nil
		},
		executeFn: func(context.Context, string, map[string]any) (string, error) {
			return "exec-1", nil
		},
	}
	svc, _ := newService(t, backend)

	done := make(chan error, 1)
	go func() {
		done <- svc.LoadAutomations(context.Background(), client.ListOptions{})
	}()

	<-started

	executionID, err := svc.ExecuteAutomation(t.Context(), "a1", nil)
	require.NoError(t, err, "executing is independent of the workflows flag")
	assert.Equal(t, "exec-1", executionID)

	close(release)
	require.NoError(t, <-done)
}

func TestService_AddNodeReportsTriggerViolation(t *testing.T) {
	svc, rec := newService(t, &stubBackend{})

	require.True(t, svc.AddNode(t.Context(), models.Node{ID: "n1", Type: "trigger.deal"}))
	require.False(t, svc.AddNode(t.Context(), models.Node{ID: "n2", Type: "trigger.contact"}))

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.LevelError, messages[0].Level)
	assert.Equal(t, "Solo se permite un nodo disparador por workflow", messages[0].Message)
}

func TestService_InitializeCatalogs(t *testing.T) {
	loader := &stubLoader{
		nodeTypes: []models.NodeType{{Type: "deal_created", Name: "Deal created", Category: "trigger"}},
		modules:   []models.ModuleEvent{{Module: "deals", Event: "created", Name: "Deal created"}},
	}
	session := catalog.NewSession(loader, nil)
	svc := automation.NewService(&stubBackend{}, editor.New(nil), session, &recorder{}, nil)

	require.NoError(t, svc.InitializeCatalogs(t.Context()))

	nodeTypes, err := svc.NodeTypes()
	require.NoError(t, err)
	assert.Len(t, nodeTypes, 1)

	// Catalog category beats the type-name convention once installed.
	err = svc.Editor().AddNode(models.Node{ID: "n1", Type: "deal_created"})
	require.NoError(t, err)
	err = svc.Editor().AddNode(models.Node{ID: "n2", Type: "deal_created"})
	require.ErrorIs(t, err, editor.ErrTriggerExists)
}

func TestService_ExecuteAutomationFailure(t *testing.T) {
	backend := &stubBackend{
		executeFn: func(context.Context, string, map[string]any) (string, error) {
			return "", errors.New("boom")
		},
	}
	svc, rec := newService(t, backend)

	_, err := svc.ExecuteAutomation(t.Context(), "a1", nil)
	require.Error(t, err)

	messages := rec.all()
	require.Len(t, messages, 1)
	assert.Equal(t, "Error al ejecutar la automatización", messages[0].Message)
}
