package editor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alecap92/fcrm-automations/pkg/models"
)

// Catalog resolves node categories and configuration schemas. It is
// satisfied by catalog.Session; when nil, the editor falls back to the
// type-name convention in models.CategoryOf.
type Catalog interface {
	ResolveCategory(nodeType string) models.Category
	ConfigSchema(nodeType string) (json.RawMessage, bool)
}

// Editor owns one draft workflow for the lifetime of an editing session.
// Every mutation is a composite transition: the state change and its history
// snapshot happen atomically under the editor's lock, so a mutation without
// a corresponding undo entry cannot exist.
type Editor struct {
	mu      sync.Mutex
	logger  *slog.Logger
	catalog Catalog

	id          string
	name        string
	description string
	active      bool
	editMode    bool
	unsaved     bool

	nodes []models.Node
	edges []models.Edge

	history *history
}

// New creates an editor holding an empty draft, seeded with a baseline
// history snapshot so the first mutation is undoable.
func New(logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Editor{
		logger:   logger.With("module", "editor"),
		editMode: true,
		history:  newHistory(),
	}
	e.history.push(e.snapshotLocked())

	return e
}

// UseCatalog installs a catalog for category resolution and config schemas.
func (e *Editor) UseCatalog(c Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.catalog = c
}

// AddNode appends a node to the graph. Adding a second trigger-category
// node fails with ErrTriggerExists and leaves the graph unchanged.
func (e *Editor) AddNode(node models.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.addNodeLocked(node)
}

func (e *Editor) addNodeLocked(node models.Node) error {
	if e.categoryOf(node.Type) == models.CategoryTrigger && e.hasTriggerLocked() {
		return ErrTriggerExists
	}

	node.Data = cloneData(node.Data)
	e.nodes = append(e.nodes, node)
	e.commitLocked()

	return nil
}

// UpdateNodeData merges partial configuration into the node's data map.
// Unknown ids are a no-op.
func (e *Editor) UpdateNodeData(id string, partial map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.nodes {
		if e.nodes[i].ID != id {
			continue
		}

		merged := cloneData(e.nodes[i].Data)
		if merged == nil {
			merged = make(map[string]any, len(partial))
		}

		for k, v := range partial {
			merged[k] = v
		}

		e.nodes[i].Data = merged
		e.commitLocked()

		return
	}

	e.logger.Debug("update for unknown node ignored", "node_id", id)
}

// DeleteNode removes a node and every edge touching it, on either end.
// Unknown ids are a no-op.
func (e *Editor) DeleteNode(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.nodes[:0]
	removed := false

	for _, node := range e.nodes {
		if node.ID == id {
			removed = true

			continue
		}

		kept = append(kept, node)
	}

	if !removed {
		return
	}

	e.nodes = kept

	edges := e.edges[:0]
	for _, edge := range e.edges {
		if edge.Touches(id) {
			continue
		}

		edges = append(edges, edge)
	}

	e.edges = edges
	e.commitLocked()
}

// Connect appends an edge derived from a canvas connect gesture. Only
// effective in edit mode.
func (e *Editor) Connect(conn models.Connection) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.editMode {
		return ErrReadOnly
	}

	e.edges = append(e.edges, models.Edge{
		ID:           fmt.Sprintf("edge-%s-%s", conn.Source, conn.Target),
		Source:       conn.Source,
		Target:       conn.Target,
		SourceHandle: conn.SourceHandle,
		TargetHandle: conn.TargetHandle,
	})
	e.commitLocked()

	return nil
}

// DuplicateNode clones a node's type and configuration under a fresh id,
// offset on the canvas so the copy does not overlap the original. The clone
// goes through the same trigger-guarded add path.
func (e *Editor) DuplicateNode(id string) (models.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	source, ok := e.findLocked(id)
	if !ok {
		return models.Node{}, ErrNodeNotFound
	}

	clone := models.Node{
		ID:   fmt.Sprintf("node-%d", time.Now().UnixNano()),
		Type: source.Type,
		Position: models.Position{
			X: source.Position.X + 50,
			Y: source.Position.Y + 50,
		},
		Data: cloneData(source.Data),
	}

	if err := e.addNodeLocked(clone); err != nil {
		return models.Node{}, err
	}

	return clone, nil
}

// SetNodes replaces the node collection.
func (e *Editor) SetNodes(nodes []models.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nodes = cloneNodes(nodes)
	e.commitLocked()
}

// TransformNodes applies a functional update to the node collection, for
// composable call sites that derive the next set from the current one.
func (e *Editor) TransformNodes(fn func(nodes []models.Node) []models.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nodes = cloneNodes(fn(cloneNodes(e.nodes)))
	e.commitLocked()
}

// SetEdges replaces the edge collection.
func (e *Editor) SetEdges(edges []models.Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.edges = cloneEdges(edges)
	e.commitLocked()
}

// TransformEdges applies a functional update to the edge collection.
func (e *Editor) TransformEdges(fn func(edges []models.Edge) []models.Edge) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.edges = cloneEdges(fn(cloneEdges(e.edges)))
	e.commitLocked()
}

// SetName updates the workflow name.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.name = name
	e.commitLocked()
}

// SetDescription updates the workflow description.
func (e *Editor) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.description = description
	e.commitLocked()
}

// Undo restores the previous snapshot. The result may differ from what the
// backend has persisted, so the draft is marked unsaved.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.history.undo()
	if !ok {
		return false
	}

	e.restoreLocked(s)

	return true
}

// Redo re-applies the next snapshot after an undo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.history.redo()
	if !ok {
		return false
	}

	e.restoreLocked(s)

	return true
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.canUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.history.canRedo()
}

// Load replaces the draft with a persisted automation. Edges are not part
// of the persisted shape, so they reset to empty; history reseeds with a
// single baseline snapshot and the draft starts clean.
func (e *Editor) Load(automation *models.Automation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.id = automation.ID
	e.name = automation.Name
	e.description = automation.Description
	e.active = automation.IsActive()
	e.nodes = cloneNodes(automation.Nodes)
	e.edges = nil
	e.unsaved = false

	e.history.reset()
	e.history.push(e.snapshotLocked())
}

// NewWorkflow discards the current draft and starts a fresh one.
func (e *Editor) NewWorkflow(name, description string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.id = ""
	e.name = name
	e.description = description
	e.active = false
	e.nodes = nil
	e.edges = nil
	e.unsaved = false

	e.history.reset()
	e.history.push(e.snapshotLocked())
}

// Reset discards all draft state without any server round-trip.
func (e *Editor) Reset() {
	e.NewWorkflow("", "")
}

// ToAutomation converts the draft into the backend's persisted shape.
// Edges are intentionally absent: the backend stores nodes only.
func (e *Editor) ToAutomation() models.Automation {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := models.AutomationStatusInactive
	if e.active {
		status = models.AutomationStatusActive
	}

	return models.Automation{
		ID:          e.id,
		Name:        e.name,
		Description: e.description,
		Status:      status,
		Nodes:       cloneNodes(e.nodes),
	}
}

// MarkSaved records a successful persist: the server-issued id (on create)
// and a clean unsaved flag.
func (e *Editor) MarkSaved(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id != "" {
		e.id = id
	}

	e.unsaved = false
}

func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.id
}

func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.name
}

func (e *Editor) Description() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.description
}

func (e *Editor) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.active
}

// SetActive mirrors the backend's active flag. It is server state, not a
// graph edit: no history entry, no unsaved mark.
func (e *Editor) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active = active
}

func (e *Editor) SetEditMode(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.editMode = enabled
}

func (e *Editor) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.editMode
}

func (e *Editor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.unsaved
}

// Nodes returns a copy of the node collection.
func (e *Editor) Nodes() []models.Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneNodes(e.nodes)
}

// Edges returns a copy of the edge collection.
func (e *Editor) Edges() []models.Edge {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneEdges(e.edges)
}

// commitLocked is the single point every mutation funnels through: mark the
// draft dirty and push a history snapshot.
func (e *Editor) commitLocked() {
	e.unsaved = true
	e.history.push(e.snapshotLocked())
}

func (e *Editor) snapshotLocked() Snapshot {
	return Snapshot{
		Nodes:       cloneNodes(e.nodes),
		Edges:       cloneEdges(e.edges),
		Name:        e.name,
		Description: e.description,
	}
}

func (e *Editor) restoreLocked(s Snapshot) {
	e.nodes = cloneNodes(s.Nodes)
	e.edges = cloneEdges(s.Edges)
	e.name = s.Name
	e.description = s.Description
	e.unsaved = true
}

func (e *Editor) findLocked(id string) (models.Node, bool) {
	for _, node := range e.nodes {
		if node.ID == id {
			return node, true
		}
	}

	return models.Node{}, false
}

func (e *Editor) hasTriggerLocked() bool {
	for i := range e.nodes {
		if e.categoryOf(e.nodes[i].Type) == models.CategoryTrigger {
			return true
		}
	}

	return false
}

func (e *Editor) categoryOf(nodeType string) models.Category {
	if e.catalog != nil {
		return e.catalog.ResolveCategory(nodeType)
	}

	return models.CategoryOf(nodeType)
}

func cloneNodes(nodes []models.Node) []models.Node {
	if nodes == nil {
		return nil
	}

	out := make([]models.Node, len(nodes))
	for i, node := range nodes {
		node.Data = cloneData(node.Data)
		out[i] = node
	}

	return out
}

func cloneEdges(edges []models.Edge) []models.Edge {
	if edges == nil {
		return nil
	}

	out := make([]models.Edge, len(edges))
	copy(out, edges)

	return out
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	return out
}
