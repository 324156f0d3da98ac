package editor

import (
	"github.com/alecap92/fcrm-automations/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// Validate gates save and execute on structural completeness: the graph
// needs exactly one trigger node and every node needs configuration data.
// When the catalog publishes a config schema for a node type, the node's
// data is additionally validated against it.
//
// Validation here is advisory: the backend remains the system of record and
// applies its own checks. This pass only avoids round-trips for graphs that
// are obviously incomplete.
func (e *Editor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasTriggerLocked() {
		return ErrNoTrigger
	}

	for i := range e.nodes {
		node := &e.nodes[i]

		if !node.HasConfig() {
			return &NodeConfigError{NodeID: node.ID, NodeType: node.Type}
		}

		if err := e.validateSchemaLocked(node); err != nil {
			return err
		}
	}

	return nil
}

func (e *Editor) validateSchemaLocked(node *models.Node) error {
	if e.catalog == nil {
		return nil
	}

	schema, ok := e.catalog.ConfigSchema(node.Type)
	if !ok || len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(node.Data),
	)
	if err != nil {
		e.logger.Warn("config schema is not loadable, skipping", "node_type", node.Type, "error", err)

		return nil
	}

	if !result.Valid() {
		reason := ""
		if errs := result.Errors(); len(errs) > 0 {
			reason = errs[0].String()
		}

		return &NodeConfigError{NodeID: node.ID, NodeType: node.Type, Reason: reason}
	}

	return nil
}
