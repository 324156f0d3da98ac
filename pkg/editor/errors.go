// Package editor implements the in-memory, undoable graph-editing state
// machine behind the visual workflow editor.
package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrTriggerExists is returned when adding a trigger node to a graph
	// that already has one.
	ErrTriggerExists = errors.New("workflow already has a trigger node")

	// ErrNoTrigger is returned by Validate when the graph has no trigger node.
	ErrNoTrigger = errors.New("workflow must have a trigger node")

	// ErrNodeNotFound indicates the referenced node is not in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrReadOnly is returned by operations that require edit mode.
	ErrReadOnly = errors.New("editor is not in edit mode")

	// ErrNodeConfig indicates a node's configuration is missing or invalid.
	ErrNodeConfig = errors.New("node needs configuration")
)

// NodeConfigError reports which node failed configuration validation and why.
type NodeConfigError struct {
	NodeID   string
	NodeType string
	Reason   string
}

func (e *NodeConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("node %s (%s) needs configuration: %s", e.NodeID, e.NodeType, e.Reason)
	}

	return fmt.Sprintf("node %s (%s) needs configuration", e.NodeID, e.NodeType)
}

func (e *NodeConfigError) Unwrap() error {
	return ErrNodeConfig
}

// IsValidationError checks if an error comes from workflow validation
// rather than from a remote call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoTrigger) ||
		errors.Is(err, ErrTriggerExists) ||
		errors.Is(err, ErrNodeConfig)
}
