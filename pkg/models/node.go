// Package models defines the core domain models for node-based workflow automation.
package models

import "strings"

// Category represents the category of a workflow node.
type Category string

const (
	CategoryTrigger   Category = "trigger"   // Starts a workflow; at most one per graph
	CategoryCondition Category = "condition" // Branches on its input
	CategoryAction    Category = "action"    // Regular step (http, email, crm update, etc.)
)

// CategoryOf derives a node category from its type name by convention.
// The catalog overrides this with an exact-type table once loaded; the
// convention only covers types the backend has not published yet.
func CategoryOf(nodeType string) Category {
	switch {
	case strings.Contains(nodeType, "trigger"):
		return CategoryTrigger
	case strings.Contains(nodeType, "condition"):
		return CategoryCondition
	default:
		return CategoryAction
	}
}

// Position is a node's placement on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a node instance in the editor graph. The JSON shape matches what
// the visual editor renders (id/type/position/data plus optional handles).
type Node struct {
	ID           string         `json:"id"                     validate:"required"`
	Type         string         `json:"type"                   validate:"required"`
	Position     Position       `json:"position"`
	Data         map[string]any `json:"data"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
}

// Category returns the node's category derived from its type name.
func (n *Node) Category() Category {
	return CategoryOf(n.Type)
}

// IsTrigger reports whether the node belongs to the trigger category.
func (n *Node) IsTrigger() bool {
	return n.Category() == CategoryTrigger
}

// HasConfig reports whether the node carries any configuration data.
func (n *Node) HasConfig() bool {
	return len(n.Data) > 0
}

// Edge is a directed connection between two node handles.
type Edge struct {
	ID           string `json:"id"                     validate:"required"`
	Source       string `json:"source"                 validate:"required"`
	Target       string `json:"target"                 validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Touches reports whether the edge references the given node on either end.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Connection describes a connect gesture between two node handles, as
// produced by the canvas when the user drags from one port to another.
type Connection struct {
	Source       string `json:"source"       validate:"required"`
	Target       string `json:"target"       validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}
