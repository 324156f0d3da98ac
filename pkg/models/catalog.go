package models

import "encoding/json"

// NodeType describes one entry of the node palette: the type name, its
// category, and the schemas the editor uses to render configuration forms.
type NodeType struct {
	Type         string          `json:"type"                   validate:"required"`
	Name         string          `json:"name"                   validate:"required"`
	Category     Category        `json:"category"               validate:"required,oneof=trigger condition action"`
	Description  string          `json:"description"`
	Inputs       map[string]any  `json:"inputs,omitempty"`
	Outputs      map[string]any  `json:"outputs,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"` // JSON Schema for Node.Data
}

// ModuleEvent describes a trigger source: an event emitted by one of the
// product's modules (contacts, deals, invoices, ...) that can start a workflow.
type ModuleEvent struct {
	Module      string         `json:"module"      validate:"required"`
	Event       string         `json:"event"       validate:"required"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Payload     map[string]any `json:"payload,omitempty"`
}
