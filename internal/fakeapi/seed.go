package fakeapi

import (
	"encoding/json"

	"github.com/alecap92/fcrm-automations/pkg/models"
)

// defaultNodeTypes is the node palette the fake publishes. The email action
// carries a config schema so schema-aware validation is exercisable.
func defaultNodeTypes() []models.NodeType {
	emailSchema := json.RawMessage(`{
		"type": "object",
		"required": ["to", "template"],
		"properties": {
			"to": {"type": "string", "minLength": 1},
			"template": {"type": "string", "minLength": 1}
		}
	}`)

	return []models.NodeType{
		{
			Type:        "trigger.manual",
			Name:        "Manual trigger",
			Category:    models.CategoryTrigger,
			Description: "Started by hand from the automation list",
		},
		{
			Type:        "trigger.webhook",
			Name:        "Webhook trigger",
			Category:    models.CategoryTrigger,
			Description: "Started by an incoming webhook",
		},
		{
			Type:        "deal_created",
			Name:        "Deal created",
			Category:    models.CategoryTrigger,
			Description: "Started when a deal is created",
		},
		{
			Type:        "condition.field",
			Name:        "Field condition",
			Category:    models.CategoryCondition,
			Description: "Branches on a record field",
		},
		{
			Type:         "action.email",
			Name:         "Send email",
			Category:     models.CategoryAction,
			Description:  "Sends a templated email",
			ConfigSchema: emailSchema,
		},
		{
			Type:        "action.webhook",
			Name:        "Call webhook",
			Category:    models.CategoryAction,
			Description: "Posts the payload to a URL",
		},
	}
}

func defaultModules() []models.ModuleEvent {
	return []models.ModuleEvent{
		{Module: "contacts", Event: "created", Name: "Contact created"},
		{Module: "contacts", Event: "updated", Name: "Contact updated"},
		{Module: "deals", Event: "created", Name: "Deal created"},
		{Module: "deals", Event: "stage_changed", Name: "Deal stage changed"},
		{Module: "invoices", Event: "overdue", Name: "Invoice overdue"},
	}
}
