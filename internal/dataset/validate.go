// internal/dataset/validate.go
package dataset

import (
	"campaign-builder/internal/common/validation"
	"campaign-builder/internal/models"
)

// bundleSchema is a shape check only. It does not verify cross references
// between documents.
var bundleSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["config", "companies", "agents", "personas", "results"],
	"properties": {
		"config": {
			"type": "object",
			"required": ["name", "version"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"version": {"type": "string", "minLength": 1}
			}
		},
		"companies": {
			"type": "object",
			"required": ["companies"],
			"properties": {"companies": {"type": "array"}}
		},
		"agents": {
			"type": "object",
			"required": ["categories"],
			"properties": {
				"categories": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["id", "agents"],
						"properties": {"agents": {"type": "array"}}
					}
				}
			}
		},
		"personas": {
			"type": "object",
			"required": ["personas"],
			"properties": {"personas": {"type": "array"}}
		},
		"results": {
			"type": "object",
			"required": ["results"],
			"properties": {"results": {"type": "object"}}
		}
	}
}`)

// Validate reports structural problems with a bundle as readable messages.
func Validate(bundle *models.Bundle) validation.Result {
	if bundle == nil {
		return validation.Result{Valid: false, Errors: []string{"dataset bundle is missing"}}
	}
	return bundleSchema.Validate(bundle)
}
