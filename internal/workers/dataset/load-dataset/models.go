// internal/workers/dataset/load-dataset/models.go
package loaddataset

import "campaign-builder/internal/models"

type Input struct {
	DatasetName string `json:"datasetName,omitempty"`
	ClearCache  bool   `json:"clearCache,omitempty"`
}

// Output carries the accessor views of the loaded dataset. Agents already
// include local overrides.
type Output struct {
	DatasetName       string                            `json:"datasetName"`
	Config            models.DatasetConfig              `json:"config"`
	Companies         []models.Company                  `json:"companies"`
	Agents            []models.Agent                    `json:"agents"`
	Personas          []models.Persona                  `json:"personas"`
	PersonaCategories map[string]models.PersonaCategory `json:"personaCategories"`
	LegacyPersonas    []models.LegacyPersona            `json:"legacyPersonas"`
	AvailableDatasets []string                          `json:"availableDatasets"`
}
