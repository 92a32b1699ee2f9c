// internal/models/persona.go
package models

type PersonaVariant struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Titles      []string `json:"titles,omitempty"`
}

// Persona is read-only reference data describing a buyer role.
type Persona struct {
	ID          string         `json:"id"`
	CategoryID  string         `json:"categoryId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon,omitempty"`
	Titles      []string       `json:"titles,omitempty"`
	Expanded    PersonaVariant `json:"expanded"`
	Senior      PersonaVariant `json:"senior"`
}

type PersonaCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// SelectedPersona is a persona that has been added to a campaign.
type SelectedPersona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LegacyPersona is the reduced shape older consumers still read.
type LegacyPersona struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
