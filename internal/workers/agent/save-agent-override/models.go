// internal/workers/agent/save-agent-override/models.go
package saveagentoverride

import (
	"encoding/json"

	"campaign-builder/internal/models"
)

// Input carries a partial agent. Reset discards every stored edit for the
// agent and ignores Override.
type Input struct {
	AgentID  string          `json:"agentId"`
	Override json.RawMessage `json:"override,omitempty"`
	Reset    bool            `json:"reset,omitempty"`
}

type Output struct {
	Agent    models.Agent    `json:"agent"`
	Override json.RawMessage `json:"override,omitempty"`
	Reset    bool            `json:"reset"`
}
