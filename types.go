package addon

import (
	"encoding/json"

	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Version is the addon's version, reported by Describe.
const Version = "1.0.0"

// OperationInfo describes one exported operation.
type OperationInfo struct {
	entities.Operation
	Arity int `json:"arity"`

	// RequestSchema and ResponseSchema describe the JSON wire form used by
	// WASM guests.
	RequestSchema  json.RawMessage `json:"request_schema"`
	ResponseSchema json.RawMessage `json:"response_schema"`
}

// Description is the full self-description of the addon.
type Description struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	Operations []OperationInfo `json:"operations"`
}
