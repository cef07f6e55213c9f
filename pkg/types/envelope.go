package types

import "encoding/json"

// Envelope is the fixed response shape of every backend endpoint:
// {"success": bool, "message": string, "data": ...}.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
