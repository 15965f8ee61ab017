// ABOUTME: Request DTOs for the generate protocol endpoint
// ABOUTME: Fields are optional so the handler can answer malformed requests with 400 itself

package requests

// Protocol request types
const (
	TypeGenerate = "generate"
	TypeMetadata = "metadata"
)

// GenerateRequest is the body of POST /mcp. Unknown fields are ignored.
type GenerateRequest struct {
	Type   string  `json:"type,omitempty" doc:"Request type: generate or metadata" example:"generate"`
	Input  *string `json:"input,omitempty" doc:"Free-form query text, e.g. \"search for quantum computing\""`
	Stream *bool   `json:"stream,omitempty" doc:"Stream frames as text/event-stream; defaults to true unless Accept prefers application/json"`

	_ struct{} `json:"-" additionalProperties:"true"`
}
