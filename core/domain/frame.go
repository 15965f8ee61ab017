// ABOUTME: Protocol frame and metadata descriptor for the generate protocol
// ABOUTME: A frame is one unit of output; the last frame of a response is the only one with Done set

package domain

// Frame kinds
const (
	FrameKindGenerate = "generate_response"
	FrameKindError    = "error"
)

// Frame is one emitted unit of a protocol response
type Frame struct {
	Kind string `json:"type"`
	Text string `json:"response"`
	Done bool   `json:"done"`
}

// NewTextFrame builds a generate_response frame
func NewTextFrame(text string, done bool) Frame {
	return Frame{Kind: FrameKindGenerate, Text: text, Done: done}
}

// NewErrorFrame builds a terminal error frame
func NewErrorFrame(text string) Frame {
	return Frame{Kind: FrameKindError, Text: text, Done: true}
}

// IsError reports whether the frame carries an error
func (f Frame) IsError() bool {
	return f.Kind == FrameKindError
}

// Metadata describes the protocol endpoint to metadata requests
type Metadata struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Version      string        `json:"version"`
	Author       string        `json:"author"`
	Capabilities CapabilitySet `json:"capabilities"`
}

// CapabilitySet lists what the endpoint supports
type CapabilitySet struct {
	Search    bool `json:"search"`
	Streaming bool `json:"streaming"`
}
