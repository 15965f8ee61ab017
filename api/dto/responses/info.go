// ABOUTME: Response DTOs for the service information endpoints
// ABOUTME: Describes the API surface and the generate protocol usage

package responses

// StatusResponse is the body of GET /
type StatusResponse struct {
	Message string `json:"message" example:"arXiv search API"`
	Status  string `json:"status" example:"online"`
}

// EndpointsResponse is the body of GET /api
type EndpointsResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// ProtocolUsageResponse is the body of GET /mcp
type ProtocolUsageResponse struct {
	Message  string         `json:"message"`
	Endpoint string         `json:"endpoint"`
	Methods  []string       `json:"methods"`
	Request  map[string]any `json:"request"`
	Example  map[string]any `json:"example"`
}
