// ABOUTME: Response DTOs for the generate protocol endpoint
// ABOUTME: Wraps the endpoint metadata in the metadata_response envelope

package responses

import "github.com/Lucasff16/arxiv-api-backend/core/domain"

// MetadataResponseType is the type of a metadata answer
const MetadataResponseType = "metadata_response"

// MetadataResponse is the body of a metadata request
type MetadataResponse struct {
	Type     string          `json:"type"`
	Metadata domain.Metadata `json:"metadata"`
}

// NewMetadataResponse wraps metadata in its envelope
func NewMetadataResponse(metadata domain.Metadata) MetadataResponse {
	return MetadataResponse{Type: MetadataResponseType, Metadata: metadata}
}
