package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucasff16/arxiv-api-backend/api/dto/responses"
	"github.com/Lucasff16/arxiv-api-backend/core/dispatch"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	coreerrors "github.com/Lucasff16/arxiv-api-backend/core/errors"
)

var testMetadata = domain.Metadata{
	Name:         "arxiv-search",
	Description:  "Search arXiv articles",
	Version:      "1.0.0",
	Author:       "tests",
	Capabilities: domain.CapabilitySet{Search: true, Streaming: true},
}

func newProtocolAPI(t *testing.T, fetcher *mockFetcher) humatest.TestAPI {
	t.Helper()
	return newProtocolAPIWithHeartbeat(t, fetcher, DefaultHeartbeatInterval)
}

func newProtocolAPIWithHeartbeat(t *testing.T, fetcher *mockFetcher, heartbeat time.Duration) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	dispatcher := dispatch.New(fetcher, nil, dispatch.Options{PageSize: 5})
	NewProtocolHandler(dispatcher, nil, testMetadata).
		WithHeartbeatInterval(heartbeat).
		RegisterRoutes(api)
	return api
}

// readFrames parses the data lines of an event stream body
func readFrames(t *testing.T, body string) []domain.Frame {
	t.Helper()

	var frames []domain.Frame
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame domain.Frame
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame))
		frames = append(frames, frame)
	}
	require.NoError(t, scanner.Err())
	return frames
}

func TestProtocolHandler_Usage(t *testing.T) {
	api := newProtocolAPI(t, &mockFetcher{})

	resp := api.Get(ProtocolPath)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"endpoint":"/mcp"`)
	assert.Contains(t, resp.Body.String(), `"generate"`)
}

func TestProtocolHandler_Metadata(t *testing.T) {
	fetcher := &mockFetcher{}
	api := newProtocolAPI(t, fetcher)

	resp := api.Post(ProtocolPath, map[string]any{"type": "metadata"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")

	var got responses.MetadataResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, responses.MetadataResponseType, got.Type)
	assert.Equal(t, testMetadata, got.Metadata)
	assert.JSONEq(t, `{
		"type": "metadata_response",
		"metadata": {
			"name": "arxiv-search",
			"description": "Search arXiv articles",
			"version": "1.0.0",
			"author": "tests",
			"capabilities": {"search": true, "streaming": true}
		}
	}`, resp.Body.String())
	assert.Empty(t, fetcher.calls)
}

func TestProtocolHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing type", map[string]any{"input": "graphs"}, "type is required"},
		{"unknown type", map[string]any{"type": "summarize", "input": "graphs"}, `unknown request type \"summarize\"`},
		{"missing input", map[string]any{"type": "generate"}, "input is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			api := newProtocolAPI(t, fetcher)

			resp := api.Post(ProtocolPath, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.want)
			assert.Empty(t, fetcher.calls)
		})
	}
}

func TestProtocolHandler_IgnoresUnknownFields(t *testing.T) {
	api := newProtocolAPI(t, &mockFetcher{})

	resp := api.Post(ProtocolPath, map[string]any{"type": "metadata", "model": "anything", "options": map[string]any{}})
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestProtocolHandler_SyncFrame(t *testing.T) {
	fetcher := fetcherWithArticles(2)
	api := newProtocolAPI(t, fetcher)

	resp := api.Post(ProtocolPath, map[string]any{
		"type":   "generate",
		"input":  "search for quantum computing",
		"stream": false,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	assert.Equal(t, "generate_response", raw["type"])
	assert.Contains(t, raw, "response")

	var frame domain.Frame
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &frame))
	assert.Equal(t, domain.FrameKindGenerate, frame.Kind)
	assert.True(t, frame.Done)
	assert.Contains(t, frame.Text, "1. Paper 1")
	assert.Contains(t, frame.Text, "2. Paper 2")

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, "quantum computing", fetcher.calls[0].Query)
	assert.Equal(t, 5, fetcher.calls[0].MaxResults)
}

func TestProtocolHandler_SyncByAcceptHeader(t *testing.T) {
	api := newProtocolAPI(t, fetcherWithArticles(1))

	resp := api.Post(ProtocolPath, "Accept: application/json", map[string]any{
		"type":  "generate",
		"input": "graphs",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")
	assert.NotContains(t, resp.Body.String(), "data: ")
}

func TestProtocolHandler_SyncErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		status int
	}{
		{"blank input", "   ", nil, http.StatusBadRequest},
		{"upstream failure", "graphs", &coreerrors.UpstreamError{StatusCode: 503, Message: "down", API: "arxiv"}, http.StatusInternalServerError},
		{"upstream throttling", "graphs", &coreerrors.UpstreamError{StatusCode: 429, Message: "slow", API: "arxiv"}, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newProtocolAPI(t, &mockFetcher{
				fetchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
					return nil, tt.err
				},
			})

			resp := api.Post(ProtocolPath, map[string]any{"type": "generate", "input": tt.input, "stream": false})
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}
}

func TestProtocolHandler_Stream(t *testing.T) {
	api := newProtocolAPI(t, fetcherWithArticles(3))

	resp := api.Post(ProtocolPath, map[string]any{"type": "generate", "input": "graph theory"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header().Get("Cache-Control"))
	assert.Equal(t, "no", resp.Header().Get("X-Accel-Buffering"))

	frames := readFrames(t, resp.Body.String())
	require.Len(t, frames, 3)
	for i, frame := range frames {
		assert.Equal(t, domain.FrameKindGenerate, frame.Kind)
		assert.Equal(t, i == len(frames)-1, frame.Done, "frame %d", i)
	}
	assert.True(t, strings.HasPrefix(frames[0].Text, "1. Paper 1"))
	assert.True(t, strings.HasPrefix(frames[2].Text, "3. Paper 3"))
}

func TestProtocolHandler_StreamNoResults(t *testing.T) {
	api := newProtocolAPI(t, fetcherWithArticles(0))

	resp := api.Post(ProtocolPath, "Accept: text/event-stream", map[string]any{"type": "generate", "input": "xyzzy"})
	require.Equal(t, http.StatusOK, resp.Code)

	frames := readFrames(t, resp.Body.String())
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Done)
	assert.Contains(t, frames[0].Text, "xyzzy")
}

func TestProtocolHandler_StreamUpstreamError(t *testing.T) {
	api := newProtocolAPI(t, &mockFetcher{
		fetchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
			return nil, &coreerrors.UpstreamError{StatusCode: 503, Message: "unavailable", API: "arxiv"}
		},
	})

	resp := api.Post(ProtocolPath, map[string]any{"type": "generate", "input": "graphs", "stream": true})
	require.Equal(t, http.StatusOK, resp.Code)

	frames := readFrames(t, resp.Body.String())
	require.Len(t, frames, 1)
	assert.Equal(t, domain.FrameKindError, frames[0].Kind)
	assert.True(t, frames[0].Done)
	assert.Contains(t, frames[0].Text, "Error searching arXiv")
}

func TestProtocolHandler_StreamHeartbeat(t *testing.T) {
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
			select {
			case <-time.After(150 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return &domain.SearchResult{
				Articles:     []domain.Article{{ID: domain.StringPtr("2401.00001"), Title: domain.StringPtr("Paper 1")}},
				TotalResults: 1,
			}, nil
		},
	}
	api := newProtocolAPIWithHeartbeat(t, fetcher, 20*time.Millisecond)

	resp := api.Post(ProtocolPath, map[string]any{"type": "generate", "input": "graphs"})
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, ": heartbeat\n\n")
	assert.True(t, strings.HasSuffix(body, "\n\n"))

	frames := readFrames(t, body)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Done)
	assert.Less(t, strings.LastIndex(body, ": heartbeat"), strings.LastIndex(body, "data: "))
}

func TestProtocolHandler_NoHeartbeatWhenDisabled(t *testing.T) {
	api := newProtocolAPIWithHeartbeat(t, fetcherWithArticles(1), 0)

	resp := api.Post(ProtocolPath, map[string]any{"type": "generate", "input": "graphs"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), ": heartbeat")
}

func TestSSEWriter_FlushesEachFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newSSEWriter(rec)
	require.NotNil(t, sw.rc)

	require.NoError(t, sw.writeFrame(domain.Frame{Kind: domain.FrameKindGenerate, Text: "1. Paper", Done: false}))
	assert.True(t, rec.Flushed)
	assert.Equal(t, "data: {\"type\":\"generate_response\",\"response\":\"1. Paper\",\"done\":false}\n\n", rec.Body.String())
}

func TestSSEWriter_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	sw := newSSEWriter(&buf)
	assert.Nil(t, sw.rc)

	require.NoError(t, sw.writeFrame(domain.Frame{Kind: domain.FrameKindGenerate, Text: "done", Done: true}))
	require.NoError(t, sw.comment(heartbeatComment))
	assert.Equal(t, "data: {\"type\":\"generate_response\",\"response\":\"done\",\"done\":true}\n\n", buf.String())
}

func TestProtocolHandler_JSONEncodeFailureIsLogged(t *testing.T) {
	logger := &mockLogger{}
	h := NewProtocolHandler(nil, logger, testMetadata)

	rec := httptest.NewRecorder()
	hctx := humatest.NewContext(&huma.Operation{}, httptest.NewRequest(http.MethodPost, ProtocolPath, nil), rec)
	h.jsonResponse(map[string]any{"unencodable": make(chan int)}).Body(hctx)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, logger.entries, 1)
	assert.Equal(t, "DEBUG", logger.entries[0].Level)
	assert.Equal(t, "Failed to write JSON response", logger.entries[0].Message)
	assert.Contains(t, logger.entries[0].Fields["error"], "unsupported type")
}

func TestWantsStream(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name   string
		flag   *bool
		accept string
		want   bool
	}{
		{"no flag no accept", nil, "", true},
		{"flag true beats json accept", &yes, "application/json", true},
		{"flag false beats sse accept", &no, "text/event-stream", false},
		{"json accept", nil, "application/json", false},
		{"sse accept", nil, "text/event-stream", true},
		{"wildcard", nil, "*/*", true},
		{"json listed first", nil, "application/json, text/event-stream", true},
		{"json preferred by weight", nil, "text/event-stream;q=0.5, application/json", true},
		{"sse refused", nil, "text/event-stream;q=0, application/json", false},
		{"json with wildcard", nil, "application/json, */*;q=0.1", true},
		{"unrelated type", nil, "text/html", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wantsStream(tt.flag, tt.accept))
		})
	}
}
