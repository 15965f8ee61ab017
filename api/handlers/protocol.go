// ABOUTME: Generate protocol handler for the Huma API
// ABOUTME: Routes metadata and generate requests and writes frames as JSON or server-sent events

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/elnormous/contenttype"

	"github.com/Lucasff16/arxiv-api-backend/api/dto/requests"
	"github.com/Lucasff16/arxiv-api-backend/api/dto/responses"
	"github.com/Lucasff16/arxiv-api-backend/core/dispatch"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

// ProtocolPath is where the generate protocol is served
const ProtocolPath = "/mcp"

const (
	// DefaultHeartbeatInterval is how often an idle event stream gets a keep-alive comment
	DefaultHeartbeatInterval = 15 * time.Second

	// frameWriteTimeout is the write deadline granted to each event
	frameWriteTimeout = 30 * time.Second
)

var heartbeatComment = []byte(": heartbeat\n\n")

var (
	jsonMediaType        = contenttype.NewMediaType("application/json")
	eventStreamMediaType = contenttype.NewMediaType("text/event-stream")
)

// Generator runs generate requests
type Generator interface {
	Stream(ctx context.Context, input *string, emit dispatch.Emitter) error
	Generate(ctx context.Context, input *string) (domain.Frame, error)
}

// ProtocolHandler handles the generate protocol endpoint
type ProtocolHandler struct {
	generator Generator
	logger    interfaces.Logger
	metadata  domain.Metadata
	heartbeat time.Duration
}

// NewProtocolHandler creates a new protocol handler
func NewProtocolHandler(generator Generator, logger interfaces.Logger, metadata domain.Metadata) *ProtocolHandler {
	return &ProtocolHandler{
		generator: generator,
		logger:    logger,
		metadata:  metadata,
		heartbeat: DefaultHeartbeatInterval,
	}
}

// WithHeartbeatInterval sets the keep-alive period of event streams; zero disables it
func (h *ProtocolHandler) WithHeartbeatInterval(interval time.Duration) *ProtocolHandler {
	h.heartbeat = interval
	return h
}

// RegisterRoutes registers the protocol routes. OPTIONS is answered by middleware.ProtocolCORS.
func (h *ProtocolHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getProtocolUsage",
		Method:      http.MethodGet,
		Path:        ProtocolPath,
		Summary:     "Describe the generate protocol",
		Tags:        []string{"Protocol"},
	}, h.Usage)

	huma.Register(api, huma.Operation{
		OperationID: "handleProtocolRequest",
		Method:      http.MethodPost,
		Path:        ProtocolPath,
		Summary:     "Handle a generate or metadata request",
		Description: "Answers metadata requests with the endpoint metadata. Generate requests search arXiv " +
			"and either stream one frame per article as text/event-stream or return a single JSON frame.",
		Tags: []string{"Protocol"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "A JSON frame, the metadata response, or an event stream of frames",
				Content: map[string]*huma.MediaType{
					"application/json":  {},
					"text/event-stream": {},
				},
			},
		},
	}, h.Handle)
}

// UsageOutput defines the output for the Usage operation
type UsageOutput struct {
	Body responses.ProtocolUsageResponse
}

// Usage handles GET /mcp
func (h *ProtocolHandler) Usage(ctx context.Context, _ *struct{}) (*UsageOutput, error) {
	return &UsageOutput{
		Body: responses.ProtocolUsageResponse{
			Message:  "POST generate or metadata requests to this endpoint",
			Endpoint: ProtocolPath,
			Methods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			Request: map[string]any{
				"type":   "generate | metadata",
				"input":  "free-form query text, required for generate",
				"stream": "optional boolean, defaults to true",
			},
			Example: map[string]any{
				"type":   requests.TypeGenerate,
				"input":  "search for quantum computing",
				"stream": true,
			},
		},
	}, nil
}

// ProtocolInput defines the input for the Handle operation
type ProtocolInput struct {
	Accept string `header:"Accept" doc:"Without text/event-stream, application/json selects a single JSON frame when stream is not set"`
	Body   requests.GenerateRequest
}

// Handle handles POST /mcp
func (h *ProtocolHandler) Handle(ctx context.Context, input *ProtocolInput) (*huma.StreamResponse, error) {
	req := input.Body

	switch req.Type {
	case requests.TypeMetadata:
		return h.jsonResponse(responses.NewMetadataResponse(h.metadata)), nil
	case requests.TypeGenerate:
	case "":
		return nil, huma.Error400BadRequest(`type is required: expected "generate" or "metadata"`)
	default:
		return nil, huma.Error400BadRequest(fmt.Sprintf(`unknown request type %q: expected "generate" or "metadata"`, req.Type))
	}

	if req.Input == nil {
		return nil, huma.Error400BadRequest("input is required for generate requests")
	}

	if !wantsStream(req.Stream, input.Accept) {
		frame, err := h.generator.Generate(ctx, req.Input)
		if err != nil {
			return nil, toHumaError(err)
		}
		return h.jsonResponse(frame), nil
	}

	return &huma.StreamResponse{Body: h.streamBody(req.Input)}, nil
}

// streamBody writes frames as server-sent events, flushing each one before the next is produced
func (h *ProtocolHandler) streamBody(input *string) func(huma.Context) {
	return func(hctx huma.Context) {
		hctx.SetHeader("Content-Type", eventStreamMediaType.String())
		hctx.SetHeader("Cache-Control", "no-cache")
		hctx.SetHeader("X-Accel-Buffering", "no")
		hctx.SetStatus(http.StatusOK)

		ctx := hctx.Context()
		sw := newSSEWriter(hctx.BodyWriter())
		if err := sw.flush(); err != nil {
			h.debug("Event stream could not start", err)
			return
		}

		stop := h.keepAlive(ctx, sw)
		err := h.generator.Stream(ctx, input, func(ctx context.Context, frame domain.Frame) error {
			return sw.writeFrame(frame)
		})
		stop()

		if err != nil {
			h.debug("Event stream ended early", err)
		}
	}
}

// keepAlive writes heartbeat comments while the stream is idle. The returned
// function stops it and waits until no heartbeat write is in flight.
func (h *ProtocolHandler) keepAlive(ctx context.Context, sw *sseWriter) func() {
	if h.heartbeat <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sw.comment(heartbeatComment); err != nil {
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// sseWriter serializes event stream writes from the frame producer and the heartbeat
type sseWriter struct {
	mu       sync.Mutex
	w        io.Writer
	rc       *http.ResponseController
	finished bool
}

func newSSEWriter(w io.Writer) *sseWriter {
	sw := &sseWriter{w: w}
	if rw, ok := w.(http.ResponseWriter); ok {
		sw.rc = http.NewResponseController(rw)
	}
	return sw
}

// writeFrame writes one "data: <json>\n\n" event and flushes it
func (s *sseWriter) writeFrame(frame domain.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}
	if frame.Done {
		s.finished = true
	}
	return nil
}

// comment writes a keep-alive comment unless the final frame is already out
func (s *sseWriter) comment(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil
	}
	return s.writeLocked(line)
}

func (s *sseWriter) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// writeLocked pushes the write deadline forward, then writes and flushes p
func (s *sseWriter) writeLocked(p []byte) error {
	if s.rc != nil {
		if err := s.rc.SetWriteDeadline(time.Now().Add(frameWriteTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return fmt.Errorf("failed to extend write deadline: %w", err)
		}
	}
	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return s.flushLocked()
}

func (s *sseWriter) flushLocked() error {
	if s.rc != nil {
		if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return fmt.Errorf("failed to flush event: %w", err)
		}
		return nil
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// wantsStream picks the response mode. The explicit flag wins; otherwise the answer
// streams unless the Accept header rules out text/event-stream and allows application/json.
func wantsStream(flag *bool, accept string) bool {
	if flag != nil {
		return *flag
	}
	if strings.TrimSpace(accept) == "" {
		return true
	}

	if _, _, err := contenttype.GetAcceptableMediaTypeFromHeader(accept, []contenttype.MediaType{eventStreamMediaType}); err == nil {
		return true
	}
	_, _, err := contenttype.GetAcceptableMediaTypeFromHeader(accept, []contenttype.MediaType{jsonMediaType})
	return err != nil
}

// jsonResponse writes body as a 200 JSON document
func (h *ProtocolHandler) jsonResponse(body any) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			hctx.SetHeader("Content-Type", jsonMediaType.String())
			hctx.SetStatus(http.StatusOK)
			if err := json.NewEncoder(hctx.BodyWriter()).Encode(body); err != nil {
				h.debug("Failed to write JSON response", err)
			}
		},
	}
}

func (h *ProtocolHandler) debug(msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Debug(msg, map[string]interface{}{
		"error": err.Error(),
	})
}
