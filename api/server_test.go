package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucasff16/arxiv-api-backend/api/handlers"
	"github.com/Lucasff16/arxiv-api-backend/core/dispatch"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

// blockingFetcher blocks until the request context ends and reports that it did
type blockingFetcher struct {
	started   chan struct{}
	cancelled chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	close(f.started)
	select {
	case <-ctx.Done():
		close(f.cancelled)
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return &domain.SearchResult{}, nil
	}
}

type staticFetcher struct {
	articles []domain.Article
}

func (f *staticFetcher) Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	return &domain.SearchResult{Articles: f.articles, TotalResults: len(f.articles)}, nil
}

// slowFetcher answers after a fixed delay
type slowFetcher struct {
	delay    time.Duration
	articles []domain.Article
}

func (f *slowFetcher) Fetch(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.SearchResult{Articles: f.articles, TotalResults: len(f.articles)}, nil
}

func newProtocolServer(t *testing.T, fetcher interfaces.ArticleFetcher) *httptest.Server {
	t.Helper()
	return newProtocolServerWithWriteTimeout(t, fetcher, 0)
}

func newProtocolServerWithWriteTimeout(t *testing.T, fetcher interfaces.ArticleFetcher, writeTimeout time.Duration) *httptest.Server {
	t.Helper()
	humaAPI, router := NewAPIWithMiddleware(APIConfig{})
	handlers.NewProtocolHandler(dispatch.New(fetcher, nil, dispatch.Options{}), nil, domain.Metadata{Name: "test"}).
		RegisterRoutes(humaAPI)
	handlers.NewInfoHandler().RegisterRoutes(humaAPI)

	srv := httptest.NewUnstartedServer(router)
	srv.Config.WriteTimeout = writeTimeout
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

// readEvents returns the data lines of an event stream
func readEvents(t *testing.T, resp *http.Response) []string {
	t.Helper()

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data: ") {
			events = append(events, line)
		}
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestNewAPI(t *testing.T) {
	api, router := NewAPI()
	require.NotNil(t, api)
	require.NotNil(t, router)

	info := api.OpenAPI().Info
	assert.Equal(t, "arXiv Search API", info.Title)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.oai.openapi+json", w.Header().Get("Content-Type"))
}

func TestAPI_DocsEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
}

func TestAPI_ProtocolPreflight(t *testing.T) {
	_, router := NewAPIWithMiddleware(APIConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/mcp", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Accept, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestAPI_MetricsEndpoint(t *testing.T) {
	humaAPI, router := NewAPIWithMiddleware(APIConfig{})
	handlers.NewInfoHandler().RegisterRoutes(humaAPI)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arxivapi_http_requests_total")
}

func TestAPI_RateLimit(t *testing.T) {
	humaAPI, router := NewAPIWithMiddleware(APIConfig{RateLimit: 0.001, RateBurst: 1})
	handlers.NewInfoHandler().RegisterRoutes(humaAPI)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5000"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAPI_StreamsFramesOverHTTP(t *testing.T) {
	srv := newProtocolServer(t, &staticFetcher{articles: []domain.Article{
		{Title: domain.StringPtr("First")},
		{Title: domain.StringPtr("Second")},
	}})

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(`{"type":"generate","input":"find graphs"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	events := readEvents(t, resp)
	require.Len(t, events, 2)
	assert.Contains(t, events[0], `"type":"generate_response"`)
	assert.Contains(t, events[0], `"response":"1. First`)
	assert.Contains(t, events[0], `"done":false`)
	assert.Contains(t, events[1], `"done":true`)
}

func TestAPI_StreamOutlivesServerWriteTimeout(t *testing.T) {
	srv := newProtocolServerWithWriteTimeout(t, &slowFetcher{
		delay:    400 * time.Millisecond,
		articles: []domain.Article{{Title: domain.StringPtr("Late")}},
	}, 200*time.Millisecond)

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(`{"type":"generate","input":"graphs"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := readEvents(t, resp)
	require.Len(t, events, 1)
	assert.Contains(t, events[0], "Late")
	assert.Contains(t, events[0], `"done":true`)
}

func TestAPI_StreamStopsWhenClientLeaves(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), cancelled: make(chan struct{})}
	srv := newProtocolServer(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+"/mcp",
		strings.NewReader(`{"type":"generate","input":"graphs"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	errc := make(chan error, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
		}
		errc <- err
	}()

	select {
	case <-fetcher.started:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never started")
	}
	cancel()

	select {
	case <-fetcher.cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch was not cancelled after the client left")
	}
	<-errc
}
