// ABOUTME: Per-request walk through the dispatcher state machine
// ABOUTME: Tracks state transitions, frame emission and the final outcome of one generate request

package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	coreerrors "github.com/Lucasff16/arxiv-api-backend/core/errors"
	"github.com/Lucasff16/arxiv-api-backend/core/query"
	"github.com/Lucasff16/arxiv-api-backend/pkg/metrics"
)

// State is a position in the dispatcher state machine
type State int

const (
	StateStart State = iota
	StateQueryExtracted
	StateFetching
	StateFeedReceived
	StateEmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateQueryExtracted:
		return "query_extracted"
	case StateFetching:
		return "fetching"
	case StateFeedReceived:
		return "feed_received"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	modeStream = "stream"
	modeSync   = "sync"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// walk is the request-local state of one dispatcher run. It is never shared between goroutines.
type walk struct {
	d         *Dispatcher
	mode      string
	state     State
	query     string
	index     int
	emitted   int
	finalSent bool
	aborted   bool
	failure   error
}

func (d *Dispatcher) newWalk(mode string) *walk {
	return &walk{d: d, mode: mode, state: StateStart}
}

func (w *walk) transition(to State) {
	if w.state == to && to != StateEmitting {
		return
	}
	w.d.logger.Debug("Dispatcher transition", map[string]interface{}{
		"mode":  w.mode,
		"from":  w.state.String(),
		"to":    to.String(),
		"query": w.query,
	})
	w.state = to
}

// extract runs the query extractor on the request input
func (w *walk) extract(input *string) (string, error) {
	if input == nil {
		return "", &coreerrors.ValidationError{Field: "input", Message: "input is required for generate requests"}
	}
	q := query.Extract(*input)
	if q == "" {
		return "", &coreerrors.ValidationError{Field: "input", Message: "no search query found in input"}
	}
	w.query = q
	w.transition(StateQueryExtracted)
	return q, nil
}

// fetch performs the single blocking upstream call of the walk
func (w *walk) fetch(ctx context.Context) ([]domain.Article, error) {
	w.transition(StateFetching)

	fetchCtx, cancel := context.WithTimeout(ctx, w.d.opts.FetchTimeout)
	defer cancel()

	result, err := w.d.fetcher.Fetch(fetchCtx, domain.SearchParams{
		Query:      w.query,
		MaxResults: w.d.opts.PageSize,
		SortBy:     domain.SortByRelevance,
		SortOrder:  domain.SortOrderDescending,
	})
	if err != nil {
		if ctx.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return nil, &coreerrors.UpstreamError{
				Message: fmt.Sprintf("no response within %s", w.d.opts.FetchTimeout),
				API:     "arxiv",
			}
		}
		return nil, err
	}

	w.transition(StateFeedReceived)
	if result == nil {
		return nil, nil
	}
	return result.Articles, nil
}

// emit hands one frame to the transport, refusing to write once the client is gone
func (w *walk) emit(ctx context.Context, emit Emitter, frame domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return w.abort(err)
	}
	if err := emit(ctx, frame); err != nil {
		return w.abort(err)
	}

	metrics.RecordFrame(frame.Kind)
	w.emitted++
	if frame.Done {
		w.finalSent = true
	}
	return nil
}

// fail moves to Failed and closes the stream with exactly one error frame
func (w *walk) fail(ctx context.Context, emit Emitter, cause error) error {
	w.failure = cause
	w.transition(StateFailed)

	if w.finalSent || w.aborted {
		return nil
	}
	return w.emit(ctx, emit, domain.NewErrorFrame(ErrorText(cause)))
}

// abort ends the walk early because the consumer disconnected
func (w *walk) abort(cause error) error {
	w.aborted = true
	w.d.logger.Debug("Client disconnected mid-stream", map[string]interface{}{
		"query":   w.query,
		"state":   w.state.String(),
		"emitted": w.emitted,
		"error":   cause.Error(),
	})
	w.state = StateDone
	return fmt.Errorf("%w: %w", ErrClientGone, cause)
}

// finish records the walk outcome
func (w *walk) finish(err error) {
	outcome := w.state.String()
	if w.aborted {
		outcome = "client_gone"
	}
	metrics.RecordDispatch(w.mode, outcome)

	if w.failure != nil {
		w.d.logger.Warn("Generate request failed", map[string]interface{}{
			"mode":  w.mode,
			"query": w.query,
			"error": w.failure.Error(),
		})
		return
	}

	fields := map[string]interface{}{
		"mode":    w.mode,
		"query":   w.query,
		"outcome": outcome,
		"frames":  w.emitted,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	w.d.logger.Info("Generate request finished", fields)
}
