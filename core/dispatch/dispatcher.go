// ABOUTME: Dispatcher drives one generate request from raw input to a strictly ordered frame sequence
// ABOUTME: Offers a streaming entry point that flushes each frame and a synchronous one that drains the walk

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	coreerrors "github.com/Lucasff16/arxiv-api-backend/core/errors"
	"github.com/Lucasff16/arxiv-api-backend/core/format"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

const (
	// DefaultPageSize is the number of articles fetched per generate request
	DefaultPageSize = 5

	// DefaultFetchTimeout bounds the whole upstream fetch, retries included
	DefaultFetchTimeout = 45 * time.Second
)

// ErrClientGone is returned by Stream when the consumer stopped reading before the final frame
var ErrClientGone = errors.New("client disconnected")

// Emitter writes one frame to the client. It must not return until the frame has been
// handed to the transport, so a slow consumer slows frame production.
type Emitter func(ctx context.Context, frame domain.Frame) error

// Options configures the dispatcher
type Options struct {
	// PageSize is the max_results used for every upstream search
	PageSize int

	// ProgressFrames enables the advisory non-final frames around the fetch
	ProgressFrames bool

	// FetchTimeout bounds the upstream fetch. It must stay below the transport's
	// write window so a timed-out fetch still gets its error frame out.
	FetchTimeout time.Duration
}

// Dispatcher owns the synchronous-vs-streaming walk for generate requests.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	fetcher interfaces.ArticleFetcher
	logger  interfaces.Logger
	opts    Options
}

// New creates a dispatcher around the given article fetcher
func New(fetcher interfaces.ArticleFetcher, logger interfaces.Logger, opts Options) *Dispatcher {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Dispatcher{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts,
	}
}

// Stream runs the walk and emits every frame as soon as it is produced. Failures are
// delivered as a terminal error frame; the returned error is non-nil only when the
// client went away before the final frame (it then wraps ErrClientGone).
func (d *Dispatcher) Stream(ctx context.Context, input *string, emit Emitter) (err error) {
	w := d.newWalk(modeStream)
	defer func() { w.finish(err) }()
	defer func() {
		if r := recover(); r != nil {
			err = w.fail(ctx, emit, &coreerrors.FormatError{Message: fmt.Sprintf("unexpected failure: %v", r)})
		}
	}()

	q, err := w.extract(input)
	if err != nil {
		return w.fail(ctx, emit, err)
	}

	if d.opts.ProgressFrames {
		if err := w.emit(ctx, emit, domain.NewTextFrame(fmt.Sprintf("Searching arXiv for %q...", q), false)); err != nil {
			return err
		}
	}

	articles, err := w.fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return w.abort(ctxErr)
		}
		return w.fail(ctx, emit, err)
	}

	if len(articles) == 0 {
		if err := w.emit(ctx, emit, domain.NewTextFrame(format.NoResults(q), true)); err != nil {
			return err
		}
		w.transition(StateDone)
		return nil
	}

	if d.opts.ProgressFrames {
		if err := w.emit(ctx, emit, domain.NewTextFrame(format.Header(len(articles), q), false)); err != nil {
			return err
		}
	}

	last := len(articles) - 1
	for i, article := range articles {
		w.transition(StateEmitting)
		w.index = i
		if err := w.emit(ctx, emit, domain.NewTextFrame(format.One(i+1, article), i == last)); err != nil {
			return err
		}
	}

	w.transition(StateDone)
	return nil
}

// Generate runs the walk without yielding intermediate frames and returns the whole
// answer as one final frame. Failures are returned as typed errors from core/errors.
func (d *Dispatcher) Generate(ctx context.Context, input *string) (frame domain.Frame, err error) {
	w := d.newWalk(modeSync)
	defer func() { w.finish(err) }()
	defer func() {
		if r := recover(); r != nil {
			err = &coreerrors.FormatError{Message: fmt.Sprintf("unexpected failure: %v", r)}
			frame = domain.Frame{}
			w.failure = err
			w.transition(StateFailed)
		}
	}()

	q, err := w.extract(input)
	if err != nil {
		w.failure = err
		w.transition(StateFailed)
		return domain.Frame{}, err
	}

	articles, err := w.fetch(ctx)
	if err != nil {
		w.failure = err
		w.transition(StateFailed)
		return domain.Frame{}, err
	}

	text := format.All(articles, q)
	w.transition(StateDone)
	return domain.NewTextFrame(text, true), nil
}

// ErrorText renders the client-facing text of a terminal error frame
func ErrorText(err error) string {
	var validationErr *coreerrors.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid request: " + validationErr.Message
	}
	return "Error searching arXiv: " + err.Error()
}
