// Package fetch issues the widget's outbound HTTP requests under a
// single-flight discipline: at most one request is outstanding per
// coordinator, and starting a new one cancels the previous one first.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("recwidget/fetch")

// ErrFetchFailed covers transport errors, non-2xx statuses and
// cancellation uniformly. Callers only ever branch on success vs. failure.
var ErrFetchFailed = errors.New("fetch failed")

type Coordinator struct {
	http *resty.Client

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func New(client *resty.Client) *Coordinator {
	if client == nil {
		client = resty.New()
	}
	return &Coordinator{http: client}
}

// Fetch retrieves url, cancelling any request still in flight on this
// coordinator. A superseded call's cleanup never touches the handle state
// of the call that replaced it.
func (c *Coordinator) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "coordinator:fetch")
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, res.Status())
		return "", fmt.Errorf("%w: status %s", ErrFetchFailed, res.Status())
	}

	return res.String(), nil
}
