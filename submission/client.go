package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"medibook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the attempt id so the handler can drop duplicates.
const IdempotencyHeader = "Idempotency-Key"

const maxResponseBytes = 1 << 20

// State is where the client is in the submit cycle.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is a single state transition of one attempt.
type Outcome struct {
	AttemptID string
	State     State
	Result    *models.SubmissionResult
	Err       error
}

// Options configures a Client.
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	// Timeout bounds one attempt. Zero leaves the attempt bounded only by the
	// caller's context.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client sends booking payloads to the booking handler, one attempt at a time.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	state     State
	last      Outcome
	listeners []func(Outcome)
}

// NewClient creates a Client in the Idle state.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   opts.Endpoint,
		httpClient: hc,
		timeout:    opts.Timeout,
		logger:     logger,
	}
}

// OnTransition registers fn to receive every outcome, once per transition.
func (c *Client) OnTransition(fn func(Outcome)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether an attempt is pending. Submit controls should be
// disabled while it is true.
func (c *Client) InFlight() bool {
	return c.State() == StatePending
}

// Last returns the most recent outcome.
func (c *Client) Last() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Submit assembles d and sends it once. It returns ErrSubmissionInFlight
// without sending anything if another attempt is pending.
func (c *Client) Submit(ctx context.Context, d Draft) (Outcome, error) {
	c.mu.Lock()
	if c.state == StatePending {
		c.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	}
	pending := Outcome{AttemptID: uuid.NewString(), State: StatePending}
	c.state = StatePending
	c.last = pending
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	c.emit(listeners, pending)

	outcome := c.attempt(ctx, pending.AttemptID, d)

	c.mu.Lock()
	c.state = outcome.State
	c.last = outcome
	listeners = slices.Clone(c.listeners)
	c.mu.Unlock()
	c.emit(listeners, outcome)

	return outcome, outcome.Err
}

func (c *Client) attempt(ctx context.Context, attemptID string, d Draft) Outcome {
	logger := c.logger.With(zap.String("attemptId", attemptID), zap.String("subjectId", d.SubjectID))
	failed := func(err error, result *models.SubmissionResult) Outcome {
		logger.Warn("booking submission failed", zap.Error(err))
		return Outcome{AttemptID: attemptID, State: StateFailed, Result: result, Err: err}
	}

	payload, err := Assemble(ctx, d)
	if err != nil {
		return failed(err, nil)
	}
	contentType, body, err := payload.Encode()
	if err != nil {
		return failed(err, nil)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return failed(&NetworkError{Err: err}, nil)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(IdempotencyHeader, attemptID)

	logger.Debug("sending booking submission",
		zap.Int("attachments", len(payload.Request.Attachments)),
		zap.Int("bytes", len(body)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(&NetworkError{Err: err}, nil)
	}
	defer resp.Body.Close()

	var result models.SubmissionResult
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result)
	switch {
	case decodeErr != nil && !errors.Is(decodeErr, io.EOF) && resp.StatusCode < http.StatusMultipleChoices:
		return failed(&RemoteError{StatusCode: resp.StatusCode, Message: "invalid response: " + decodeErr.Error()}, nil)
	case resp.StatusCode >= http.StatusMultipleChoices || !result.Success:
		msg := result.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		var res *models.SubmissionResult
		if decodeErr == nil {
			res = &result
		}
		return failed(&RemoteError{StatusCode: resp.StatusCode, Message: msg}, res)
	}

	logger.Info("booking submission succeeded")
	return Outcome{AttemptID: attemptID, State: StateSucceeded, Result: &result}
}

// emit runs every listener; a panicking listener is logged and skipped so
// the state machine always leaves Pending.
func (c *Client) emit(listeners []func(Outcome), o Outcome) {
	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("transition listener panicked",
						zap.String("attemptId", o.AttemptID),
						zap.Stringer("state", o.State),
						zap.Any("panic", r))
				}
			}()
			fn(o)
		}()
	}
}
