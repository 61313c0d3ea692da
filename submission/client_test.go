package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"medibook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func anaDraft() Draft {
	return Draft{
		SubjectID: "doc-42",
		Slot:      testSlot(),
		VisitMode: models.VisitInPerson,
		Intake:    anaIntake(),
		Reports:   []ReportRow{{File: BytesFile("labs.pdf", fakePDF(2048))}},
	}
}

func writeResult(w http.ResponseWriter, status int, res models.SubmissionResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, o.State)
}

func (r *recorder) snapshot() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestClient_SubmitSuccess(t *testing.T) {
	var gotKey, gotMedical, gotReports string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotKey = r.Header.Get(IdempotencyHeader)
		gotMedical = r.FormValue(FieldMedicalForm)
		gotReports = r.FormValue(FieldReportFiles)
		writeResult(w, http.StatusOK, models.SubmissionResult{Success: true, Data: json.RawMessage(`{"id":"apt-1"}`)})
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL})
	rec := &recorder{}
	c.OnTransition(rec.observe)
	assert.Equal(t, StateIdle, c.State())

	o, err := c.Submit(context.Background(), anaDraft())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, o.State)
	require.NotNil(t, o.Result)
	assert.True(t, o.Result.Success)
	assert.JSONEq(t, `{"id":"apt-1"}`, string(o.Result.Data))

	assert.Equal(t, o.AttemptID, gotKey)
	assert.Contains(t, gotMedical, `"age":"34"`)
	var reports []models.EncodedAttachment
	require.NoError(t, json.Unmarshal([]byte(gotReports), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "labs.pdf", reports[0].Label)

	assert.Equal(t, []State{StatePending, StateSucceeded}, rec.snapshot())
	assert.Equal(t, StateSucceeded, c.State())
	assert.False(t, c.InFlight())
	assert.Equal(t, o, c.Last())
}

func TestClient_RejectsSecondSubmitWhilePending(t *testing.T) {
	release := make(chan struct{})
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		writeResult(w, http.StatusOK, models.SubmissionResult{Success: true})
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL})
	done := make(chan Outcome, 1)
	go func() {
		o, _ := c.Submit(context.Background(), anaDraft())
		done <- o
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, c.InFlight())

	_, err := c.Submit(context.Background(), anaDraft())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	o := <-done
	assert.Equal(t, StateSucceeded, o.State)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	// A finished attempt does not block the next one.
	_, err = c.Submit(context.Background(), anaDraft())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClient_PanickingListenerDoesNotWedgePending(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeResult(w, http.StatusOK, models.SubmissionResult{Success: true})
	}))
	defer srv.Close()

	core, logs := observer.New(zap.ErrorLevel)
	c := NewClient(Options{Endpoint: srv.URL, Logger: zap.New(core)})
	c.OnTransition(func(o Outcome) {
		if o.State == StatePending {
			panic("listener blew up")
		}
	})
	rec := &recorder{}
	c.OnTransition(rec.observe)

	o, err := c.Submit(context.Background(), anaDraft())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, o.State)
	assert.Equal(t, StateSucceeded, c.State())

	_, err = c.Submit(context.Background(), anaDraft())
	require.NoError(t, err)
	assert.NotErrorIs(t, err, ErrSubmissionInFlight)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
	assert.Equal(t, []State{StatePending, StateSucceeded, StatePending, StateSucceeded}, rec.snapshot())
	assert.Equal(t, 2, logs.FilterMessage("transition listener panicked").Len())
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := NewClient(Options{Endpoint: endpoint})
	o, err := c.Submit(context.Background(), anaDraft())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, StateFailed, o.State)
	assert.Nil(t, o.Result)
	assert.False(t, c.InFlight())
}

func TestClient_RemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, http.StatusOK, models.SubmissionResult{Success: false, Error: "slot already taken"})
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL})
	o, err := c.Submit(context.Background(), anaDraft())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
	assert.Equal(t, "slot already taken", remoteErr.Message)
	assert.Equal(t, StateFailed, o.State)
	require.NotNil(t, o.Result)
	assert.False(t, o.Result.Success)
}

func TestClient_ServerErrorWithoutJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL})
	o, err := c.Submit(context.Background(), anaDraft())

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusBadGateway, remoteErr.StatusCode)
	assert.Equal(t, StateFailed, o.State)
}

func TestClient_ReadErrorSendsNothing(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeResult(w, http.StatusOK, models.SubmissionResult{Success: true})
	}))
	defer srv.Close()

	d := anaDraft()
	d.Reports = append(d.Reports, ReportRow{Label: "MRI", File: brokenFile{name: "mri.dcm"}})

	c := NewClient(Options{Endpoint: srv.URL})
	o, err := c.Submit(context.Background(), d)

	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, StateFailed, o.State)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	o, err := c.Submit(context.Background(), anaDraft())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateFailed, o.State)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
