package remediation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interworky/error-tracker/internal/db"
	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

type fakeBackend struct {
	calls atomic.Int32
	err   error
	block chan struct{} // if set, RequestFix waits for it or ctx
}

func (f *fakeBackend) RequestFix(ctx context.Context, _, _ string) error {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return apperrors.ErrTimeout
		}
	}
	return f.err
}

func seedIncident(t *testing.T, store *db.Memory, status model.Status) *model.Incident {
	t.Helper()
	inc, _, err := store.UpsertOpen(context.Background(), &model.Incident{
		IncidentID:     "inc-" + t.Name(),
		OrganizationID: "t1",
		Fingerprint:    "fp-" + t.Name(),
		Category:       model.CategoryUnhandledException,
		Severity:       model.SeverityHigh,
		Status:         model.StatusNew,
		FirstSeenAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	if status != model.StatusNew {
		ok, err := store.TransitionStatus(context.Background(), inc.IncidentID, []model.Status{model.StatusNew}, status)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return inc
}

func closeNow(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, o.Close(ctx))
}

func statusOf(t *testing.T, store *db.Memory, id string) *model.Incident {
	t.Helper()
	inc, err := store.GetIncident(context.Background(), id)
	require.NoError(t, err)
	return inc
}

func TestTriggerPersistsBeforeDispatch(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{block: make(chan struct{})}
	o := New(store, backend, WithWorkers(1))
	inc := seedIncident(t, store, model.StatusNew)

	d, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	// 백엔드 응답 전에도 상태는 이미 carla_fixing
	assert.Equal(t, model.StatusCarlaFixing, statusOf(t, store, inc.IncidentID).Status)

	close(backend.block)
	closeNow(t, o)

	got := statusOf(t, store, inc.IncidentID)
	assert.Equal(t, model.StatusCarlaFixing, got.Status)
	require.NotNil(t, got.Remediation)
	assert.NotNil(t, got.Remediation.AttemptedAt)
	assert.Empty(t, got.Remediation.FailureReason)
}

func TestTriggerIsIdempotent(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{}
	o := New(store, backend)
	inc := seedIncident(t, store, model.StatusNew)

	var wg sync.WaitGroup
	var dispatched atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
			assert.NoError(t, err)
			if d.Eligible {
				dispatched.Add(1)
			} else {
				assert.Equal(t, ReasonAlreadyHandled, d.Reason)
			}
		}()
	}
	wg.Wait()
	closeNow(t, o)

	assert.Equal(t, int32(1), dispatched.Load())
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestTriggerSkipsHandledAndTerminal(t *testing.T) {
	for _, status := range []model.Status{
		model.StatusCarlaFixing,
		model.StatusPRCreated,
		model.StatusIssueCreated,
		model.StatusResolved,
		model.StatusIgnored,
		model.StatusDuplicate,
	} {
		t.Run(string(status), func(t *testing.T) {
			store := db.NewMemory()
			backend := &fakeBackend{}
			o := New(store, backend)
			inc := seedIncident(t, store, status)

			d, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
			require.NoError(t, err)
			assert.False(t, d.Eligible)
			assert.Equal(t, ReasonAlreadyHandled, d.Reason)

			closeNow(t, o)
			assert.Zero(t, backend.calls.Load())
			assert.Equal(t, status, statusOf(t, store, inc.IncidentID).Status)
		})
	}
}

func TestTriggerRetriesFixFailed(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{}
	o := New(store, backend)
	inc := seedIncident(t, store, model.StatusFixFailed)

	d, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)
	closeNow(t, o)
	assert.Equal(t, model.StatusCarlaFixing, statusOf(t, store, inc.IncidentID).Status)
}

// reportingBackend - 응답 전에 결과 콜백이 먼저 도착하는 백엔드
type reportingBackend struct {
	store *db.Memory
	prURL string
}

func (b *reportingBackend) RequestFix(ctx context.Context, incidentID, _ string) error {
	if _, err := b.store.TransitionStatus(ctx, incidentID, []model.Status{model.StatusCarlaFixing}, model.StatusPRCreated); err != nil {
		return err
	}
	return b.store.RecordRemediation(ctx, incidentID, model.RemediationOutcome{PRURL: b.prURL})
}

func TestSuccessKeepsOutcomeReportedDuringCall(t *testing.T) {
	store := db.NewMemory()
	o := New(store, &reportingBackend{store: store, prURL: "https://github.com/acme/shop/pull/1"})
	inc := seedIncident(t, store, model.StatusNew)

	_, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	closeNow(t, o)

	got := statusOf(t, store, inc.IncidentID)
	assert.Equal(t, model.StatusPRCreated, got.Status)
	require.NotNil(t, got.Remediation)
	assert.Equal(t, "https://github.com/acme/shop/pull/1", got.Remediation.PRURL)
	assert.NotNil(t, got.Remediation.AttemptedAt)
}

func TestRollbackOnTimeout(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{block: make(chan struct{})}
	defer close(backend.block)
	o := New(store, backend, WithCallTimeout(20*time.Millisecond))
	inc := seedIncident(t, store, model.StatusNew)

	_, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	closeNow(t, o)

	got := statusOf(t, store, inc.IncidentID)
	assert.Equal(t, model.StatusNew, got.Status)
	require.NotNil(t, got.Remediation)
	assert.Equal(t, "remediation backend timeout", got.Remediation.FailureReason)
	assert.NotNil(t, got.Remediation.AttemptedAt)
}

func TestRollbackOnBackendError(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{err: errors.New("HTTP 500")}
	o := New(store, backend)
	inc := seedIncident(t, store, model.StatusNew)

	_, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	closeNow(t, o)

	got := statusOf(t, store, inc.IncidentID)
	assert.Equal(t, model.StatusNew, got.Status)
	assert.Equal(t, "remediation backend error", got.Remediation.FailureReason)
}

func TestRollbackOnBackendUnavailable(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{err: fmt.Errorf("%w: connection refused", apperrors.ErrUnavailable)}
	o := New(store, backend)
	inc := seedIncident(t, store, model.StatusNew)

	_, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	closeNow(t, o)

	got := statusOf(t, store, inc.IncidentID)
	assert.Equal(t, model.StatusNew, got.Status)
	assert.Equal(t, "remediation backend unavailable", got.Remediation.FailureReason)
}

func TestTriggerAfterCloseRollsBack(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{}
	o := New(store, backend)
	closeNow(t, o)
	inc := seedIncident(t, store, model.StatusNew)

	d, err := o.Trigger(context.Background(), inc.IncidentID, "t1")
	require.NoError(t, err)
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonQueueUnavailable, d.Reason)
	assert.Equal(t, model.StatusNew, statusOf(t, store, inc.IncidentID).Status)
	assert.Zero(t, backend.calls.Load())
}

func TestTriggerQueueFullRollsBack(t *testing.T) {
	store := db.NewMemory()
	backend := &fakeBackend{block: make(chan struct{})}
	o := New(store, backend, WithWorkers(1), WithQueueSize(1))

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		inc, _, err := store.UpsertOpen(context.Background(), &model.Incident{
			IncidentID:     "inc-" + string(rune('a'+i)),
			OrganizationID: "t1",
			Fingerprint:    "fp-" + string(rune('a'+i)),
			Status:         model.StatusNew,
			FirstSeenAt:    time.Now().UTC(),
		})
		require.NoError(t, err)
		ids = append(ids, inc.IncidentID)
	}

	// 첫 작업이 worker 에 잡힐 때까지 대기
	_, err := o.Trigger(context.Background(), ids[0], "t1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return backend.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	d, err := o.Trigger(context.Background(), ids[1], "t1")
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	d, err = o.Trigger(context.Background(), ids[2], "t1")
	require.NoError(t, err)
	assert.Equal(t, ReasonQueueUnavailable, d.Reason)
	assert.Equal(t, model.StatusNew, statusOf(t, store, ids[2]).Status)

	close(backend.block)
	closeNow(t, o)
	assert.Equal(t, int32(2), backend.calls.Load())
}

func TestTriggerUnknownIncident(t *testing.T) {
	o := New(db.NewMemory(), &fakeBackend{})
	defer closeNow(t, o)

	_, err := o.Trigger(context.Background(), "missing", "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
