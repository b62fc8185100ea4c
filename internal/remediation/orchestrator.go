// 자동 수정 상태 머신
//
//	new | fix_failed -> carla_fixing -> (백엔드 결과 보고) pr_created | issue_created | fix_failed
//	carla_fixing -> new (백엔드 호출 실패, 제한 시간 초과, 큐 포화)
//
// Trigger 는 carla_fixing 전이를 먼저 저장한 뒤 작업을 큐에 넣고 즉시 반환한다.
// 백엔드 호출은 worker 가 수행하며 실패 시 상태를 new 로 되돌린다.

package remediation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/logging"
	"github.com/interworky/error-tracker/internal/metrics"
	"github.com/interworky/error-tracker/internal/model"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 256
	defaultCallTimeout = 30 * time.Second
	rollbackTimeout    = 5 * time.Second
)

// 수정 작업을 시작할 수 있는 상태
var triggerableStatuses = []model.Status{model.StatusNew, model.StatusFixFailed}

// IncidentStore - orchestrator 가 사용하는 저장소 연산
type IncidentStore interface {
	GetIncident(ctx context.Context, incidentID string) (*model.Incident, error)
	TransitionStatus(ctx context.Context, incidentID string, from []model.Status, to model.Status) (bool, error)
	RecordRemediation(ctx context.Context, incidentID string, outcome model.RemediationOutcome) error
	RecordAttempt(ctx context.Context, incidentID string, attemptedAt time.Time) error
}

// Backend - 외부 수정 백엔드
type Backend interface {
	RequestFix(ctx context.Context, incidentID, organizationID string) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the number of dispatch workers. Default: 4.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSize sets the job queue capacity. Default: 256.
func WithQueueSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithCallTimeout bounds each backend call. Default: 30s.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithClock overrides the time source used for attempted_at.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

type job struct {
	incidentID     string
	organizationID string
}

// Orchestrator - 수정 요청 dispatch 와 실패 시 rollback 담당
type Orchestrator struct {
	store       IncidentStore
	backend     Backend
	logger      zerolog.Logger
	workers     int
	queueSize   int
	callTimeout time.Duration
	now         func() time.Time

	jobs   chan job
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates an Orchestrator and starts its workers.
func New(store IncidentStore, backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		backend:     backend,
		logger:      logging.Component("remediation"),
		workers:     defaultWorkers,
		queueSize:   defaultQueueSize,
		callTimeout: defaultCallTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	o.jobs = make(chan job, o.queueSize)

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.work()
	}
	return o
}

// Trigger - 상태를 carla_fixing 으로 전이하고 백엔드 호출을 예약
// 이미 처리 중이거나 종료된 Incident 는 건너뛴다 (중복 트리거 방지)
func (o *Orchestrator) Trigger(ctx context.Context, incidentID, organizationID string) (Decision, error) {
	inc, err := o.store.GetIncident(ctx, incidentID)
	if err != nil {
		return Decision{}, err
	}
	if inc.Status.IsHandled() || inc.Status.IsTerminal() {
		return o.skip(incidentID, inc.Status), nil
	}

	// 조건부 UPDATE 가 실패하면 다른 요청이 먼저 전이한 것
	ok, err := o.store.TransitionStatus(ctx, incidentID, triggerableStatuses, model.StatusCarlaFixing)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return o.skip(incidentID, ""), nil
	}

	if !o.enqueue(job{incidentID: incidentID, organizationID: organizationID}) {
		o.logger.Warn().
			Str("incident_id", incidentID).
			Str("organization_id", organizationID).
			Msg("remediation queue unavailable, rolling back")
		o.rollback(incidentID, "remediation queue unavailable")
		metrics.RecordRemediationDecision(string(ReasonQueueUnavailable))
		return reject(ReasonQueueUnavailable), nil
	}

	metrics.RecordRemediationDispatch("dispatched")
	o.logger.Info().
		Str("incident_id", incidentID).
		Str("organization_id", organizationID).
		Msg("remediation dispatched")
	return Decision{Eligible: true, Reason: ReasonEligible}, nil
}

func (o *Orchestrator) skip(incidentID string, status model.Status) Decision {
	ev := o.logger.Info().Str("incident_id", incidentID).Str("reason", string(ReasonAlreadyHandled))
	if status != "" {
		ev = ev.Str("status", string(status))
	}
	ev.Msg("remediation skipped")
	metrics.RecordRemediationDispatch("skipped")
	return reject(ReasonAlreadyHandled)
}

func (o *Orchestrator) enqueue(j job) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return false
	}
	select {
	case o.jobs <- j:
		metrics.RemediationQueueDepth.Set(float64(len(o.jobs)))
		return true
	default:
		return false
	}
}

func (o *Orchestrator) work() {
	defer o.wg.Done()
	for j := range o.jobs {
		metrics.RemediationQueueDepth.Set(float64(len(o.jobs)))
		o.dispatch(j)
	}
}

func (o *Orchestrator) dispatch(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), o.callTimeout)
	err := o.backend.RequestFix(ctx, j.incidentID, j.organizationID)
	cancel()

	attemptedAt := o.now()
	if err == nil {
		metrics.RecordRemediationDispatch("succeeded")
		o.recordAttempt(j.incidentID, attemptedAt)
		return
	}

	reason := "remediation backend error"
	switch {
	case errors.Is(err, apperrors.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
		reason = "remediation backend timeout"
	case errors.Is(err, apperrors.ErrUnavailable):
		reason = "remediation backend unavailable"
	}
	o.logger.Warn().
		Err(err).
		Str("incident_id", j.incidentID).
		Str("organization_id", j.organizationID).
		Msg("remediation request failed, rolling back")
	o.rollback(j.incidentID, reason)
}

// recordAttempt - attempted_at 만 갱신 (백엔드가 먼저 보고한 결과 필드는 유지)
func (o *Orchestrator) recordAttempt(incidentID string, attemptedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	if err := o.store.RecordAttempt(ctx, incidentID, attemptedAt); err != nil {
		o.logger.Error().Err(err).Str("incident_id", incidentID).Msg("failed to record remediation attempt")
	}
}

// rollback - carla_fixing -> new, 실패 사유 기록
// 호출 context 와 무관하게 별도 제한 시간으로 수행
func (o *Orchestrator) rollback(incidentID, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	ok, err := o.store.TransitionStatus(ctx, incidentID, []model.Status{model.StatusCarlaFixing}, model.StatusNew)
	if err != nil {
		o.logger.Error().Err(err).Str("incident_id", incidentID).Msg("failed to roll back remediation status")
		return
	}
	if !ok {
		// 백엔드가 이미 결과를 보고한 경우
		o.logger.Info().Str("incident_id", incidentID).Msg("remediation status already moved, rollback skipped")
		return
	}

	attemptedAt := o.now()
	if err := o.store.RecordRemediation(ctx, incidentID, model.RemediationOutcome{
		AttemptedAt:   &attemptedAt,
		FailureReason: reason,
	}); err != nil {
		o.logger.Error().Err(err).Str("incident_id", incidentID).Msg("failed to record remediation failure")
	}
	metrics.RecordRemediationDispatch("rolled_back")
}

// Close stops intake and waits for queued jobs to finish or ctx to expire.
func (o *Orchestrator) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.jobs)
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		o.logger.Warn().Msg("remediation drain timed out")
		return ctx.Err()
	}
}
