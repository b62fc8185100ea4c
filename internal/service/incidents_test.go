package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interworky/error-tracker/internal/db"
	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

func seedViaIngest(t *testing.T, store *db.Memory, msg string) *model.IngestResult {
	t.Helper()
	res, err := NewIngestService(store, store, nil, 50).Ingest(context.Background(), validReport(msg))
	require.NoError(t, err)
	return res
}

func TestCompleteRemediation(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)
	ctx := context.Background()
	res := seedViaIngest(t, store, "TypeError: x is undefined")

	// carla_fixing 이 아니면 충돌
	_, err := svc.CompleteRemediation(ctx, res.IncidentID, model.CompleteRemediationRequest{Status: model.StatusPRCreated})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	ok, err := store.TransitionStatus(ctx, res.IncidentID, []model.Status{model.StatusNew}, model.StatusCarlaFixing)
	require.NoError(t, err)
	require.True(t, ok)

	canFix := true
	inc, err := svc.CompleteRemediation(ctx, res.IncidentID, model.CompleteRemediationRequest{
		Status: model.StatusPRCreated,
		CanFix: &canFix,
		PRURL:  "https://github.com/acme/shop/pull/7",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPRCreated, inc.Status)
	require.NotNil(t, inc.Remediation)
	assert.Equal(t, "https://github.com/acme/shop/pull/7", inc.Remediation.PRURL)
	assert.True(t, *inc.Remediation.CanFix)
}

// attemptRacingStore - 결과 반영 직전에 worker 의 attempted_at 기록이 끼어드는 저장소
type attemptRacingStore struct {
	*db.Memory
	attemptedAt time.Time
}

func (s *attemptRacingStore) TransitionStatus(ctx context.Context, id string, from []model.Status, to model.Status) (bool, error) {
	ok, err := s.Memory.TransitionStatus(ctx, id, from, to)
	if ok && to == model.StatusPRCreated {
		if err := s.Memory.RecordAttempt(ctx, id, s.attemptedAt); err != nil {
			return false, err
		}
	}
	return ok, err
}

func TestCompleteRemediationKeepsConcurrentAttempt(t *testing.T) {
	store := &attemptRacingStore{Memory: db.NewMemory(), attemptedAt: time.Now().UTC().Truncate(time.Second)}
	svc := NewIncidentService(store, store)
	ctx := context.Background()
	res := seedViaIngest(t, store.Memory, "TypeError: x is undefined")

	ok, err := store.Memory.TransitionStatus(ctx, res.IncidentID, []model.Status{model.StatusNew}, model.StatusCarlaFixing)
	require.NoError(t, err)
	require.True(t, ok)

	inc, err := svc.CompleteRemediation(ctx, res.IncidentID, model.CompleteRemediationRequest{
		Status: model.StatusPRCreated,
		PRURL:  "https://github.com/acme/shop/pull/7",
	})
	require.NoError(t, err)
	require.NotNil(t, inc.Remediation)
	assert.Equal(t, "https://github.com/acme/shop/pull/7", inc.Remediation.PRURL)
	require.NotNil(t, inc.Remediation.AttemptedAt)
	assert.True(t, inc.Remediation.AttemptedAt.Equal(store.attemptedAt))
}

func TestCompleteRemediationRejectsInvalidStatus(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)

	_, err := svc.CompleteRemediation(context.Background(), "any", model.CompleteRemediationRequest{Status: model.StatusResolved})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOperatorActions(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)
	ctx := context.Background()

	a := seedViaIngest(t, store, "TypeError: a is undefined")
	b := seedViaIngest(t, store, "TypeError: b is undefined")
	c := seedViaIngest(t, store, "TypeError: c is undefined")

	inc, err := svc.Ignore(ctx, a.IncidentID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIgnored, inc.Status)

	// 종료 상태에서는 다시 전이 불가
	_, err = svc.Resolve(ctx, a.IncidentID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	inc, err = svc.MarkDuplicate(ctx, b.IncidentID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDuplicate, inc.Status)

	inc, err = svc.Resolve(ctx, c.IncidentID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, inc.Status)

	_, err = svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolvedFingerprintReopensAsNewIncident(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)
	ctx := context.Background()

	first := seedViaIngest(t, store, "TypeError: x is undefined")
	_, err := svc.Resolve(ctx, first.IncidentID)
	require.NoError(t, err)

	again := seedViaIngest(t, store, "TypeError: x is undefined")
	assert.False(t, again.IsDuplicate)
	assert.NotEqual(t, first.IncidentID, again.IncidentID)

	list, err := svc.ListIncidents(ctx, "t1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDeleteByFingerprint(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)
	ctx := context.Background()

	first := seedViaIngest(t, store, "TypeError: x is undefined")
	_, err := svc.Resolve(ctx, first.IncidentID)
	require.NoError(t, err)
	seedViaIngest(t, store, "TypeError: x is undefined")

	inc, err := svc.GetIncident(ctx, first.IncidentID)
	require.NoError(t, err)

	deleted, err := svc.DeleteByFingerprint(ctx, "t1", inc.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = svc.DeleteByFingerprint(ctx, "t1", inc.Fingerprint)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListIncidentsRequiresTenant(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)

	_, err := svc.ListIncidents(context.Background(), "", 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPutRemediationConfig(t *testing.T) {
	store := db.NewMemory()
	svc := NewIncidentService(store, store)
	ctx := context.Background()

	cfg, err := svc.PutRemediationConfig(ctx, "t1", model.PutRemediationConfigRequest{AutoFixEnabled: true, GitHubInstallationID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "t1", cfg.OrganizationID)

	got, err := svc.GetRemediationConfig(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.HasWiring())
}
