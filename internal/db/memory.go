package db

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

// Memory - 단일 프로세스용 저장소 (STORE_DRIVER=memory, 테스트)
// Postgres 구현과 동일한 open Incident 유일성 제약을 mutex 로 보장
type Memory struct {
	mu        sync.RWMutex
	incidents map[string]*model.Incident
	open      map[model.FingerprintKey]string
	configs   map[string]model.RemediationConfig
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		incidents: make(map[string]*model.Incident),
		open:      make(map[model.FingerprintKey]string),
		configs:   make(map[string]model.RemediationConfig),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) Close() {}

func (m *Memory) UpsertOpen(_ context.Context, inc *model.Incident) (*model.Incident, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if id, ok := m.open[inc.Key()]; ok {
		existing := m.incidents[id]
		existing.OccurrenceCount++
		if inc.FirstSeenAt.After(existing.LastSeenAt) {
			existing.LastSeenAt = inc.FirstSeenAt
		}
		existing.UpdatedAt = now
		return cloneIncident(existing), false, nil
	}

	stored := cloneIncident(inc)
	stored.OccurrenceCount = 1
	stored.LastSeenAt = stored.FirstSeenAt
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Metadata == nil {
		stored.Metadata = map[string]string{}
	}
	m.incidents[stored.IncidentID] = stored
	m.open[stored.Key()] = stored.IncidentID
	return cloneIncident(stored), true, nil
}

func (m *Memory) FindOpenByFingerprints(_ context.Context, keys []model.FingerprintKey) (map[model.FingerprintKey]*model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[model.FingerprintKey]*model.Incident, len(keys))
	for _, k := range keys {
		if id, ok := m.open[k]; ok {
			found[k] = cloneIncident(m.incidents[id])
		}
	}
	return found, nil
}

func (m *Memory) IncrementOccurrence(_ context.Context, incidentID string, seenAt time.Time) (*model.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inc, ok := m.incidents[incidentID]
	if !ok || !inc.Status.IsOpen() {
		return nil, apperrors.ErrNotFound
	}
	inc.OccurrenceCount++
	if seenAt.After(inc.LastSeenAt) {
		inc.LastSeenAt = seenAt
	}
	inc.UpdatedAt = m.now()
	return cloneIncident(inc), nil
}

func (m *Memory) TransitionStatus(_ context.Context, incidentID string, from []model.Status, to model.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inc, ok := m.incidents[incidentID]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, s := range from {
		if inc.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	inc.Status = to
	inc.UpdatedAt = m.now()
	if !to.IsOpen() && m.open[inc.Key()] == incidentID {
		delete(m.open, inc.Key())
	}
	return true, nil
}

func (m *Memory) RecordRemediation(_ context.Context, incidentID string, outcome model.RemediationOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inc, ok := m.incidents[incidentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	next := cloneOutcome(&outcome)
	if next.AttemptedAt == nil && inc.Remediation != nil {
		next.AttemptedAt = inc.Remediation.AttemptedAt
	}
	inc.Remediation = next
	inc.UpdatedAt = m.now()
	return nil
}

func (m *Memory) RecordAttempt(_ context.Context, incidentID string, attemptedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inc, ok := m.incidents[incidentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if inc.Remediation == nil {
		inc.Remediation = &model.RemediationOutcome{}
	}
	inc.Remediation.AttemptedAt = &attemptedAt
	inc.UpdatedAt = m.now()
	return nil
}

func (m *Memory) GetIncident(_ context.Context, incidentID string) (*model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inc, ok := m.incidents[incidentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneIncident(inc), nil
}

func (m *Memory) ListIncidents(_ context.Context, organizationID string, limit int) ([]model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := []model.Incident{}
	for _, inc := range m.incidents {
		if inc.OrganizationID == organizationID {
			list = append(list, *cloneIncident(inc))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastSeenAt.After(list[j].LastSeenAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *Memory) DeleteByFingerprint(_ context.Context, organizationID, fingerprint string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id, inc := range m.incidents {
		if inc.OrganizationID == organizationID && inc.Fingerprint == fingerprint {
			delete(m.incidents, id)
			deleted++
		}
	}
	delete(m.open, model.FingerprintKey{Fingerprint: fingerprint, OrganizationID: organizationID})
	return deleted, nil
}

func (m *Memory) GetRemediationConfig(_ context.Context, organizationID string) (*model.RemediationConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[organizationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cfg, nil
}

func (m *Memory) PutRemediationConfig(_ context.Context, cfg model.RemediationConfig) (*model.RemediationConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg.UpdatedAt = m.now()
	m.configs[cfg.OrganizationID] = cfg
	out := cfg
	return &out, nil
}

func cloneIncident(in *model.Incident) *model.Incident {
	out := *in
	if in.LineNumber != nil {
		v := *in.LineNumber
		out.LineNumber = &v
	}
	if in.ColumnNumber != nil {
		v := *in.ColumnNumber
		out.ColumnNumber = &v
	}
	if in.Metadata != nil {
		out.Metadata = make(map[string]string, len(in.Metadata))
		for k, v := range in.Metadata {
			out.Metadata[k] = v
		}
	}
	out.Remediation = cloneOutcome(in.Remediation)
	return &out
}

func cloneOutcome(in *model.RemediationOutcome) *model.RemediationOutcome {
	if in == nil {
		return nil
	}
	out := *in
	if in.AttemptedAt != nil {
		v := *in.AttemptedAt
		out.AttemptedAt = &v
	}
	if in.CanFix != nil {
		v := *in.CanFix
		out.CanFix = &v
	}
	if in.Confidence != nil {
		v := *in.Confidence
		out.Confidence = &v
	}
	return &out
}
