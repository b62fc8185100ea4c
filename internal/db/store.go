package db

import (
	"context"
	"time"

	"github.com/interworky/error-tracker/internal/model"
)

// IncidentStore - Incident 영속 계층
type IncidentStore interface {
	UpsertOpen(ctx context.Context, inc *model.Incident) (*model.Incident, bool, error)
	FindOpenByFingerprints(ctx context.Context, keys []model.FingerprintKey) (map[model.FingerprintKey]*model.Incident, error)
	IncrementOccurrence(ctx context.Context, incidentID string, seenAt time.Time) (*model.Incident, error)
	TransitionStatus(ctx context.Context, incidentID string, from []model.Status, to model.Status) (bool, error)
	// RecordRemediation 은 결과 필드를 교체하고 outcome 에 attempted_at 이 없으면 기존 값을 유지
	RecordRemediation(ctx context.Context, incidentID string, outcome model.RemediationOutcome) error
	// RecordAttempt 는 attempted_at 만 갱신
	RecordAttempt(ctx context.Context, incidentID string, attemptedAt time.Time) error
	GetIncident(ctx context.Context, incidentID string) (*model.Incident, error)
	ListIncidents(ctx context.Context, organizationID string, limit int) ([]model.Incident, error)
	DeleteByFingerprint(ctx context.Context, organizationID, fingerprint string) (int64, error)
}

// RemediationConfigStore - 테넌트별 자동 수정 설정 저장소
type RemediationConfigStore interface {
	GetRemediationConfig(ctx context.Context, organizationID string) (*model.RemediationConfig, error)
	PutRemediationConfig(ctx context.Context, cfg model.RemediationConfig) (*model.RemediationConfig, error)
}

// Store - 서비스 기동에 필요한 전체 저장소
type Store interface {
	IncidentStore
	RemediationConfigStore
	Close()
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
