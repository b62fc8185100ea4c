package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/interworky/error-tracker/internal/db"
	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/logging"
	"github.com/interworky/error-tracker/internal/model"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// 운영자 조치를 허용하는 상태 (resolved, ignored, duplicate 제외)
var operatorSourceStatuses = []model.Status{
	model.StatusNew,
	model.StatusCarlaFixing,
	model.StatusPRCreated,
	model.StatusIssueCreated,
	model.StatusFixFailed,
}

// IncidentService - 조회, 운영자 조치, 수정 결과 반영
type IncidentService struct {
	store   db.IncidentStore
	configs db.RemediationConfigStore
	logger  zerolog.Logger
}

func NewIncidentService(store db.IncidentStore, configs db.RemediationConfigStore) *IncidentService {
	return &IncidentService{
		store:   store,
		configs: configs,
		logger:  logging.Component("incidents"),
	}
}

func (s *IncidentService) GetIncident(ctx context.Context, id string) (*model.Incident, error) {
	return s.store.GetIncident(ctx, id)
}

func (s *IncidentService) ListIncidents(ctx context.Context, organizationID string, limit int) ([]model.Incident, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, apperrors.NewValidationError(-1, map[string]string{"organization_id": "failed required"})
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.ListIncidents(ctx, organizationID, limit)
}

func (s *IncidentService) Resolve(ctx context.Context, id string) (*model.Incident, error) {
	return s.operatorTransition(ctx, id, model.StatusResolved)
}

func (s *IncidentService) Ignore(ctx context.Context, id string) (*model.Incident, error) {
	return s.operatorTransition(ctx, id, model.StatusIgnored)
}

func (s *IncidentService) MarkDuplicate(ctx context.Context, id string) (*model.Incident, error) {
	return s.operatorTransition(ctx, id, model.StatusDuplicate)
}

func (s *IncidentService) operatorTransition(ctx context.Context, id string, to model.Status) (*model.Incident, error) {
	return s.transition(ctx, id, operatorSourceStatuses, to, nil)
}

// CompleteRemediation - 수정 백엔드의 결과 보고 반영 (carla_fixing 에서만)
func (s *IncidentService) CompleteRemediation(ctx context.Context, id string, req model.CompleteRemediationRequest) (*model.Incident, error) {
	switch req.Status {
	case model.StatusPRCreated, model.StatusIssueCreated, model.StatusFixFailed:
	default:
		return nil, apperrors.NewValidationError(-1, map[string]string{"status": "failed oneof=pr_created issue_created fix_failed"})
	}

	// attempted_at 은 저장소가 기존 값을 유지
	outcome := &model.RemediationOutcome{
		CanFix:        req.CanFix,
		Confidence:    req.Confidence,
		PRURL:         req.PRURL,
		IssueURL:      req.IssueURL,
		FailureReason: req.FailureReason,
	}
	return s.transition(ctx, id, []model.Status{model.StatusCarlaFixing}, req.Status, outcome)
}

// transition - 조건부 상태 전이, 실패 시 현재 상태를 담은 ErrConflict
func (s *IncidentService) transition(
	ctx context.Context,
	id string,
	from []model.Status,
	to model.Status,
	outcome *model.RemediationOutcome,
) (*model.Incident, error) {
	current, err := s.store.GetIncident(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.TransitionStatus(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		latest, err := s.store.GetIncident(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: incident %s is %s, cannot move to %s", apperrors.ErrConflict, id, latest.Status, to)
	}

	if outcome != nil {
		if err := s.store.RecordRemediation(ctx, id, *outcome); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("incident_id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("incident status changed")
	return s.store.GetIncident(ctx, id)
}

// DeleteByFingerprint - 테넌트 내 같은 fingerprint 레코드 일괄 삭제
func (s *IncidentService) DeleteByFingerprint(ctx context.Context, organizationID, fingerprint string) (int64, error) {
	deleted, err := s.store.DeleteByFingerprint(ctx, organizationID, fingerprint)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, apperrors.ErrNotFound
	}
	s.logger.Info().
		Str("organization_id", organizationID).
		Str("fingerprint", fingerprint).
		Int64("deleted", deleted).
		Msg("incidents deleted by fingerprint")
	return deleted, nil
}

func (s *IncidentService) GetRemediationConfig(ctx context.Context, organizationID string) (*model.RemediationConfig, error) {
	return s.configs.GetRemediationConfig(ctx, organizationID)
}

func (s *IncidentService) PutRemediationConfig(ctx context.Context, organizationID string, req model.PutRemediationConfigRequest) (*model.RemediationConfig, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, apperrors.NewValidationError(-1, map[string]string{"organization_id": "failed required"})
	}
	return s.configs.PutRemediationConfig(ctx, model.RemediationConfig{
		OrganizationID:       organizationID,
		AutoFixEnabled:       req.AutoFixEnabled,
		GitHubInstallationID: req.GitHubInstallationID,
		Repository:           req.Repository,
	})
}
